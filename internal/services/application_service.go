package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/justsurfingit/medstaff/internal/notify"
	"gorm.io/gorm"
)

const maxNumberAttempts = 5

// facilityPlaceholder is shown where a match's facility name is unknown.
const facilityPlaceholder = "غير محدد"

type ApplicationService struct {
	DB             *gorm.DB
	Matcher        *MatcherService
	Notifier       notify.Notifier
	WhatsAppNumber string
	Now            func() time.Time
	// NewNumber generates application numbers; tests replace it.
	NewNumber func(time.Time) (string, error)
}

func NewApplicationService(db *gorm.DB, matcher *MatcherService, notifier notify.Notifier, whatsappNumber string) *ApplicationService {
	if notifier == nil {
		notifier = notify.Log{}
	}
	return &ApplicationService{
		DB:             db,
		Matcher:        matcher,
		Notifier:       notifier,
		WhatsAppNumber: whatsappNumber,
		Now:            time.Now,
		NewNumber:      NewApplicationNumber,
	}
}

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewApplicationNumber returns APP-<base36 ms timestamp>-<4 random chars>,
// all uppercase.
func NewApplicationNumber(at time.Time) (string, error) {
	suffix := make([]byte, 4)
	max := big.NewInt(int64(len(numberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}
	ts := strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
	return "APP-" + ts + "-" + string(suffix), nil
}

func validateApplication(req *dtos.ApplicationRequest) error {
	var missing []string
	if strings.TrimSpace(req.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		missing = append(missing, "job_title")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, req.Email)
	}
	return nil
}

// Create runs intake: validate, then insert + match + advance to processing
// in one transaction, then notify the owner best-effort.
func (s *ApplicationService) Create(ctx context.Context, req *dtos.ApplicationRequest) (*dtos.ApplicationCreated, error) {
	if err := validateApplication(req); err != nil {
		return nil, err
	}
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	now := s.Now().UTC()
	app := &models.JobApplication{
		UserID:   req.UserID,
		City:     req.City,
		JobTitle: req.JobTitle,
		Phone:    req.Phone,
		Email:    req.Email,
		Status:   models.StatusSubmitted,
	}

	var matches []models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertWithUniqueNumber(tx, app, now); err != nil {
			return err
		}

		var err error
		matches, err = s.Matcher.findWith(tx, req.City, req.JobTitle)
		if err != nil {
			return fmt.Errorf("failed to match jobs: %w", err)
		}

		ids := make([]uint, len(matches))
		for i, j := range matches {
			ids[i] = j.ID
		}
		app.Status = models.StatusProcessing
		app.MatchedJobs = ids

		return tx.Model(app).Updates(map[string]interface{}{
			"status":       app.Status,
			"matched_jobs": app.MatchedJobs,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	logPrefix := fmt.Sprintf("[Application %s]", app.ApplicationNumber)
	log.Printf("%s ✅ Created, %d matching jobs", logPrefix, len(matches))

	n := s.buildNotification(ctx, app, matches, now)
	if err := s.Notifier.NotifyOwner(ctx, n); err != nil {
		// the application is already committed; notification is best-effort
		log.Printf("%s ⚠️ Owner notification failed: %v", logPrefix, err)
	}

	return &dtos.ApplicationCreated{
		ApplicationNumber: app.ApplicationNumber,
		MatchedJobsCount:  len(matches),
		WhatsAppLink:      notify.WhatsAppLink(s.WhatsAppNumber, n),
	}, nil
}

// insertWithUniqueNumber retries number generation on collision, checking
// the store first and treating a unique-index violation as a collision too.
func (s *ApplicationService) insertWithUniqueNumber(tx *gorm.DB, app *models.JobApplication, now time.Time) error {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.NewNumber(now)
		if err != nil {
			return fmt.Errorf("failed to generate application number: %w", err)
		}

		var count int64
		if err := tx.Model(&models.JobApplication{}).Where("application_number = ?", number).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("⚠️ Application number %s already taken (attempt %d)", number, attempt)
			continue
		}

		app.ID = 0
		app.ApplicationNumber = number
		// savepoint, so a failed insert does not abort the outer transaction
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(app).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("⚠️ Application number %s collided on insert (attempt %d)", number, attempt)
			continue
		}
		return err
	}
	return fmt.Errorf("could not allocate a unique application number after %d attempts", maxNumberAttempts)
}

func (s *ApplicationService) buildNotification(ctx context.Context, app *models.JobApplication, matches []models.Job, at time.Time) notify.Notification {
	facilityNames := s.facilityNames(ctx, matches)

	n := notify.Notification{
		ApplicationNumber: app.ApplicationNumber,
		FullName:          notify.NameFromEmail(app.Email),
		City:              app.City,
		JobTitle:          app.JobTitle,
		Phone:             app.Phone,
		Email:             app.Email,
		At:                at,
	}
	for _, j := range matches {
		name, ok := facilityNames[j.FacilityID]
		if !ok {
			name = facilityPlaceholder
		}
		n.Matches = append(n.Matches, notify.Match{Title: j.Title, Facility: name, City: j.City})
	}
	return n
}

func (s *ApplicationService) facilityNames(ctx context.Context, jobs []models.Job) map[uint]string {
	names := make(map[uint]string)
	if len(jobs) == 0 {
		return names
	}
	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.FacilityID)
	}

	var facilities []models.Facility
	if err := s.DB.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&facilities).Error; err != nil {
		log.Printf("⚠️ Facility names for notification unavailable: %v", err)
		return names
	}
	for _, f := range facilities {
		names[f.ID] = f.Name
	}
	return names
}

// GetByNumber looks an application up by its exact, case-sensitive number.
func (s *ApplicationService) GetByNumber(ctx context.Context, number string) (*models.JobApplication, error) {
	if s.DB == nil {
		return nil, ErrNotFound
	}

	var app models.JobApplication
	err := s.DB.WithContext(ctx).Where("application_number = ?", number).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("application %s: %w", number, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	// SQLite and MySQL may compare case-insensitively; the number is exact.
	if app.ApplicationNumber != number {
		return nil, fmt.Errorf("application %s: %w", number, ErrNotFound)
	}
	return &app, nil
}

func (s *ApplicationService) List(ctx context.Context) ([]models.JobApplication, error) {
	apps := []models.JobApplication{}
	if s.DB == nil {
		return apps, nil
	}
	err := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&apps).Error
	return apps, err
}

// UpdateStatus moves an application along submitted -> processing ->
// delivered. Setting the current status again is a no-op; moving backwards
// returns ErrInvalidTransition.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) (*models.JobApplication, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	var app models.JobApplication
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("application %d: %w", id, ErrNotFound)
			}
			return err
		}
		if !app.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, status)
		}
		if app.Status == status {
			return nil
		}

		// conditional on the old status so a concurrent change is not overwritten
		res := tx.Model(&models.JobApplication{}).
			Where("id = ? AND status = ?", app.ID, app.Status).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: application %d changed concurrently", ErrInvalidTransition, id)
		}
		app.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Application %s] ⚡ Status -> %s", app.ApplicationNumber, app.Status)
	return &app, nil
}
