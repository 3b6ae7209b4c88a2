package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"gorm.io/gorm"
)

const DefaultJobTTL = 30 * 24 * time.Hour

type JobService struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time
}

func NewJobService(db *gorm.DB, ttl time.Duration) *JobService {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &JobService{
		DB:  db,
		TTL: ttl,
		Now: time.Now,
	}
}

func (s *JobService) List(ctx context.Context, f JobFilter) ([]models.Job, error) {
	jobs := []models.Job{}
	if s.DB == nil {
		return jobs, nil
	}

	q := s.DB.WithContext(ctx).Model(&models.Job{})
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.FacilityID != 0 {
		q = q.Where("facility_id = ?", f.FacilityID)
	}
	if f.Status != nil {
		q = q.Where("verification_status = ?", *f.Status)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ? AND expires_at >= ?", true, s.Now().UTC())
	}

	err := q.Order("published_at DESC").Order("id DESC").Find(&jobs).Error
	return jobs, err
}

// GetByID returns the job with its facility loaded.
func (s *JobService) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	var job models.Job
	err := s.DB.WithContext(ctx).Preload("Facility").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ByFacility lists a facility's active jobs, newest first.
func (s *JobService) ByFacility(ctx context.Context, facilityID uint) ([]models.Job, error) {
	jobs := []models.Job{}
	if s.DB == nil {
		return jobs, nil
	}
	err := s.DB.WithContext(ctx).
		Where("facility_id = ? AND is_active = ?", facilityID, true).
		Order("published_at DESC").
		Order("id DESC").
		Find(&jobs).Error
	return jobs, err
}

// TitlesByCity lists distinct titles of active, unexpired jobs in city.
func (s *JobService) TitlesByCity(ctx context.Context, city string) ([]string, error) {
	titles := []string{}
	if s.DB == nil {
		return titles, nil
	}
	err := s.DB.WithContext(ctx).Model(&models.Job{}).
		Where("city = ? AND is_active = ? AND expires_at >= ?", city, true, s.Now().UTC()).
		Distinct("title").
		Order("title").
		Pluck("title", &titles).Error
	return titles, err
}

func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	jobType := models.FullTime
	status := models.Unverified
	var err error
	if req.JobType != "" {
		if jobType, err = models.ParseJobType(req.JobType); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if req.VerificationStatus != "" {
		if status, err = models.ParseVerificationStatus(req.VerificationStatus); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, fmt.Errorf("%w: salary_min exceeds salary_max", ErrValidation)
	}

	now := s.Now().UTC()
	expires := now.Add(s.TTL)
	job := &models.Job{
		FacilityID:         req.FacilityID,
		Title:              req.Title,
		TitleEn:            req.TitleEn,
		Description:        req.Description,
		Requirements:       req.Requirements,
		City:               req.City,
		SalaryMin:          req.SalaryMin,
		SalaryMax:          req.SalaryMax,
		JobType:            jobType,
		ExperienceYears:    req.ExperienceYears,
		SourceURL:          req.SourceURL,
		VerificationStatus: status,
		IsActive:           true,
		PublishedAt:        now,
		ExpiresAt:          &expires,
	}
	if status == models.Verified {
		job.VerifiedAt = &now
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the facility must exist
		var count int64
		if err := tx.Model(&models.Facility{}).Where("id = ?", req.FacilityID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("facility %d: %w", req.FacilityID, ErrNotFound)
		}
		return tx.Create(job).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Job %d] ✅ Created %q (expires %s)", job.ID, job.Title, expires.Format(time.DateOnly))
	return job, nil
}

func (s *JobService) UpdateJob(ctx context.Context, id uint, req *dtos.JobUpdateRequest) (*models.Job, error) {
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	changes := map[string]interface{}{}
	setString(changes, "title", req.Title)
	setString(changes, "title_en", req.TitleEn)
	setString(changes, "description", req.Description)
	setString(changes, "requirements", req.Requirements)
	setString(changes, "city", req.City)
	setString(changes, "source_url", req.SourceURL)
	if req.SalaryMin != nil {
		changes["salary_min"] = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		changes["salary_max"] = *req.SalaryMax
	}
	if req.ExperienceYears != nil {
		changes["experience_years"] = *req.ExperienceYears
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}
	if req.FacilityID != nil {
		changes["facility_id"] = *req.FacilityID
	}
	if req.JobType != nil {
		jt, err := models.ParseJobType(*req.JobType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		changes["job_type"] = jt
	}
	if req.VerificationStatus != nil {
		status, err := models.ParseVerificationStatus(*req.VerificationStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		changes["verification_status"] = status
		if status == models.Verified {
			changes["verified_at"] = s.Now().UTC()
		}
	}

	var job models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("job %d: %w", id, ErrNotFound)
			}
			return err
		}
		if req.FacilityID != nil {
			var count int64
			if err := tx.Model(&models.Facility{}).Where("id = ?", *req.FacilityID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("facility %d: %w", *req.FacilityID, ErrNotFound)
			}
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&job).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&job, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id uint) error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	res := s.DB.WithContext(ctx).Delete(&models.Job{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	log.Printf("[Job %d] 🗑️ Deleted", id)
	return nil
}

// SweepExpiredJobs flags jobs past their expiry as inactive. Rows are kept
// for audit; nothing is deleted.
func (s *JobService) SweepExpiredJobs(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, ErrDatabaseUnavailable
	}
	res := s.DB.WithContext(ctx).Model(&models.Job{}).
		Where("is_active = ? AND expires_at < ?", true, s.Now().UTC()).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	log.Printf("[Sweep] 🧹 Flagged %d expired jobs inactive", res.RowsAffected)
	return res.RowsAffected, nil
}
