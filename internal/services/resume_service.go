package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultTemplate = "classic"

type ResumeService struct {
	DB *gorm.DB
}

func NewResumeService(db *gorm.DB) *ResumeService {
	return &ResumeService{DB: db}
}

// Create starts an empty résumé. userID is nil for anonymous callers.
func (s *ResumeService) Create(ctx context.Context, userID *uint, req *dtos.ResumeCreationRequest) (*dtos.ResumeCreated, error) {
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	lang := models.Arabic
	if req.Language != "" {
		var err error
		if lang, err = models.ParseLanguage(req.Language); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	template := req.TemplateID
	if template == "" {
		template = defaultTemplate
	}

	r := &models.Resume{
		UniqueID:   uuid.NewString(),
		UserID:     userID,
		Language:   lang,
		TemplateID: template,
	}
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return &dtos.ResumeCreated{ID: r.ID, UniqueID: r.UniqueID}, nil
}

func (s *ResumeService) GetByUniqueID(ctx context.Context, uniqueID string) (*models.Resume, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("resume %s: %w", uniqueID, ErrNotFound)
	}
	var r models.Resume
	err := s.DB.WithContext(ctx).Where("unique_id = ?", uniqueID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("resume %s: %w", uniqueID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Update applies the present fields of req. Anyone holding the unique id may
// edit, the same as anyone holding the share link may view.
func (s *ResumeService) Update(ctx context.Context, uniqueID string, req *dtos.ResumeUpdateRequest) (*models.Resume, error) {
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	changes := map[string]interface{}{}
	if req.Language != nil {
		lang, err := models.ParseLanguage(*req.Language)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		changes["language"] = lang
	}
	setString(changes, "template_id", req.TemplateID)
	setString(changes, "heading_font", req.HeadingFont)
	setString(changes, "heading_color", req.HeadingColor)
	setString(changes, "subheading_font", req.SubheadingFont)
	setString(changes, "subheading_color", req.SubheadingColor)
	setString(changes, "body_font", req.BodyFont)
	setString(changes, "body_color", req.BodyColor)
	setInt(changes, "heading_size", req.HeadingSize)
	setInt(changes, "subheading_size", req.SubheadingSize)
	setInt(changes, "body_size", req.BodySize)
	setString(changes, "full_name", req.FullName)
	setString(changes, "photo_url", req.PhotoURL)
	setString(changes, "address", req.Address)
	setString(changes, "phone", req.Phone)
	setString(changes, "email", req.Email)
	setString(changes, "mumares_number", req.MumaresNumber)
	setString(changes, "dataflow_number", req.DataflowNumber)
	setString(changes, "iqama_number", req.IqamaNumber)
	setString(changes, "entry_date", req.EntryDate)
	setString(changes, "summary", req.Summary)
	if req.Education != nil {
		changes["education"] = datatypes.JSONSlice[models.Education](req.Education)
	}
	if req.Experience != nil {
		changes["experience"] = datatypes.JSONSlice[models.Experience](req.Experience)
	}
	if req.Courses != nil {
		changes["courses"] = datatypes.JSONSlice[models.Course](req.Courses)
	}
	if req.Skills != nil {
		changes["skills"] = datatypes.JSONSlice[string](req.Skills)
	}
	if req.Languages != nil {
		changes["languages"] = datatypes.JSONSlice[models.LanguageSkill](req.Languages)
	}

	var r models.Resume
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unique_id = ?", uniqueID).First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("resume %s: %w", uniqueID, ErrNotFound)
			}
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&r).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&r, r.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a résumé. Owners and admins may delete; anonymous résumés
// may be removed by any signed-in caller.
func (s *ResumeService) Delete(ctx context.Context, uniqueID string, caller *models.User) error {
	if caller == nil {
		return ErrForbidden
	}
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Resume
		if err := tx.Where("unique_id = ?", uniqueID).First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("resume %s: %w", uniqueID, ErrNotFound)
			}
			return err
		}
		if r.UserID != nil && *r.UserID != caller.ID && !caller.IsAdmin() {
			return fmt.Errorf("resume %s: %w", uniqueID, ErrForbidden)
		}
		return tx.Delete(&r).Error
	})
}

// ListByUser returns the user's résumés, most recently edited first.
func (s *ResumeService) ListByUser(ctx context.Context, userID uint) ([]models.Resume, error) {
	resumes := []models.Resume{}
	if s.DB == nil {
		return resumes, nil
	}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&resumes).Error
	return resumes, err
}

func setInt(changes map[string]interface{}, column string, v *int) {
	if v != nil {
		changes[column] = *v
	}
}
