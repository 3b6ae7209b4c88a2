package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"gorm.io/gorm"
)

type FacilityService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewFacilityService(db *gorm.DB) *FacilityService {
	return &FacilityService{DB: db, Now: time.Now}
}

func (s *FacilityService) List(ctx context.Context, f FacilityFilter) ([]models.Facility, error) {
	facilities := []models.Facility{}
	if s.DB == nil {
		return facilities, nil
	}

	q := s.DB.WithContext(ctx).Model(&models.Facility{})
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.Status != nil {
		q = q.Where("verification_status = ?", *f.Status)
	}
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(f.Search) + "%"
		q = q.Where("(name LIKE ? ESCAPE '!' OR name_en LIKE ? ESCAPE '!')", like, like)
	}

	err := q.Order("created_at DESC").Order("id DESC").Find(&facilities).Error
	return facilities, err
}

func (s *FacilityService) GetByID(ctx context.Context, id uint) (*models.Facility, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("facility %d: %w", id, ErrNotFound)
	}
	var f models.Facility
	err := s.DB.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("facility %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Cities lists the distinct cities of active facilities.
func (s *FacilityService) Cities(ctx context.Context) ([]string, error) {
	cities := []string{}
	if s.DB == nil {
		return cities, nil
	}
	err := s.DB.WithContext(ctx).Model(&models.Facility{}).
		Where("is_active = ?", true).
		Distinct("city").
		Order("city").
		Pluck("city", &cities).Error
	return cities, err
}

// CitiesWithJobs lists the distinct cities that have at least one active,
// unexpired job.
func (s *FacilityService) CitiesWithJobs(ctx context.Context) ([]string, error) {
	cities := []string{}
	if s.DB == nil {
		return cities, nil
	}
	err := s.DB.WithContext(ctx).Model(&models.Job{}).
		Where("is_active = ? AND expires_at >= ?", true, s.Now().UTC()).
		Distinct("city").
		Order("city").
		Pluck("city", &cities).Error
	return cities, err
}

func (s *FacilityService) Create(ctx context.Context, req *dtos.FacilityCreationRequest) (*models.Facility, error) {
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	typ, err := models.ParseFacilityType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	status := models.Unverified
	if req.VerificationStatus != "" {
		if status, err = models.ParseVerificationStatus(req.VerificationStatus); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	f := &models.Facility{
		Name:               req.Name,
		NameEn:             req.NameEn,
		Type:               typ,
		City:               req.City,
		Address:            req.Address,
		GoogleMapsURL:      req.GoogleMapsURL,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Phone:              req.Phone,
		WhatsApp:           req.WhatsApp,
		Email:              req.Email,
		Website:            req.Website,
		ImageURL:           req.ImageURL,
		Snapchat:           req.Snapchat,
		Instagram:          req.Instagram,
		Facebook:           req.Facebook,
		Twitter:            req.Twitter,
		TikTok:             req.TikTok,
		VerificationStatus: status,
		IsActive:           req.IsActive == nil || *req.IsActive,
	}
	if status == models.Verified {
		now := s.Now().UTC()
		f.VerifiedAt = &now
	}

	if err := s.DB.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	log.Printf("[Facility %d] ✅ Created %q in %s", f.ID, f.Name, f.City)
	return f, nil
}

func (s *FacilityService) Update(ctx context.Context, id uint, req *dtos.FacilityUpdateRequest) (*models.Facility, error) {
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	changes := map[string]interface{}{}
	setString(changes, "name", req.Name)
	setString(changes, "city", req.City)
	setString(changes, "name_en", req.NameEn)
	setString(changes, "address", req.Address)
	setString(changes, "google_maps_url", req.GoogleMapsURL)
	setString(changes, "latitude", req.Latitude)
	setString(changes, "longitude", req.Longitude)
	setString(changes, "phone", req.Phone)
	setString(changes, "whatsapp", req.WhatsApp)
	setString(changes, "email", req.Email)
	setString(changes, "website", req.Website)
	setString(changes, "image_url", req.ImageURL)
	setString(changes, "snapchat", req.Snapchat)
	setString(changes, "instagram", req.Instagram)
	setString(changes, "facebook", req.Facebook)
	setString(changes, "twitter", req.Twitter)
	setString(changes, "tiktok", req.TikTok)
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}
	if req.Type != nil {
		typ, err := models.ParseFacilityType(*req.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		changes["type"] = typ
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

	var f models.Facility
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&f, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("facility %d: %w", id, ErrNotFound)
			}
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&f).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&f, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete removes the facility row only; its jobs and notes are left behind.
func (s *FacilityService) Delete(ctx context.Context, id uint) error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	res := s.DB.WithContext(ctx).Delete(&models.Facility{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("facility %d: %w", id, ErrNotFound)
	}
	log.Printf("[Facility %d] 🗑️ Deleted", id)
	return nil
}

// likeEscaper makes a search term literal inside LIKE ... ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func setString(changes map[string]interface{}, column string, v *string) {
	if v != nil {
		changes[column] = *v
	}
}
