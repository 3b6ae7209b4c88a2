package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"gorm.io/gorm"
)

// NoteService manages admin annotations on facilities.
type NoteService struct {
	DB *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{DB: db}
}

func (s *NoteService) List(ctx context.Context, facilityID uint) ([]models.FacilityNote, error) {
	notes := []models.FacilityNote{}
	if s.DB == nil {
		return notes, nil
	}
	err := s.DB.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notes).Error
	return notes, err
}

// Create attaches a note authored by authorID to the facility.
func (s *NoteService) Create(ctx context.Context, facilityID, authorID uint, req *dtos.NoteCreationRequest) (*models.FacilityNote, error) {
	if s.DB == nil {
		return nil, ErrDatabaseUnavailable
	}

	note := &models.FacilityNote{
		FacilityID: facilityID,
		Note:       req.Note,
		Images:     req.Images,
		CreatedBy:  authorID,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Facility{}).Where("id = ?", facilityID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("facility %d: %w", facilityID, ErrNotFound)
		}
		return tx.Create(note).Error
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id uint) error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	res := s.DB.WithContext(ctx).Delete(&models.FacilityNote{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return nil
}
