package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/justsurfingit/medstaff/internal/models"
	"gorm.io/gorm"
)

type seedFacility struct {
	name, nameEn string
	kind         models.FacilityType
	city         string
}

var seedFacilities = []seedFacility{
	{"مستشفى الملك فهد", "King Fahd Hospital", models.FacilityHospital, "الرياض"},
	{"مستشفى الملك فيصل التخصصي", "King Faisal Specialist Hospital", models.FacilityHospital, "الرياض"},
	{"مجمع الدكتور سليمان الحبيب الطبي", "Dr. Sulaiman Al Habib Medical Complex", models.FacilityComplex, "الرياض"},
	{"مستشفى الملك عبدالعزيز", "King Abdulaziz Hospital", models.FacilityHospital, "جدة"},
	{"مستشفى الدمام المركزي", "Dammam Central Hospital", models.FacilityHospital, "الدمام"},
	{"مركز الرعاية الأولية بالعليا", "Olaya Primary Care Center", models.FacilityCenter, "الرياض"},
}

var seedTitles = []string{"طبيب عام", "طبيب أسنان", "ممرض", "صيدلي", "فني مختبر"}

// Seed inserts a demo admin, verified facilities, and active jobs when the
// facility table is empty. It returns the admin token it created, or "" if
// nothing was seeded.
func Seed(db *gorm.DB, ttl time.Duration) (string, error) {
	var count int64
	if err := db.Model(&models.Facility{}).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count facilities: %w", err)
	}
	if count > 0 {
		return "", nil
	}

	token, err := NewToken()
	if err != nil {
		return "", err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		admin := models.User{Email: "admin@localhost", Name: "Admin", Role: models.RoleAdmin, APIToken: token}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		expires := now.Add(ttl)
		for _, sf := range seedFacilities {
			nameEn := sf.nameEn
			f := models.Facility{
				Name:               sf.name,
				NameEn:             &nameEn,
				Type:               sf.kind,
				City:               sf.city,
				VerificationStatus: models.Verified,
				VerifiedAt:         &now,
				IsActive:           true,
			}
			if err := tx.Create(&f).Error; err != nil {
				return err
			}
			for _, title := range seedTitles {
				j := models.Job{
					FacilityID:         f.ID,
					Title:              title,
					City:               f.City,
					JobType:            models.FullTime,
					VerificationStatus: models.Verified,
					IsActive:           true,
					PublishedAt:        now,
					ExpiresAt:          &expires,
				}
				if err := tx.Create(&j).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to seed: %w", err)
	}

	log.Printf("✅ Seeded %d facilities", len(seedFacilities))
	return token, nil
}

// NewToken returns a random 32-byte hex API token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
