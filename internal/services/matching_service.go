package services

import (
	"context"
	"strings"
	"time"

	"github.com/justsurfingit/medstaff/internal/models"
	"gorm.io/gorm"
)

const DefaultMatchLimit = 5

type MatcherService struct {
	DB    *gorm.DB
	Limit int
	Now   func() time.Time
}

func NewMatcherService(db *gorm.DB, limit int) *MatcherService {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	return &MatcherService{DB: db, Limit: limit, Now: time.Now}
}

// Approach-
// SQL narrows to active, unexpired jobs in the city, newest first.
// Then exact city + case-sensitive title substring are checked in Go, so the
// result does not depend on the collation of whichever database is behind gorm.

// FindMatchingJobs returns up to s.Limit active jobs in city whose title
// contains jobTitle.
func (s *MatcherService) FindMatchingJobs(ctx context.Context, city, jobTitle string) ([]models.Job, error) {
	if s.DB == nil {
		return nil, nil
	}
	return s.findWith(s.DB.WithContext(ctx), city, jobTitle)
}

// findWith runs the match on db, which may be a transaction.
func (s *MatcherService) findWith(db *gorm.DB, city, jobTitle string) ([]models.Job, error) {
	now := s.Now().UTC()

	var candidates []models.Job
	err := db.
		Where("city = ? AND is_active = ? AND expires_at >= ?", city, true, now).
		Order("published_at DESC").
		Order("id DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	matches := make([]models.Job, 0, s.Limit)
	for _, job := range candidates {
		// --- RULE 1: City must be byte-identical ---
		if job.City != city {
			continue
		}
		// --- RULE 2: Title contains the requested title ---
		// "طبيب عام" contains "طبيب"; "ممرض" does not.
		if !strings.Contains(job.Title, jobTitle) {
			continue
		}
		matches = append(matches, job)
		if len(matches) == s.Limit {
			break
		}
	}
	return matches, nil
}
