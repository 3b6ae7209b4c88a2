// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justsurfingit/medstaff/internal/database"
	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	// named shared-cache memory database so every pooled connection sees the
	// same data, and nothing leaks between tests
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func Ptr[T any](v T) *T { return &v }

func CreateFacility(t testing.TB, db *gorm.DB, name, city string, status models.VerificationStatus) *models.Facility {
	t.Helper()
	f := &models.Facility{
		Name:               name,
		Type:               models.FacilityHospital,
		City:               city,
		VerificationStatus: status,
		IsActive:           true,
	}
	require.NoError(t, db.Create(f).Error)
	return f
}

// CreateJob inserts a job published at published and expiring at expires.
func CreateJob(t testing.TB, db *gorm.DB, facilityID uint, title, city string, active bool, published, expires time.Time) *models.Job {
	t.Helper()
	j := &models.Job{
		FacilityID:         facilityID,
		Title:              title,
		City:               city,
		JobType:            models.FullTime,
		VerificationStatus: models.Verified,
		IsActive:           active,
		PublishedAt:        published,
		ExpiresAt:          &expires,
	}
	require.NoError(t, db.Create(j).Error)
	return j
}

func CreateUser(t testing.TB, db *gorm.DB, token string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: token + "@example.com", Role: role, APIToken: token}
	require.NoError(t, db.Create(u).Error)
	return u
}
