package database_test

import (
	"testing"
	"time"

	"github.com/justsurfingit/medstaff/internal/database"
	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/justsurfingit/medstaff/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "dsn")
	assert.Error(t, err)
}

func TestSeed_OnlyOnce(t *testing.T) {
	db := testutil.NewDB(t)

	token, err := database.Seed(db, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	var admin models.User
	require.NoError(t, db.Where("api_token = ?", token).First(&admin).Error)
	assert.True(t, admin.IsAdmin())

	var facilities, jobs int64
	db.Model(&models.Facility{}).Count(&facilities)
	db.Model(&models.Job{}).Where("is_active = ?", true).Count(&jobs)
	assert.Equal(t, int64(6), facilities)
	assert.Equal(t, int64(30), jobs)

	again, err := database.Seed(db, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, again)
}
