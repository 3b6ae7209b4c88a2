package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{StatusSubmitted, StatusProcessing, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusSubmitted, StatusDelivered, true},
		{StatusProcessing, StatusProcessing, true},
		{StatusDelivered, StatusSubmitted, false},
		{StatusDelivered, StatusProcessing, false},
		{StatusProcessing, StatusSubmitted, false},
		{StatusProcessing, ApplicationStatus("archived"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseEnums(t *testing.T) {
	_, err := ParseFacilityType("clinic")
	assert.NoError(t, err)
	_, err = ParseFacilityType("pharmacy")
	assert.Error(t, err)

	_, err = ParseVerificationStatus("pending")
	assert.NoError(t, err)
	_, err = ParseVerificationStatus("Verified")
	assert.Error(t, err, "status values are case-sensitive")

	_, err = ParseJobType("contract")
	assert.NoError(t, err)
	_, err = ParseLanguage("fr")
	assert.Error(t, err)
}

func TestJob_IsListable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, (&Job{IsActive: true, ExpiresAt: &future}).IsListable(now))
	assert.True(t, (&Job{IsActive: true, ExpiresAt: &now}).IsListable(now))
	assert.False(t, (&Job{IsActive: true, ExpiresAt: &past}).IsListable(now))
	assert.False(t, (&Job{IsActive: false, ExpiresAt: &future}).IsListable(now))
	assert.False(t, (&Job{IsActive: true}).IsListable(now))
}
