package services

import (
	"fmt"
	"strconv"

	"github.com/justsurfingit/medstaff/internal/models"
)

// FacilityFilter narrows a facility listing. Zero fields do not filter; set
// fields are AND-ed.
type FacilityFilter struct {
	Type   *models.FacilityType
	City   string
	Status *models.VerificationStatus
	// Search is a substring of the Arabic or English name.
	Search string
}

type JobFilter struct {
	City       string
	FacilityID uint
	Status     *models.VerificationStatus
	ActiveOnly bool
}

// NewFacilityFilter parses raw query values; unknown enum values are
// rejected rather than silently ignored.
func NewFacilityFilter(typ, city, status, search string) (FacilityFilter, error) {
	f := FacilityFilter{City: city, Search: search}
	if typ != "" {
		t, err := models.ParseFacilityType(typ)
		if err != nil {
			return f, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		f.Type = &t
	}
	if status != "" {
		st, err := models.ParseVerificationStatus(status)
		if err != nil {
			return f, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		f.Status = &st
	}
	return f, nil
}

func NewJobFilter(city, facilityID, status, activeOnly string) (JobFilter, error) {
	f := JobFilter{City: city}
	if facilityID != "" {
		id, err := strconv.ParseUint(facilityID, 10, 64)
		if err != nil || id == 0 {
			return f, fmt.Errorf("%w: invalid facility id %q", ErrValidation, facilityID)
		}
		f.FacilityID = uint(id)
	}
	if status != "" {
		st, err := models.ParseVerificationStatus(status)
		if err != nil {
			return f, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		f.Status = &st
	}
	if activeOnly != "" {
		b, err := strconv.ParseBool(activeOnly)
		if err != nil {
			return f, fmt.Errorf("%w: invalid activeOnly %q", ErrValidation, activeOnly)
		}
		f.ActiveOnly = b
	}
	return f, nil
}
