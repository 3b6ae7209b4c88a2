package models

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type FacilityType string

const (
	FacilityHospital FacilityType = "hospital"
	FacilityComplex  FacilityType = "complex"
	FacilityCenter   FacilityType = "center"
	FacilityClinic   FacilityType = "clinic"
	FacilityOther    FacilityType = "other"
)

func ParseFacilityType(s string) (FacilityType, error) {
	switch t := FacilityType(s); t {
	case FacilityHospital, FacilityComplex, FacilityCenter, FacilityClinic, FacilityOther:
		return t, nil
	}
	return "", fmt.Errorf("unknown facility type %q", s)
}

// VerificationStatus gates public visibility of facilities and jobs.
type VerificationStatus string

const (
	Verified   VerificationStatus = "verified"
	Pending    VerificationStatus = "pending"
	Unverified VerificationStatus = "unverified"
)

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch v := VerificationStatus(s); v {
	case Verified, Pending, Unverified:
		return v, nil
	}
	return "", fmt.Errorf("unknown verification status %q", s)
}

type JobType string

const (
	FullTime  JobType = "full_time"
	PartTime  JobType = "part_time"
	Contract  JobType = "contract"
	Temporary JobType = "temporary"
)

func ParseJobType(s string) (JobType, error) {
	switch t := JobType(s); t {
	case FullTime, PartTime, Contract, Temporary:
		return t, nil
	}
	return "", fmt.Errorf("unknown job type %q", s)
}

type ApplicationStatus string

const (
	StatusSubmitted  ApplicationStatus = "submitted"
	StatusProcessing ApplicationStatus = "processing"
	StatusDelivered  ApplicationStatus = "delivered"
)

// rank orders statuses along the lifecycle; unknown statuses rank -1.
func (s ApplicationStatus) rank() int {
	switch s {
	case StatusSubmitted:
		return 0
	case StatusProcessing:
		return 1
	case StatusDelivered:
		return 2
	}
	return -1
}

func (s ApplicationStatus) Valid() bool { return s.rank() >= 0 }

// CanTransitionTo allows forward moves (including skips) and same-status
// no-ops. Regressions such as delivered -> submitted are refused.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

func ParseLanguage(s string) (Language, error) {
	switch l := Language(s); l {
	case Arabic, English:
		return l, nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}
