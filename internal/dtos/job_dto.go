package dtos

type JobCreationRequest struct {
	FacilityID uint   `json:"facility_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	City       string `json:"city" binding:"required"`

	// Optional Fields
	TitleEn            *string `json:"title_en"`
	Description        *string `json:"description"`
	Requirements       *string `json:"requirements"`
	SalaryMin          *int    `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax          *int    `json:"salary_max" binding:"omitempty,gte=0"`
	JobType            string  `json:"job_type" binding:"omitempty,oneof=full_time part_time contract temporary"` // Defaults to "full_time" if empty
	ExperienceYears    *int    `json:"experience_years" binding:"omitempty,gte=0"`
	SourceURL          *string `json:"source_url"`
	VerificationStatus string  `json:"verification_status" binding:"omitempty,oneof=verified pending unverified"` // Defaults to "unverified"
}

// JobUpdateRequest changes only the fields that are present.
type JobUpdateRequest struct {
	FacilityID         *uint   `json:"facility_id" binding:"omitempty,gt=0"`
	Title              *string `json:"title" binding:"omitempty,min=1"`
	TitleEn            *string `json:"title_en"`
	Description        *string `json:"description"`
	Requirements       *string `json:"requirements"`
	City               *string `json:"city" binding:"omitempty,min=1"`
	SalaryMin          *int    `json:"salary_min" binding:"omitempty,gte=0"`
	SalaryMax          *int    `json:"salary_max" binding:"omitempty,gte=0"`
	JobType            *string `json:"job_type" binding:"omitempty,oneof=full_time part_time contract temporary"`
	ExperienceYears    *int    `json:"experience_years" binding:"omitempty,gte=0"`
	SourceURL          *string `json:"source_url"`
	VerificationStatus *string `json:"verification_status" binding:"omitempty,oneof=verified pending unverified"`
	IsActive           *bool   `json:"is_active"`
}
