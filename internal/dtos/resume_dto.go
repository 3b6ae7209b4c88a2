package dtos

import "github.com/justsurfingit/medstaff/internal/models"

type ResumeCreationRequest struct {
	Language   string `json:"language" binding:"omitempty,oneof=ar en"` // Defaults to "ar"
	TemplateID string `json:"template_id" binding:"omitempty,max=50"`   // Defaults to "classic"
}

type ResumeCreated struct {
	ID       uint   `json:"id"`
	UniqueID string `json:"unique_id"`
}

// ResumeUpdateRequest is a partial update; absent fields are left untouched
// and present list sections replace the stored section wholesale.
type ResumeUpdateRequest struct {
	Language   *string `json:"language" binding:"omitempty,oneof=ar en"`
	TemplateID *string `json:"template_id" binding:"omitempty,max=50"`

	HeadingFont     *string `json:"heading_font"`
	HeadingSize     *int    `json:"heading_size" binding:"omitempty,gt=0"`
	HeadingColor    *string `json:"heading_color"`
	SubheadingFont  *string `json:"subheading_font"`
	SubheadingSize  *int    `json:"subheading_size" binding:"omitempty,gt=0"`
	SubheadingColor *string `json:"subheading_color"`
	BodyFont        *string `json:"body_font"`
	BodySize        *int    `json:"body_size" binding:"omitempty,gt=0"`
	BodyColor       *string `json:"body_color"`

	FullName *string `json:"full_name"`
	PhotoURL *string `json:"photo_url"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`

	MumaresNumber  *string `json:"mumares_number"`
	DataflowNumber *string `json:"dataflow_number"`
	IqamaNumber    *string `json:"iqama_number"`
	EntryDate      *string `json:"entry_date"`

	Summary    *string                `json:"summary"`
	Education  []models.Education     `json:"education" binding:"omitempty,dive"`
	Experience []models.Experience    `json:"experience" binding:"omitempty,dive"`
	Courses    []models.Course        `json:"courses" binding:"omitempty,dive"`
	Skills     []string               `json:"skills"`
	Languages  []models.LanguageSkill `json:"languages" binding:"omitempty,dive"`
}
