package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email string `gorm:"size:320" json:"email"`
	Name  string `json:"name"`
	Role  Role   `gorm:"size:16;not null;default:'user'" json:"role"`
	// Bearer credential; never serialized.
	APIToken     string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	LastSignedIn *time.Time `json:"last_signed_in,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Facility is a medical institution listed in the directory.
type Facility struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string       `gorm:"size:255;not null;index" json:"name"`
	NameEn        *string      `gorm:"size:255" json:"name_en"`
	Type          FacilityType `gorm:"size:16;not null" json:"type"`
	City          string       `gorm:"size:100;not null;index" json:"city"`
	Address       *string      `gorm:"type:text" json:"address"`
	GoogleMapsURL *string      `gorm:"type:text" json:"google_maps_url"`
	Latitude      *string      `gorm:"size:20" json:"latitude"`
	Longitude     *string      `gorm:"size:20" json:"longitude"`
	Phone         *string      `gorm:"size:20" json:"phone"`
	WhatsApp      *string      `gorm:"column:whatsapp;size:20" json:"whatsapp"`
	Email         *string      `gorm:"size:320" json:"email"`
	Website       *string      `gorm:"type:text" json:"website"`
	ImageURL      *string      `gorm:"type:text" json:"image_url"`

	Snapchat  *string `gorm:"size:100" json:"snapchat"`
	Instagram *string `gorm:"size:100" json:"instagram"`
	Facebook  *string `gorm:"size:100" json:"facebook"`
	Twitter   *string `gorm:"size:100" json:"twitter"`
	TikTok    *string `gorm:"column:tiktok;size:100" json:"tiktok"`

	VerificationStatus VerificationStatus `gorm:"size:16;not null;default:'unverified';index" json:"verification_status"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	IsActive           bool               `gorm:"not null" json:"is_active"`

	// 'omitempty' prevents Facility -> Jobs -> Facility loops
	Jobs []Job `json:"jobs,omitempty"`
}

func (Facility) TableName() string { return "medical_facilities" }

type FacilityNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FacilityID uint                        `gorm:"not null;index" json:"facility_id"`
	Note       string                      `gorm:"type:text;not null" json:"note"`
	Images     datatypes.JSONSlice[string] `json:"images"`
	CreatedBy  uint                        `gorm:"not null" json:"created_by"`
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Foreign Key. Deleting a facility does not cascade here.
	FacilityID uint      `gorm:"not null;index" json:"facility_id"`
	Facility   *Facility `json:"facility,omitempty"`

	Title           string  `gorm:"size:255;not null" json:"title"`
	TitleEn         *string `gorm:"size:255" json:"title_en"`
	Description     *string `gorm:"type:text" json:"description"`
	Requirements    *string `gorm:"type:text" json:"requirements"`
	City            string  `gorm:"size:100;not null;index" json:"city"`
	SalaryMin       *int    `json:"salary_min"`
	SalaryMax       *int    `json:"salary_max"`
	JobType         JobType `gorm:"size:16;default:'full_time'" json:"job_type"`
	ExperienceYears *int    `json:"experience_years"`
	SourceURL       *string `gorm:"type:text" json:"source_url"`

	VerificationStatus VerificationStatus `gorm:"size:16;not null;default:'unverified'" json:"verification_status"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	IsActive           bool               `gorm:"not null" json:"is_active"`
	PublishedAt        time.Time          `gorm:"not null;index" json:"published_at"`
	ExpiresAt          *time.Time         `gorm:"index" json:"expires_at"`
}

// IsListable reports whether the job counts as active at now.
func (j *Job) IsListable(now time.Time) bool {
	return j.IsActive && j.ExpiresAt != nil && !j.ExpiresAt.Before(now)
}

type JobApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationNumber string                    `gorm:"size:20;uniqueIndex;not null" json:"application_number"`
	UserID            *uint                     `json:"user_id"`
	City              string                    `gorm:"size:100;not null" json:"city"`
	JobTitle          string                    `gorm:"size:255;not null" json:"job_title"`
	Phone             string                    `gorm:"size:20;not null" json:"phone"`
	Email             string                    `gorm:"size:320;not null" json:"email"`
	Status            ApplicationStatus         `gorm:"size:16;not null;default:'submitted';index" json:"status"`
	MatchedJobs       datatypes.JSONSlice[uint] `json:"matched_jobs"`
	Notes             *string                   `gorm:"type:text" json:"notes"`
}

type Resume struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UniqueID   string   `gorm:"size:36;uniqueIndex;not null" json:"unique_id"`
	UserID     *uint    `gorm:"index" json:"user_id"`
	Language   Language `gorm:"size:2;not null;default:'ar'" json:"language"`
	TemplateID string   `gorm:"size:50;default:'classic'" json:"template_id"`

	HeadingFont     *string `gorm:"size:100" json:"heading_font"`
	HeadingSize     *int    `json:"heading_size"`
	HeadingColor    *string `gorm:"size:20" json:"heading_color"`
	SubheadingFont  *string `gorm:"size:100" json:"subheading_font"`
	SubheadingSize  *int    `json:"subheading_size"`
	SubheadingColor *string `gorm:"size:20" json:"subheading_color"`
	BodyFont        *string `gorm:"size:100" json:"body_font"`
	BodySize        *int    `json:"body_size"`
	BodyColor       *string `gorm:"size:20" json:"body_color"`

	FullName *string `gorm:"size:255" json:"full_name"`
	PhotoURL *string `gorm:"type:text" json:"photo_url"`
	Address  *string `gorm:"type:text" json:"address"`
	Phone    *string `gorm:"size:20" json:"phone"`
	Email    *string `gorm:"size:320" json:"email"`

	// Saudi Commission / Dataflow / residency identifiers
	MumaresNumber  *string `gorm:"size:50" json:"mumares_number"`
	DataflowNumber *string `gorm:"size:50" json:"dataflow_number"`
	IqamaNumber    *string `gorm:"size:50" json:"iqama_number"`
	EntryDate      *string `gorm:"size:20" json:"entry_date"`

	Summary    *string                            `gorm:"type:text" json:"summary"`
	Education  datatypes.JSONSlice[Education]     `json:"education"`
	Experience datatypes.JSONSlice[Experience]    `json:"experience"`
	Courses    datatypes.JSONSlice[Course]        `json:"courses"`
	Skills     datatypes.JSONSlice[string]        `json:"skills"`
	Languages  datatypes.JSONSlice[LanguageSkill] `json:"languages"`
}

type Education struct {
	Degree      string `json:"degree" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	Year        string `json:"year" binding:"required"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

type Course struct {
	Name        string `json:"name" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	Year        string `json:"year" binding:"required"`
}

type LanguageSkill struct {
	Language string `json:"language" binding:"required"`
	Level    string `json:"level" binding:"required"`
}

// All lists every table AutoMigrate manages.
func All() []any {
	return []any{
		&User{}, &Facility{}, &FacilityNote{}, &Job{}, &JobApplication{}, &Resume{},
	}
}
