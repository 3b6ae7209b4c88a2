package dtos

type ApplicationRequest struct {
	City     string `json:"city" binding:"required"`
	JobTitle string `json:"job_title" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`

	// Set from the authenticated caller, never from the body.
	UserID *uint `json:"-"`
}

type ApplicationCreated struct {
	ApplicationNumber string `json:"application_number"`
	MatchedJobsCount  int    `json:"matched_jobs_count"`
	WhatsAppLink      string `json:"whatsapp_link"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=submitted processing delivered"`
}
