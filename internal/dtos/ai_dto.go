package dtos

type SummarySuggestionRequest struct {
	JobTitle   string `json:"job_title" binding:"required"`
	Experience string `json:"experience"`
	Language   string `json:"language" binding:"required,oneof=ar en"`
}

type ExperienceSuggestionRequest struct {
	JobTitle string `json:"job_title" binding:"required"`
	Company  string `json:"company"`
	Language string `json:"language" binding:"required,oneof=ar en"`
}

type SkillsSuggestionRequest struct {
	JobTitle string `json:"job_title" binding:"required"`
	Language string `json:"language" binding:"required,oneof=ar en"`
}

type DiscoverRequest struct {
	// Empty means every configured city.
	City string `json:"city"`
}
