package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/justsurfingit/medstaff/internal/services"
)

// AIHandler exposes the résumé writing helpers. Output is free text from an
// external model and is returned as-is.
type AIHandler struct {
	LLMService *services.LLMService
}

func NewAIHandler(llm *services.LLMService) *AIHandler {
	return &AIHandler{LLMService: llm}
}

func (h *AIHandler) SuggestSummary(c *gin.Context) {
	var req dtos.SummarySuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	text, err := h.LLMService.SuggestSummary(c.Request.Context(), req.JobTitle, req.Experience, models.Language(req.Language))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": text})
}

func (h *AIHandler) SuggestExperience(c *gin.Context) {
	var req dtos.ExperienceSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	text, err := h.LLMService.SuggestExperience(c.Request.Context(), req.JobTitle, req.Company, models.Language(req.Language))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": text})
}

func (h *AIHandler) SuggestSkills(c *gin.Context) {
	var req dtos.SkillsSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	skills, err := h.LLMService.SuggestSkills(c.Request.Context(), req.JobTitle, models.Language(req.Language))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}
