package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/auth"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/services"
)

type ResumeHandler struct {
	Resumes *services.ResumeService
}

func NewResumeHandler(r *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{Resumes: r}
}

func (h *ResumeHandler) Create(c *gin.Context) {
	var req dtos.ResumeCreationRequest
	// an empty body is allowed; every field has a default
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	var userID *uint
	if u := auth.CurrentUser(c); u != nil {
		userID = &u.ID
	}
	res, err := h.Resumes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	r, err := h.Resumes.GetByUniqueID(c.Request.Context(), c.Param("uniqueId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ResumeHandler) Update(c *gin.Context) {
	var req dtos.ResumeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.Resumes.Update(c.Request.Context(), c.Param("uniqueId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	if err := h.Resumes.Delete(c.Request.Context(), c.Param("uniqueId"), auth.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Mine is GET /me/resumes
func (h *ResumeHandler) Mine(c *gin.Context) {
	resumes, err := h.Resumes.ListByUser(c.Request.Context(), auth.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumes)
}
