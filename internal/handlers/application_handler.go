package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/auth"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/justsurfingit/medstaff/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(a *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: a}
}

// Create is POST /applications. Anonymous callers may apply; a signed-in
// caller is linked to the application.
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if u := auth.CurrentUser(c); u != nil {
		req.UserID = &u.ID
	}

	res, err := h.Applications.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetByNumber is GET /applications/:number
func (h *ApplicationHandler) GetByNumber(c *gin.Context) {
	app, err := h.Applications.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.Applications.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateStatus is PATCH /admin/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.Applications.UpdateStatus(c.Request.Context(), id, models.ApplicationStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
