package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/services"
)

type AdminHandler struct {
	Dashboard  *services.DashboardService
	Enrichment *services.EnrichmentService
	// Cities searched by discovery when the request names none.
	Cities []string
}

func NewAdminHandler(d *services.DashboardService, e *services.EnrichmentService, cities []string) *AdminHandler {
	return &AdminHandler{Dashboard: d, Enrichment: e, Cities: cities}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Discover(c *gin.Context) {
	var req dtos.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	cities := h.Cities
	if req.City != "" {
		cities = []string{req.City}
	}

	res, err := h.Enrichment.Discover(c.Request.Context(), cities)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) Verify(c *gin.Context) {
	res, err := h.Enrichment.Verify(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) SearchJobs(c *gin.Context) {
	res, err := h.Enrichment.SearchJobs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
