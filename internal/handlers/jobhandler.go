package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
}

func NewJobHandler(j *services.JobService) *JobHandler {
	return &JobHandler{JobService: j}
}

// List is GET /jobs?city&facilityId&verificationStatus&activeOnly
func (h *JobHandler) List(c *gin.Context) {
	filter, err := services.NewJobFilter(
		c.Query("city"), c.Query("facilityId"), c.Query("verificationStatus"), c.Query("activeOnly"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	jobs, err := h.JobService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	job, err := h.JobService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ByFacility is GET /facilities/:id/jobs
func (h *JobHandler) ByFacility(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	jobs, err := h.JobService.ByFacility(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// TitlesByCity is GET /cities/:city/job-titles
func (h *JobHandler) TitlesByCity(c *gin.Context) {
	titles, err := h.JobService.TitlesByCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.JobService.DeleteJob(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Sweep is POST /admin/jobs/sweep
func (h *JobHandler) Sweep(c *gin.Context) {
	n, err := h.JobService.SweepExpiredJobs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": n})
}
