package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/auth"
	"gorm.io/gorm"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Facilities   *FacilityHandler
	Jobs         *JobHandler
	Applications *ApplicationHandler
	Resumes      *ResumeHandler
	AI           *AIHandler
	Admin        *AdminHandler
}

// RegisterRoutes mounts the API under /api/v1. db backs bearer token lookup
// and may be nil, in which case every caller is anonymous.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, h Handlers) {
	api := r.Group("/api/v1")
	api.Use(auth.Identify(db))
	{
		api.GET("/health", HealthCheck)

		api.GET("/facilities", h.Facilities.List)
		api.GET("/facilities/:id", h.Facilities.Get)
		api.GET("/facilities/:id/jobs", h.Jobs.ByFacility)

		api.GET("/cities", h.Facilities.Cities)
		api.GET("/cities/with-jobs", h.Facilities.CitiesWithJobs)
		api.GET("/cities/:city/job-titles", h.Jobs.TitlesByCity)

		api.GET("/jobs", h.Jobs.List)
		api.GET("/jobs/:id", h.Jobs.Get)

		api.POST("/applications", h.Applications.Create)
		api.GET("/applications/:number", h.Applications.GetByNumber)

		api.POST("/resumes", h.Resumes.Create)
		api.GET("/resumes/:uniqueId", h.Resumes.Get)
		api.PUT("/resumes/:uniqueId", h.Resumes.Update)
		api.DELETE("/resumes/:uniqueId", auth.RequireUser(), h.Resumes.Delete)
		api.GET("/me/resumes", auth.RequireUser(), h.Resumes.Mine)

		api.POST("/ai/summary", h.AI.SuggestSummary)
		api.POST("/ai/experience", h.AI.SuggestExperience)
		api.POST("/ai/skills", h.AI.SuggestSkills)
	}

	admin := api.Group("/admin", auth.RequireAdmin())
	{
		admin.GET("/stats", h.Admin.Stats)

		admin.POST("/facilities", h.Facilities.Create)
		admin.PUT("/facilities/:id", h.Facilities.Update)
		admin.DELETE("/facilities/:id", h.Facilities.Delete)
		admin.GET("/facilities/:id/notes", h.Facilities.ListNotes)
		admin.POST("/facilities/:id/notes", h.Facilities.CreateNote)
		admin.DELETE("/notes/:id", h.Facilities.DeleteNote)

		admin.POST("/jobs", h.Jobs.CreateJob)
		admin.PUT("/jobs/:id", h.Jobs.UpdateJob)
		admin.DELETE("/jobs/:id", h.Jobs.DeleteJob)
		admin.POST("/jobs/sweep", h.Jobs.Sweep)

		admin.GET("/applications", h.Applications.List)
		admin.PATCH("/applications/:id/status", h.Applications.UpdateStatus)

		admin.POST("/enrichment/discover", h.Admin.Discover)
		admin.POST("/enrichment/verify", h.Admin.Verify)
		admin.POST("/enrichment/search-jobs", h.Admin.SearchJobs)
	}
}
