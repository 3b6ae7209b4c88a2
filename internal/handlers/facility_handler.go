package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/medstaff/internal/auth"
	"github.com/justsurfingit/medstaff/internal/dtos"
	"github.com/justsurfingit/medstaff/internal/services"
)

type FacilityHandler struct {
	Facilities *services.FacilityService
	Notes      *services.NoteService
}

func NewFacilityHandler(f *services.FacilityService, n *services.NoteService) *FacilityHandler {
	return &FacilityHandler{Facilities: f, Notes: n}
}

// List is GET /facilities?type&city&verificationStatus&search
func (h *FacilityHandler) List(c *gin.Context) {
	filter, err := services.NewFacilityFilter(
		c.Query("type"), c.Query("city"), c.Query("verificationStatus"), c.Query("search"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	facilities, err := h.Facilities.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facilities)
}

func (h *FacilityHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	f, err := h.Facilities.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FacilityHandler) Cities(c *gin.Context) {
	cities, err := h.Facilities.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *FacilityHandler) CitiesWithJobs(c *gin.Context) {
	cities, err := h.Facilities.CitiesWithJobs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *FacilityHandler) Create(c *gin.Context) {
	var req dtos.FacilityCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := h.Facilities.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *FacilityHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.FacilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := h.Facilities.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FacilityHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Facilities.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FacilityHandler) ListNotes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	notes, err := h.Notes.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// CreateNote records the calling admin as the author.
func (h *FacilityHandler) CreateNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dtos.NoteCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	note, err := h.Notes.Create(c.Request.Context(), id, auth.CurrentUser(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *FacilityHandler) DeleteNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Notes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
