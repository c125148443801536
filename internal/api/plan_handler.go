package api

import (
	"errors"
	"fitnote/planner/internal/domain"
	"fitnote/planner/internal/repository"
	"fitnote/planner/internal/service"
	"fitnote/planner/internal/storage"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlanHandler exposes the plan and its edit operations.
type PlanHandler struct {
	planService service.PlanService
	presigner   storage.Presigner // nil unless the plan lives in S3
}

// NewPlanHandler creates a new PlanHandler. presigner may be nil.
func NewPlanHandler(planService service.PlanService, presigner storage.Presigner) *PlanHandler {
	return &PlanHandler{planService: planService, presigner: presigner}
}

// --- DTOs for API (Data Transfer Objects) ---

type WorkoutResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Detail      *string `json:"detail"`
	ImageName   string  `json:"imageName,omitempty"`
	Description string  `json:"description,omitempty"`
}

type SectionResponse struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Workouts []WorkoutResponse `json:"workouts"`
}

type PlanResponse struct {
	Sections []SectionResponse `json:"sections"`
}

type SectionRequest struct {
	Title string `json:"title" binding:"required"`
}

type ReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// AddWorkoutRequest adds either a catalog workout (CatalogName) or a custom one
// (Name and Category).
type AddWorkoutRequest struct {
	CatalogName string `json:"catalogName"`
	Name        string `json:"name"`
	Category    string `json:"category"`
}

// UpdateWorkoutRequest renames a workout, sets its detail text, or composes the
// detail from sets/reps/time fields.
type UpdateWorkoutRequest struct {
	Name     *string `json:"name"`
	Detail   *string `json:"detail"`
	Sets     *string `json:"sets"`
	Reps     *string `json:"reps"`
	Time     *string `json:"time"`
	TimeUnit string  `json:"timeUnit"`
}

func (r UpdateWorkoutRequest) composed() bool {
	return r.Sets != nil || r.Reps != nil || r.Time != nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func MapWorkoutToResponse(w domain.WorkoutEntry) WorkoutResponse {
	return WorkoutResponse{
		ID:          w.ID.String(),
		Name:        w.Name,
		Category:    w.Category.String(),
		Detail:      w.Detail,
		ImageName:   w.ImageName,
		Description: w.Description,
	}
}

func MapSectionToResponse(s domain.Section) SectionResponse {
	workouts := make([]WorkoutResponse, len(s.Workouts))
	for i, w := range s.Workouts {
		workouts[i] = MapWorkoutToResponse(w)
	}
	return SectionResponse{ID: s.ID.String(), Title: s.Title, Workouts: workouts}
}

func MapPlanToResponse(p *domain.Plan) PlanResponse {
	if p == nil {
		return PlanResponse{Sections: []SectionResponse{}}
	}
	sections := make([]SectionResponse, len(p.Sections))
	for i, s := range p.Sections {
		sections[i] = MapSectionToResponse(s)
	}
	return PlanResponse{Sections: sections}
}

// --- Helpers ---

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// abortWithServiceError maps plan service errors to HTTP status codes.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionNotFound), errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateID):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrIndexOutOfRange),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrUnknownCatalogEntry),
		errors.Is(err, service.ErrInvalidCategory):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: Plan edit failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to update plan")
	}
}

func (h *PlanHandler) respondWithPlan(c *gin.Context, status int) {
	c.JSON(status, MapPlanToResponse(h.planService.Snapshot()))
}

// --- Handler Methods ---

// GetPlan godoc
// @Summary Get the workout plan
// @Tags Plan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PlanResponse
// @Router /plan [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	h.respondWithPlan(c, http.StatusOK)
}

// ResetPlan godoc
// @Summary Delete every section
// @Tags Plan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PlanResponse
// @Router /plan [delete]
func (h *PlanHandler) ResetPlan(c *gin.Context) {
	if err := h.planService.Reset(c.Request.Context()); err != nil {
		abortWithServiceError(c, err)
		return
	}
	h.respondWithPlan(c, http.StatusOK)
}

// StreamPlan godoc
// @Summary Stream plan changes
// @Description Server-sent events. Sends the current plan, then one "plan" event per change.
// @Tags Plan
// @Produce text/event-stream
// @Security BearerAuth
// @Router /plan/events [get]
func (h *PlanHandler) StreamPlan(c *gin.Context) {
	// Subscribe before the first snapshot so no change falls in between.
	updates, cancel := h.planService.Subscribe()
	defer cancel()

	c.SSEvent("plan", MapPlanToResponse(h.planService.Snapshot()))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case p, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("plan", MapPlanToResponse(p))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ExportPlan godoc
// @Summary Get a download URL for the stored plan document
// @Tags Plan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "url and expiresAt"
// @Failure 501 {object} gin.H "Storage backend cannot presign"
// @Router /plan/export [get]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	if h.presigner == nil {
		abortWithError(c, http.StatusNotImplemented, "Export requires the s3 storage driver")
		return
	}
	expiry := storage.DefaultPresignedURLExpiry
	url, err := h.presigner.GeneratePresignedDownloadURL(c.Request.Context(), repository.PlanKey, expiry)
	if err != nil {
		log.Printf("ERROR: Failed to presign plan export: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresAt": time.Now().Add(expiry).UTC()})
}

// AddSection godoc
// @Summary Append a section
// @Tags Plan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param section body SectionRequest true "Section title"
// @Success 201 {object} SectionResponse
// @Failure 400 {object} gin.H "Blank title"
// @Router /plan/sections [post]
func (h *PlanHandler) AddSection(c *gin.Context) {
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	section, err := h.planService.AddSection(c.Request.Context(), req.Title)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSectionToResponse(section))
}

// RenameSection godoc
// @Summary Rename a section
// @Tags Plan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param section body SectionRequest true "New title"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Unknown section"
// @Router /plan/sections/{sectionId} [patch]
func (h *PlanHandler) RenameSection(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.planService.RenameSection(c.Request.Context(), sectionID, req.Title); err != nil {
		abortWithServiceError(c, err)
		return
	}
	h.respondWithPlan(c, http.StatusOK)
}

// DeleteSection godoc
// @Summary Delete a section and its workouts
// @Tags Plan
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Unknown section"
// @Router /plan/sections/{sectionId} [delete]
func (h *PlanHandler) DeleteSection(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	if err := h.planService.DeleteSection(c.Request.Context(), sectionID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	h.respondWithPlan(c, http.StatusOK)
}

// ReorderSections godoc
// @Summary Move a section
// @Tags Plan
// @Accept json
// @Security BearerAuth
// @Param move body ReorderRequest true "From and to positions"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} gin.H "Position out of range"
// @Router /plan/sections/reorder [post]
func (h *PlanHandler) ReorderSections(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.planService.ReorderSections(c.Request.Context(), *req.From, *req.To); err != nil {
		abortWithServiceError(c, err)
		return
	}
	h.respondWithPlan(c, http.StatusOK)
}

// AddWorkout godoc
// @Summary Append a workout to a section
// @Description Either catalogName, or name plus category for a custom workout.
// @Tags Plan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param workout body AddWorkoutRequest true "Workout to add"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Unknown catalog workout or category"
// @Failure 404 {object} gin.H "Unknown section"
// @Router /plan/sections/{sectionId}/workouts [post]
func (h *PlanHandler) AddWorkout(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	// 1. Bind and validate the request body
	var req AddWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	// 2. Catalog lookup or custom entry, never both
	var (
		entry domain.WorkoutEntry
		err   error
	)
	switch {
	case req.CatalogName != "" && req.Name == "":
		entry, err = h.planService.AddCatalogWorkout(c.Request.Context(), sectionID, req.CatalogName)
	case req.CatalogName == "" && req.Name != "":
		entry, err = h.planService.AddCustomWorkout(c.Request.Context(), sectionID, req.Name, domain.WorkoutCategory(req.Category))
	default:
		abortWithError(c, http.StatusBadRequest, "Provide either catalogName or name and category")
		return
	}
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(entry))
}

// UpdateWorkout godoc
// @Summary Rename a workout or set its detail
// @Description detail replaces the free-form text (blank clears it); sets/reps/time/timeUnit compose it instead.
// @Tags Plan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param workoutId path string true "Workout ID"
// @Param workout body UpdateWorkoutRequest true "Changes"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Unknown section or workout"
// @Router /plan/sections/{sectionId}/workouts/{workoutId} [patch]
func (h *PlanHandler) UpdateWorkout(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}
	// 1. Bind and validate the request body
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.Name == nil && req.Detail == nil && !req.composed() {
		abortWithError(c, http.StatusBadRequest, "Nothing to update")
		return
	}
	if req.Detail != nil && req.composed() {
		abortWithError(c, http.StatusBadRequest, "Use either detail or sets/reps/time, not both")
		return
	}

	// 2. Apply the rename, then the detail
	ctx := c.Request.Context()
	if req.Name != nil {
		if err := h.planService.RenameWorkout(ctx, sectionID, workoutID, *req.Name); err != nil {
			abortWithServiceError(c, err)
			return
		}
	}
	detail := req.Detail
	if req.composed() {
		composed := domain.FormatDetail(deref(req.Sets), deref(req.Reps), deref(req.Time), req.TimeUnit)
		detail = &composed
	}
	if detail != nil {
		if err := h.planService.SetWorkoutDetail(ctx, sectionID, workoutID, *detail); err != nil {
			abortWithServiceError(c, err)
			return
		}
	}
	// 3. Respond with the updated plan
	h.respondWithPlan(c, http.StatusOK)
}

// DeleteWorkout godoc
// @Summary Remove a workout from a section
// @Tags Plan
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Unknown section or workout"
// @Router /plan/sections/{sectionId}/workouts/{workoutId} [delete]
func (h *PlanHandler) DeleteWorkout(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "workoutId")
	if !ok {
		return
	}
	if err := h.planService.DeleteWorkout(c.Request.Context(), sectionID, workoutID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	h.respondWithPlan(c, http.StatusOK)
}

// ReorderWorkouts godoc
// @Summary Move a workout within its section
// @Tags Plan
// @Accept json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param move body ReorderRequest true "From and to positions"
// @Success 200 {object} PlanResponse
// @Router /plan/sections/{sectionId}/workouts/reorder [post]
func (h *PlanHandler) ReorderWorkouts(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.planService.ReorderWorkouts(c.Request.Context(), sectionID, *req.From, *req.To); err != nil {
		abortWithServiceError(c, err)
		return
	}
	h.respondWithPlan(c, http.StatusOK)
}
