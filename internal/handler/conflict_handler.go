package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/internal/service"
	appErrors "github.com/noah-isme/sma-conflict-api/pkg/errors"
	"github.com/noah-isme/sma-conflict-api/pkg/response"
)

// ConflictHandler exposes detection and triage endpoints.
type ConflictHandler struct {
	detector *service.DetectorService
	priority *service.PriorityService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(detector *service.DetectorService, priority *service.PriorityService) *ConflictHandler {
	return &ConflictHandler{detector: detector, priority: priority}
}

// Detect godoc
// @Summary Detect conflicts for a schedule
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/detect [post]
func (h *ConflictHandler) Detect(c *gin.Context) {
	conflicts, err := h.detector.DetectAllConflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// Refresh godoc
// @Summary Replace the stored conflict set with a fresh detection pass
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/refresh [post]
func (h *ConflictHandler) Refresh(c *gin.Context) {
	conflicts, err := h.detector.RefreshConflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// List godoc
// @Summary List stored active conflicts
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	conflicts, err := h.detector.ListActiveConflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// ListByPriority godoc
// @Summary List active conflicts ranked by priority
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/priority [get]
func (h *ConflictHandler) ListByPriority(c *gin.Context) {
	ranked, err := h.priority.ConflictsByPriority(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranked, nil)
}

// Count godoc
// @Summary Count stored active conflicts
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/count [get]
func (h *ConflictHandler) Count(c *gin.Context) {
	count, err := h.detector.CountConflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": count}, nil)
}

// Validate godoc
// @Summary Run a non-persisting detection pass with severity tallies
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/validate [get]
func (h *ConflictHandler) Validate(c *gin.Context) {
	result, err := h.detector.ValidateSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CheckSlot godoc
// @Summary Evaluate a candidate slot against the existing schedule
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param slot body models.ScheduleSlot true "Candidate slot"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/check-slot [post]
func (h *ConflictHandler) CheckSlot(c *gin.Context) {
	var candidate models.ScheduleSlot
	if err := c.ShouldBindJSON(&candidate); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload"))
		return
	}
	conflicts, err := h.detector.DetectPotentialConflicts(c.Request.Context(), c.Param("id"), &candidate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}
