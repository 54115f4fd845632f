package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/internal/service"
	appErrors "github.com/noah-isme/sma-conflict-api/pkg/errors"
	"github.com/noah-isme/sma-conflict-api/pkg/response"
)

// ResolutionHandler exposes suggestion and resolution endpoints.
type ResolutionHandler struct {
	detector  *service.DetectorService
	suggester *service.SuggestionService
	resolver  *service.ResolverService
	priority  *service.PriorityService
	validate  *validator.Validate
}

// NewResolutionHandler constructs handler.
func NewResolutionHandler(detector *service.DetectorService, suggester *service.SuggestionService, resolver *service.ResolverService, priority *service.PriorityService, validate *validator.Validate) *ResolutionHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ResolutionHandler{
		detector:  detector,
		suggester: suggester,
		resolver:  resolver,
		priority:  priority,
		validate:  validate,
	}
}

// Suggest godoc
// @Summary Generate resolution suggestions for a conflict
// @Tags Resolutions
// @Produce json
// @Param id path string true "Conflict ID"
// @Success 200 {object} response.Envelope
// @Router /conflicts/{id}/suggestions [get]
func (h *ResolutionHandler) Suggest(c *gin.Context) {
	conflict, err := h.detector.GetConflict(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	suggestions := h.suggester.GenerateSuggestions(c.Request.Context(), conflict)
	response.JSON(c, http.StatusOK, suggestions, nil)
}

// SlotSwaps godoc
// @Summary Suggest swapping the two slots of a pairwise conflict
// @Tags Resolutions
// @Produce json
// @Param id path string true "Conflict ID"
// @Success 200 {object} response.Envelope
// @Router /conflicts/{id}/swaps [get]
func (h *ResolutionHandler) SlotSwaps(c *gin.Context) {
	conflict, err := h.detector.GetConflict(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	swaps := h.suggester.SuggestSlotSwaps(c.Request.Context(), conflict)
	response.JSON(c, http.StatusOK, swaps, nil)
}

// ApplyResolutionRequest carries a chosen suggestion and the acting user.
type ApplyResolutionRequest struct {
	Suggestion models.ResolutionSuggestion `json:"suggestion" validate:"required"`
	User       models.User                 `json:"user" validate:"required"`
}

// Apply godoc
// @Summary Apply a chosen resolution suggestion
// @Tags Resolutions
// @Accept json
// @Produce json
// @Param id path string true "Conflict ID"
// @Param request body ApplyResolutionRequest true "Suggestion and acting user"
// @Success 200 {object} response.Envelope
// @Router /conflicts/{id}/resolve [post]
func (h *ResolutionHandler) Apply(c *gin.Context) {
	var req ApplyResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload"))
		return
	}
	conflict, err := h.detector.GetConflict(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	applied := h.resolver.ApplyResolution(c.Request.Context(), conflict, &req.Suggestion, req.User)
	response.JSON(c, http.StatusOK, gin.H{"applied": applied}, nil)
}

// AutoResolveRequest names the acting user for an auto-resolution pass.
type AutoResolveRequest struct {
	User models.User `json:"user" validate:"required"`
}

// AutoResolve godoc
// @Summary Auto-resolve a schedule's active conflicts
// @Tags Resolutions
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param type query string false "Restrict to one conflict type"
// @Param request body AutoResolveRequest true "Acting user"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/auto-resolve [post]
func (h *ResolutionHandler) AutoResolve(c *gin.Context) {
	var req AutoResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid auto-resolve payload"))
		return
	}
	scheduleID := c.Param("id")
	var resolved int
	if conflictType := c.Query("type"); conflictType != "" {
		resolved = h.resolver.AutoResolveByType(c.Request.Context(), scheduleID, models.ConflictType(conflictType), req.User)
	} else {
		resolved = h.resolver.AutoResolveAll(c.Request.Context(), scheduleID, req.User)
	}
	response.JSON(c, http.StatusOK, gin.H{"resolved": resolved}, nil)
}

// Impact godoc
// @Summary Summarise what applying a suggestion would touch
// @Tags Resolutions
// @Accept json
// @Produce json
// @Param suggestion body models.ResolutionSuggestion true "Suggestion"
// @Success 200 {object} response.Envelope
// @Router /resolutions/impact [post]
func (h *ResolutionHandler) Impact(c *gin.Context) {
	var suggestion models.ResolutionSuggestion
	if err := c.ShouldBindJSON(&suggestion); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suggestion payload"))
		return
	}
	impact := h.resolver.AnalyzeImpact(c.Request.Context(), &suggestion)
	response.JSON(c, http.StatusOK, impact, nil)
}

// SuccessRate godoc
// @Summary Default success percentage for a resolution type
// @Tags Resolutions
// @Produce json
// @Param type path string true "Resolution type"
// @Success 200 {object} response.Envelope
// @Router /resolutions/{type}/success-rate [get]
func (h *ResolutionHandler) SuccessRate(c *gin.Context) {
	resolutionType := models.ResolutionType(c.Param("type"))
	rate := h.priority.HistoricalSuccessRate(resolutionType)
	response.JSON(c, http.StatusOK, gin.H{"type": resolutionType, "success_rate": rate}, nil)
}

// StatusNoteRequest carries an optional note for a status transition.
type StatusNoteRequest struct {
	Note string      `json:"note"`
	User models.User `json:"user"`
}

// MarkResolved godoc
// @Summary Mark a conflict resolved administratively
// @Tags Resolutions
// @Accept json
// @Produce json
// @Param id path string true "Conflict ID"
// @Param request body StatusNoteRequest true "Acting user and note"
// @Success 204
// @Router /conflicts/{id}/mark-resolved [post]
func (h *ResolutionHandler) MarkResolved(c *gin.Context) {
	var req StatusNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	if err := h.resolver.MarkResolved(c.Request.Context(), c.Param("id"), req.User, req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkIgnored godoc
// @Summary Park a conflict without resolving it
// @Tags Resolutions
// @Accept json
// @Produce json
// @Param id path string true "Conflict ID"
// @Param request body StatusNoteRequest true "Note"
// @Success 204
// @Router /conflicts/{id}/ignore [post]
func (h *ResolutionHandler) MarkIgnored(c *gin.Context) {
	var req StatusNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	if err := h.resolver.MarkIgnored(c.Request.Context(), c.Param("id"), req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unignore godoc
// @Summary Return an ignored conflict to the active set
// @Tags Resolutions
// @Produce json
// @Param id path string true "Conflict ID"
// @Success 204
// @Router /conflicts/{id}/unignore [post]
func (h *ResolutionHandler) Unignore(c *gin.Context) {
	if err := h.resolver.Unignore(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
