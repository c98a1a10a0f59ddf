package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamhub/teamhub-api/internal/dto"
	apierrors "github.com/teamhub/teamhub-api/internal/errors"
	"github.com/teamhub/teamhub-api/internal/middleware"
	"github.com/teamhub/teamhub-api/internal/services"
)

// SprintHandler coordinates sprint-related HTTP handlers.
type SprintHandler struct {
	sprintService *services.SprintService
}

// NewSprintHandler creates a new SprintHandler.
func NewSprintHandler(sprintService *services.SprintService) *SprintHandler {
	return &SprintHandler{
		sprintService: sprintService,
	}
}

// ListSprints returns the caller's sprints.
func (h *SprintHandler) ListSprints(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	sprints, err := h.sprintService.ListSprints(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch sprints")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sprints": dto.ToSprintDTOs(sprints),
	})
}

// CreateSprint creates a new sprint owned by the caller.
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateSprintRequest struct {
		Name      string    `json:"name" binding:"required"`
		StartDate time.Time `json:"start_date" binding:"required"`
		EndDate   time.Time `json:"end_date" binding:"required"`
		IsActive  bool      `json:"is_active"`
	}

	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.CreateSprint(services.CreateSprintInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
		OwnerID:   userID,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSprintDTO(*sprint))
}

// GetSprint returns a sprint owned by the caller.
func (h *SprintHandler) GetSprint(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	sprintID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sprint, err := h.sprintService.GetSprint(sprintID, userID)
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTO(*sprint))
}

// UpdateSprint updates a sprint owned by the caller.
func (h *SprintHandler) UpdateSprint(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	sprintID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateSprintRequest struct {
		Name      *string    `json:"name"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
		IsActive  *bool      `json:"is_active"`
	}

	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.UpdateSprint(sprintID, userID, services.UpdateSprintInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTO(*sprint))
}

// DeleteSprint deletes a sprint owned by the caller. Its tasks return to the
// global backlog.
func (h *SprintHandler) DeleteSprint(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	sprintID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.sprintService.DeleteSprint(sprintID, userID); err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sprint deleted successfully",
	})
}

func respondSprintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidSprintName),
		errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSprintNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
