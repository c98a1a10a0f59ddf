package dto

import (
	"time"

	"github.com/teamhub/teamhub-api/internal/models"
)

// SprintDTO represents a sprint in API responses
type SprintDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSprintDTO converts a Sprint model to SprintDTO
func ToSprintDTO(sprint models.Sprint) SprintDTO {
	return SprintDTO{
		ID:        sprint.ID,
		Name:      sprint.Name,
		StartDate: sprint.StartDate,
		EndDate:   sprint.EndDate,
		IsActive:  sprint.IsActive,
		OwnerID:   sprint.OwnerID,
		CreatedAt: sprint.CreatedAt,
	}
}

// ToSprintDTOs converts a slice of sprints
func ToSprintDTOs(sprints []models.Sprint) []SprintDTO {
	dtos := make([]SprintDTO, len(sprints))
	for i, sprint := range sprints {
		dtos[i] = ToSprintDTO(sprint)
	}
	return dtos
}
