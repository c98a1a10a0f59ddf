package dto

import (
	"time"

	"github.com/teamhub/teamhub-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	OwnerID   uint64    `json:"owner_id"`
	GroupID   *uint64   `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		StartDate: project.StartDate,
		EndDate:   project.EndDate,
		OwnerID:   project.OwnerID,
		GroupID:   project.GroupID,
		CreatedAt: project.CreatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
