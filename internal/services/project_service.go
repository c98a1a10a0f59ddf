package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamhub/teamhub-api/internal/models"
	"github.com/teamhub/teamhub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("project name cannot be empty")
)

// ProjectService provides owner-scoped project CRUD.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	groupRepo   repository.GroupRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, groupRepo repository.GroupRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		groupRepo:   groupRepo,
	}
}

// CreateProjectInput represents parameters to create a project.
type CreateProjectInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	GroupID   *uint64
	OwnerID   uint64
}

// CreateProject creates a project owned by the caller. An attached group
// must be one the caller belongs to.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	if input.GroupID != nil {
		if err := s.ensureMember(*input.GroupID, input.OwnerID); err != nil {
			return nil, err
		}
	}

	project := &models.Project{
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		GroupID:   input.GroupID,
		OwnerID:   input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns the caller's projects.
func (s *ProjectService) ListProjects(ownerID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project owned by the caller.
func (s *ProjectService) GetProject(projectID, ownerID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDForOwner(projectID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput holds optional project changes.
type UpdateProjectInput struct {
	Name       *string
	StartDate  *time.Time
	EndDate    *time.Time
	GroupID    *uint64
	ClearGroup bool
}

// UpdateProject updates a project owned by the caller.
func (s *ProjectService) UpdateProject(projectID, ownerID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(projectID, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = *input.EndDate
	}
	if project.EndDate.Before(project.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if input.ClearGroup {
		project.GroupID = nil
	} else if input.GroupID != nil {
		if err := s.ensureMember(*input.GroupID, ownerID); err != nil {
			return nil, err
		}
		project.GroupID = input.GroupID
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project owned by the caller.
func (s *ProjectService) DeleteProject(projectID, ownerID uint64) error {
	if _, err := s.GetProject(projectID, ownerID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

func (s *ProjectService) ensureMember(groupID, userID uint64) error {
	if _, err := s.groupRepo.FindMember(groupID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotGroupMember
		}
		return fmt.Errorf("failed to verify group membership: %w", err)
	}
	return nil
}
