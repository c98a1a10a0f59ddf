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
	ErrSprintNotFound    = errors.New("sprint not found")
	ErrInvalidSprintName = errors.New("sprint name cannot be empty")
	ErrInvalidDateRange  = errors.New("end date must not be before start date")
)

// SprintService provides owner-scoped sprint CRUD. Sprints owned by other
// users are invisible, so unauthorized mutation surfaces as not-found.
type SprintService struct {
	sprintRepo repository.SprintRepository
}

// NewSprintService creates a new SprintService.
func NewSprintService(sprintRepo repository.SprintRepository) *SprintService {
	return &SprintService{
		sprintRepo: sprintRepo,
	}
}

// CreateSprintInput represents parameters to create a sprint.
type CreateSprintInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	OwnerID   uint64
}

// CreateSprint creates a new sprint owned by the caller.
func (s *SprintService) CreateSprint(input CreateSprintInput) (*models.Sprint, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidSprintName
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	sprint := &models.Sprint{
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  input.IsActive,
		OwnerID:   input.OwnerID,
	}

	if err := s.sprintRepo.Create(sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}

	return sprint, nil
}

// ListSprints returns the caller's sprints.
func (s *SprintService) ListSprints(ownerID uint64) ([]models.Sprint, error) {
	sprints, err := s.sprintRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	return sprints, nil
}

// GetSprint returns a sprint owned by the caller.
func (s *SprintService) GetSprint(sprintID, ownerID uint64) (*models.Sprint, error) {
	sprint, err := s.sprintRepo.FindByIDForOwner(sprintID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to find sprint: %w", err)
	}
	return sprint, nil
}

// UpdateSprintInput holds optional sprint changes.
type UpdateSprintInput struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  *bool
}

// UpdateSprint updates a sprint owned by the caller.
func (s *SprintService) UpdateSprint(sprintID, ownerID uint64, input UpdateSprintInput) (*models.Sprint, error) {
	sprint, err := s.GetSprint(sprintID, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidSprintName
		}
		sprint.Name = *input.Name
	}
	if input.StartDate != nil {
		sprint.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		sprint.EndDate = *input.EndDate
	}
	if sprint.EndDate.Before(sprint.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if input.IsActive != nil {
		sprint.IsActive = *input.IsActive
	}

	if err := s.sprintRepo.Update(sprint); err != nil {
		return nil, fmt.Errorf("failed to update sprint: %w", err)
	}

	return sprint, nil
}

// DeleteSprint removes a sprint owned by the caller. Its tasks fall back to
// the global backlog.
func (s *SprintService) DeleteSprint(sprintID, ownerID uint64) error {
	if _, err := s.GetSprint(sprintID, ownerID); err != nil {
		return err
	}

	if err := s.sprintRepo.Delete(sprintID); err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}

	return nil
}
