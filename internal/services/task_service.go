package services

import (
	"errors"
	"fmt"

	"github.com/teamhub/teamhub-api/internal/models"
	"github.com/teamhub/teamhub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotTaskOwner      = errors.New("only the task owner can perform this action")
	ErrNotAssigned       = errors.New("not assigned to this task")
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleEmpty        = errors.New("title cannot be empty")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrNoUserIDsProvided = errors.New("at least one user ID is required")
	ErrUnknownAssignee   = errors.New("one or more users do not exist")
)

// TaskService handles task business logic, including the assignment-gated
// update path.
type TaskService struct {
	taskRepo   repository.TaskRepository
	sprintRepo repository.SprintRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, sprintRepo repository.SprintRepository) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		sprintRepo: sprintRepo,
	}
}

// ListTasksInput represents filters for listing tasks.
type ListTasksInput struct {
	OwnerID  uint64
	SprintID *uint64
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// ListTasks returns the caller's tasks, optionally filtered by sprint.
// Visibility is owner-scoped: a user only ever lists tasks they created.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !models.ValidTaskStatus(*input.Status) {
		return nil, 0, ErrInvalidStatus
	}

	filter := repository.TaskFilter{
		OwnerID:  input.OwnerID,
		SprintID: input.SprintID,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	SprintID    *uint64
	OwnerID     uint64
}

// CreateTask creates a new task owned by the caller. A missing status means
// the global backlog; a sprint reference must point at a sprint the caller
// owns.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusBacklog
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	if input.SprintID != nil {
		if err := s.ensureOwnedSprint(*input.SprintID, input.OwnerID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		SprintID:    input.SprintID,
		OwnerID:     input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignments", "Assignments.User")
}

// GetTask returns a task with related data. Visibility matches the listing
// policy: the owner or an assigned member may look, everyone else gets
// not-found.
func (s *TaskService) GetTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments", "Assignments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID && !isAssigned(task, actorID) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// UpdateTaskInput represents input for updating a task. A non-nil MemberID
// selects the member-scoped path.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	SprintID    *uint64
	ClearSprint bool
	MemberID    *uint64
}

// UpdateTask applies a task update all-or-nothing.
//
// With MemberID set the update runs in a member-scoped context: the
// identified member must be in the task's assigned set or the whole update
// is rejected. Without it the caller must be the task's owner.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.MemberID != nil {
		if !isAssigned(task, *input.MemberID) {
			return nil, ErrNotAssigned
		}
	} else if task.OwnerID != actorID {
		return nil, ErrNotTaskOwner
	}

	// Validate everything before touching the task so a rejection leaves
	// no partial field application.
	if input.Title != nil && *input.Title == "" {
		return nil, ErrTitleEmpty
	}
	if input.Status != nil && !models.ValidTaskStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.SprintID != nil && !input.ClearSprint {
		if err := s.ensureOwnedSprint(*input.SprintID, task.OwnerID); err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearSprint {
		task.SprintID = nil
	} else if input.SprintID != nil {
		task.SprintID = input.SprintID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignments", "Assignments.User")
}

// DeleteTask deletes a task if the actor is the owner.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return ErrNotTaskOwner
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignUsers assigns users to a task. Owner only; all users must exist.
func (s *TaskService) AssignUsers(taskID, actorID uint64, userIDs []uint64) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return nil, ErrNotTaskOwner
	}

	unique := uniqueUint64(userIDs)

	count, err := s.taskRepo.CountUsersByIDs(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(unique) {
		return nil, ErrUnknownAssignee
	}

	if err := s.taskRepo.AssignUsers(task.ID, unique); err != nil {
		return nil, fmt.Errorf("failed to assign users: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignments", "Assignments.User")
}

// UnassignUsers removes user assignments from a task. Owner only.
func (s *TaskService) UnassignUsers(taskID, actorID uint64, userIDs []uint64) (*models.Task, error) {
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return nil, ErrNotTaskOwner
	}

	if err := s.taskRepo.UnassignUsers(taskID, uniqueUint64(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to unassign users: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignments", "Assignments.User")
}

// ensureOwnedSprint verifies the sprint exists and belongs to the owner.
func (s *TaskService) ensureOwnedSprint(sprintID, ownerID uint64) error {
	if _, err := s.sprintRepo.FindByIDForOwner(sprintID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSprintNotFound
		}
		return fmt.Errorf("failed to verify sprint: %w", err)
	}
	return nil
}

// isAssigned reports whether the user is in the task's assigned set.
// Requires Assignments to be preloaded.
func isAssigned(task *models.Task, userID uint64) bool {
	for _, assignment := range task.Assignments {
		if assignment.UserID == userID {
			return true
		}
	}
	return false
}

// uniqueUint64 removes duplicate values from a slice of uint64.
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
