package repository

import (
	"github.com/teamhub/teamhub-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email (emails are stored lowercase)
	FindByEmail(email string) (*models.User, error)

	// FindByIdentifier finds a user by email or username, case-insensitively
	FindByIdentifier(identifier string) (*models.User, error)

	// UsernameExists reports whether a username is taken, case-insensitively
	UsernameExists(username string) (bool, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// List returns all users
	List() ([]models.User, error)

	// CreateResetToken stores a password reset token
	CreateResetToken(token *models.PasswordResetToken) error

	// FindResetToken finds a reset token by its value
	FindResetToken(token string) (*models.PasswordResetToken, error)

	// DeleteResetToken removes a reset token after redemption
	DeleteResetToken(token string) error
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// CreateWithOwner creates a group and its owner membership atomically
	CreateWithOwner(group *models.Group, member *models.GroupMember) error

	// FindByID finds a group by ID
	FindByID(id uint64) (*models.Group, error)

	// FindByJoinCode finds a group by its join code (exact match)
	FindByJoinCode(code string) (*models.Group, error)

	// Update persists changes to a group
	Update(group *models.Group) error

	// Delete deletes a group, its memberships, and detaches projects
	Delete(id uint64) error

	// AddMember adds a member to a group
	AddMember(member *models.GroupMember) error

	// RemoveMember removes a member from a group
	RemoveMember(groupID, userID uint64) error

	// FindMember finds a specific group membership
	FindMember(groupID, userID uint64) (*models.GroupMember, error)

	// ListMembershipsByUserID lists all groups a user belongs to
	ListMembershipsByUserID(userID uint64) ([]models.GroupMember, error)

	// ListMembers lists all members of a group
	ListMembers(groupID uint64) ([]models.GroupMember, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID  uint64
	SprintID *uint64
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and its assignments
	Delete(id uint64) error

	// AssignUsers assigns multiple users to a task (idempotent per pair)
	AssignUsers(taskID uint64, userIDs []uint64) error

	// UnassignUsers removes user assignments from a task
	UnassignUsers(taskID uint64, userIDs []uint64) error

	// CountUsersByIDs counts how many of the given user IDs exist
	CountUsersByIDs(userIDs []uint64) (int64, error)
}

// SprintRepository defines the interface for sprint data access
type SprintRepository interface {
	// Create creates a new sprint
	Create(sprint *models.Sprint) error

	// FindByIDForOwner finds a sprint by ID scoped to its owner
	FindByIDForOwner(id, ownerID uint64) (*models.Sprint, error)

	// ListByOwner lists sprints owned by a user
	ListByOwner(ownerID uint64) ([]models.Sprint, error)

	// Update persists changes to a sprint
	Update(sprint *models.Sprint) error

	// Delete deletes a sprint and detaches its tasks to the global backlog
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByIDForOwner finds a project by ID scoped to its owner
	FindByIDForOwner(id, ownerID uint64) (*models.Project, error)

	// ListByOwner lists projects owned by a user
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// Delete deletes a project
	Delete(id uint64) error
}
