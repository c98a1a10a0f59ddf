package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teamhub/teamhub-api/internal/models"
	"github.com/teamhub/teamhub-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type projectServiceEnv struct {
	db             *gorm.DB
	projectService *ProjectService
	groupService   *GroupService
}

func setupProjectServiceEnv(t *testing.T) projectServiceEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Project{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	groupRepo := repository.NewGroupRepository(db)
	return projectServiceEnv{
		db:             db,
		projectService: NewProjectService(repository.NewProjectRepository(db), groupRepo),
		groupService:   NewGroupService(groupRepo),
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Username:     email,
		PasswordHash: "x",
		Role:         models.RoleTeamMember,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestProjectService_GroupAttachmentRequiresMembership(t *testing.T) {
	env := setupProjectServiceEnv(t)
	owner := seedUser(t, env.db, "owner@example.com")
	outsider := seedUser(t, env.db, "outsider@example.com")

	group, err := env.groupService.CreateGroup(CreateGroupInput{
		Name:    "Team",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	start := mustDate(t, "2026-02-01")
	end := mustDate(t, "2026-05-01")

	_, err = env.projectService.CreateProject(CreateProjectInput{
		Name:      "Thesis",
		StartDate: start,
		EndDate:   end,
		GroupID:   &group.ID,
		OwnerID:   outsider.ID,
	})
	require.ErrorIs(t, err, ErrNotGroupMember)

	project, err := env.projectService.CreateProject(CreateProjectInput{
		Name:      "Thesis",
		StartDate: start,
		EndDate:   end,
		GroupID:   &group.ID,
		OwnerID:   owner.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, project.GroupID)
}

func TestProjectService_UpdateClearsGroup(t *testing.T) {
	env := setupProjectServiceEnv(t)
	owner := seedUser(t, env.db, "owner@example.com")

	group, err := env.groupService.CreateGroup(CreateGroupInput{
		Name:    "Team",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	project, err := env.projectService.CreateProject(CreateProjectInput{
		Name:      "Thesis",
		StartDate: mustDate(t, "2026-02-01"),
		EndDate:   mustDate(t, "2026-05-01"),
		GroupID:   &group.ID,
		OwnerID:   owner.ID,
	})
	require.NoError(t, err)

	updated, err := env.projectService.UpdateProject(project.ID, owner.ID, UpdateProjectInput{
		ClearGroup: true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.GroupID)
}

func TestProjectService_RejectsBackwardsDates(t *testing.T) {
	env := setupProjectServiceEnv(t)
	owner := seedUser(t, env.db, "owner@example.com")

	_, err := env.projectService.CreateProject(CreateProjectInput{
		Name:      "Thesis",
		StartDate: mustDate(t, "2026-05-01"),
		EndDate:   mustDate(t, "2026-02-01"),
		OwnerID:   owner.ID,
	})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestProjectService_OwnerScoped(t *testing.T) {
	env := setupProjectServiceEnv(t)
	owner := seedUser(t, env.db, "owner@example.com")
	other := seedUser(t, env.db, "other@example.com")

	project, err := env.projectService.CreateProject(CreateProjectInput{
		Name:      "Thesis",
		StartDate: mustDate(t, "2026-02-01"),
		EndDate:   mustDate(t, "2026-05-01"),
		OwnerID:   owner.ID,
	})
	require.NoError(t, err)

	_, err = env.projectService.GetProject(project.ID, other.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	err = env.projectService.DeleteProject(project.ID, other.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)
}
