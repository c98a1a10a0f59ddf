package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamhub/teamhub-api/internal/constants"
	"github.com/teamhub/teamhub-api/internal/dto"
	"github.com/teamhub/teamhub-api/internal/models"
	"github.com/teamhub/teamhub-api/internal/repository"
	"github.com/teamhub/teamhub-api/internal/services"
	"gorm.io/gorm"
)

type taskTestEnv struct {
	db            *gorm.DB
	handler       *TaskHandler
	taskService   *services.TaskService
	sprintService *services.SprintService
	actorID       uint64
}

func setupTaskTestEnv(t *testing.T) *taskTestEnv {
	t.Helper()

	db := openTestDB(t)
	taskRepo := repository.NewTaskRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	taskService := services.NewTaskService(taskRepo, sprintRepo)
	sprintService := services.NewSprintService(sprintRepo)

	return &taskTestEnv{
		db:            db,
		handler:       NewTaskHandler(taskService),
		taskService:   taskService,
		sprintService: sprintService,
	}
}

func (env *taskTestEnv) router() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, env.actorID)
	})
	r.GET("/api/tasks", env.handler.ListTasks)
	r.POST("/api/tasks", env.handler.CreateTask)
	r.GET("/api/tasks/:id", env.handler.GetTask)
	r.PATCH("/api/tasks/:id", env.handler.UpdateTask)
	r.DELETE("/api/tasks/:id", env.handler.DeleteTask)
	r.POST("/api/tasks/:id/assign", env.handler.AssignTask)
	r.POST("/api/tasks/:id/unassign", env.handler.UnassignTask)
	return r
}

func TestTaskHandler_CreateTask_DefaultsToBacklog(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	env.actorID = owner.ID
	r := env.router()

	w := postJSON(t, r, "/api/tasks", map[string]any{"title": "Write report"})
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.TaskStatusBacklog, response.Status)
	require.Nil(t, response.SprintID)
}

func TestTaskHandler_CreateTask_RejectsInvalidStatus(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	env.actorID = owner.ID
	r := env.router()

	w := postJSON(t, r, "/api/tasks", map[string]any{
		"title":  "Write report",
		"status": "SHIPPED",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_CreateTask_RejectsForeignSprint(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	other := createUser(t, env.db, "other@example.com", "other")

	sprint := createSprint(t, env, other.ID, "Their Sprint")

	env.actorID = owner.ID
	r := env.router()

	w := postJSON(t, r, "/api/tasks", map[string]any{
		"title":     "Write report",
		"sprint_id": sprint.ID,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_UpdateTask_MemberScopedPath(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	assignee := createUser(t, env.db, "assignee@example.com", "assignee")
	outsider := createUser(t, env.db, "outsider@example.com", "outsider")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:   "Write report",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.taskService.AssignUsers(task.ID, owner.ID, []uint64{assignee.ID})
	require.NoError(t, err)

	env.actorID = owner.ID
	r := env.router()

	// member_id naming a non-assigned user rejects the whole update.
	w := patchJSON(t, r, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"status":    string(models.TaskStatusDone),
		"member_id": outsider.ID,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var unchanged models.Task
	require.NoError(t, env.db.First(&unchanged, task.ID).Error)
	require.Equal(t, models.TaskStatusBacklog, unchanged.Status)

	// The assigned member moves the task.
	w = patchJSON(t, r, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"status":    string(models.TaskStatusDone),
		"member_id": assignee.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, env.db.First(&updated, task.ID).Error)
	require.Equal(t, models.TaskStatusDone, updated.Status)
}

func TestTaskHandler_UpdateTask_InvalidStatusLeavesTaskUntouched(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:   "Write report",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	env.actorID = owner.ID
	r := env.router()

	w := patchJSON(t, r, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"title":  "Renamed",
		"status": "SHIPPED",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The valid title change must not have been applied either.
	var unchanged models.Task
	require.NoError(t, env.db.First(&unchanged, task.ID).Error)
	require.Equal(t, "Write report", unchanged.Title)
}

func TestTaskHandler_UpdateTask_ClearSprint(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	sprint := createSprint(t, env, owner.ID, "Sprint 1")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:    "Write report",
		SprintID: &sprint.ID,
		OwnerID:  owner.ID,
	})
	require.NoError(t, err)

	env.actorID = owner.ID
	r := env.router()

	// Explicit null returns the task to the global backlog.
	w := patchJSON(t, r, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
		"sprint_id": nil,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, env.db.First(&updated, task.ID).Error)
	require.Nil(t, updated.SprintID)
}

func TestTaskHandler_AssignAndUnassign(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	worker := createUser(t, env.db, "worker@example.com", "worker")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:   "Write report",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	env.actorID = owner.ID
	r := env.router()

	w := postJSON(t, r, fmt.Sprintf("/api/tasks/%d/assign", task.ID), map[string]any{
		"user_ids": []uint64{worker.ID, worker.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Assignments, 1)

	// Unknown users are rejected.
	w = postJSON(t, r, fmt.Sprintf("/api/tasks/%d/assign", task.ID), map[string]any{
		"user_ids": []uint64{9999},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, fmt.Sprintf("/api/tasks/%d/unassign", task.ID), map[string]any{
		"user_ids": []uint64{worker.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Empty(t, response.Assignments)
}

func TestTaskHandler_AssignTask_OwnerOnly(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	intruder := createUser(t, env.db, "intruder@example.com", "intruder")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:   "Write report",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	env.actorID = intruder.ID
	r := env.router()

	w := postJSON(t, r, fmt.Sprintf("/api/tasks/%d/assign", task.ID), map[string]any{
		"user_ids": []uint64{intruder.ID},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskHandler_GetTask_VisibleToOwnerAndAssignees(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	assignee := createUser(t, env.db, "assignee@example.com", "assignee")
	outsider := createUser(t, env.db, "outsider@example.com", "outsider")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:   "Write report",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.taskService.AssignUsers(task.ID, owner.ID, []uint64{assignee.ID})
	require.NoError(t, err)

	r := env.router()
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	for _, id := range []uint64{owner.ID, assignee.ID} {
		env.actorID = id
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	env.actorID = outsider.ID
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ListTasks_FiltersAndPaginates(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := createUser(t, env.db, "owner@example.com", "owner")
	other := createUser(t, env.db, "other@example.com", "other")
	sprint := createSprint(t, env, owner.ID, "Sprint 1")

	for i := 0; i < 3; i++ {
		_, err := env.taskService.CreateTask(services.CreateTaskInput{
			Title:    fmt.Sprintf("Task %d", i),
			SprintID: &sprint.ID,
			OwnerID:  owner.ID,
		})
		require.NoError(t, err)
	}
	_, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:   "Backlog item",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	_, err = env.taskService.CreateTask(services.CreateTaskInput{
		Title:   "Someone else's task",
		OwnerID: other.ID,
	})
	require.NoError(t, err)

	env.actorID = owner.ID
	r := env.router()

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/tasks?sprint_id=%d&page=1&limit=2", sprint.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 2)
	require.EqualValues(t, 3, response.TotalCount)

	// Without filters the listing stays owner-scoped.
	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.EqualValues(t, 4, response.TotalCount)
}

func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func createSprint(t *testing.T, env *taskTestEnv, ownerID uint64, name string) *models.Sprint {
	t.Helper()

	sprint, err := env.sprintService.CreateSprint(services.CreateSprintInput{
		Name:      name,
		StartDate: mustParseDate(t, "2026-01-05"),
		EndDate:   mustParseDate(t, "2026-01-19"),
		OwnerID:   ownerID,
	})
	require.NoError(t, err)
	return sprint
}
