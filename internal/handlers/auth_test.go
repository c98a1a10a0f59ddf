package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamhub/teamhub-api/internal/constants"
	"github.com/teamhub/teamhub-api/internal/database"
	"github.com/teamhub/teamhub-api/internal/dto"
	"github.com/teamhub/teamhub-api/internal/models"
	"github.com/teamhub/teamhub-api/internal/repository"
	"github.com/teamhub/teamhub-api/internal/services"
	"github.com/teamhub/teamhub-api/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func openTestDB(t *testing.T) *gorm.DB {
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
		&models.Sprint{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Project{},
		&models.PasswordResetToken{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db := openTestDB(t)
	utils.SetJWTSecret("test-secret")

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func authRouter(env authTestEnv) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/register", env.handler.Register)
	r.POST("/api/auth/login", env.handler.Login)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, r, http.MethodPost, path, payload)
}

func putJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, r, http.MethodPut, path, payload)
}

func patchJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, r, http.MethodPatch, path, payload)
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "Alice@Example.com",
		"name":     "Alice",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User        dto.UserDTO `json:"user"`
		AccessToken string      `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice@example.com", response.User.Email)
	require.Equal(t, "alice", response.User.Username)
	require.NotEmpty(t, response.AccessToken)
}

func TestAuthHandler_Register_DerivesUniqueUsername(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	first := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "sam@one.example",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "sam@two.example",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, second.Code)

	var response struct {
		User dto.UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &response))
	require.Equal(t, "sam1", response.User.Username)
}

func TestAuthHandler_Register_DuplicateEmailConflicts(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	first := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "dup@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	// Same address with different casing must still collide.
	second := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "DUP@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusConflict, second.Code)
}

func TestAuthHandler_Register_RejectsShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "short@example.com",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_ByEmailOrUsername(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	_, err := env.authService.Register(services.RegisterInput{
		Email:    "existing@example.com",
		Username: "existing",
		Password: "supersecret",
	})
	require.NoError(t, err)

	byEmail := postJSON(t, r, "/api/auth/login", map[string]string{
		"identifier": "existing@example.com",
		"password":   "supersecret",
	})
	require.Equal(t, http.StatusOK, byEmail.Code)
	require.NotEmpty(t, byEmail.Result().Cookies(), "expected session cookie to be set")

	byUsername := postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "EXISTING",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, byUsername.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	r := authRouter(env)

	_, err := env.authService.Register(services.RegisterInput{
		Email:    "victim@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"identifier": "victim@example.com",
		"password":   "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Email:    "current@example.com",
		Username: "current-user",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Username, response.Username)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Email:    "rotate@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	err = env.authService.ChangePassword(user.ID, "wrong-old", "newpassword")
	require.ErrorIs(t, err, services.ErrWrongPassword)

	err = env.authService.ChangePassword(user.ID, "supersecret", "newpassword")
	require.NoError(t, err)

	_, err = env.authService.Login(services.LoginInput{
		Identifier: "rotate@example.com",
		Password:   "newpassword",
	})
	require.NoError(t, err)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Email:    "reset@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Unknown emails succeed without a token so accounts cannot be probed.
	token, err := env.authService.RequestPasswordReset("nobody@example.com")
	require.NoError(t, err)
	require.Empty(t, token)

	token, err = env.authService.RequestPasswordReset("reset@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = env.authService.ConfirmPasswordReset(token, "freshpassword")
	require.NoError(t, err)

	_, err = env.authService.Login(services.LoginInput{
		Identifier: "reset@example.com",
		Password:   "freshpassword",
	})
	require.NoError(t, err)

	// Tokens are single-use.
	err = env.authService.ConfirmPasswordReset(token, "anotherpassword")
	require.ErrorIs(t, err, services.ErrInvalidResetToken)
}
