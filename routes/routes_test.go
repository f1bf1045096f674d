package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trainerbot/handlers"
	"trainerbot/models"
	"trainerbot/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testJWTSecret     = "test-secret"
	testAdminPassword = "letmein"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}, &models.Attempt{}))

	userService := services.NewUserService(db)
	taskService := services.NewTaskService(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	hub := services.NewHub(userService)
	go hub.Run()

	authHandler := handlers.NewAuthHandler(testJWTSecret, string(hash))
	taskHandler := handlers.NewTaskHandler(taskService)
	statsHandler := handlers.NewStatsHandler(userService)

	router := gin.New()
	SetupRoutes(router, authHandler, taskHandler, statsHandler, hub, testJWTSecret)

	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{"password": testAdminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskEndpointsRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/tasks", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/tasks", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndListTasks(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/tasks", gin.H{
		"question":       "2 + 2 ?",
		"correct_answer": "4",
		"difficulty":     "easy",
		"points":         1,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	w = doJSON(t, router, http.MethodGet, "/api/tasks", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)
}

func TestCreateTaskRejectsUnknownDifficulty(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/tasks", gin.H{
		"question":       "q",
		"correct_answer": "a",
		"difficulty":     "impossible",
		"points":         1,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaderboardEndpoint(t *testing.T) {
	router, db := newTestRouter(t)

	users := []models.User{
		{TelegramID: 1, Username: "alice", Score: 3},
		{TelegramID: 2, Username: "", Score: 5},
	}
	require.NoError(t, db.Create(&users).Error)

	w := doJSON(t, router, http.MethodGet, "/api/leaderboard?limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []services.LeaderboardEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, services.NoUsernamePlaceholder, entries[0].Username)
	assert.Equal(t, 5, entries[0].Score)
}

func TestUserStatsEndpoint(t *testing.T) {
	router, db := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/users/42/stats", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, db.Create(&models.User{TelegramID: 42, Username: "alice", Score: 2}).Error)

	w = doJSON(t, router, http.MethodGet, "/api/users/42/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats services.UserStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Score)
	assert.Equal(t, 0, stats.TotalAttempts)
}
