//nolint:noctx // Test file uses http.NewRequest for simplicity
package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	progressservice "github.com/prompty-labs/prompty-backend/internal/service/progress"

	"github.com/prompty-labs/prompty-backend/internal/api/middleware"
	"github.com/prompty-labs/prompty-backend/internal/catalog"
	"github.com/prompty-labs/prompty-backend/internal/models"
	"github.com/prompty-labs/prompty-backend/internal/session"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// Mock Progress Service
type mockProgressService struct {
	progress     map[uint][]models.SkillProgress
	achievements map[uint][]progressservice.UnlockedAchievement
	result       *progressservice.Result
	recordErr    error
}

func newMockProgressService() *mockProgressService {
	return &mockProgressService{
		progress:     make(map[uint][]models.SkillProgress),
		achievements: make(map[uint][]progressservice.UnlockedAchievement),
	}
}

func (m *mockProgressService) RecordCompletion(ctx context.Context, userID uint, skillPath, skillNode string, completed bool) (*progressservice.Result, error) {
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	return m.result, nil
}

func (m *mockProgressService) Progress(ctx context.Context, userID uint) ([]models.SkillProgress, error) {
	return m.progress[userID], nil
}

func (m *mockProgressService) Achievements(ctx context.Context, userID uint) ([]progressservice.UnlockedAchievement, error) {
	return m.achievements[userID], nil
}

// Mock Session Store
type mockSessionStore struct {
	sessions map[string]uint
}

func (m *mockSessionStore) Create(ctx context.Context, userID uint) (string, error) {
	token := fmt.Sprintf("token-%d", userID)
	m.sessions[token] = userID
	return token, nil
}

func (m *mockSessionStore) Get(ctx context.Context, token string) (uint, error) {
	userID, exists := m.sessions[token]
	if !exists {
		return 0, session.ErrNotFound
	}
	return userID, nil
}

func (m *mockSessionStore) Destroy(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

// Test Setup

func setupTestHandler() (*Handler, *mockProgressService, *mockSessionStore) {
	service := newMockProgressService()
	sessions := &mockSessionStore{sessions: make(map[string]uint)}
	log := logger.New("debug", "text", "stdout")

	handler := NewHandlerWithInterfaces(service, log)
	return handler, service, sessions
}

func setupRouter(handler *Handler, sessions *mockSessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("debug", "text", "stdout")
	requireSession := middleware.RequireSession(sessions, "prompty_session", log)

	api := router.Group("/api/user")
	api.Use(requireSession)
	api.GET("/progress", handler.GetProgress)
	api.POST("/progress", handler.UpdateProgress)
	api.GET("/achievements", handler.GetAchievements)

	return router
}

func authedRequest(t *testing.T, sessions *mockSessionStore, method, url string, body *bytes.Buffer) *http.Request {
	t.Helper()

	token, err := sessions.Create(context.Background(), 1)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, http.NoBody)
	}
	req.AddCookie(&http.Cookie{Name: "prompty_session", Value: token})
	return req
}

// Tests

func TestGetProgress_Success(t *testing.T) {
	handler, service, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	service.progress[1] = []models.SkillProgress{
		{ID: 1, UserID: 1, SkillPath: "prompting-basics", SkillNode: "prompt-structure", Completed: true},
		{ID: 2, UserID: 1, SkillPath: "prompting-basics", SkillNode: "context-setting", Completed: false},
	}

	req := authedRequest(t, sessions, "GET", "/api/user/progress", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(2), response["total"])
}

func TestGetProgress_NoSession(t *testing.T) {
	handler, _, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	req, _ := http.NewRequest("GET", "/api/user/progress", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProgress_WithXP(t *testing.T) {
	handler, service, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	service.result = &progressservice.Result{
		Progress: &models.SkillProgress{ID: 1, UserID: 1, SkillPath: "prompting-basics", SkillNode: "prompt-structure", Completed: true},
		User:     &models.User{ID: 1, Level: 1, XP: 100},
		EarnedXP: 100,
		NewAchievements: []catalog.Achievement{
			{ID: "first-steps", Title: "First Steps"},
		},
	}

	body := jsonBody(t, map[string]interface{}{
		"skill_path": "prompting-basics",
		"skill_node": "prompt-structure",
		"completed":  true,
	})
	req := authedRequest(t, sessions, "POST", "/api/user/progress", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	assert.NotNil(t, response["progress"])
	assert.NotNil(t, response["user"])
	assert.Equal(t, float64(100), response["earned_xp"])
	assert.Len(t, response["new_achievements"], 1)
}

func TestUpdateProgress_NoXP(t *testing.T) {
	handler, service, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	service.result = &progressservice.Result{
		Progress: &models.SkillProgress{ID: 1, UserID: 1, SkillPath: "prompting-basics", SkillNode: "unknown-skill", Completed: true},
	}

	body := jsonBody(t, map[string]interface{}{
		"skill_path": "prompting-basics",
		"skill_node": "unknown-skill",
		"completed":  true,
	})
	req := authedRequest(t, sessions, "POST", "/api/user/progress", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	assert.NotNil(t, response["progress"])
	assert.NotContains(t, response, "user")
	assert.NotContains(t, response, "earned_xp")
	assert.NotContains(t, response, "new_achievements")
}

func TestUpdateProgress_ExplicitFalseCompleted(t *testing.T) {
	handler, service, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	service.result = &progressservice.Result{
		Progress: &models.SkillProgress{ID: 1, UserID: 1, SkillPath: "prompting-basics", SkillNode: "prompt-structure", Completed: false},
	}

	// completed: false must pass validation, not be rejected as missing.
	body := jsonBody(t, map[string]interface{}{
		"skill_path": "prompting-basics",
		"skill_node": "prompt-structure",
		"completed":  false,
	})
	req := authedRequest(t, sessions, "POST", "/api/user/progress", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateProgress_InvalidPayload(t *testing.T) {
	handler, _, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing skill_path", map[string]interface{}{"skill_node": "prompt-structure", "completed": true}},
		{"missing skill_node", map[string]interface{}{"skill_path": "prompting-basics", "completed": true}},
		{"missing completed", map[string]interface{}{"skill_path": "prompting-basics", "skill_node": "prompt-structure"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(t, sessions, "POST", "/api/user/progress", jsonBody(t, tt.payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateProgress_ServiceValidationError(t *testing.T) {
	handler, service, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	service.recordErr = progressservice.ErrInvalidInput

	body := jsonBody(t, map[string]interface{}{
		"skill_path": "prompting-basics",
		"skill_node": "prompt-structure",
		"completed":  true,
	})
	req := authedRequest(t, sessions, "POST", "/api/user/progress", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAchievements_Success(t *testing.T) {
	handler, service, sessions := setupTestHandler()
	router := setupRouter(handler, sessions)

	service.achievements[1] = []progressservice.UnlockedAchievement{
		{
			UserAchievement: models.UserAchievement{ID: 1, UserID: 1, AchievementID: "first-steps"},
			Title:           "First Steps",
			Description:     "Complete your first skill",
		},
	}

	req := authedRequest(t, sessions, "GET", "/api/user/achievements", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	assert.Equal(t, float64(1), response["total"])
	achievements := response["achievements"].([]interface{})
	first := achievements[0].(map[string]interface{})
	assert.Equal(t, "First Steps", first["title"])
	assert.Equal(t, "Complete your first skill", first["description"])
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return bytes.NewBuffer(data)
}
