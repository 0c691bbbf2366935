package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/app/service"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/dchukwu/shoplane-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)

	ctrl := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)

	return router, authService
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register_Success(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "test@example.com",
		Username: "tester",
		Password: "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotNil(t, response["user"])
	assert.NotEmpty(t, response["access_token"])
	assert.NotEmpty(t, response["refresh_token"])

	// The password hash must not leak into the response
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestAuthController_Register_InvalidEmail(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "invalid-email",
		Username: "tester",
		Password: "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("test@example.com", "first", "password123")
	require.NoError(t, err)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "test@example.com",
		Username: "second",
		Password: "otherpassword",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
}

func TestAuthController_Login_Success(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("login@example.com", "login", "password123")
	require.NoError(t, err)

	w := postJSON(router, "/login", LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["access_token"])
	assert.NotEmpty(t, response["refresh_token"])
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("login@example.com", "login", "password123")
	require.NoError(t, err)

	w := postJSON(router, "/login", LoginRequest{
		Email:    "login@example.com",
		Password: "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_GetMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Register("me@example.com", "me", "password123")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")
}
