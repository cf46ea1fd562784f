package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/internal/config"
	"github.com/trade-journal/internal/database"
	"github.com/trade-journal/internal/middleware"
	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/repository"
	"github.com/trade-journal/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	auth := service.NewAuthService(repository.NewUserRepository(db), config.JWTConfig{
		Secret:              "mw-secret",
		RefreshSecret:       "mw-refresh",
		AccessExpireMinutes: 5,
		RefreshExpireHours:  1,
	})

	router := gin.New()
	router.Use(middleware.RequestLoggerMiddleware())
	protected := router.Group("/", middleware.AuthMiddleware(auth))
	protected.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":         middleware.GetUserID(c),
			"email":      middleware.GetEmail(c),
			"role":       middleware.GetRole(c),
			"request_id": middleware.GetRequestID(c),
		})
	})
	protected.GET("/admin", middleware.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router, auth
}

func register(t *testing.T, auth *service.AuthService, email string) string {
	t.Helper()
	res, err := auth.Register(&service.RegisterRequest{
		Email: email, Password: "Password123", FirstName: "M", LastName: "W",
	})
	require.NoError(t, err)
	return res.Tokens.AccessToken
}

func get(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router, auth := setup(t)
	token := register(t, auth, "first@example.com")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, "/whoami", tt.header)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := get(router, "/whoami", "Bearer "+token)
	assert.Contains(t, w.Body.String(), `"email":"first@example.com"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRequireRole(t *testing.T) {
	router, auth := setup(t)
	admin := register(t, auth, "admin@example.com")
	member := register(t, auth, "member@example.com")

	assert.Equal(t, http.StatusNoContent, get(router, "/admin", "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/admin", "Bearer "+member).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, auth := setup(t)
	token := register(t, auth, "trace@example.com")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
	assert.Contains(t, w.Body.String(), `"request_id":"req-42"`)
}
