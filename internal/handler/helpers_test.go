package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/internal/config"
	"github.com/trade-journal/internal/database"
	"github.com/trade-journal/internal/handler"
	"github.com/trade-journal/internal/middleware"
	"github.com/trade-journal/internal/newsfeed/mock"
	"github.com/trade-journal/internal/repository"
	"github.com/trade-journal/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// setupRouter wires every handler against a fresh in-memory database
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	capitalRepo := repository.NewCapitalRepository(db)
	eventRepo := repository.NewEconomicEventRepository(db)

	authService := service.NewAuthService(userRepo, config.JWTConfig{
		Secret:              "test-secret",
		RefreshSecret:       "test-refresh-secret",
		AccessExpireMinutes: 15,
		RefreshExpireHours:  24,
		Issuer:              "test",
	})
	analyticsService := service.NewAnalyticsService(tradeRepo, capitalRepo, nil, time.Minute)
	capitalService := service.NewCapitalService(capitalRepo, tradeRepo, time.UTC, analyticsService)
	tradeService := service.NewTradeService(tradeRepo, capitalService, analyticsService)
	newsService := service.NewNewsService(eventRepo, nil, mock.NewGenerator(1), nil)

	router := gin.New()
	router.Use(middleware.RequestLoggerMiddleware())
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/api/v1")
	handler.NewAuthHandler(authService).RegisterRoutes(v1, authMiddleware)
	handler.NewTradeHandler(tradeService).RegisterRoutes(v1, authMiddleware)
	handler.NewCapitalHandler(capitalService).RegisterRoutes(v1, authMiddleware)
	handler.NewAnalyticsHandler(analyticsService).RegisterRoutes(v1, authMiddleware)
	handler.NewNewsHandler(newsService).RegisterRoutes(v1, authMiddleware)
	handler.NewCalculatorHandler().RegisterRoutes(v1)
	handler.NewSessionHandler(service.NewSessionService(), 50*time.Millisecond).RegisterRoutes(v1)
	return router
}

// doJSON sends body as JSON and decodes the response envelope
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// signUp registers a user and returns the access token
func signUp(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      email,
		"password":   "Password123",
		"first_name": "Test",
		"last_name":  "Trader",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data service.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Tokens.AccessToken
}
