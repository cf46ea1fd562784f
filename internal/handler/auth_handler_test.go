package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/service"
)

func TestAuthHandler_RegisterLoginAndMe(t *testing.T) {
	router := setupRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "Trader@Example.com",
		"password":   "Password123",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered service.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "trader@example.com", registered.User.Email)
	assert.Equal(t, models.RoleAdmin, registered.User.Role, "first user should be admin")
	assert.NotContains(t, w.Body.String(), "password_hash")

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "trader@example.com", "password": "Password123", "first_name": "A", "last_name": "B",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "weak@example.com", "password": "password", "first_name": "A", "last_name": "B",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrWeakPassword.Error(), env.Message)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "trader@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "trader@example.com", "password": "Password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login service.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", login.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Ada", me.FirstName)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", login.Tokens.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh token must not grant access")
}

func TestAuthHandler_RefreshProfileAndPassword(t *testing.T) {
	router := setupRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "refresh@example.com", "password": "Password123", "first_name": "A", "last_name": "B",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var auth service.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))

	w, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": auth.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var tokens service.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, "Bearer", tokens.TokenType)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": auth.Tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	signUp(t, router, "taken@example.com")
	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/auth/profile", tokens.AccessToken, gin.H{"email": "taken@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = doJSON(t, router, http.MethodPut, "/api/v1/auth/profile", tokens.AccessToken, gin.H{"first_name": "Grace"})
	require.Equal(t, http.StatusOK, w.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "Grace", user.FirstName)
	assert.Equal(t, "B", user.LastName)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password", tokens.AccessToken, gin.H{
		"current_password": "nope", "new_password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password", tokens.AccessToken, gin.H{
		"current_password": "Password123", "new_password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "refresh@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
