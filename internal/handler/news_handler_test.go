package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/service"
)

func TestNewsHandler(t *testing.T) {
	router := setupRouter(t)
	admin := signUp(t, router, "admin@example.com")
	member := signUp(t, router, "member@example.com")

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/news/refresh", member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/news/refresh", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result service.RefreshResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "mock", result.Source)
	assert.Positive(t, result.Events)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/news/calendar?currencies=USD,EUR&impact=High", member, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Events []models.EconomicEvent `json:"events"`
		Count  int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, len(page.Events), page.Count)
	for _, e := range page.Events {
		assert.Contains(t, []string{"USD", "EUR"}, e.Currency)
		assert.Equal(t, models.ImpactHigh, e.Impact)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/news/calendar?impact=Severe", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/news/calendar?date_from=tomorrow", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/news/calendar?date_from=2024-02-10&date_to=2024-02-01", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/news/calendar", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
