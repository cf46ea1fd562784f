package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/internal/service"
)

func TestSessionHandler_Status(t *testing.T) {
	router := setupRouter(t)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/sessions/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status service.SessionStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Len(t, status.Markets, 4)
	assert.NotEmpty(t, status.JournalSession)
}

func TestSessionHandler_Stream(t *testing.T) {
	srv := httptest.NewServer(setupRouter(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < 2; i++ {
		var status service.SessionStatus
		require.NoError(t, conn.ReadJSON(&status), "push %d", i)
		assert.Len(t, status.Markets, 4)
	}
}
