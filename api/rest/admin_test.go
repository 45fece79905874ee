package rest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warchest-gg/server/model"
	mw "github.com/warchest-gg/server/middleware"
)

func (e *testEnv) adminDo(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(mw.AdminKeyHeader, "test-admin-key")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestAdmin_RequiresKey(t *testing.T) {
	e := setupEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/lobbies", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_Lobbies(t *testing.T) {
	e := setupEnv(t)
	w := e.adminDo(t, http.MethodGet, "/api/admin/lobbies")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	lobbies := body["lobbies"].([]interface{})
	require.Len(t, lobbies, 1)
}

func TestAdmin_ForceClose(t *testing.T) {
	e := setupEnv(t)
	w := e.adminDo(t, http.MethodPost, fmt.Sprintf("/api/admin/lobby/%d/close", e.lob.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var lob model.Lobby
	require.NoError(t, e.db.First(&lob, e.lob.ID).Error)
	assert.Equal(t, model.LobbyClosed, lob.Status)

	w = e.adminDo(t, http.MethodPost, "/api/admin/lobby/999/close")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_Sweep(t *testing.T) {
	e := setupEnv(t)
	past := time.Now().Add(-3 * time.Hour)
	require.NoError(t, e.db.Model(&model.Lobby{}).Where("id = ?", e.lob.ID).
		Update("last_active_at", past).Error)

	w := e.adminDo(t, http.MethodPost, "/api/admin/sweep?idle_minutes=60")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["closed"])
}
