package rest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbyCreate(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, "/api/lobby", gin.H{
		"name": "Friday War", "passcode": "s3cret", "teams": []string{"Red", "Blue"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	lob := body["lobby"].(map[string]interface{})
	assert.NotEmpty(t, lob["join_code"])
	assert.Len(t, body["teams"], 2)
	// The passcode hash must never leak.
	_, leaked := lob["ModeratorHash"]
	assert.False(t, leaked)
}

func TestLobbyCreate_MissingFields(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, "/api/lobby", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLobbyJoin(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, "/api/lobby/join", gin.H{
		"join_code": e.lob.JoinCode, "name": "bob", "team_id": e.team.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	player := body["player"].(map[string]interface{})
	assert.Equal(t, "bob", player["name"])
}

func TestLobbyJoin_BadCode(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, "/api/lobby/join", gin.H{
		"join_code": "NOPE42", "name": "bob", "team_id": e.team.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLobbyState(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/lobby/%d", e.lob.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	teams := body["teams"].([]interface{})
	require.Len(t, teams, 1)
	team := teams[0].(map[string]interface{})
	players := team["players"].([]interface{})
	require.Len(t, players, 1)
}

func TestLobbyState_NotFound(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodGet, "/api/lobby/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLobbySetBudget(t *testing.T) {
	e := setupEnv(t)
	path := fmt.Sprintf("/api/lobby/%d/budget", e.lob.ID)

	w := e.do(t, http.MethodPost, path, gin.H{"passcode": "p", "budget": 50000})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, path, gin.H{"passcode": "wrong", "budget": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLobbyAddTeam(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/lobby/%d/teams", e.lob.ID),
		gin.H{"passcode": "p", "name": "Blue"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	team := body["team"].(map[string]interface{})
	assert.Equal(t, "Blue", team["name"])
}

func TestLobbyClose(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/lobby/%d/close", e.lob.ID),
		gin.H{"passcode": "p"})
	require.Equal(t, http.StatusOK, w.Code)

	// Joining a closed lobby conflicts.
	w = e.do(t, http.MethodPost, "/api/lobby/join", gin.H{
		"join_code": e.lob.JoinCode, "name": "late", "team_id": e.team.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLobbyLeaderboard(t *testing.T) {
	e := setupEnv(t)

	// A purchase refreshes the leaderboard.
	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/player/%d/buy", e.player.ID),
		gin.H{"item_id": "dragon"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/lobby/%d/leaderboard", e.lob.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	rows := body["leaderboard"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Red", row["team"])
	assert.Equal(t, float64(1500), row["spent"])
}

func TestLobbyBudgets(t *testing.T) {
	e := setupEnv(t)

	// A purchase refreshes the budget snapshot hash.
	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/player/%d/buy", e.player.ID),
		gin.H{"item_id": "barbarian"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/lobby/%d/budgets", e.lob.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	budgets := body["budgets"].(map[string]interface{})
	assert.Equal(t, float64(99950), budgets[fmt.Sprintf("%d", e.team.ID)])
}
