package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warchest-gg/server/audit"
	"github.com/warchest-gg/server/game/lobby"
	mw "github.com/warchest-gg/server/middleware"
)

// LobbyHandler serves lobby lifecycle endpoints.
type LobbyHandler struct {
	lobby *lobby.Service
	audit *audit.Service
}

func NewLobbyHandler(lobbySvc *lobby.Service, auditSvc *audit.Service) *LobbyHandler {
	return &LobbyHandler{lobby: lobbySvc, audit: auditSvc}
}

type createLobbyRequest struct {
	Name     string   `json:"name" binding:"required"`
	Passcode string   `json:"passcode" binding:"required"`
	Teams    []string `json:"teams" binding:"required"`
}

// Create opens a new lobby with its initial teams.
// POST /api/lobby
func (h *LobbyHandler) Create(c *gin.Context) {
	var req createLobbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lob, teams, err := h.lobby.CreateLobby(c.Request.Context(), req.Name, req.Passcode, req.Teams)
	if err != nil {
		lobbyError(c, err)
		return
	}

	lobbyID := lob.ID
	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		LobbyID: &lobbyID,
		Action:  "lobby_create",
		Request: gin.H{"name": req.Name, "teams": req.Teams},
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusCreated, gin.H{"lobby": lob, "teams": teams})
}

type joinRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	TeamID   int64  `json:"team_id" binding:"required"`
}

// Join adds a player to a team via the lobby's join code.
// POST /api/lobby/join
func (h *LobbyHandler) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.lobby.Join(c.Request.Context(), req.JoinCode, req.Name, req.TeamID)
	if err != nil {
		lobbyError(c, err)
		return
	}

	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		LobbyID:  &player.LobbyID,
		PlayerID: &player.ID,
		TeamID:   &player.TeamID,
		Action:   "lobby_join",
		Request:  gin.H{"name": req.Name},
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusCreated, gin.H{"player": player})
}

// State returns the lobby with its teams and players.
// GET /api/lobby/:id
func (h *LobbyHandler) State(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	state, err := h.lobby.State(c.Request.Context(), lobbyID)
	if err != nil {
		lobbyError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type setBudgetRequest struct {
	Passcode string `json:"passcode" binding:"required"`
	Budget   int64  `json:"budget" binding:"required"`
}

// SetBudget sets every team's budget ceiling. Moderator only.
// POST /api/lobby/:id/budget
func (h *LobbyHandler) SetBudget(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req setBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lobby.SetBudget(c.Request.Context(), lobbyID, req.Passcode, req.Budget); err != nil {
		lobbyError(c, err)
		return
	}

	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		LobbyID: &lobbyID,
		Action:  "budget_set",
		Request: gin.H{"budget": req.Budget},
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type addTeamRequest struct {
	Passcode string `json:"passcode" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// AddTeam appends a team to the lobby. Moderator only.
// POST /api/lobby/:id/teams
func (h *LobbyHandler) AddTeam(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req addTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.lobby.AddTeam(c.Request.Context(), lobbyID, req.Passcode, req.Name)
	if err != nil {
		lobbyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"team": team})
}

type closeRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// Close ends the lobby. Moderator only.
// POST /api/lobby/:id/close
func (h *LobbyHandler) Close(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lobby.Close(c.Request.Context(), lobbyID, req.Passcode); err != nil {
		lobbyError(c, err)
		return
	}

	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		LobbyID: &lobbyID,
		Action:  "lobby_close",
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Budgets returns each team's remaining budget, served from the cached
// snapshot hash. Cheap enough for clients to poll between SSE events.
// GET /api/lobby/:id/budgets
func (h *LobbyHandler) Budgets(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	budgets, err := h.lobby.Budgets(c.Request.Context(), lobbyID)
	if err != nil {
		lobbyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// Leaderboard returns teams ordered by spend, highest first.
// GET /api/lobby/:id/leaderboard
func (h *LobbyHandler) Leaderboard(c *gin.Context) {
	lobbyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	entries, err := h.lobby.Leaderboard(c.Request.Context(), lobbyID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
		return
	}
	type row struct {
		Team  string `json:"team"`
		Spent int64  `json:"spent"`
	}
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{Team: e.Member, Spent: int64(e.Score)})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

func lobbyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lobby.ErrLobbyNotFound), errors.Is(err, lobby.ErrTeamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, lobby.ErrBadPasscode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, lobby.ErrLobbyClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, lobby.ErrTooManyTeams), errors.Is(err, lobby.ErrTeamFull),
		errors.Is(err, lobby.ErrNoTeams):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
