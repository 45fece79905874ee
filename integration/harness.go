package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apirest "github.com/warchest-gg/server/api/rest"
	"github.com/warchest-gg/server/api/sse"
	"github.com/warchest-gg/server/audit"
	"github.com/warchest-gg/server/cache"
	"github.com/warchest-gg/server/config"
	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/ledger"
	"github.com/warchest-gg/server/game/lobby"
	mw "github.com/warchest-gg/server/middleware"
	"github.com/warchest-gg/server/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const testAdminKey = "integration-admin-key"

// TestServer wraps a real HTTP server with every subsystem wired
// together the same way main.go does it.
type TestServer struct {
	DB     *gorm.DB
	Cache  cache.Cache
	PubSub cache.PubSub
	Lobby  *lobby.Service
	Ledger *ledger.Service
	Server *httptest.Server
	URL    string
}

// NewTestServer creates a fully wired server for integration testing.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c, pubsub := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	gameCfg := config.GameConfig{
		DefaultBudget:     100000,
		MaxTeamsPerLobby:  8,
		MaxPlayersPerTeam: 10,
	}

	cat := catalog.Default()
	lobbySvc := lobby.NewService(db, c, pubsub, gameCfg, logger)
	ledgerSvc := ledger.NewService(db, cat, lobbySvc, pubsub, logger)
	auditSvc := audit.New(db, logger)
	t.Cleanup(func() { auditSvc.Stop(context.Background()) })

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(1000), 2000))
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	apirest.Register(r, &apirest.Handlers{
		Lobby:    apirest.NewLobbyHandler(lobbySvc, auditSvc),
		Purchase: apirest.NewPurchaseHandler(ledgerSvc, cat, auditSvc),
		Referee:  apirest.NewRefereeHandler(cat, auditSvc),
		Catalog:  apirest.NewCatalogHandler(cat),
		Admin:    apirest.NewAdminHandler(db, lobbySvc),
	}, testAdminKey)

	sseH := sse.NewHandler(pubsub, logger)
	r.GET("/sse", sseH.ServeSSE)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &TestServer{
		DB:     db,
		Cache:  c,
		PubSub: pubsub,
		Lobby:  lobbySvc,
		Ledger: ledgerSvc,
		Server: srv,
		URL:    srv.URL,
	}
}

// PostJSON sends a JSON body and returns status plus decoded response.
func (ts *TestServer) PostJSON(t *testing.T, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode, decodeJSON(t, resp.Body)
}

// GetJSON fetches a path and returns status plus decoded response.
func (ts *TestServer) GetJSON(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode, decodeJSON(t, resp.Body)
}

func decodeJSON(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// CreateLobby provisions a lobby through the API and returns its ID,
// join code, and team IDs.
func (ts *TestServer) CreateLobby(t *testing.T, teams ...string) (int64, string, []int64) {
	t.Helper()
	status, body := ts.PostJSON(t, "/api/lobby", map[string]interface{}{
		"name": "Integration War", "passcode": "modpass", "teams": teams,
	})
	require.Equal(t, http.StatusCreated, status)

	lob := body["lobby"].(map[string]interface{})
	lobbyID := int64(lob["id"].(float64))
	joinCode := lob["join_code"].(string)

	teamList := body["teams"].([]interface{})
	teamIDs := make([]int64, 0, len(teamList))
	for _, raw := range teamList {
		teamIDs = append(teamIDs, int64(raw.(map[string]interface{})["id"].(float64)))
	}
	return lobbyID, joinCode, teamIDs
}

// JoinPlayer joins a named player to a team and returns the player ID.
func (ts *TestServer) JoinPlayer(t *testing.T, joinCode, name string, teamID int64) int64 {
	t.Helper()
	status, body := ts.PostJSON(t, "/api/lobby/join", map[string]interface{}{
		"join_code": joinCode, "name": name, "team_id": teamID,
	})
	require.Equal(t, http.StatusCreated, status)
	player := body["player"].(map[string]interface{})
	return int64(player["id"].(float64))
}

// Buy purchases one item for a player through the API.
func (ts *TestServer) Buy(t *testing.T, playerID int64, body map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	return ts.PostJSON(t, fmt.Sprintf("/api/player/%d/buy", playerID), body)
}
