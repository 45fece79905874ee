package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/warchest-gg/server/audit"
	"github.com/warchest-gg/server/config"
	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/ledger"
	"github.com/warchest-gg/server/game/lobby"
	"github.com/warchest-gg/server/model"
	"github.com/warchest-gg/server/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	lobby  *lobby.Service
	ledger *ledger.Service

	lob    *model.Lobby
	team   *model.Team
	player *model.Player
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c, ps := testutil.SetupTestCache(t)
	logger := zap.NewNop()
	cfg := config.GameConfig{DefaultBudget: 100000, MaxTeamsPerLobby: 8, MaxPlayersPerTeam: 10}

	cat := catalog.Default()
	lobbySvc := lobby.NewService(db, c, ps, cfg, logger)
	ledgerSvc := ledger.NewService(db, cat, lobbySvc, ps, logger)
	auditSvc := audit.New(db, logger)
	t.Cleanup(func() { auditSvc.Stop(context.Background()) })

	router := gin.New()
	Register(router, &Handlers{
		Lobby:    NewLobbyHandler(lobbySvc, auditSvc),
		Purchase: NewPurchaseHandler(ledgerSvc, cat, auditSvc),
		Referee:  NewRefereeHandler(cat, auditSvc),
		Catalog:  NewCatalogHandler(cat),
		Admin:    NewAdminHandler(db, lobbySvc),
	}, "test-admin-key")

	env := &testEnv{router: router, db: db, lobby: lobbySvc, ledger: ledgerSvc}

	ctx := context.Background()
	lob, teams, err := lobbySvc.CreateLobby(ctx, "War", "p", []string{"Red"})
	require.NoError(t, err)
	player, err := lobbySvc.Join(ctx, lob.JoinCode, "alice", teams[0].ID)
	require.NoError(t, err)
	env.lob, env.team, env.player = lob, teams[0], player
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
