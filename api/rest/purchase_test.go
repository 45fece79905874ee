package rest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warchest-gg/server/model"
)

func (e *testEnv) buy(t *testing.T, body gin.H) *responseRec {
	t.Helper()
	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/player/%d/buy", e.player.ID), body)
	return &responseRec{w.Code, decodeBody(t, w)}
}

type responseRec struct {
	code int
	body map[string]interface{}
}

func TestBuy_Approved(t *testing.T) {
	e := setupEnv(t)
	res := e.buy(t, gin.H{"item_id": "barbarian"})
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "approved", res.body["outcome"])
	assert.Equal(t, float64(50), res.body["price"])
	assert.Equal(t, float64(99950), res.body["budget"])
}

func TestBuy_InsufficientBudgetIs402(t *testing.T) {
	e := setupEnv(t)
	require.NoError(t, e.db.Model(&model.Team{}).Where("id = ?", e.team.ID).
		Update("budget", 10).Error)

	res := e.buy(t, gin.H{"item_id": "barbarian"})
	assert.Equal(t, http.StatusPaymentRequired, res.code)
	assert.Equal(t, "rejected", res.body["outcome"])
	assert.Equal(t, "insufficient_budget", res.body["reason"])
	assert.Equal(t, "No budget", res.body["message"])
}

func TestBuy_CapViolationIs409(t *testing.T) {
	e := setupEnv(t)

	// Four sieges: the third fills the slot cap, the fourth conflicts.
	for i := 0; i < 3; i++ {
		res := e.buy(t, gin.H{"item_id": "wall-wrecker"})
		require.Equal(t, http.StatusOK, res.code)
	}
	res := e.buy(t, gin.H{"item_id": "wall-wrecker"})
	assert.Equal(t, http.StatusConflict, res.code)
	assert.Equal(t, "sieges_full", res.body["reason"])
	assert.Equal(t, "Sieges Full", res.body["message"])
}

func TestBuy_PetNeedsHeroSelection(t *testing.T) {
	e := setupEnv(t)
	res := e.buy(t, gin.H{"item_id": "lassi"})
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "needs_hero_selection", res.body["outcome"])
	_, hasPurchase := res.body["purchase"]
	assert.False(t, hasPurchase)

	res = e.buy(t, gin.H{"item_id": "lassi", "target_hero": "BK"})
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "approved", res.body["outcome"])
}

func TestBuy_UnknownItem(t *testing.T) {
	e := setupEnv(t)
	res := e.buy(t, gin.H{"item_id": "kraken"})
	assert.Equal(t, http.StatusBadRequest, res.code)
}

func TestBuy_UnknownPlayer(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, "/api/player/999/buy", gin.H{"item_id": "barbarian"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSell(t *testing.T) {
	e := setupEnv(t)
	res := e.buy(t, gin.H{"item_id": "giant"})
	require.Equal(t, http.StatusOK, res.code)

	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/player/%d/sell", e.player.ID),
		gin.H{"item_id": "giant"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(250), body["refund"])
	assert.Equal(t, float64(100000), body["budget"])
}

func TestSell_NothingOwned(t *testing.T) {
	e := setupEnv(t)
	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/player/%d/sell", e.player.ID),
		gin.H{"item_id": "giant"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClear(t *testing.T) {
	e := setupEnv(t)
	e.buy(t, gin.H{"item_id": "barbarian"})
	e.buy(t, gin.H{"item_id": "barbarian"})

	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/player/%d/clear", e.player.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(125), body["refund"])
	assert.Equal(t, float64(100000), body["budget"])
}

func TestReset_RefundsAndFreesSlot(t *testing.T) {
	e := setupEnv(t)
	e.buy(t, gin.H{"item_id": "barbarian"})
	e.buy(t, gin.H{"item_id": "barbarian"})

	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/player/%d/reset", e.player.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(125), body["refund"])
	assert.Equal(t, float64(100000), body["budget"])

	err := e.db.First(&model.Player{}, e.player.ID).Error
	assert.Error(t, err)

	// The name is free again.
	w = e.do(t, http.MethodPost, "/api/lobby/join", gin.H{
		"join_code": e.lob.JoinCode, "name": "alice", "team_id": e.team.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestArmy_IncludesLinkAndUsage(t *testing.T) {
	e := setupEnv(t)
	e.buy(t, gin.H{"item_id": "barbarian"})

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/player/%d/army", e.player.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "https://link.clashofclans.com/en?action=CopyArmy&army=u1x0",
		body["link"])
	purchases := body["purchases"].([]interface{})
	require.Len(t, purchases, 1)
}
