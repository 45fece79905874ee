package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warchest-gg/server/audit"
	"github.com/warchest-gg/server/game/army"
	"github.com/warchest-gg/server/game/armylink"
	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/ledger"
	mw "github.com/warchest-gg/server/middleware"
)

// PurchaseHandler serves the buy/sell/army endpoints for one player.
type PurchaseHandler struct {
	ledger *ledger.Service
	cat    *catalog.Catalog
	audit  *audit.Service
}

func NewPurchaseHandler(ledgerSvc *ledger.Service, cat *catalog.Catalog, auditSvc *audit.Service) *PurchaseHandler {
	return &PurchaseHandler{ledger: ledgerSvc, cat: cat, audit: auditSvc}
}

type buyRequest struct {
	ItemID     string `json:"item_id" binding:"required"`
	ClanCastle bool   `json:"clan_castle"`
	TargetHero string `json:"target_hero"`
}

func outcomeString(o army.Outcome) string {
	switch o {
	case army.Approved:
		return "approved"
	case army.NeedsHeroSelection:
		return "needs_hero_selection"
	default:
		return "rejected"
	}
}

// Buy purchases one copy of an item for the player.
// POST /api/player/:id/buy
func (h *PurchaseHandler) Buy(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.ledger.Buy(c.Request.Context(), playerID, ledger.BuyRequest{
		ItemID:     req.ItemID,
		ClanCastle: req.ClanCastle,
		TargetHero: catalog.Hero(req.TargetHero),
	})
	if err != nil {
		ledgerError(c, err)
		return
	}

	body := gin.H{
		"outcome": outcomeString(res.Decision.Outcome),
		"budget":  res.RemainingBudget,
	}
	status := http.StatusOK
	switch res.Decision.Outcome {
	case army.Approved:
		body["price"] = res.Decision.Price
		body["purchase"] = res.Purchase
	case army.Rejected:
		body["reason"] = res.Decision.Reason
		body["message"] = res.Decision.Reason.Message()
		if res.Decision.Reason == army.ReasonInsufficientGold {
			status = http.StatusPaymentRequired
		} else {
			status = http.StatusConflict
		}
	}

	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		PlayerID: &playerID,
		Action:   "purchase",
		Request:  req,
		Response: body,
		IP:       c.ClientIP(),
	})
	c.JSON(status, body)
}

type sellRequest struct {
	ItemID     string `json:"item_id" binding:"required"`
	ClanCastle bool   `json:"clan_castle"`
}

// Sell removes one copy of an item and refunds the recounted price.
// POST /api/player/:id/sell
func (h *PurchaseHandler) Sell(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.ledger.Sell(c.Request.Context(), playerID, req.ItemID, req.ClanCastle)
	if err != nil {
		ledgerError(c, err)
		return
	}

	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		PlayerID: &playerID,
		Action:   "sell",
		Request:  req,
		Response: gin.H{"refund": res.Refund},
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"refund": res.Refund, "budget": res.RemainingBudget})
}

// Clear deletes the player's entire army and refunds its bulk value.
// POST /api/player/:id/clear
func (h *PurchaseHandler) Clear(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	res, err := h.ledger.ClearArmy(c.Request.Context(), playerID)
	if err != nil {
		ledgerError(c, err)
		return
	}

	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		PlayerID: &playerID,
		Action:   "army_clear",
		Response: gin.H{"refund": res.Refund},
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"refund": res.Refund, "budget": res.RemainingBudget})
}

// Reset removes the player from the war: army refunded, player row
// deleted, team slot freed.
// POST /api/player/:id/reset
func (h *PurchaseHandler) Reset(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	res, err := h.ledger.ResetPlayer(c.Request.Context(), playerID)
	if err != nil {
		ledgerError(c, err)
		return
	}

	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		PlayerID: &playerID,
		Action:   "player_reset",
		Response: gin.H{"refund": res.Refund},
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"refund": res.Refund, "budget": res.RemainingBudget})
}

// Army returns the player's purchases plus the shareable army link.
// GET /api/player/:id/army
func (h *PurchaseHandler) Army(c *gin.Context) {
	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	purchases, err := h.ledger.PlayerArmy(c.Request.Context(), playerID)
	if err != nil {
		ledgerError(c, err)
		return
	}

	usage := army.UsageOf(purchases, h.cat)
	c.JSON(http.StatusOK, gin.H{
		"purchases": purchases,
		"usage":     usage,
		"heroes":    army.ActiveHeroes(purchases),
		"link":      armylink.EncodeURL(purchases, h.cat),
	})
}

func ledgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrPlayerNotFound), errors.Is(err, ledger.ErrPurchaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrItemNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrLobbyClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
