package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warchest-gg/server/audit"
	"github.com/warchest-gg/server/game/armylink"
	"github.com/warchest-gg/server/game/catalog"
	mw "github.com/warchest-gg/server/middleware"
)

// RefereeHandler costs pasted army links against a spending ceiling.
type RefereeHandler struct {
	cat   *catalog.Catalog
	audit *audit.Service
}

func NewRefereeHandler(cat *catalog.Catalog, auditSvc *audit.Service) *RefereeHandler {
	return &RefereeHandler{cat: cat, audit: auditSvc}
}

type auditRequest struct {
	Links   []string `json:"links" binding:"required"`
	Ceiling int64    `json:"ceiling"`
}

// Audit decodes the pasted links, prices the combined army from
// scratch, and reports whether it fits under the ceiling. A ceiling of
// zero skips the verdict.
// POST /api/referee/audit
func (h *RefereeHandler) Audit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counts := armylink.Decode(req.Links, h.cat)
	result := armylink.AuditTotal(counts, h.cat)

	body := gin.H{
		"grand_total": result.GrandTotal,
		"breakdown":   result.Breakdown,
	}
	if req.Ceiling > 0 {
		body["ceiling"] = req.Ceiling
		body["within_ceiling"] = result.GrandTotal <= req.Ceiling
		body["overage"] = max64(0, result.GrandTotal-req.Ceiling)
	}

	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		Action:   "referee_audit",
		Request:  gin.H{"links": len(req.Links), "ceiling": req.Ceiling},
		Response: gin.H{"grand_total": result.GrandTotal},
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, body)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
