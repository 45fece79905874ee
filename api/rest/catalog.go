package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/pricing"
)

// CatalogHandler exposes the item catalog and price quotes.
type CatalogHandler struct {
	cat *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// List returns every catalog item.
// GET /api/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.cat.Items()})
}

// Item returns one catalog item.
// GET /api/catalog/:id
func (h *CatalogHandler) Item(c *gin.Context) {
	it, ok := h.cat.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": it})
}

// Quote prices the next copy given how many the team already owns,
// plus the bulk cost of owning that many plus one.
// GET /api/catalog/:id/quote?owned=n
func (h *CatalogHandler) Quote(c *gin.Context) {
	it, ok := h.cat.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	owned, err := strconv.Atoi(c.DefaultQuery("owned", "0"))
	if err != nil || owned < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owned count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id":    it.ID,
		"owned":      owned,
		"next_price": pricing.PriceOf(it, owned),
		"bulk_total": pricing.BulkTotal(it, owned+1),
	})
}
