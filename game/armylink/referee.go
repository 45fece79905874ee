package armylink

import (
	"sort"

	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/pricing"
)

// LineItem is one row of a referee audit breakdown.
type LineItem struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Cost   int64  `json:"cost"`
}

// Audit is the referee's costing of a set of decoded link counts.
type Audit struct {
	GrandTotal int64      `json:"grand_total"`
	Breakdown  []LineItem `json:"breakdown"`
}

// AuditTotal prices decoded per-item counts as if each item were bought
// from scratch by one team, using the same bulk formulas the purchase
// flow's marginal prices sum to. Unknown item IDs cannot appear here
// since Decode only emits catalog matches.
func AuditTotal(counts map[string]int, cat *catalog.Catalog) Audit {
	audit := Audit{Breakdown: make([]LineItem, 0, len(counts))}
	for itemID, n := range counts {
		it, ok := cat.ByID(itemID)
		if !ok || n <= 0 {
			continue
		}
		cost := pricing.BulkTotal(it, n)
		audit.GrandTotal += cost
		audit.Breakdown = append(audit.Breakdown, LineItem{
			ItemID: it.ID,
			Name:   it.Name,
			Count:  n,
			Cost:   cost,
		})
	}
	sort.Slice(audit.Breakdown, func(i, j int) bool {
		a, b := audit.Breakdown[i], audit.Breakdown[j]
		if a.Cost != b.Cost {
			return a.Cost > b.Cost
		}
		return a.Name < b.Name
	})
	return audit
}
