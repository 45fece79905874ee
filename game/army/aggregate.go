package army

import "github.com/warchest-gg/server/game/catalog"

// CountNormalCopies returns how many non-Clan-Castle copies of itemID
// the given purchase set contains. This is the inflation counting base:
// reinforcements are free and never push prices up.
func CountNormalCopies(purchases []Purchase, itemID string) int {
	n := 0
	for _, p := range purchases {
		if !p.ClanCastle && p.ItemID == itemID {
			n++
		}
	}
	return n
}

// CountsByItem aggregates purchase counts keyed by item ID, split into
// normal-army and Clan Castle maps.
func CountsByItem(purchases []Purchase) (normal, cc map[string]int) {
	normal = make(map[string]int)
	cc = make(map[string]int)
	for _, p := range purchases {
		if p.ClanCastle {
			cc[p.ItemID]++
		} else {
			normal[p.ItemID]++
		}
	}
	return normal, cc
}

// Usage summarizes one player's occupied capacity.
type Usage struct {
	TroopHousing   int // troop + super_troop, normal army
	SpellHousing   int
	SiegeCount     int
	CCTroopHousing int
	CCSpellHousing int
	CCSiegeCount   int
}

// UsageOf sums a player's occupied housing per bucket. Unknown item IDs
// are skipped; the ledger never stores them, but a stale snapshot after
// a catalog edit must not panic the validator.
func UsageOf(purchases []Purchase, cat *catalog.Catalog) Usage {
	var u Usage
	for _, p := range purchases {
		it, ok := cat.ByID(p.ItemID)
		if !ok {
			continue
		}
		switch it.Category {
		case catalog.CategoryTroop, catalog.CategorySuperTroop:
			if p.ClanCastle {
				u.CCTroopHousing += it.HousingCost
			} else {
				u.TroopHousing += it.HousingCost
			}
		case catalog.CategorySpell:
			if p.ClanCastle {
				u.CCSpellHousing += it.HousingCost
			} else {
				u.SpellHousing += it.HousingCost
			}
		case catalog.CategorySiege:
			if p.ClanCastle {
				u.CCSiegeCount++
			} else {
				u.SiegeCount++
			}
		}
	}
	return u
}

// ActiveHeroes returns the distinct heroes that currently have a pet or
// equipment assigned in the player's normal army, in catalog hero order.
func ActiveHeroes(purchases []Purchase) []catalog.Hero {
	seen := make(map[catalog.Hero]bool)
	for _, p := range purchases {
		if p.ClanCastle || p.EquippedHero == "" {
			continue
		}
		seen[p.EquippedHero] = true
	}
	out := make([]catalog.Hero, 0, len(seen))
	for _, h := range catalog.Heroes {
		if seen[h] {
			out = append(out, h)
		}
	}
	return out
}
