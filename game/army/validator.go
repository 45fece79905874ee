package army

import (
	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/pricing"
)

// Validate decides whether the requested purchase is legal against the
// given snapshot. Gates run in a fixed order: hero roster, pet target
// handshake, budget, then capacity. It never mutates anything.
func Validate(req Request, snap Snapshot, cat *catalog.Catalog) Decision {
	it := req.Item
	if it == nil {
		panic("army: nil item in request")
	}

	// 1. Hero roster gate. Equipment carries its own affinity; a pet
	// uses the explicit target. Clan Castle purchases never touch the
	// roster (reinforcement gear is forbidden outright below).
	if !req.ClanCastle {
		hero := req.TargetHero
		if it.Category == catalog.CategoryEquipment {
			hero = it.HeroAffinity
		}
		if hero != "" {
			if d, blocked := checkHeroRoster(hero, snap.PlayerPurchases); blocked {
				return d
			}
		}
	}

	// 2. A pet with no target hero cannot be settled; the caller must
	// come back with a hero choice.
	if it.Category == catalog.CategoryPet && !req.ClanCastle && req.TargetHero == "" {
		return Decision{Outcome: NeedsHeroSelection}
	}

	// 3. Budget gate. Pets and reinforcements are free and always pass.
	var price int64
	if req.ClanCastle {
		price = pricing.ClanCastlePrice(it)
	} else {
		price = pricing.PriceOf(it, CountNormalCopies(snap.TeamPurchases, it.ID))
	}
	if price > snap.TeamBudget {
		return reject(ReasonInsufficientGold)
	}

	// 4. Capacity gate.
	if req.ClanCastle {
		if d, blocked := checkClanCastle(it, snap.PlayerPurchases, cat); blocked {
			return d
		}
		return approve(price)
	}
	if it.Category == catalog.CategoryEquipment || it.Category == catalog.CategoryPet {
		// Hero gear has no housing cost; the roster gate above is the
		// only capacity rule.
		return approve(price)
	}
	if d, blocked := checkNormalArmy(it, snap.PlayerPurchases, cat); blocked {
		return d
	}
	return approve(price)
}

func checkHeroRoster(hero catalog.Hero, playerPurchases []Purchase) (Decision, bool) {
	active := ActiveHeroes(playerPurchases)
	for _, h := range active {
		if h == hero {
			return Decision{}, false // already on the roster
		}
	}
	if len(active) >= HeroRosterCap {
		return reject(ReasonHeroRosterFull), true
	}
	return Decision{}, false
}

func checkClanCastle(it *catalog.Item, playerPurchases []Purchase, cat *catalog.Catalog) (Decision, bool) {
	u := UsageOf(playerPurchases, cat)
	switch it.Category {
	case catalog.CategoryEquipment, catalog.CategoryPet:
		return reject(ReasonCCIneligible), true
	case catalog.CategorySiege:
		if u.CCSiegeCount+1 > CCSiegeCap {
			return reject(ReasonCCFull), true
		}
	case catalog.CategorySpell:
		if u.CCSpellHousing+it.HousingCost > CCSpellCap {
			return reject(ReasonCCFull), true
		}
	default: // troop, super_troop
		if u.CCTroopHousing+it.HousingCost > CCTroopCap {
			return reject(ReasonCCFull), true
		}
	}
	return Decision{}, false
}

func checkNormalArmy(it *catalog.Item, playerPurchases []Purchase, cat *catalog.Catalog) (Decision, bool) {
	u := UsageOf(playerPurchases, cat)
	switch it.Category {
	case catalog.CategorySiege:
		if u.SiegeCount+1 > SiegeCap {
			return reject(ReasonSiegesFull), true
		}
	case catalog.CategorySpell:
		if u.SpellHousing+it.HousingCost > SpellCap {
			return reject(ReasonSpellsFull), true
		}
	default: // troop, super_troop
		if u.TroopHousing+it.HousingCost > TroopCap {
			return reject(ReasonArmyFull), true
		}
	}
	return Decision{}, false
}
