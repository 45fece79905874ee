// Package army decides whether a proposed purchase is legal against the
// housing caps, hero roster cap, and Clan Castle rules, before the
// ledger touches any state. All functions are pure over the snapshots
// the caller supplies; the caller must re-run the decision inside the
// same transaction that mutates the ledger.
package army

import (
	"github.com/warchest-gg/server/game/catalog"
)

// Housing caps per army slot. Troops and super troops share one bucket;
// sieges are capped by raw count rather than housing weight.
const (
	TroopCap     = 340
	SpellCap     = 11
	SiegeCap     = 3 // count
	CCTroopCap   = 55
	CCSpellCap   = 4
	CCSiegeCap   = 2 // count
	HeroRosterCap = 4
)

// Purchase is the validator's read-only view of one owned purchase.
type Purchase struct {
	ItemID       string
	ClanCastle   bool
	EquippedHero catalog.Hero // set for pets/equipment slotted to a hero
}

// Outcome discriminates the validator's result.
type Outcome int

const (
	Approved Outcome = iota
	NeedsHeroSelection
	Rejected
)

// Reason identifies why a purchase was rejected. The codes are stable
// API values; Message carries the short banner the client shows.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonHeroRosterFull   Reason = "hero_roster_full"
	ReasonInsufficientGold Reason = "insufficient_budget"
	ReasonArmyFull         Reason = "army_full"
	ReasonSpellsFull       Reason = "spells_full"
	ReasonSiegesFull       Reason = "sieges_full"
	ReasonCCFull           Reason = "cc_full"
	ReasonCCIneligible     Reason = "cc_ineligible"
)

var reasonMessages = map[Reason]string{
	ReasonHeroRosterFull:   "4 Heroes Max",
	ReasonInsufficientGold: "No budget",
	ReasonArmyFull:         "Army Full",
	ReasonSpellsFull:       "Spells Full",
	ReasonSiegesFull:       "Sieges Full",
	ReasonCCFull:           "CC Full",
	ReasonCCIneligible:     "Not eligible for reinforcement",
}

// Message returns the user-facing banner for a rejection reason.
func (r Reason) Message() string { return reasonMessages[r] }

// Decision is the validator's discriminated result. Price is filled for
// Approved so the caller can debit the budget without recomputing.
type Decision struct {
	Outcome Outcome
	Reason  Reason
	Price   int64
}

func approve(price int64) Decision { return Decision{Outcome: Approved, Price: price} }
func reject(r Reason) Decision     { return Decision{Outcome: Rejected, Reason: r} }

// Request describes the proposed purchase.
type Request struct {
	Item       *catalog.Item
	ClanCastle bool
	TargetHero catalog.Hero // for pet assignment; empty otherwise
}

// Snapshot is the state the validator consults: the acting player's own
// purchases (capacity and hero checks), the whole team's purchases
// (inflation counting base), and the remaining team budget.
type Snapshot struct {
	PlayerPurchases []Purchase
	TeamPurchases   []Purchase
	TeamBudget      int64
}
