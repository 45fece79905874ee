// Package pricing computes gold costs under the shared-budget inflation
// model: every copy of an item a team already owns pushes the next copy's
// price up the item's inflation curve. Clan Castle reinforcements and
// pets are free and never enter the counting base.
package pricing

import (
	"fmt"

	"github.com/warchest-gg/server/game/catalog"
)

// PriceOf returns the marginal gold price of the next copy of item when
// the buying team already owns existingCount copies (Clan Castle copies
// excluded from the count by the caller).
//
// A negative existingCount is a caller bug and panics.
func PriceOf(item *catalog.Item, existingCount int) int64 {
	if item == nil {
		panic("pricing: nil item")
	}
	if existingCount < 0 {
		panic(fmt.Sprintf("pricing: negative existing count %d for %s", existingCount, item.ID))
	}
	if item.Category == catalog.CategoryPet {
		return 0
	}
	k := int64(existingCount)
	switch item.Policy {
	case catalog.PolicyFlat:
		return item.BasePrice
	case catalog.PolicyLinear:
		return item.BasePrice + k*item.InflationRate
	case catalog.PolicyExponential:
		return satMul(item.BasePrice, powInt64(item.InflationRate, k))
	}
	panic(fmt.Sprintf("pricing: unknown policy %q for %s", item.Policy, item.ID))
}

// ClanCastlePrice is the marginal price of any Clan Castle reinforcement.
// Reinforcements never draw from the team budget.
func ClanCastlePrice(item *catalog.Item) int64 {
	if item == nil {
		panic("pricing: nil item")
	}
	return 0
}

// BulkTotal returns the cost of buying n copies of item starting from an
// empty team, in closed form. It is used by the referee auditor over
// decoded link counts and must agree with summing PriceOf for k=0..n-1.
//
// A negative n is a caller bug and panics.
func BulkTotal(item *catalog.Item, n int) int64 {
	if item == nil {
		panic("pricing: nil item")
	}
	if n < 0 {
		panic(fmt.Sprintf("pricing: negative copy count %d for %s", n, item.ID))
	}
	if item.Category == catalog.CategoryPet {
		return 0
	}
	m := int64(n)
	switch item.Policy {
	case catalog.PolicyFlat:
		return item.BasePrice * m
	case catalog.PolicyLinear:
		// base*n + rate * (0 + 1 + ... + n-1)
		return item.BasePrice*m + item.InflationRate*m*(m-1)/2
	case catalog.PolicyExponential:
		if item.InflationRate == 1 {
			return item.BasePrice * m
		}
		// base * (rate^n - 1) / (rate - 1)
		return satMul(item.BasePrice, (powInt64(item.InflationRate, m)-1)/(item.InflationRate-1))
	}
	panic(fmt.Sprintf("pricing: unknown policy %q for %s", item.Policy, item.ID))
}

// PriceCeiling saturates exponential prices. The counting base is
// team-wide, so the exponent is not bounded by one player's housing;
// saturating keeps rate^k from wrapping negative. A price at the
// ceiling exceeds any configurable budget.
const PriceCeiling = int64(1) << 40

// powInt64 computes base^exp by squaring, saturating at PriceCeiling.
func powInt64(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = satMul(result, base)
		}
		exp >>= 1
		if exp > 0 {
			base = satMul(base, base)
		}
	}
	return result
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > PriceCeiling/b {
		return PriceCeiling
	}
	return a * b
}
