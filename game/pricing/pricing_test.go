package pricing

import (
	"testing"

	"github.com/warchest-gg/server/game/catalog"
)

func linearItem(base, rate int64) *catalog.Item {
	return &catalog.Item{ID: "lin", Name: "Lin", Category: catalog.CategoryTroop,
		HousingCost: 1, BasePrice: base, InflationRate: rate, Policy: catalog.PolicyLinear}
}

func expItem(base, rate int64) *catalog.Item {
	return &catalog.Item{ID: "exp", Name: "Exp", Category: catalog.CategoryTroop,
		HousingCost: 1, BasePrice: base, InflationRate: rate, Policy: catalog.PolicyExponential}
}

func flatItem(base int64) *catalog.Item {
	return &catalog.Item{ID: "flat", Name: "Flat", Category: catalog.CategoryTroop,
		HousingCost: 1, BasePrice: base, Policy: catalog.PolicyFlat}
}

func TestPriceOf_LinearScenario(t *testing.T) {
	// base=1 rate=2: marginals are 1,3,5,7 so the fourth copy costs 7.
	it := linearItem(1, 2)
	if got := PriceOf(it, 3); got != 7 {
		t.Errorf("PriceOf(k=3) = %d, want 7", got)
	}
	if got := BulkTotal(it, 4); got != 16 {
		t.Errorf("BulkTotal(4) = %d, want 16", got)
	}
}

func TestPriceOf_Exponential(t *testing.T) {
	it := expItem(100, 2)
	want := []int64{100, 200, 400, 800}
	for k, w := range want {
		if got := PriceOf(it, k); got != w {
			t.Errorf("PriceOf(k=%d) = %d, want %d", k, got, w)
		}
	}
}

func TestPriceOf_FlatConstant(t *testing.T) {
	it := flatItem(2000)
	for k := 0; k < 10; k++ {
		if got := PriceOf(it, k); got != 2000 {
			t.Errorf("PriceOf(k=%d) = %d, want 2000", k, got)
		}
	}
}

func TestPriceOf_PetAlwaysFree(t *testing.T) {
	pet := &catalog.Item{ID: "pet", Name: "Pet", Category: catalog.CategoryPet,
		BasePrice: 999, InflationRate: 3, Policy: catalog.PolicyExponential}
	for k := 0; k < 5; k++ {
		if got := PriceOf(pet, k); got != 0 {
			t.Errorf("pet PriceOf(k=%d) = %d, want 0", k, got)
		}
	}
	if got := BulkTotal(pet, 7); got != 0 {
		t.Errorf("pet BulkTotal = %d, want 0", got)
	}
}

func TestClanCastlePrice_AlwaysZero(t *testing.T) {
	for _, it := range []*catalog.Item{linearItem(500, 100), expItem(100, 3), flatItem(2500)} {
		if got := ClanCastlePrice(it); got != 0 {
			t.Errorf("ClanCastlePrice(%s) = %d, want 0", it.ID, got)
		}
	}
}

// Summed marginals must equal the closed-form bulk total for every
// policy, including the degenerate exponential rate of 1.
func TestBulkTotal_MatchesSummedMarginals(t *testing.T) {
	items := []*catalog.Item{
		linearItem(1, 2),
		linearItem(300, 150),
		expItem(100, 2),
		expItem(1800, 3),
		expItem(50, 1), // rate=1 degenerates to flat
		flatItem(2000),
	}
	for _, it := range items {
		for n := 0; n <= 8; n++ {
			var sum int64
			for k := 0; k < n; k++ {
				sum += PriceOf(it, k)
			}
			if bulk := BulkTotal(it, n); bulk != sum {
				t.Errorf("%s policy=%s n=%d: bulk=%d sum=%d", it.ID, it.Policy, n, bulk, sum)
			}
		}
	}
}

func TestPriceOf_Monotonic(t *testing.T) {
	for _, it := range []*catalog.Item{linearItem(75, 25), expItem(100, 2)} {
		prev := PriceOf(it, 0)
		for k := 1; k < 10; k++ {
			cur := PriceOf(it, k)
			if cur < prev {
				t.Errorf("%s: PriceOf(k=%d)=%d < PriceOf(k=%d)=%d", it.ID, k, cur, k-1, prev)
			}
			prev = cur
		}
	}
}

func TestPriceOf_NegativeCountPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on negative existing count")
		}
	}()
	PriceOf(linearItem(1, 1), -1)
}

func TestBulkTotal_NegativeCountPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on negative copy count")
		}
	}()
	BulkTotal(flatItem(10), -2)
}

// Every catalog default must satisfy the marginal/bulk equivalence too;
// the referee totals links with these exact entries.
func TestBulkTotal_DefaultCatalogEquivalence(t *testing.T) {
	for _, it := range catalog.Default().Items() {
		for n := 0; n <= 6; n++ {
			var sum int64
			for k := 0; k < n; k++ {
				sum += PriceOf(it, k)
			}
			if bulk := BulkTotal(it, n); bulk != sum {
				t.Errorf("%s n=%d: bulk=%d sum=%d", it.ID, n, bulk, sum)
			}
		}
	}
}

func TestExponentialSaturatesInsteadOfWrapping(t *testing.T) {
	it := expItem(1500, 2)

	// 2^80 overflows int64 many times over; the price must pin at the
	// ceiling instead of wrapping negative.
	if got := PriceOf(it, 80); got != PriceCeiling {
		t.Errorf("PriceOf(k=80) = %d, want ceiling %d", got, PriceCeiling)
	}
	if got := PriceOf(it, 200); got < 0 || got > PriceCeiling {
		t.Errorf("PriceOf(k=200) = %d, out of [0, ceiling]", got)
	}
	if got := BulkTotal(it, 200); got < 0 || got > PriceCeiling {
		t.Errorf("BulkTotal(n=200) = %d, out of [0, ceiling]", got)
	}
}
