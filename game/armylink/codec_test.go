package armylink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warchest-gg/server/game/army"
	"github.com/warchest-gg/server/game/catalog"
)

var cat = catalog.Default()

func purchasesOf(counts map[string]int) []army.Purchase {
	var out []army.Purchase
	for id, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, army.Purchase{ItemID: id})
		}
	}
	return out
}

func TestEncode_BlockOrderAndTokens(t *testing.T) {
	purchases := []army.Purchase{
		{ItemID: "barbarian"},
		{ItemID: "barbarian"},
		{ItemID: "giant"},
		{ItemID: "lightning-spell"},
		{ItemID: "rage-vial", EquippedHero: catalog.HeroBK},
		{ItemID: "lassi", EquippedHero: catalog.HeroBK},
		{ItemID: "archer", ClanCastle: true},
		{ItemID: "healing-spell", ClanCastle: true},
	}
	suffix := Encode(purchases, cat)

	// Heroes, CC units, CC spells, main units, main spells.
	assert.Equal(t, "h0p0e1i1x1d1x1u2x0-1x3s1x0", suffix)
}

func TestEncode_HeroIndexGaps(t *testing.T) {
	purchases := []army.Purchase{
		{ItemID: "royal-gem", EquippedHero: catalog.HeroRC},
		{ItemID: "dark-orb", EquippedHero: catalog.HeroMP},
	}
	suffix := Encode(purchases, cat)
	// RC is index 4 and MP is index 6; 3 and 5 stay unused.
	assert.Equal(t, "h4e12-6e17", suffix)
}

func TestEncode_EmptyPurchases(t *testing.T) {
	assert.Equal(t, "", Encode(nil, cat))
}

func TestEncodeURL_Template(t *testing.T) {
	url := EncodeURL([]army.Purchase{{ItemID: "barbarian"}}, cat)
	assert.Equal(t, "https://link.clashofclans.com/en?action=CopyArmy&army=u1x0", url)
}

func TestDecode_BareSuffixAndFullURL(t *testing.T) {
	want := map[string]int{"barbarian": 2, "giant": 1, "lightning-spell": 1}

	got := Decode([]string{"u2x0-1x3s1x0"}, cat)
	assert.Equal(t, want, got)

	got = Decode([]string{"https://link.clashofclans.com/en?action=CopyArmy&army=u2x0-1x3s1x0&foo=bar"}, cat)
	assert.Equal(t, want, got)
}

func TestDecode_AccumulatesAcrossInputs(t *testing.T) {
	got := Decode([]string{"u2x0", "u3x0-1x3", "s2x0"}, cat)
	assert.Equal(t, map[string]int{"barbarian": 5, "giant": 1, "lightning-spell": 2}, got)
}

func TestDecode_SkipsMalformedTokens(t *testing.T) {
	// Missing 'x', non-numeric count, non-numeric id, unknown id.
	got := Decode([]string{"u10-axb-2xzz-2x999999-1x0s1x0"}, cat)
	assert.Equal(t, map[string]int{"barbarian": 1, "lightning-spell": 1}, got)
}

func TestDecode_NothingRecognizableIsEmptyNotError(t *testing.T) {
	got := Decode([]string{"", "hello world", "https://example.com/?q=1"}, cat)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecode_CategoryScoping(t *testing.T) {
	// Link ID 0 is the barbarian in a u-segment but the lightning spell
	// in an s-segment.
	got := Decode([]string{"u1x0s1x0"}, cat)
	assert.Equal(t, map[string]int{"barbarian": 1, "lightning-spell": 1}, got)
}

func TestDecode_HeroEquipmentOnly(t *testing.T) {
	// Equipment ids 1 and 6 count; the pet token does not.
	got := Decode([]string{"h0p0e1-1e6u1x0"}, cat)
	assert.Equal(t, map[string]int{"rage-vial": 1, "giant-arrow": 1, "barbarian": 1}, got)
}

func TestDecode_IgnoresClanCastleSegments(t *testing.T) {
	got := Decode([]string{"i5x0d1x1u2x0"}, cat)
	assert.Equal(t, map[string]int{"barbarian": 2}, got)
}

func TestDecode_ModuloExternalIDVariants(t *testing.T) {
	// The game sometimes emits full object IDs; 4000003 ≡ 3 (giant).
	got := Decode([]string{"u1x4000003"}, cat)
	assert.Equal(t, map[string]int{"giant": 1}, got)
}

func TestRoundTrip_MainArmyCounts(t *testing.T) {
	counts := map[string]int{
		"barbarian":       10,
		"giant":           4,
		"dragon":          2,
		"super-archer":    1,
		"wall-wrecker":    1,
		"lightning-spell": 3,
		"rage-spell":      2,
	}
	url := EncodeURL(purchasesOf(counts), cat)
	got := Decode([]string{url}, cat)
	assert.Equal(t, counts, got)
}

func TestRoundTrip_WithHeroGear(t *testing.T) {
	purchases := []army.Purchase{
		{ItemID: "barbarian"},
		{ItemID: "barbarian"},
		{ItemID: "rage-vial", EquippedHero: catalog.HeroBK},
		{ItemID: "earthquake-boots", EquippedHero: catalog.HeroBK},
		{ItemID: "giant-arrow", EquippedHero: catalog.HeroAQ},
		{ItemID: "healing-spell"},
	}
	got := Decode([]string{Encode(purchases, cat)}, cat)
	assert.Equal(t, map[string]int{
		"barbarian":        2,
		"rage-vial":        1,
		"earthquake-boots": 1,
		"giant-arrow":      1,
		"healing-spell":    1,
	}, got)
}

func TestRoundTrip_ClanCastleStaysSeparate(t *testing.T) {
	purchases := []army.Purchase{
		{ItemID: "barbarian"},
		{ItemID: "barbarian", ClanCastle: true},
		{ItemID: "healing-spell", ClanCastle: true},
	}
	suffix := Encode(purchases, cat)
	require.True(t, strings.HasPrefix(suffix, "i"), "CC units lead when no heroes: %s", suffix)

	// The referee only counts the main army.
	got := Decode([]string{suffix}, cat)
	assert.Equal(t, map[string]int{"barbarian": 1}, got)
}

func TestAuditTotal_BreakdownAndGrandTotal(t *testing.T) {
	counts := map[string]int{
		"barbarian":       4, // 50+75+100+125 = 350
		"dragon":          2, // 1500+3000 = 4500
		"lightning-spell": 1, // 300
	}
	audit := AuditTotal(counts, cat)
	assert.Equal(t, int64(5150), audit.GrandTotal)
	require.Len(t, audit.Breakdown, 3)

	// Sorted by cost descending.
	assert.Equal(t, "dragon", audit.Breakdown[0].ItemID)
	assert.Equal(t, int64(4500), audit.Breakdown[0].Cost)
	assert.Equal(t, "barbarian", audit.Breakdown[1].ItemID)
	assert.Equal(t, int64(350), audit.Breakdown[1].Cost)
	assert.Equal(t, "lightning-spell", audit.Breakdown[2].ItemID)
}

func TestAuditTotal_EquipmentCostsNothing(t *testing.T) {
	audit := AuditTotal(map[string]int{"rage-vial": 2}, cat)
	assert.Equal(t, int64(0), audit.GrandTotal)
	require.Len(t, audit.Breakdown, 1)
	assert.Equal(t, 2, audit.Breakdown[0].Count)
}
