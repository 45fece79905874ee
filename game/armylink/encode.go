// Package armylink implements the external game's copy-paste army
// string: a positional mini-language of single-letter block markers
// (h heroes, i/d Clan Castle units/spells, u main units, s main spells)
// carrying countxid tokens. Encode produces a shareable deep link from
// settled purchases; Decode parses arbitrary pasted text back into
// per-item counts for the referee.
package armylink

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warchest-gg/server/game/army"
	"github.com/warchest-gg/server/game/catalog"
)

// URLTemplate is the deep link understood by the external game client.
// The %s placeholder receives the encoded army suffix.
const URLTemplate = "https://link.clashofclans.com/en?action=CopyArmy&army=%s"

// Encode serializes a player's purchases into the army-link suffix.
// Blocks appear in the fixed order heroes, Clan Castle units, Clan
// Castle spells, main units, main spells; empty blocks are omitted.
func Encode(purchases []army.Purchase, cat *catalog.Catalog) string {
	var sb strings.Builder

	if h := encodeHeroBlock(purchases, cat); h != "" {
		sb.WriteString("h")
		sb.WriteString(h)
	}
	ccUnits, ccSpells, units, spells := partitionCounts(purchases, cat)
	if t := encodeCountBlock(ccUnits); t != "" {
		sb.WriteString("i")
		sb.WriteString(t)
	}
	if t := encodeCountBlock(ccSpells); t != "" {
		sb.WriteString("d")
		sb.WriteString(t)
	}
	if t := encodeCountBlock(units); t != "" {
		sb.WriteString("u")
		sb.WriteString(t)
	}
	if t := encodeCountBlock(spells); t != "" {
		sb.WriteString("s")
		sb.WriteString(t)
	}
	return sb.String()
}

// EncodeURL wraps Encode in the full deep-link URL.
func EncodeURL(purchases []army.Purchase, cat *catalog.Catalog) string {
	return fmt.Sprintf(URLTemplate, Encode(purchases, cat))
}

// heroLoadout collects what is slotted to one hero.
type heroLoadout struct {
	petLinkID    int
	hasPet       bool
	equipLinkIDs []int
}

func encodeHeroBlock(purchases []army.Purchase, cat *catalog.Catalog) string {
	loadouts := make(map[catalog.Hero]*heroLoadout)
	for _, p := range purchases {
		if p.ClanCastle || p.EquippedHero == "" {
			continue
		}
		it, ok := cat.ByID(p.ItemID)
		if !ok {
			continue
		}
		lo := loadouts[p.EquippedHero]
		if lo == nil {
			lo = &heroLoadout{}
			loadouts[p.EquippedHero] = lo
		}
		switch it.Category {
		case catalog.CategoryPet:
			lo.petLinkID = it.LinkID()
			lo.hasPet = true
		case catalog.CategoryEquipment:
			lo.equipLinkIDs = append(lo.equipLinkIDs, it.LinkID())
		}
	}
	if len(loadouts) == 0 {
		return ""
	}

	subs := make([]string, 0, len(loadouts))
	for _, hero := range catalog.Heroes {
		lo, ok := loadouts[hero]
		if !ok {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d", catalog.HeroLinkIDs[hero])
		if lo.hasPet {
			fmt.Fprintf(&sb, "p%d", lo.petLinkID)
		}
		if len(lo.equipLinkIDs) > 0 {
			sort.Ints(lo.equipLinkIDs)
			ids := make([]string, len(lo.equipLinkIDs))
			for i, id := range lo.equipLinkIDs {
				ids[i] = fmt.Sprintf("%d", id)
			}
			sb.WriteString("e")
			sb.WriteString(strings.Join(ids, "_"))
		}
		subs = append(subs, sb.String())
	}
	return strings.Join(subs, "-")
}

// partitionCounts splits purchases into the four count blocks, keyed by
// link ID.
func partitionCounts(purchases []army.Purchase, cat *catalog.Catalog) (ccUnits, ccSpells, units, spells map[int]int) {
	ccUnits = make(map[int]int)
	ccSpells = make(map[int]int)
	units = make(map[int]int)
	spells = make(map[int]int)
	for _, p := range purchases {
		it, ok := cat.ByID(p.ItemID)
		if !ok || !it.IsArmyUnit() {
			continue
		}
		isSpell := it.Category == catalog.CategorySpell
		switch {
		case p.ClanCastle && isSpell:
			ccSpells[it.LinkID()]++
		case p.ClanCastle:
			ccUnits[it.LinkID()]++
		case isSpell:
			spells[it.LinkID()]++
		default:
			units[it.LinkID()]++
		}
	}
	return ccUnits, ccSpells, units, spells
}

func encodeCountBlock(counts map[int]int) string {
	if len(counts) == 0 {
		return ""
	}
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = fmt.Sprintf("%dx%d", counts[id], id)
	}
	return strings.Join(tokens, "-")
}
