package armylink

import (
	"strconv"
	"strings"

	"github.com/warchest-gg/server/game/catalog"
)

// armyParam marks the link suffix inside a full URL.
const armyParam = "army="

// segment markers; anything between two markers belongs to the first.
func isMarker(b byte) bool {
	switch b {
	case 'u', 's', 'i', 'h', 'd':
		return true
	}
	return false
}

// unitCategories are the categories a u-segment token may resolve to.
var unitCategories = []catalog.Category{
	catalog.CategoryTroop,
	catalog.CategorySuperTroop,
	catalog.CategorySiege,
}

// Decode parses one or more pasted army links (bare suffixes or full
// URLs) and accumulates per-item counts across all of them, so a
// referee can total several players' pastes in one pass.
//
// Only the main-army u and s segments and the equipment lists of the h
// segment are counted; Clan Castle segments (i, d) are free loadout and
// hero pets carry no gold cost, so the referee ignores both. Malformed
// tokens are skipped, never fatal; text with nothing recognizable
// yields an empty map.
func Decode(rawTexts []string, cat *catalog.Catalog) map[string]int {
	counts := make(map[string]int)
	for _, raw := range rawTexts {
		decodeOne(extractSuffix(raw), cat, counts)
	}
	return counts
}

// extractSuffix pulls the army string out of a full URL, or returns the
// input unchanged when it is already a bare suffix.
func extractSuffix(raw string) string {
	raw = strings.TrimSpace(raw)
	idx := strings.Index(raw, armyParam)
	if idx < 0 {
		return raw
	}
	suffix := raw[idx+len(armyParam):]
	if amp := strings.IndexByte(suffix, '&'); amp >= 0 {
		suffix = suffix[:amp]
	}
	return suffix
}

func decodeOne(suffix string, cat *catalog.Catalog, counts map[string]int) {
	for _, seg := range splitSegments(suffix) {
		switch seg.marker {
		case 'u':
			decodeCountTokens(seg.body, unitCategories, cat, counts)
		case 's':
			decodeCountTokens(seg.body, []catalog.Category{catalog.CategorySpell}, cat, counts)
		case 'h':
			decodeHeroSegment(seg.body, cat, counts)
		}
	}
}

type segment struct {
	marker byte
	body   string
}

// splitSegments cuts the suffix at every top-level marker letter.
// Marker letters cannot occur inside token bodies (those contain only
// digits, x, -, _, p, e), so a plain scan is unambiguous.
func splitSegments(suffix string) []segment {
	var segs []segment
	start := -1
	for i := 0; i < len(suffix); i++ {
		if !isMarker(suffix[i]) {
			continue
		}
		if start >= 0 {
			segs = append(segs, segment{marker: suffix[start], body: suffix[start+1 : i]})
		}
		start = i
	}
	if start >= 0 {
		segs = append(segs, segment{marker: suffix[start], body: suffix[start+1:]})
	}
	return segs
}

// decodeCountTokens parses a dash-joined list of countxid tokens,
// resolving ids against the allowed categories. Bad tokens are skipped.
func decodeCountTokens(body string, categories []catalog.Category, cat *catalog.Catalog, counts map[string]int) {
	for _, token := range strings.Split(body, "-") {
		xIdx := strings.IndexByte(token, 'x')
		if xIdx <= 0 || xIdx == len(token)-1 {
			continue
		}
		count, err := strconv.Atoi(token[:xIdx])
		if err != nil || count <= 0 {
			continue
		}
		extID, err := strconv.Atoi(token[xIdx+1:])
		if err != nil {
			continue
		}
		it, ok := cat.ByExternalID(extID, categories...)
		if !ok {
			continue
		}
		counts[it.ID] += count
	}
}

// decodeHeroSegment parses dash-joined hero sub-blocks. Only equipment
// lists (e<id>_<id>...) count toward the audit; the hero index and any
// pet token are recognized but not costed.
func decodeHeroSegment(body string, cat *catalog.Catalog, counts map[string]int) {
	for _, sub := range strings.Split(body, "-") {
		pos := 0
		// Leading hero index digits.
		for pos < len(sub) && sub[pos] >= '0' && sub[pos] <= '9' {
			pos++
		}
		for pos < len(sub) {
			switch sub[pos] {
			case 'p':
				pos++
				for pos < len(sub) && sub[pos] >= '0' && sub[pos] <= '9' {
					pos++
				}
			case 'e':
				end := pos + 1
				for end < len(sub) && (sub[end] >= '0' && sub[end] <= '9' || sub[end] == '_') {
					end++
				}
				for _, idStr := range strings.Split(sub[pos+1:end], "_") {
					extID, err := strconv.Atoi(idStr)
					if err != nil {
						continue
					}
					if it, ok := cat.ByExternalID(extID, catalog.CategoryEquipment); ok {
						counts[it.ID]++
					}
				}
				pos = end
			default:
				// Unknown byte inside a hero sub-block: skip it.
				pos++
			}
		}
	}
}
