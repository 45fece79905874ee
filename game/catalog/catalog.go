package catalog

import (
	"fmt"
	"sort"
)

// Category classifies a purchasable item.
type Category string

const (
	CategoryTroop      Category = "troop"
	CategorySiege      Category = "siege"
	CategorySpell      Category = "spell"
	CategorySuperTroop Category = "super_troop"
	CategoryEquipment  Category = "equipment"
	CategoryPet        Category = "pet"
)

// Hero identifies one of the five hero classes.
type Hero string

const (
	HeroBK Hero = "BK" // Barbarian King
	HeroAQ Hero = "AQ" // Archer Queen
	HeroGW Hero = "GW" // Grand Warden
	HeroRC Hero = "RC" // Royal Champion
	HeroMP Hero = "MP" // Minion Prince
)

// Heroes lists all hero classes in their canonical display order.
var Heroes = []Hero{HeroBK, HeroAQ, HeroGW, HeroRC, HeroMP}

// HeroLinkIDs maps each hero to its positional index in the army-link
// hero block. The external game client skips 3 and 5; the gaps are part
// of the wire format and must not be compacted.
var HeroLinkIDs = map[Hero]int{
	HeroBK: 0,
	HeroAQ: 1,
	HeroGW: 2,
	HeroRC: 4,
	HeroMP: 6,
}

// HeroByLinkID is the reverse of HeroLinkIDs.
var HeroByLinkID = map[int]Hero{
	0: HeroBK,
	1: HeroAQ,
	2: HeroGW,
	4: HeroRC,
	6: HeroMP,
}

// InflationPolicy selects the pricing curve for repeat purchases.
type InflationPolicy string

const (
	PolicyLinear      InflationPolicy = "linear"
	PolicyExponential InflationPolicy = "exponential"
	PolicyFlat        InflationPolicy = "flat"
)

// ExternalIDModulus collapses the external game's internal ID variants:
// the link format carries object IDs modulo one million.
const ExternalIDModulus = 1_000_000

// Item is one purchasable entry in the army book. Items are immutable
// reference data shared read-only by every lobby.
type Item struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     Category        `json:"category"`
	HeroAffinity Hero            `json:"hero_affinity,omitempty"` // equipment only
	ExternalID   int             `json:"external_id"`
	HousingCost  int             `json:"housing_cost"`
	BasePrice    int64           `json:"base_price"`
	InflationRate int64          `json:"inflation_rate"`
	Policy       InflationPolicy `json:"inflation_policy"`
}

// IsArmyUnit reports whether the item occupies housing space in the
// troop/siege/spell army blocks (as opposed to hero gear).
func (it *Item) IsArmyUnit() bool {
	switch it.Category {
	case CategoryTroop, CategorySiege, CategorySpell, CategorySuperTroop:
		return true
	}
	return false
}

// LinkID returns the item's external ID reduced to the link wire range.
func (it *Item) LinkID() int {
	return it.ExternalID % ExternalIDModulus
}

// Catalog is an immutable snapshot of the item book. Build one with New
// and pass it into the pricing, validation, and codec functions; a
// moderator price edit produces a fresh snapshot, never an in-place write.
type Catalog struct {
	items  []*Item
	byID   map[string]*Item
	byLink map[linkKey]*Item
}

type linkKey struct {
	linkID   int
	category Category
}

// New validates the given items and builds a Catalog.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:  make([]*Item, 0, len(items)),
		byID:   make(map[string]*Item, len(items)),
		byLink: make(map[linkKey]*Item, len(items)),
	}
	for i := range items {
		it := items[i]
		if err := validateItem(&it); err != nil {
			return nil, err
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate item id %q", it.ID)
		}
		key := linkKey{linkID: it.LinkID(), category: it.Category}
		if _, dup := c.byLink[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate link id %d for category %s", key.linkID, it.Category)
		}
		c.byID[it.ID] = &it
		c.byLink[key] = &it
		c.items = append(c.items, &it)
	}
	if len(c.items) == 0 {
		return nil, fmt.Errorf("catalog: no items")
	}
	sort.Slice(c.items, func(a, b int) bool { return c.items[a].ID < c.items[b].ID })
	return c, nil
}

func validateItem(it *Item) error {
	switch it.Category {
	case CategoryTroop, CategorySiege, CategorySpell, CategorySuperTroop:
		if it.HousingCost < 1 {
			return fmt.Errorf("catalog: %s item %q needs housing_cost >= 1", it.Category, it.ID)
		}
	case CategoryEquipment:
		if it.HousingCost != 0 {
			return fmt.Errorf("catalog: equipment %q must have housing_cost 0", it.ID)
		}
		if _, ok := HeroLinkIDs[it.HeroAffinity]; !ok {
			return fmt.Errorf("catalog: equipment %q has unknown hero affinity %q", it.ID, it.HeroAffinity)
		}
	case CategoryPet:
		if it.HousingCost != 0 {
			return fmt.Errorf("catalog: pet %q must have housing_cost 0", it.ID)
		}
	default:
		return fmt.Errorf("catalog: item %q has unknown category %q", it.ID, it.Category)
	}
	if it.ID == "" || it.Name == "" {
		return fmt.Errorf("catalog: item with empty id or name")
	}
	if it.ExternalID < 0 || it.BasePrice < 0 || it.InflationRate < 0 {
		return fmt.Errorf("catalog: item %q has negative numeric field", it.ID)
	}
	switch it.Policy {
	case PolicyLinear, PolicyExponential, PolicyFlat:
	default:
		return fmt.Errorf("catalog: item %q has unknown inflation policy %q", it.ID, it.Policy)
	}
	return nil
}

// ByID looks up an item by its stable identifier.
func (c *Catalog) ByID(id string) (*Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// ByExternalID resolves an external game ID (reduced modulo one million)
// against the given category set. Lookups are category-scoped because
// link IDs from different object families collide after reduction.
func (c *Catalog) ByExternalID(externalID int, categories ...Category) (*Item, bool) {
	linkID := externalID % ExternalIDModulus
	for _, cat := range categories {
		if it, ok := c.byLink[linkKey{linkID: linkID, category: cat}]; ok {
			return it, true
		}
	}
	return nil, false
}

// Items returns the catalog entries ordered by ID.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }
