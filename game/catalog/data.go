package catalog

// defaultItems is the built-in army book. External IDs follow the game
// client's object ID families (4xxxxxx troops/sieges, 26xxxxxx spells,
// 73xxxxxx pets, 90xxxxxx equipment); the link format carries them
// modulo one million.
var defaultItems = []Item{
	// ---- Troops ----
	{ID: "barbarian", Name: "Barbarian", Category: CategoryTroop, ExternalID: 4000000, HousingCost: 1, BasePrice: 50, InflationRate: 25, Policy: PolicyLinear},
	{ID: "archer", Name: "Archer", Category: CategoryTroop, ExternalID: 4000001, HousingCost: 1, BasePrice: 75, InflationRate: 25, Policy: PolicyLinear},
	{ID: "goblin", Name: "Goblin", Category: CategoryTroop, ExternalID: 4000002, HousingCost: 1, BasePrice: 40, InflationRate: 20, Policy: PolicyLinear},
	{ID: "giant", Name: "Giant", Category: CategoryTroop, ExternalID: 4000003, HousingCost: 5, BasePrice: 250, InflationRate: 100, Policy: PolicyLinear},
	{ID: "wall-breaker", Name: "Wall Breaker", Category: CategoryTroop, ExternalID: 4000004, HousingCost: 2, BasePrice: 150, InflationRate: 75, Policy: PolicyLinear},
	{ID: "balloon", Name: "Balloon", Category: CategoryTroop, ExternalID: 4000005, HousingCost: 5, BasePrice: 300, InflationRate: 150, Policy: PolicyLinear},
	{ID: "wizard", Name: "Wizard", Category: CategoryTroop, ExternalID: 4000006, HousingCost: 4, BasePrice: 350, InflationRate: 150, Policy: PolicyLinear},
	{ID: "healer", Name: "Healer", Category: CategoryTroop, ExternalID: 4000007, HousingCost: 14, BasePrice: 800, InflationRate: 400, Policy: PolicyLinear},
	{ID: "dragon", Name: "Dragon", Category: CategoryTroop, ExternalID: 4000008, HousingCost: 20, BasePrice: 1500, InflationRate: 2, Policy: PolicyExponential},
	{ID: "pekka", Name: "P.E.K.K.A", Category: CategoryTroop, ExternalID: 4000009, HousingCost: 25, BasePrice: 1800, InflationRate: 2, Policy: PolicyExponential},
	{ID: "hog-rider", Name: "Hog Rider", Category: CategoryTroop, ExternalID: 4000011, HousingCost: 5, BasePrice: 400, InflationRate: 200, Policy: PolicyLinear},
	{ID: "valkyrie", Name: "Valkyrie", Category: CategoryTroop, ExternalID: 4000012, HousingCost: 8, BasePrice: 600, InflationRate: 300, Policy: PolicyLinear},
	{ID: "golem", Name: "Golem", Category: CategoryTroop, ExternalID: 4000013, HousingCost: 30, BasePrice: 2200, InflationRate: 2, Policy: PolicyExponential},
	{ID: "witch", Name: "Witch", Category: CategoryTroop, ExternalID: 4000015, HousingCost: 12, BasePrice: 900, InflationRate: 450, Policy: PolicyLinear},
	{ID: "lava-hound", Name: "Lava Hound", Category: CategoryTroop, ExternalID: 4000017, HousingCost: 30, BasePrice: 2000, InflationRate: 2, Policy: PolicyExponential},
	{ID: "bowler", Name: "Bowler", Category: CategoryTroop, ExternalID: 4000022, HousingCost: 6, BasePrice: 700, InflationRate: 350, Policy: PolicyLinear},
	{ID: "miner", Name: "Miner", Category: CategoryTroop, ExternalID: 4000024, HousingCost: 5, BasePrice: 500, InflationRate: 250, Policy: PolicyLinear},
	{ID: "yeti", Name: "Yeti", Category: CategoryTroop, ExternalID: 4000053, HousingCost: 18, BasePrice: 1600, InflationRate: 800, Policy: PolicyLinear},
	{ID: "electro-dragon", Name: "Electro Dragon", Category: CategoryTroop, ExternalID: 4000059, HousingCost: 30, BasePrice: 2400, InflationRate: 2, Policy: PolicyExponential},

	// ---- Super troops ----
	{ID: "super-barbarian", Name: "Super Barbarian", Category: CategorySuperTroop, ExternalID: 4000026, HousingCost: 5, BasePrice: 450, InflationRate: 225, Policy: PolicyLinear},
	{ID: "super-archer", Name: "Super Archer", Category: CategorySuperTroop, ExternalID: 4000027, HousingCost: 12, BasePrice: 1000, InflationRate: 500, Policy: PolicyLinear},
	{ID: "super-wall-breaker", Name: "Super Wall Breaker", Category: CategorySuperTroop, ExternalID: 4000028, HousingCost: 8, BasePrice: 900, InflationRate: 0, Policy: PolicyFlat},
	{ID: "super-giant", Name: "Super Giant", Category: CategorySuperTroop, ExternalID: 4000029, HousingCost: 10, BasePrice: 1100, InflationRate: 550, Policy: PolicyLinear},

	// ---- Siege machines ----
	{ID: "wall-wrecker", Name: "Wall Wrecker", Category: CategorySiege, ExternalID: 4000051, HousingCost: 1, BasePrice: 2000, InflationRate: 0, Policy: PolicyFlat},
	{ID: "battle-blimp", Name: "Battle Blimp", Category: CategorySiege, ExternalID: 4000052, HousingCost: 1, BasePrice: 2000, InflationRate: 0, Policy: PolicyFlat},
	{ID: "stone-slammer", Name: "Stone Slammer", Category: CategorySiege, ExternalID: 4000062, HousingCost: 1, BasePrice: 2500, InflationRate: 0, Policy: PolicyFlat},
	{ID: "siege-barracks", Name: "Siege Barracks", Category: CategorySiege, ExternalID: 4000075, HousingCost: 1, BasePrice: 2500, InflationRate: 0, Policy: PolicyFlat},
	{ID: "log-launcher", Name: "Log Launcher", Category: CategorySiege, ExternalID: 4000087, HousingCost: 1, BasePrice: 3000, InflationRate: 0, Policy: PolicyFlat},

	// ---- Spells ----
	{ID: "lightning-spell", Name: "Lightning Spell", Category: CategorySpell, ExternalID: 26000000, HousingCost: 1, BasePrice: 300, InflationRate: 150, Policy: PolicyLinear},
	{ID: "healing-spell", Name: "Healing Spell", Category: CategorySpell, ExternalID: 26000001, HousingCost: 2, BasePrice: 400, InflationRate: 200, Policy: PolicyLinear},
	{ID: "rage-spell", Name: "Rage Spell", Category: CategorySpell, ExternalID: 26000002, HousingCost: 2, BasePrice: 500, InflationRate: 250, Policy: PolicyLinear},
	{ID: "jump-spell", Name: "Jump Spell", Category: CategorySpell, ExternalID: 26000003, HousingCost: 2, BasePrice: 450, InflationRate: 225, Policy: PolicyLinear},
	{ID: "freeze-spell", Name: "Freeze Spell", Category: CategorySpell, ExternalID: 26000005, HousingCost: 1, BasePrice: 400, InflationRate: 200, Policy: PolicyLinear},
	{ID: "poison-spell", Name: "Poison Spell", Category: CategorySpell, ExternalID: 26000009, HousingCost: 1, BasePrice: 250, InflationRate: 125, Policy: PolicyLinear},
	{ID: "earthquake-spell", Name: "Earthquake Spell", Category: CategorySpell, ExternalID: 26000010, HousingCost: 1, BasePrice: 250, InflationRate: 125, Policy: PolicyLinear},
	{ID: "haste-spell", Name: "Haste Spell", Category: CategorySpell, ExternalID: 26000011, HousingCost: 1, BasePrice: 300, InflationRate: 150, Policy: PolicyLinear},
	{ID: "skeleton-spell", Name: "Skeleton Spell", Category: CategorySpell, ExternalID: 26000017, HousingCost: 1, BasePrice: 350, InflationRate: 175, Policy: PolicyLinear},
	{ID: "invisibility-spell", Name: "Invisibility Spell", Category: CategorySpell, ExternalID: 26000035, HousingCost: 1, BasePrice: 600, InflationRate: 2, Policy: PolicyExponential},

	// ---- Hero equipment (free for the buyer; consumes hero slots only) ----
	{ID: "barbarian-puppet", Name: "Barbarian Puppet", Category: CategoryEquipment, HeroAffinity: HeroBK, ExternalID: 90000000, Policy: PolicyFlat},
	{ID: "rage-vial", Name: "Rage Vial", Category: CategoryEquipment, HeroAffinity: HeroBK, ExternalID: 90000001, Policy: PolicyFlat},
	{ID: "earthquake-boots", Name: "Earthquake Boots", Category: CategoryEquipment, HeroAffinity: HeroBK, ExternalID: 90000002, Policy: PolicyFlat},
	{ID: "vampstache", Name: "Vampstache", Category: CategoryEquipment, HeroAffinity: HeroBK, ExternalID: 90000003, Policy: PolicyFlat},
	{ID: "archer-puppet", Name: "Archer Puppet", Category: CategoryEquipment, HeroAffinity: HeroAQ, ExternalID: 90000004, Policy: PolicyFlat},
	{ID: "invisibility-vial", Name: "Invisibility Vial", Category: CategoryEquipment, HeroAffinity: HeroAQ, ExternalID: 90000005, Policy: PolicyFlat},
	{ID: "giant-arrow", Name: "Giant Arrow", Category: CategoryEquipment, HeroAffinity: HeroAQ, ExternalID: 90000006, Policy: PolicyFlat},
	{ID: "frozen-arrow", Name: "Frozen Arrow", Category: CategoryEquipment, HeroAffinity: HeroAQ, ExternalID: 90000007, Policy: PolicyFlat},
	{ID: "eternal-tome", Name: "Eternal Tome", Category: CategoryEquipment, HeroAffinity: HeroGW, ExternalID: 90000008, Policy: PolicyFlat},
	{ID: "life-gem", Name: "Life Gem", Category: CategoryEquipment, HeroAffinity: HeroGW, ExternalID: 90000009, Policy: PolicyFlat},
	{ID: "healing-tome", Name: "Healing Tome", Category: CategoryEquipment, HeroAffinity: HeroGW, ExternalID: 90000010, Policy: PolicyFlat},
	{ID: "rage-gem", Name: "Rage Gem", Category: CategoryEquipment, HeroAffinity: HeroGW, ExternalID: 90000011, Policy: PolicyFlat},
	{ID: "royal-gem", Name: "Royal Gem", Category: CategoryEquipment, HeroAffinity: HeroRC, ExternalID: 90000012, Policy: PolicyFlat},
	{ID: "seeking-shield", Name: "Seeking Shield", Category: CategoryEquipment, HeroAffinity: HeroRC, ExternalID: 90000013, Policy: PolicyFlat},
	{ID: "hog-rider-puppet", Name: "Hog Rider Puppet", Category: CategoryEquipment, HeroAffinity: HeroRC, ExternalID: 90000014, Policy: PolicyFlat},
	{ID: "haste-vial", Name: "Haste Vial", Category: CategoryEquipment, HeroAffinity: HeroRC, ExternalID: 90000015, Policy: PolicyFlat},
	{ID: "henchmen-puppet", Name: "Henchmen Puppet", Category: CategoryEquipment, HeroAffinity: HeroMP, ExternalID: 90000016, Policy: PolicyFlat},
	{ID: "dark-orb", Name: "Dark Orb", Category: CategoryEquipment, HeroAffinity: HeroMP, ExternalID: 90000017, Policy: PolicyFlat},
	{ID: "metal-pants", Name: "Metal Pants", Category: CategoryEquipment, HeroAffinity: HeroMP, ExternalID: 90000018, Policy: PolicyFlat},

	// ---- Pets (assigned to a hero at purchase time) ----
	{ID: "lassi", Name: "L.A.S.S.I", Category: CategoryPet, ExternalID: 73000000, Policy: PolicyFlat},
	{ID: "electro-owl", Name: "Electro Owl", Category: CategoryPet, ExternalID: 73000001, Policy: PolicyFlat},
	{ID: "mighty-yak", Name: "Mighty Yak", Category: CategoryPet, ExternalID: 73000002, Policy: PolicyFlat},
	{ID: "unicorn", Name: "Unicorn", Category: CategoryPet, ExternalID: 73000003, Policy: PolicyFlat},
	{ID: "frosty", Name: "Frosty", Category: CategoryPet, ExternalID: 73000004, Policy: PolicyFlat},
	{ID: "diggy", Name: "Diggy", Category: CategoryPet, ExternalID: 73000005, Policy: PolicyFlat},
	{ID: "poison-lizard", Name: "Poison Lizard", Category: CategoryPet, ExternalID: 73000006, Policy: PolicyFlat},
	{ID: "phoenix", Name: "Phoenix", Category: CategoryPet, ExternalID: 73000008, Policy: PolicyFlat},
}

// Default builds the built-in catalog. It panics on a malformed data
// table since that is a programming error, not a runtime condition.
func Default() *Catalog {
	c, err := New(defaultItems)
	if err != nil {
		panic("catalog: built-in data invalid: " + err.Error())
	}
	return c
}
