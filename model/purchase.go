package model

import "time"

// Purchase records one unit of one catalog item bought by one player.
// PricePaid is the marginal price at purchase time; sells refund per
// the recount policy, not this historical value.
type Purchase struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID     int64     `gorm:"index:idx_player_purchase;not null" json:"player_id"`
	TeamID       int64     `gorm:"index:idx_team_purchase;not null" json:"team_id"`
	ItemID       string    `gorm:"size:64;not null" json:"item_id"`
	ClanCastle   bool      `gorm:"default:false" json:"clan_castle"`
	EquippedHero string    `gorm:"size:2" json:"equipped_hero,omitempty"` // BK/AQ/GW/RC/MP for hero gear
	PricePaid    int64     `gorm:"default:0" json:"price_paid"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
