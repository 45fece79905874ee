package model

import "time"

// Team owns the shared gold budget its players spend from. Budget is
// only ever mutated inside the purchase/sell transactions so that the
// decrement and the Purchase row stay consistent.
type Team struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LobbyID       int64     `gorm:"index:idx_lobby_team;not null" json:"lobby_id"`
	Name          string    `gorm:"size:64;not null" json:"name"`
	Budget        int64     `gorm:"default:0" json:"budget"`
	InitialBudget int64     `gorm:"default:0" json:"initial_budget"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Spent is the gold this team has committed so far.
func (t *Team) Spent() int64 {
	return t.InitialBudget - t.Budget
}
