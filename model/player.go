package model

import "time"

// Player belongs to exactly one team at a time.
type Player struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LobbyID   int64     `gorm:"index:idx_lobby_player;not null" json:"lobby_id"`
	TeamID    int64     `gorm:"index:idx_team_player;not null" json:"team_id"`
	Name      string    `gorm:"size:32;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
