package model

import "time"

// LobbyStatus values.
const (
	LobbyClosed = 0
	LobbyOpen   = 1
)

// Lobby is one running war-game session: a set of teams racing their
// shared budgets, overseen by a moderator.
type Lobby struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string     `gorm:"size:64;not null" json:"name"`
	JoinCode      string     `gorm:"uniqueIndex;size:12;not null" json:"join_code"`
	ModeratorHash string     `gorm:"size:64;not null" json:"-"` // bcrypt of the moderator passcode
	Status        int        `gorm:"default:1" json:"status"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastActiveAt  time.Time  `gorm:"index" json:"last_active_at"`
	ClosedAt      *time.Time `json:"closed_at"`
}
