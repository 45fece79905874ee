package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records ledger mutations and referee runs for dispute review.
type AuditLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID    string         `gorm:"index:idx_audit_trace;size:36;not null" json:"trace_id"`
	LobbyID    *int64         `gorm:"index:idx_audit_lobby" json:"lobby_id"`
	PlayerID   *int64         `json:"player_id"`
	TeamID     *int64         `json:"team_id"`
	Action     string         `gorm:"size:64;not null" json:"action"`
	Request    datatypes.JSON `json:"request"`
	Response   datatypes.JSON `json:"response"`
	Error      string         `gorm:"type:text" json:"error"`
	IP         string         `gorm:"size:45" json:"ip"`
	DurationMs int            `json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"created_at"`
}
