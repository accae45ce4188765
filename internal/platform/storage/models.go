package storage

import (
	"time"

	"gorm.io/datatypes"
)

// SessionArchive persists the final record snapshot of a finished
// session for later review.
type SessionArchive struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SessionID  string         `gorm:"uniqueIndex;not null" json:"session_id"`
	Schema     string         `gorm:"not null" json:"schema"`
	Data       datatypes.JSON `gorm:"not null" json:"data"`
	Complete   bool           `json:"complete"`
	Updates    int            `json:"updates"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	ExpiresAt  *time.Time     `gorm:"index" json:"expires_at,omitempty"`
}
