// Package store persists finished session snapshots so collected
// records survive the session they came from. Three drivers are
// available: in-memory for development, SQLite for single-node
// deployments, Redis when archives are shared across instances.
package store

import (
	"context"
	"time"
)

// Archive is the durable snapshot of one finished session.
type Archive struct {
	SessionID  string         `json:"sessionId"`
	Schema     string         `json:"schema"`
	Data       map[string]any `json:"data"`
	Missing    []string       `json:"missingFields"`
	Complete   bool           `json:"complete"`
	Updates    int            `json:"updates"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	ExpiresAt  *time.Time     `json:"expiresAt,omitempty"`
}

// Store defines the behaviour required by the session manager.
type Store interface {
	Save(ctx context.Context, archive Archive) error
	Get(ctx context.Context, sessionID string) (Archive, error)
	List(ctx context.Context) ([]Archive, error)
	Remove(ctx context.Context, sessionID string) error
	CleanupExpired(ctx context.Context) error
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Redis  *RedisConfig
	Memory *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
