package config

import (
	"time"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Web        WebConfig        `yaml:"web"`
	Log        LogConfig        `yaml:"log"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Buffer     BufferConfig     `yaml:"buffer"`
	Guidance   GuidanceConfig   `yaml:"guidance"`
	Session    SessionConfig    `yaml:"session"`
	Store      StoreConfig      `yaml:"store"`
}

// ServerConfig describes the websocket transcript transport listener.
type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// WebConfig describes the polling HTTP API listener.
type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// ExtractionConfig configures the extraction model client and worker pool.
type ExtractionConfig struct {
	ModelName     string        `yaml:"model_name"`
	BaseURL       string        `yaml:"url"`
	APIKey        string        `yaml:"api_key"`
	Temperature   float64       `yaml:"temperature"`
	MaxTokens     int           `yaml:"max_tokens"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	Timeout       time.Duration `yaml:"timeout"`
}

// BufferConfig tunes the utterance buffer flush policy.
type BufferConfig struct {
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxFragments int           `yaml:"max_fragments"`
	MaxChars     int           `yaml:"max_chars"`
	MinChars     int           `yaml:"min_chars"`
}

// GuidanceConfig tunes the guidance scheduler.
type GuidanceConfig struct {
	Interval            time.Duration `yaml:"interval"`
	Cooldown            time.Duration `yaml:"cooldown"`
	PendingTimeout      time.Duration `yaml:"pending_timeout"`
	InjectTimeout       time.Duration `yaml:"inject_timeout"`
	EscalationThreshold int           `yaml:"escalation_threshold"`
	MaxHistory          int           `yaml:"max_history"`
	Adaptive            bool          `yaml:"adaptive"`
}

// SessionConfig selects the field schema applied to new sessions.
type SessionConfig struct {
	Schema string `yaml:"schema"`
}

// StoreConfig selects the finished-session snapshot store driver.
type StoreConfig struct {
	Driver string            `yaml:"driver"`
	TTL    time.Duration     `yaml:"ttl"`
	SQLite StoreSQLiteConfig `yaml:"sqlite"`
	Redis  StoreRedisConfig  `yaml:"redis"`
}

type StoreSQLiteConfig struct {
	DSN string `yaml:"dsn"`
}

type StoreRedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}
