package config

import "time"

// DefaultConfig returns the built-in configuration applied before any
// yaml file or environment override.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8000,
			Path: "/ws",
		},
		Web: WebConfig{
			Enabled:   true,
			Port:      7861,
			StaticDir: "./web",
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Extraction: ExtractionConfig{
			ModelName:     "gemini-2.5-flash",
			BaseURL:       "https://generativelanguage.googleapis.com/v1beta/openai/",
			Temperature:   0.1,
			MaxTokens:     500,
			MaxConcurrent: 3,
			Timeout:       30 * time.Second,
		},
		Buffer: BufferConfig{
			IdleTimeout:  3 * time.Second,
			MaxFragments: 6,
			MaxChars:     280,
			MinChars:     5,
		},
		Guidance: GuidanceConfig{
			Interval:            45 * time.Second,
			Cooldown:            60 * time.Second,
			PendingTimeout:      120 * time.Second,
			InjectTimeout:       15 * time.Second,
			EscalationThreshold: 3,
			MaxHistory:          20,
			Adaptive:            true,
		},
		Session: SessionConfig{
			Schema: "interview",
		},
		Store: StoreConfig{
			Driver: "memory",
			TTL:    24 * time.Hour,
		},
	}
}
