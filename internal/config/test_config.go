package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.API.HTTPTimeout = 5 * time.Second
	cfg.API.UserAgent = "ghscout-test/1.0"
	cfg.Search.Debounce = 10 * time.Millisecond
	cfg.Log.Level = "off"
	cfg.Log.File = ""
	return cfg
}
