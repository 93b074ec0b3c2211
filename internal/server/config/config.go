// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the RaceLog server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - StoreBackend: record store backend, "file" or "memory".
//   - DataDir: directory holding the per-entity JSON collection files.
//   - SeedDir: bundled default datasets, copied on first access only.
//   - StaticDir: front-end assets served at /.
//   - ImageDir: locally stored track images served at /images/.
//   - SessionTTL: lifetime of a login session.
type Config struct {
	Addr         string
	StoreBackend string
	DataDir      string
	SeedDir      string
	StaticDir    string
	ImageDir     string
	SessionTTL   time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.StoreBackend = "file"
	c.DataDir = "./data"
	c.SeedDir = "./defaults"
	c.StaticDir = "./static"
	c.ImageDir = "./data/images"
	c.SessionTTL = 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
