package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/racelog/internal/flagx"
	"github.com/dmitrijs2005/racelog/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Interval fields use
// timex.Duration so both "24h" strings and integer nanoseconds parse.
type JsonConfig struct {
	Addr         string         `json:"addr"`
	StoreBackend string         `json:"store_backend"`
	DataDir      string         `json:"data_dir"`
	SeedDir      string         `json:"seed_dir"`
	StaticDir    string         `json:"static_dir"`
	ImageDir     string         `json:"image_dir"`
	SessionTTL   timex.Duration `json:"session_ttl"`
}

// parseJson overlays values from the JSON file named by -c/-config, if
// any. Unreadable or invalid files panic: a config the operator pointed
// at explicitly must not be half-applied.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.StoreBackend != "" {
		config.StoreBackend = c.StoreBackend
	}
	if c.DataDir != "" {
		config.DataDir = c.DataDir
	}
	if c.SeedDir != "" {
		config.SeedDir = c.SeedDir
	}
	if c.StaticDir != "" {
		config.StaticDir = c.StaticDir
	}
	if c.ImageDir != "" {
		config.ImageDir = c.ImageDir
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
}
