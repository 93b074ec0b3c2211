package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("all flags set", func(t *testing.T) {
		os.Args = []string{"testbin",
			"-a", ":9090",
			"-b", "memory",
			"-d", "/data",
			"-s", "/seed",
			"-w", "/static",
			"-i", "/images",
			"-t", "48",
		}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "memory", cfg.StoreBackend)
		assert.Equal(t, "/data", cfg.DataDir)
		assert.Equal(t, "/seed", cfg.SeedDir)
		assert.Equal(t, "/static", cfg.StaticDir)
		assert.Equal(t, "/images", cfg.ImageDir)
		assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	})

	t.Run("unset flags keep defaults", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", ":9090"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "file", cfg.StoreBackend)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	})

	t.Run("foreign flags ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "conf.json", "-a", ":9090"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":9090", cfg.Addr)
	})
}
