package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"addr":          ":9090",
		"store_backend": "memory",
		"data_dir":      "/var/lib/racelog",
		"seed_dir":      "/usr/share/racelog/defaults",
		"static_dir":    "/usr/share/racelog/static",
		"image_dir":     "/var/lib/racelog/images",
		"session_ttl":   "48h",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "memory", cfg.StoreBackend)
		assert.Equal(t, "/var/lib/racelog", cfg.DataDir)
		assert.Equal(t, "/usr/share/racelog/defaults", cfg.SeedDir)
		assert.Equal(t, "/usr/share/racelog/static", cfg.StaticDir)
		assert.Equal(t, "/var/lib/racelog/images", cfg.ImageDir)
		assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			Addr:         ":7070",
			StoreBackend: "file",
			DataDir:      "d",
			SeedDir:      "s",
			StaticDir:    "w",
			ImageDir:     "i",
			SessionTTL:   time.Hour,
		}
		parseJson(cfg)

		assert.Equal(t, ":7070", cfg.Addr)
		assert.Equal(t, "file", cfg.StoreBackend)
		assert.Equal(t, "d", cfg.DataDir)
		assert.Equal(t, time.Hour, cfg.SessionTTL)
	})

	t.Run("partial json only overrides named fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"addr": ":6060",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":6060", cfg.Addr)
		assert.Equal(t, "file", cfg.StoreBackend)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
