package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
listen = ":9090"

[browse]
page_size = 12

[geo]
tortuosity = 1.4
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 12, cfg.Browse.PageSize)
	assert.Equal(t, 1.4, cfg.Geo.Tortuosity)
	// untouched fields keep their defaults
	assert.Equal(t, 400, cfg.Browse.TextDebounce)
	assert.Equal(t, 5000, cfg.Geo.TimeoutMs)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("listen = ["), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("RABBIT_URL", "amqp://guest@rabbit/")
	t.Setenv("SESSION_SECRET", "hush")
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "amqp://guest@rabbit/", cfg.Rabbit.Url)
	assert.Equal(t, "hush", cfg.Session.Secret)
}
