// Package config loads the engine configuration from a TOML file with
// environment overrides for the external endpoints. Every field has a
// default; a missing file yields a fully usable configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/geo"
)

type Config struct {
	Listen   string         `toml:"listen"`
	Country  string         `toml:"country"`
	Browse   BrowseConfig   `toml:"browse"`
	Geo      GeoConfig      `toml:"geo"`
	Session  SessionConfig  `toml:"session"`
	Redis    RedisConfig    `toml:"redis"`
	Rabbit   RabbitConfig   `toml:"rabbit"`
	Snapshot SnapshotConfig `toml:"snapshot"`
}

type BrowseConfig struct {
	PageSize     int `toml:"page_size"`
	TextDebounce int `toml:"text_debounce_ms"`
	URLDebounce  int `toml:"url_debounce_ms"`
}

type GeoConfig struct {
	Tortuosity float64 `toml:"tortuosity"`
	TimeoutMs  int     `toml:"timeout_ms"`
}

type SessionConfig struct {
	// Secret signs login tokens. Leave empty to use a per-process random
	// secret; tokens then do not survive a restart even with redis markers.
	Secret string `toml:"secret"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RabbitConfig struct {
	Url string `toml:"url"`
}

type SnapshotConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen:  ":8080",
		Country: "tn",
		Browse: BrowseConfig{
			PageSize:     20,
			TextDebounce: 400,
			URLDebounce:  1000,
		},
		Geo: GeoConfig{
			Tortuosity: geo.DefaultTortuosity,
			TimeoutMs:  5000,
		},
		Snapshot: SnapshotConfig{Path: "listings.json"},
	}
}

// Load reads the file, fills every missing field with its default and
// applies endpoint overrides from REDIS_URL, REDIS_PASSWORD and RABBIT_URL.
// A missing file is not an error; a malformed one is.
func Load(filename string) (Config, error) {
	cfg := Default()
	if filename != "" {
		if _, err := toml.DecodeFile(filename, &cfg); err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("error decoding config file: %w", err)
			}
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("RABBIT_URL"); v != "" {
		cfg.Rabbit.Url = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}

	if cfg.Browse.PageSize <= 0 {
		cfg.Browse.PageSize = 20
	}
	if cfg.Browse.TextDebounce <= 0 {
		cfg.Browse.TextDebounce = 400
	}
	if cfg.Browse.URLDebounce <= 0 {
		cfg.Browse.URLDebounce = 1000
	}
	if cfg.Geo.Tortuosity <= 0 {
		cfg.Geo.Tortuosity = geo.DefaultTortuosity
	}
	if cfg.Geo.TimeoutMs <= 0 {
		cfg.Geo.TimeoutMs = 5000
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	return cfg, nil
}

func (c BrowseConfig) TextDelay() time.Duration {
	return time.Duration(c.TextDebounce) * time.Millisecond
}

func (c BrowseConfig) URLDelay() time.Duration {
	return time.Duration(c.URLDebounce) * time.Millisecond
}

func (c GeoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
