// Package config loads pinboard settings from a YAML file and PINBOARD_*
// environment variables, and builds the configured persistence gateway.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/pinboard"
	"github.com/phanxgames/pinboard/gateway"
)

// Gateway kinds.
const (
	GatewayNone    = "none"
	GatewayJSONBin = "jsonbin"
	GatewayFile    = "file"
	GatewayRedis   = "redis"
	GatewaySQLite  = "sqlite"
	GatewayMemory  = "memory"
)

// Config holds every pinboard setting.
type Config struct {
	Gateway     string        `yaml:"gateway"`
	DocumentKey string        `yaml:"document_key"`
	JSONBin     JSONBin       `yaml:"jsonbin"`
	StorePath   string        `yaml:"store_path"`
	RedisURL    string        `yaml:"redis_url"`
	Passphrase  string        `yaml:"admin_passphrase"`
	Debounce    time.Duration `yaml:"save_debounce"`
	ListenAddr  string        `yaml:"listen_addr"`
	Debug       bool          `yaml:"debug"`
	Window      Window        `yaml:"window"`
}

// JSONBin configures the JSONBin gateway.
type JSONBin struct {
	URL       string `yaml:"url"`
	BinID     string `yaml:"bin_id"`
	MasterKey string `yaml:"master_key"`
}

// Window configures the interactive viewer.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Gateway:     GatewayJSONBin,
		DocumentKey: gateway.DefaultKey,
		JSONBin:     JSONBin{URL: gateway.DefaultJSONBinURL},
		StorePath:   "pinboard-data",
		Passphrase:  pinboard.DefaultPassphrase,
		Debounce:    pinboard.DefaultSaveDebounce,
		ListenAddr:  ":8080",
		Window:      Window{Width: 1280, Height: 800, Title: "Pinboard"},
	}
}

// Load reads path over Default and then applies environment overrides. An
// empty path, or a path that does not exist, skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PINBOARD_GATEWAY"); v != "" {
		cfg.Gateway = v
	}
	if v := os.Getenv("PINBOARD_JSONBIN_MASTER_KEY"); v != "" {
		cfg.JSONBin.MasterKey = v
	}
	if v := os.Getenv("PINBOARD_JSONBIN_BIN_ID"); v != "" {
		cfg.JSONBin.BinID = v
	}
	if v := os.Getenv("PINBOARD_JSONBIN_URL"); v != "" {
		cfg.JSONBin.URL = v
	}
	if v := os.Getenv("PINBOARD_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("PINBOARD_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("PINBOARD_ADMIN_PASSPHRASE"); v != "" {
		cfg.Passphrase = v
	}
	if v := os.Getenv("PINBOARD_SAVE_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Debounce = d
		}
	}
	if v := os.Getenv("PINBOARD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PINBOARD_DEBUG"); v != "" {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
}

// Validate checks the gateway selection and its required settings.
func (c Config) Validate() error {
	switch c.Gateway {
	case GatewayNone, GatewayJSONBin, GatewayMemory:
	case GatewayFile, GatewaySQLite:
		if c.StorePath == "" {
			return fmt.Errorf("gateway %q requires store_path", c.Gateway)
		}
	case GatewayRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("gateway %q requires redis_url", c.Gateway)
		}
	default:
		return fmt.Errorf("unknown gateway %q", c.Gateway)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("save_debounce must not be negative")
	}
	return nil
}

// SQLitePath returns the database file for the sqlite gateway: StorePath
// itself when it names a .db file or ":memory:", otherwise pinboard.db inside
// it.
func (c Config) SQLitePath() string {
	if c.StorePath == ":memory:" || filepath.Ext(c.StorePath) == ".db" {
		return c.StorePath
	}
	return filepath.Join(c.StorePath, "pinboard.db")
}

// OpenStore opens the raw document store behind a file, redis, sqlite, or
// memory gateway. The returned close function releases it.
func OpenStore(ctx context.Context, c Config) (gateway.Store, func() error, error) {
	noop := func() error { return nil }
	switch c.Gateway {
	case GatewayFile:
		s, err := gateway.NewFileStore(c.StorePath)
		return s, noop, err
	case GatewaySQLite:
		s, err := gateway.OpenSQLite(c.SQLitePath())
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case GatewayRedis:
		s, err := gateway.DialRedis(ctx, c.RedisURL, "pinboard:")
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case GatewayMemory:
		return gateway.NewMemoryStore(), noop, nil
	}
	return nil, noop, fmt.Errorf("gateway %q has no document store", c.Gateway)
}

// OpenGateway builds the configured pinboard.Gateway. GatewayNone yields a
// nil gateway, which keeps the board in memory.
func OpenGateway(ctx context.Context, c Config, logger *log.Entry) (pinboard.Gateway, func() error, error) {
	switch c.Gateway {
	case GatewayNone:
		return nil, func() error { return nil }, nil
	case GatewayJSONBin:
		return gateway.NewJSONBin(gateway.JSONBinConfig{
			BaseURL:   c.JSONBin.URL,
			BinID:     c.JSONBin.BinID,
			MasterKey: c.JSONBin.MasterKey,
			Logger:    logger,
		}), func() error { return nil }, nil
	}
	store, closeFn, err := OpenStore(ctx, c)
	if err != nil {
		return nil, closeFn, err
	}
	return gateway.NewDocuments(store, c.DocumentKey), closeFn, nil
}
