package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/pinboard"
	"github.com/phanxgames/pinboard/gateway"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pinboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, GatewayJSONBin, cfg.Gateway)
	assert.Equal(t, pinboard.DefaultSaveDebounce, cfg.Debounce)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
gateway: file
store_path: /tmp/boards
admin_passphrase: letmein
save_debounce: 2s
window:
  width: 800
  height: 600
  title: Cork
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GatewayFile, cfg.Gateway)
	assert.Equal(t, "/tmp/boards", cfg.StorePath)
	assert.Equal(t, "letmein", cfg.Passphrase)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, Window{Width: 800, Height: 600, Title: "Cork"}, cfg.Window)
	assert.Equal(t, ":8080", cfg.ListenAddr, "unset fields keep defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PINBOARD_GATEWAY", "redis")
	t.Setenv("PINBOARD_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PINBOARD_JSONBIN_MASTER_KEY", "key")
	t.Setenv("PINBOARD_JSONBIN_BIN_ID", "bin")
	t.Setenv("PINBOARD_SAVE_DEBOUNCE", "500ms")
	t.Setenv("PINBOARD_DEBUG", "true")

	cfg, err := Load(writeConfig(t, "gateway: sqlite\n"))
	require.NoError(t, err)
	assert.Equal(t, GatewayRedis, cfg.Gateway)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "key", cfg.JSONBin.MasterKey)
	assert.Equal(t, "bin", cfg.JSONBin.BinID)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"unknown gateway", func(c *Config) { c.Gateway = "ftp" }, true},
		{"redis without url", func(c *Config) { c.Gateway = GatewayRedis }, true},
		{"file without path", func(c *Config) { c.Gateway = GatewayFile; c.StorePath = "" }, true},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }, true},
		{"none", func(c *Config) { c.Gateway = GatewayNone }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "gateway: [\n"))
	assert.Error(t, err)
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, ":memory:", Config{StorePath: ":memory:"}.SQLitePath())
	assert.Equal(t, "boards/x.db", Config{StorePath: "boards/x.db"}.SQLitePath())
	assert.Equal(t, filepath.Join("data", "pinboard.db"), Config{StorePath: "data"}.SQLitePath())
}

func TestOpenGateway(t *testing.T) {
	ctx := context.Background()

	none := Default()
	none.Gateway = GatewayNone
	gw, closeFn, err := OpenGateway(ctx, none, nil)
	require.NoError(t, err)
	assert.Nil(t, gw)
	assert.NoError(t, closeFn())

	jb := Default()
	gw, _, err = OpenGateway(ctx, jb, nil)
	require.NoError(t, err)
	assert.IsType(t, &gateway.JSONBin{}, gw)

	for _, kind := range []string{GatewayFile, GatewaySQLite, GatewayMemory} {
		c := Default()
		c.Gateway = kind
		c.StorePath = filepath.Join(t.TempDir(), "store")
		gw, closeFn, err := OpenGateway(ctx, c, nil)
		require.NoError(t, err, kind)

		snap := pinboard.DefaultSnapshot()
		require.NoError(t, gw.Save(ctx, snap), kind)
		loaded, err := gw.Load(ctx)
		require.NoError(t, err, kind)
		assert.True(t, loaded.HasItems, kind)
		assert.NoError(t, closeFn(), kind)
	}
}
