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

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_FirstSourceWins verifies that a field set by an earlier source is
// not overridden by a later one, while unset fields are filled in.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "env"}},
		&StructuredConfig{App: App{Version: "flag", TokenIssuer: "flag-issuer"}},
	)
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.App.Version)
	assert.Equal(t, "flag-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 4, cfg.Sync.BatchWidth)
	assert.Equal(t, time.Second, cfg.Sync.NotifyThrottle)
	assert.Equal(t, 5*time.Minute, cfg.Workers.SyncInterval)
}

// ── withDotEnv ────────────────────────────────────────────────────────────────

func TestWithDotEnv_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SYNC_BATCH_WIDTH=7\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SYNC_BATCH_WIDTH") })

	b := newConfigBuilder().withDotEnv(path).withEnv()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, 7, b.configs[0].Sync.BatchWidth)
}

func TestWithDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_VERSION=from-file\n"), 0o600))
	t.Setenv("APP_VERSION", "from-env")

	b := newConfigBuilder().withDotEnv(path).withEnv()

	require.NoError(t, b.err)
	assert.Equal(t, "from-env", b.configs[0].App.Version)
}

func TestWithDotEnv_MissingFileIgnored(t *testing.T) {
	b := newConfigBuilder().withDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, b.err)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("SYNC_COLLECTIONS", "habits,goals")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, []string{"habits", "goals"}, b.configs[0].Sync.Collections)
}

func TestWithEnv_InvalidValueSetsError(t *testing.T) {
	t.Setenv("SYNC_BATCH_WIDTH", "wide")

	b := newConfigBuilder().withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
	assert.Len(t, b.configs, 1)
}

func TestWithFlags_UnknownFlagSetsError(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-no-such-flag"})
	assert.Error(t, b.err)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "json-version"
	payload.Sync.BatchWidth = 2
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-version", b.configs[1].App.Version)
	assert.Equal(t, 2, b.configs[1].Sync.BatchWidth)
}

func TestWithJSON_UsesFirstPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.App.Version = "first"
	second := StructuredJSONConfig{}
	second.App.Version = "second"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, second)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "first", b.configs[2].App.Version)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// ── projections ───────────────────────────────────────────────────────────────

func validClientConfig() *ClientConfig {
	cfg := defaultConfig()
	cfg.Storage.Local.DSN = "/tmp/clearmind.db"
	return NewClientConfig(cfg)
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(c *ClientConfig) {}},
		{name: "empty dsn", mutate: func(c *ClientConfig) { c.Storage.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "memory dsn", mutate: func(c *ClientConfig) { c.Storage.DSN = ":memory:" }, wantErr: ErrInvalidStorageConfigs},
		{name: "no remote address", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = "" }, wantErr: ErrInvalidAdapterConfigs},
		{name: "zero batch width", mutate: func(c *ClientConfig) { c.Sync.BatchWidth = 0 }, wantErr: ErrInvalidSyncConfigs},
		{name: "zero collection timeout", mutate: func(c *ClientConfig) { c.Sync.CollectionTimeout = 0 }, wantErr: ErrInvalidSyncConfigs},
		{name: "zero sync interval", mutate: func(c *ClientConfig) { c.Workers.SyncInterval = 0 }, wantErr: ErrInvalidWorkerConfigs},
		{name: "bad log level", mutate: func(c *ClientConfig) { c.Log.Level = "chatty" }, wantErr: ErrInvalidLogConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := defaultConfig()
	serverCfg := NewServerConfig(cfg)
	assert.ErrorIs(t, serverCfg.validate(), ErrInvalidStorageConfigs)

	cfg.Storage.DB.DSN = "postgres://localhost/clearmind"
	serverCfg = NewServerConfig(cfg)
	assert.ErrorIs(t, serverCfg.validate(), ErrInvalidAppConfigs)

	cfg.App.TokenSignKey = "secret"
	serverCfg = NewServerConfig(cfg)
	assert.NoError(t, serverCfg.validate())
}

func TestGetClientConfig_FromFlags(t *testing.T) {
	cfg, err := GetClientConfig([]string{
		"-r", "http://sync.example.com",
		"-l", filepath.Join(t.TempDir(), "local.db"),
		"-token", "abc",
		"-collections", "habits, goals",
		"-sync-once",
	})

	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.App.Token)
	assert.Equal(t, []string{"habits", "goals"}, cfg.Sync.Collections)
	assert.True(t, cfg.Workers.SyncOnce)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
}
