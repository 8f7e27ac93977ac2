package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"r2r/internal/audit"
	"r2r/internal/config"
	"r2r/internal/r2rconfig"
)

var fixture = filepath.Join("..", "r2rconfig", "testdata", "r2r.json")

func newTestService(t *testing.T, mutate func(*config.Config)) *Service {
	t.Helper()
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.toml")
	settings := config.DefaultConfig()
	settings.Store.Backend = config.BackendMemory
	settings.Audit.Path = filepath.Join(dir, "audit.log")
	if mutate != nil {
		mutate(&settings)
	}
	require.NoError(t, config.Save(settingsPath, settings))

	svc, err := New(context.Background(), Options{SettingsPath: settingsPath, Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func auditEvents(t *testing.T, svc *Service) []audit.Event {
	t.Helper()
	blob, err := os.ReadFile(svc.Settings.Audit.Path)
	require.NoError(t, err)
	var events []audit.Event
	for _, line := range strings.Split(strings.TrimSpace(string(blob)), "\n") {
		var ev audit.Event
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}
	return events
}

func TestNewCreatesDefaultSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	settingsPath := filepath.Join(home, ".r2r", "settings.toml")

	svc, err := New(context.Background(), Options{SettingsPath: settingsPath, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer svc.Close()

	assert.FileExists(t, settingsPath)
	assert.Equal(t, config.BackendSQLite, svc.Settings.Store.Backend)
	assert.FileExists(t, filepath.Join(home, ".r2r", "store.db"))
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 9\n"), 0o600))
	_, err := New(context.Background(), Options{SettingsPath: path, Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SET_CONFIG_VERSION")
}

func TestPushPullRoundTrip(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	pushed, err := svc.Push(ctx, fixture, "test_key")
	require.NoError(t, err)
	pulled, err := svc.Pull(ctx, "test_key")
	require.NoError(t, err)
	assert.True(t, r2rconfig.Equal(pushed, pulled))

	raw, ok, err := svc.Store.Get(ctx, "test_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"example_provider"`)

	events := auditEvents(t, svc)
	require.Len(t, events, 2)
	assert.Equal(t, audit.OpPush, events[0].Operation)
	assert.Equal(t, "ok", events[0].Status)
	assert.Equal(t, audit.OpPull, events[1].Operation)
}

func TestPullMissingKeyIsAudited(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Pull(context.Background(), "missing_key")
	var notFound *r2rconfig.KeyNotFoundError
	require.ErrorAs(t, err, &notFound)

	events := auditEvents(t, svc)
	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0].Status)
	assert.Equal(t, "CFG_KEY_NOT_FOUND", events[0].Code)
}

func TestPushInvalidDocumentWritesNothing(t *testing.T) {
	svc := newTestService(t, nil)
	doc := filepath.Join(t.TempDir(), "r2r.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{}`), 0o644))

	_, err := svc.Push(context.Background(), doc, "k")
	var missing *r2rconfig.MissingSectionError
	require.ErrorAs(t, err, &missing)

	_, ok, err := svc.Store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExport(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	_, err := svc.Push(ctx, fixture, "prod")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "exported", "r2r.json")
	require.NoError(t, svc.Export(ctx, "prod", out))

	exported, err := r2rconfig.LoadFromFile(out)
	require.NoError(t, err)
	original, err := r2rconfig.LoadFromFile(fixture)
	require.NoError(t, err)
	assert.True(t, r2rconfig.Equal(original, exported))
}

func TestShowFillsDefaults(t *testing.T) {
	svc := newTestService(t, nil)
	blob, err := svc.Show(fixture)
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(blob, &doc))
	assert.Equal(t, float64(r2rconfig.DefaultConcurrentRequestLimit), doc["completions"]["concurrent_request_limit"])
}

func TestValidateAndLint(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Validate(fixture)
	require.NoError(t, err)

	issues, err := svc.Lint(fixture)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestMetricsCountStoreOperations(t *testing.T) {
	svc := newTestService(t, func(c *config.Config) { c.Metrics.Enabled = true })
	require.NotNil(t, svc.Registry)
	ctx := context.Background()
	_, err := svc.Push(ctx, fixture, "k")
	require.NoError(t, err)
	_, err = svc.Pull(ctx, "k")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(svc.Registry, "r2r_config_store_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWatchReloads(t *testing.T) {
	svc := newTestService(t, nil)
	original, err := os.ReadFile(fixture)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "r2r.json")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan error, 8)
	holder, done, err := svc.Watch(ctx, path, func(_ *r2rconfig.Config, err error) { reloaded <- err })
	require.NoError(t, err)
	assert.Equal(t, "example_provider", holder.Load().Embedding.Provider.String())

	updated := strings.Replace(string(original), "vector_db", "other_db", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
	assert.Equal(t, "other_db", holder.Load().Database.Provider.String())

	cancel()
	require.NoError(t, <-done)
}

func TestDoctor(t *testing.T) {
	svc := newTestService(t, nil)
	report := svc.Doctor(context.Background(), fixture)
	assert.True(t, report.Healthy, "%+v", report.Findings)
	assert.Equal(t, config.BackendMemory, report.Backend)
}
