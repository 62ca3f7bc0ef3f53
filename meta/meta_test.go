package meta

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
search:
  goroutines: 4
  episodes: 500
  duration: 250ms
  seed: 42
server:
  addr: 127.0.0.1:9000
log_level: debug
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		require.Equal(t, 4, cfg.Search.Goroutines)
		require.Equal(t, 500, cfg.Search.Episodes)
		require.Equal(t, 250*time.Millisecond, cfg.Search.Duration)
		require.NotNil(t, cfg.Search.Seed)
		require.Equal(t, uint64(42), *cfg.Search.Seed)
		require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, EXPERIMENT_GAMES, cfg.Experiment.Games, "Missing keys keep their defaults")
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search:\n  cutoff: 10\n"))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search:\n  goroutines: -1\n"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Search.Episodes = 0
	require.Error(t, cfg.Validate())

	cfg.Search.Duration = time.Second
	require.NoError(t, cfg.Validate(), "A duration alone bounds the search")

	cfg.Experiment.Games = 0
	require.Error(t, cfg.Validate())
}
