package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/dunepool/internal/config"
	"github.com/plus3/dunepool/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
[enhancement]
raise_unit_cap = true

[logging]
level = "debug"
format = "json"

[stress]
duration = "2m"
tick_rate = "16ms"
spawn_per_tick = 3
profile = "cpu"
checkpoint_dir = "checkpoints"
`)

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.True(t, cfg.Enhancement.RaiseUnitCap)
		assert.Equal(t, pool.CapacityRaised, cfg.CapacityPolicy().Mode())
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, 2*time.Minute, cfg.Stress.Duration)
		assert.Equal(t, 16*time.Millisecond, cfg.Stress.TickRate)
		assert.Equal(t, 3, cfg.Stress.SpawnPerTick)
		assert.Equal(t, "cpu", cfg.Stress.Profile)
		assert.Equal(t, "checkpoints", cfg.Stress.CheckpointDir)

		assert.Equal(t, uint64(1), cfg.Stress.Seed, "untouched keys keep their default")
		assert.Equal(t, 64, cfg.MapGen.Attempts)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := config.Default()
		assert.False(t, cfg.Enhancement.RaiseUnitCap)
		assert.Equal(t, pool.CapacityNormal, cfg.CapacityPolicy().Mode())
		assert.Equal(t, "console", cfg.Logging.Format)
		assert.Empty(t, cfg.Stress.CheckpointDir)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "[logging\nlevel = "))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, body := range []string{
			"[logging]\nformat = \"xml\"\n",
			"[stress]\nprofile = \"block\"\n",
			"[stress]\nspawn_per_tick = -1\n",
			"[mapgen]\nattempts = 0\n",
		} {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err, body)
		}
	})
}
