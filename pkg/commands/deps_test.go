package commands

import (
	"testing"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/arthur-debert/ovm/pkg/registry"
	"github.com/arthur-debert/ovm/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeps(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(paths.EnvCacheDir, t.TempDir())
	t.Setenv(paths.EnvStateDir, t.TempDir())

	p, err := paths.New()
	require.NoError(t, err)

	t.Run("cached registry", func(t *testing.T) {
		s := settings.Default()
		s.Batch.Mode = settings.ModeSeries
		s.Batch.MaxParallel = 4

		deps, err := NewDeps(s, p)
		require.NoError(t, err)
		defer func() { assert.NoError(t, deps.Close()) }()

		assert.Equal(t, batch.Options{Mode: batch.Series, MaxParallel: 4}, deps.Batch)
		layers, ok := deps.Registry.Cache.(registry.Layered)
		require.True(t, ok)
		assert.Len(t, layers, 2)
		assert.Equal(t, s.GitHub.DownloadURL, deps.Installer.BaseURL)
	})

	t.Run("cache disabled", func(t *testing.T) {
		s := settings.Default()
		s.Registry.Cache = false

		deps, err := NewDeps(s, p)
		require.NoError(t, err)
		assert.Nil(t, deps.Registry.Cache)
		assert.NoError(t, deps.Close())
	})

	t.Run("invalid mode", func(t *testing.T) {
		s := settings.Default()
		s.Batch.Mode = "sideways"

		_, err := NewDeps(s, p)
		assert.Error(t, err)
	})
}
