package uninstall

import (
	"context"
	"testing"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/testutil"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, configured ...types.Plugin) (*testutil.TestEnvironment, *config.Store) {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteConfig(configured...)
	store, err := config.OpenStore(env.FS, env.ConfigPath)
	require.NoError(t, err)
	return env, store
}

func TestExecute_ConfiguredPlugins(t *testing.T) {
	env, store := setup(t, types.Plugin{ID: "p1"}, types.Plugin{ID: "p2"})
	vault := env.AddVault("work")
	env.InstallPlugin(vault, "p1", "1.0.0")
	require.NoError(t, env.Manager.SetEnabled("p1", vault.Path, true))

	report, err := Execute(context.Background(), Options{
		Vaults:  []types.Vault{vault},
		Store:   store,
		Manager: env.Manager,
		Batch:   batch.Options{Mode: batch.Series},
	})
	require.NoError(t, err)
	assert.True(t, report.Success)

	res, ok := report.Get(vault.ID())
	require.True(t, ok)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"p1"}, types.PluginIDs(res.Value.Uninstalled()))
	assert.Equal(t, []string{"p2"}, types.PluginIDs(res.Value.NotInstalled()))

	failures := res.Value.Failures()
	require.Len(t, failures, 1)
	assert.True(t, errors.IsErrorCode(failures[0].Err, errors.ErrPluginNotInstalled))

	assert.False(t, env.IsInstalled(vault, "p1"))
	assert.Empty(t, env.Enabled(vault))
	assert.Equal(t, []string{"p2"}, types.PluginIDs(env.ReadConfig().Plugins))
}

func TestExecute_SinglePlugin(t *testing.T) {
	env, store := setup(t, types.Plugin{ID: "p1"}, types.Plugin{ID: "p2"})
	a := env.AddVault("a")
	b := env.AddVault("b")
	for _, v := range []types.Vault{a, b} {
		env.InstallPlugin(v, "p1", "1.0.0")
		env.InstallPlugin(v, "p2", "1.0.0")
	}

	report, err := Execute(context.Background(), Options{
		Vaults:   []types.Vault{a, b},
		Store:    store,
		PluginID: "p2",
		Manager:  env.Manager,
		Batch:    batch.Options{Mode: batch.Parallel},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.SucceededCount())

	for _, v := range []types.Vault{a, b} {
		assert.True(t, env.IsInstalled(v, "p1"))
		assert.False(t, env.IsInstalled(v, "p2"))
	}
	assert.Equal(t, []string{"p1"}, types.PluginIDs(env.ReadConfig().Plugins))
}

func TestExecute_NoVaults(t *testing.T) {
	env, store := setup(t)
	_, err := Execute(context.Background(), Options{Store: store, Manager: env.Manager})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoVaults))
}
