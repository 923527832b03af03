package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfig, EnvConfigDir, EnvCacheDir, EnvStateDir, EnvObsidianConfig, "XDG_STATE_HOME"} {
		t.Setenv(key, "")
	}
}

func TestNew(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		envSetup map[string]string
		validate func(t *testing.T, p Paths)
	}{
		{
			name: "default config document in home",
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, filepath.Join(homeDir, ConfigFileName), p.DefaultConfigPath())
				assert.Equal(t, homeDir, p.HomeDir())
			},
		},
		{
			name:     "config document from env with tilde",
			envSetup: map[string]string{EnvConfig: "~/vaults/ovm.json"},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, filepath.Join(homeDir, "vaults", "ovm.json"), p.DefaultConfigPath())
			},
		},
		{
			name: "custom XDG directories",
			envSetup: map[string]string{
				EnvConfigDir: "/custom/config",
				EnvCacheDir:  "/custom/cache",
				EnvStateDir:  "/custom/state",
			},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/custom/config", p.ConfigDir())
				assert.Equal(t, "/custom/cache", p.CacheDir())
				assert.Equal(t, "/custom/state", p.StateDir())
				assert.Equal(t, "/custom/state/ovm.log", p.LogFilePath())
				assert.Equal(t, "/custom/state/run.log", p.RunLogFilePath())
				assert.Equal(t, "/custom/cache/http-cache.db", p.RegistryCachePath())
				assert.Equal(t, []string{
					"/custom/config/settings.toml",
					"/custom/config/settings.yaml",
					"/custom/config/settings.yml",
				}, p.SettingsFiles())
			},
		},
		{
			name:     "state dir from XDG_STATE_HOME",
			envSetup: map[string]string{"XDG_STATE_HOME": "/xdg/state"},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/xdg/state/ovm", p.StateDir())
			},
		},
		{
			name: "state dir fallback",
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, filepath.Join(homeDir, ".local", "state", "ovm"), p.StateDir())
			},
		},
		{
			name:     "obsidian config from env",
			envSetup: map[string]string{EnvObsidianConfig: "/etc/obsidian.json"},
			validate: func(t *testing.T, p Paths) {
				assert.Equal(t, "/etc/obsidian.json", p.ObsidianConfigPath())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envSetup {
				t.Setenv(k, v)
			}

			p, err := New()
			require.NoError(t, err)
			tt.validate(t, p)
		})
	}
}

func TestExpandHome(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"~", homeDir},
		{"~/ovm.json", filepath.Join(homeDir, "ovm.json")},
		{"~other/file", "~other/file"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandHome(tt.input))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	_, err := NormalizePath("")
	assert.Error(t, err)

	got, err := NormalizePath("/vaults/../vaults/a/")
	require.NoError(t, err)
	assert.Equal(t, "/vaults/a", got)

	got, err = NormalizePath("rel")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestVaultLayout(t *testing.T) {
	vault := "/vaults/notes"

	assert.Equal(t, "/vaults/notes/.obsidian", ObsidianDir(vault))
	assert.Equal(t, "/vaults/notes/.obsidian/plugins", PluginsDir(vault))
	assert.Equal(t, "/vaults/notes/.obsidian/plugins/dataview", PluginDir(vault, "dataview"))
	assert.Equal(t, "/vaults/notes/.obsidian/plugins/dataview/manifest.json", ManifestFile(vault, "dataview"))
	assert.Equal(t, "/vaults/notes/.obsidian/community-plugins.json", CommunityPluginsFile(vault))
}
