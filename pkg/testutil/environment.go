package testutil

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/filesystem"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/arthur-debert/ovm/pkg/plugins"
	"github.com/arthur-debert/ovm/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment holds a home directory with a config document and any
// number of vaults
type TestEnvironment struct {
	HomeDir    string
	VaultsRoot string
	ConfigPath string

	FS      types.FS
	Manager *plugins.Manager

	Type EnvType

	t      *testing.T
	vaults []types.Vault
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvIsolated:
		root := t.TempDir()
		env.HomeDir = filepath.Join(root, "home")
		env.FS = filesystem.NewOS()
	default:
		env.HomeDir = "/virtual/home"
		env.FS = filesystem.NewMemory()
	}
	env.VaultsRoot = filepath.Join(env.HomeDir, "vaults")
	env.ConfigPath = filepath.Join(env.HomeDir, paths.ConfigFileName)
	env.Manager = plugins.NewManager(env.FS)

	env.mustMkdir(env.VaultsRoot)

	t.Setenv("HOME", env.HomeDir)
	t.Setenv(paths.EnvConfig, env.ConfigPath)

	return env
}

// AddVault creates an empty vault under VaultsRoot
func (env *TestEnvironment) AddVault(name string) types.Vault {
	env.t.Helper()

	dir := filepath.Join(env.VaultsRoot, name)
	env.mustMkdir(paths.ObsidianDir(dir))

	vault, err := types.NewVault(name, dir)
	if err != nil {
		env.t.Fatalf("Failed to create vault %s: %v", name, err)
	}
	env.vaults = append(env.vaults, vault)
	return vault
}

// Vaults returns every vault added so far
func (env *TestEnvironment) Vaults() []types.Vault {
	out := make([]types.Vault, len(env.vaults))
	copy(out, env.vaults)
	return out
}

// WriteConfig writes a config document listing plugins
func (env *TestEnvironment) WriteConfig(plugins ...types.Plugin) {
	env.t.Helper()

	if plugins == nil {
		plugins = []types.Plugin{}
	}
	if err := config.Write(env.FS, &config.Document{Plugins: plugins}, env.ConfigPath); err != nil {
		env.t.Fatalf("Failed to write config: %v", err)
	}
}

// ReadConfig loads the config document
func (env *TestEnvironment) ReadConfig() *config.Document {
	env.t.Helper()

	doc, err := config.Load(env.FS, env.ConfigPath)
	if err != nil {
		env.t.Fatalf("Failed to load config: %v", err)
	}
	return doc
}

// InstallPlugin lays out an installed plugin with a manifest in vault
func (env *TestEnvironment) InstallPlugin(vault types.Vault, id, version string) {
	env.t.Helper()

	if err := env.Manager.WriteFiles(id, vault.Path, PluginFiles(id, version)); err != nil {
		env.t.Fatalf("Failed to install plugin %s: %v", id, err)
	}
}

// Enabled returns the enabled plugin ids of vault
func (env *TestEnvironment) Enabled(vault types.Vault) []string {
	env.t.Helper()

	ids, err := env.Manager.EnabledPlugins(vault.Path)
	if err != nil {
		env.t.Fatalf("Failed to read enabled plugins: %v", err)
	}
	return ids
}

// IsInstalled reports whether the plugin directory exists in vault
func (env *TestEnvironment) IsInstalled(vault types.Vault, id string) bool {
	env.t.Helper()

	ok, err := env.Manager.IsInstalled(id, vault.Path)
	if err != nil {
		env.t.Fatalf("Failed to probe plugin %s: %v", id, err)
	}
	return ok
}

func (env *TestEnvironment) mustMkdir(dir string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(dir, 0755); err != nil {
		env.t.Fatalf("Failed to create %s: %v", dir, err)
	}
}

// PluginFiles returns the release assets of a fake plugin
func PluginFiles(id, version string) map[string][]byte {
	manifest, _ := json.Marshal(plugins.Manifest{
		ID:      id,
		Name:    strings.ToUpper(id[:1]) + id[1:],
		Version: version,
	})
	return map[string][]byte{
		plugins.AssetManifest: manifest,
		plugins.AssetMain:     []byte("module.exports = {};\n"),
	}
}
