package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ovm/pkg/errors"
)

// Environment variable names
const (
	// EnvConfig overrides the location of the plugin config document
	EnvConfig = "OVM_CONFIG"

	// EnvConfigDir overrides the XDG config directory for ovm
	EnvConfigDir = "OVM_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for ovm
	EnvCacheDir = "OVM_CACHE_DIR"

	// EnvStateDir overrides the XDG state directory for ovm
	EnvStateDir = "OVM_STATE_DIR"

	// EnvObsidianConfig overrides the location of Obsidian's obsidian.json
	EnvObsidianConfig = "OVM_OBSIDIAN_CONFIG"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for ovm-specific files
	AppDirName = "ovm"

	// ConfigFileName is the name of the plugin config document in $HOME
	ConfigFileName = "ovm.json"

	// LogFileName is the name of the application log file
	LogFileName = "ovm.log"

	// RunLogFileName is the name of the file receiving run command output
	RunLogFileName = "run.log"

	// RegistryCacheFileName is the sqlite database holding cached responses
	RegistryCacheFileName = "http-cache.db"

	// ObsidianDirName is the per-vault Obsidian directory
	ObsidianDirName = ".obsidian"

	// PluginsDirName is the plugins directory inside ObsidianDirName
	PluginsDirName = "plugins"

	// ManifestFileName is the manifest of an installed plugin
	ManifestFileName = "manifest.json"

	// CommunityPluginsFileName lists the enabled community plugin ids
	CommunityPluginsFileName = "community-plugins.json"

	// ObsidianConfigFileName is Obsidian's own application config
	ObsidianConfigFileName = "obsidian.json"
)

// settingsFileNames are probed in order inside the config directory
var settingsFileNames = []string{"settings.toml", "settings.yaml", "settings.yml"}

// Paths provides centralized path management for ovm
type Paths interface {
	HomeDir() string
	DefaultConfigPath() string
	ConfigDir() string
	CacheDir() string
	StateDir() string
	LogFilePath() string
	RunLogFilePath() string
	SettingsFiles() []string
	RegistryCachePath() string
	ObsidianConfigPath() string
}

// paths provides centralized path management for ovm
type paths struct {
	// homeDir is the user's home directory
	homeDir string

	// configPath is the plugin config document
	configPath string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgCache is the XDG cache directory
	xdgCache string

	// xdgState is the XDG state directory
	xdgState string

	// obsidianConfig is Obsidian's obsidian.json
	obsidianConfig string
}

// New creates a new Paths instance resolved from the environment.
func New() (Paths, error) {
	homeDir, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}

	p := &paths{homeDir: homeDir}

	if configPath := os.Getenv(EnvConfig); configPath != "" {
		p.configPath = expandHome(configPath)
	} else {
		p.configPath = filepath.Join(homeDir, ConfigFileName)
	}

	p.setupXDGDirs()
	p.obsidianConfig = findObsidianConfig(homeDir)

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, AppDirName)
	}

	// XDG doesn't always resolve StateHome the way we want, so check manually
	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, AppDirName)
	} else {
		p.xdgState = filepath.Join(p.homeDir, ".local", "state", AppDirName)
	}
}

// findObsidianConfig resolves obsidian.json for the current platform
func findObsidianConfig(homeDir string) string {
	if path := os.Getenv(EnvObsidianConfig); path != "" {
		return expandHome(path)
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "obsidian", ObsidianConfigFileName)
		}
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "obsidian", ObsidianConfigFileName)
	}

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "obsidian", ObsidianConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, "obsidian", ObsidianConfigFileName)
}

// GetHomeDirectory returns the user's home directory, falling back to $HOME
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}
	if homeDir = os.Getenv(EnvHome); homeDir != "" {
		return homeDir, nil
	}
	return "", errors.Wrap(err, errors.ErrInternal, "cannot determine home directory")
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ExpandHome expands a leading ~ in path
func ExpandHome(path string) string {
	return expandHome(path)
}

// NormalizePath expands home, makes the path absolute and cleans it
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", path)
	}
	return filepath.Clean(abs), nil
}

// HomeDir returns the user's home directory
func (p *paths) HomeDir() string {
	return p.homeDir
}

// DefaultConfigPath returns the plugin config document location
func (p *paths) DefaultConfigPath() string {
	return p.configPath
}

// ConfigDir returns the XDG config directory for ovm
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// CacheDir returns the XDG cache directory for ovm
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// StateDir returns the XDG state directory for ovm
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path to the application log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// RunLogFilePath returns the path to the run command output log
func (p *paths) RunLogFilePath() string {
	return filepath.Join(p.xdgState, RunLogFileName)
}

// SettingsFiles returns candidate settings files in lookup order
func (p *paths) SettingsFiles() []string {
	files := make([]string, 0, len(settingsFileNames))
	for _, name := range settingsFileNames {
		files = append(files, filepath.Join(p.xdgConfig, name))
	}
	return files
}

// RegistryCachePath returns the sqlite database used for the registry cache
func (p *paths) RegistryCachePath() string {
	return filepath.Join(p.xdgCache, RegistryCacheFileName)
}

// ObsidianConfigPath returns the location of Obsidian's obsidian.json
func (p *paths) ObsidianConfigPath() string {
	return p.obsidianConfig
}

// ObsidianDir returns <vault>/.obsidian
func ObsidianDir(vaultPath string) string {
	return filepath.Join(vaultPath, ObsidianDirName)
}

// PluginsDir returns <vault>/.obsidian/plugins
func PluginsDir(vaultPath string) string {
	return filepath.Join(ObsidianDir(vaultPath), PluginsDirName)
}

// PluginDir returns <vault>/.obsidian/plugins/<id>
func PluginDir(vaultPath, pluginID string) string {
	return filepath.Join(PluginsDir(vaultPath), pluginID)
}

// ManifestFile returns the manifest path of an installed plugin
func ManifestFile(vaultPath, pluginID string) string {
	return filepath.Join(PluginDir(vaultPath, pluginID), ManifestFileName)
}

// CommunityPluginsFile returns <vault>/.obsidian/community-plugins.json
func CommunityPluginsFile(vaultPath string) string {
	return filepath.Join(ObsidianDir(vaultPath), CommunityPluginsFileName)
}
