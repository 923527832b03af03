package plugins

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/filesystem"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/arthur-debert/ovm/pkg/types"
)

// Manifest is the subset of manifest.json ovm reads
type Manifest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Version       string `json:"version"`
	MinAppVersion string `json:"minAppVersion,omitempty"`
	Author        string `json:"author,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Manager performs plugin filesystem operations within vaults
type Manager struct {
	FS types.FS
}

// NewManager returns a Manager over fsys
func NewManager(fsys types.FS) *Manager {
	return &Manager{FS: fsys}
}

// IsInstalled reports whether the plugin directory exists in the vault
func (m *Manager) IsInstalled(id, vaultPath string) (bool, error) {
	info, err := m.FS.Stat(paths.PluginDir(vaultPath, id))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// ListInstalled returns the sorted ids of the plugin directories present. A
// vault without a plugins directory has none.
func (m *Manager) ListInstalled(vaultPath string) ([]string, error) {
	entries, err := m.FS.ReadDir(paths.PluginsDir(vaultPath))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Remove deletes the plugin directory
func (m *Manager) Remove(id, vaultPath string) error {
	dir := paths.PluginDir(vaultPath, id)
	logger := logging.GetLogger("plugins")
	logger.Debug().Str("plugin", id).Str("dir", dir).Msg("Remove plugin")
	if err := m.FS.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrPluginRemove, "cannot remove %s", dir)
	}
	return nil
}

// EnabledPlugins returns the ids listed in community-plugins.json
func (m *Manager) EnabledPlugins(vaultPath string) ([]string, error) {
	data, err := m.FS.ReadFile(paths.CommunityPluginsFile(vaultPath))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid %s", paths.CommunityPluginsFile(vaultPath))
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// SetEnabled adds or removes id in community-plugins.json. The file is
// created as an empty list when missing, and ids are never duplicated.
func (m *Manager) SetEnabled(id, vaultPath string, enabled bool) error {
	file := paths.CommunityPluginsFile(vaultPath)
	logger := logging.GetLogger("plugins").With().Str("plugin", id).Str("file", file).Bool("enabled", enabled).Logger()

	exists, err := filesystem.Exists(m.FS, file)
	if err != nil {
		return err
	}
	if !exists {
		if err := filesystem.WriteFileAtomic(m.FS, file, []byte("[]"), 0644); err != nil {
			return err
		}
	}

	ids, err := m.EnabledPlugins(vaultPath)
	if err != nil {
		return err
	}

	next := make([]string, 0, len(ids)+1)
	for _, existing := range ids {
		if existing != id && !slices.Contains(next, existing) {
			next = append(next, existing)
		}
	}
	if enabled {
		next = append(next, id)
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	if err := filesystem.WriteFileAtomic(m.FS, file, data, 0644); err != nil {
		return err
	}

	logger.Debug().Msg("Community plugins updated")
	return nil
}

// ReadManifest reads the manifest of an installed plugin
func (m *Manager) ReadManifest(id, vaultPath string) (*Manifest, error) {
	file := paths.ManifestFile(vaultPath, id)
	data, err := m.FS.ReadFile(file)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrPluginNotInstalled, "plugin %s has no manifest", id)
		}
		return nil, err
	}
	return ParseManifest(data)
}

// ParseManifest decodes manifest.json content
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid plugin manifest")
	}
	if manifest.ID == "" {
		return nil, errors.New(errors.ErrInvalidInput, "plugin manifest has no id")
	}
	return &manifest, nil
}

// Size returns the on-disk size of the plugin directory in bytes
func (m *Manager) Size(id, vaultPath string) (int64, error) {
	return filesystem.DirSize(m.FS, paths.PluginDir(vaultPath, id))
}

// WriteFiles writes the given files into the plugin directory
func (m *Manager) WriteFiles(id, vaultPath string, files map[string][]byte) error {
	dir := paths.PluginDir(vaultPath, id)
	if err := m.FS.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrPluginInstall, "cannot create %s", dir)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		target := filepath.Join(dir, name)
		if err := filesystem.WriteFileAtomic(m.FS, target, files[name], 0644); err != nil {
			return errors.Wrapf(err, errors.ErrPluginInstall, "cannot write %s", target)
		}
	}
	return nil
}
