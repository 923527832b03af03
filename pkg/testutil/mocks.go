package testutil

import (
	"context"
	"path"
	"sync"

	"github.com/arthur-debert/ovm/pkg/plugins"
	"github.com/arthur-debert/ovm/pkg/registry"
	"github.com/arthur-debert/ovm/pkg/types"
)

// InstallCall records one Install invocation
type InstallCall struct {
	Repo      string
	Version   string
	VaultPath string
}

// MockInstaller implements plugins.Installer. By default Install writes a
// plugin named after the last element of the repo using Manager.
type MockInstaller struct {
	Manager     *plugins.Manager
	InstallFunc func(ctx context.Context, repo, version, vaultPath string) error

	// Errors fails installs of the given repos
	Errors map[string]error

	mu    sync.Mutex
	calls []InstallCall
}

// NewMockInstaller returns an installer writing through manager
func NewMockInstaller(manager *plugins.Manager) *MockInstaller {
	return &MockInstaller{Manager: manager, Errors: map[string]error{}}
}

// Install records the call and installs the plugin
func (m *MockInstaller) Install(ctx context.Context, repo, version, vaultPath string) error {
	m.mu.Lock()
	m.calls = append(m.calls, InstallCall{Repo: repo, Version: version, VaultPath: vaultPath})
	failure := m.Errors[repo]
	m.mu.Unlock()

	if m.InstallFunc != nil {
		return m.InstallFunc(ctx, repo, version, vaultPath)
	}
	if failure != nil {
		return failure
	}

	if version == types.LatestVersion || version == "" {
		version = "1.0.0"
	}
	id := path.Base(repo)
	return m.Manager.WriteFiles(id, vaultPath, PluginFiles(id, version))
}

// IsInstalled delegates to Manager
func (m *MockInstaller) IsInstalled(id, vaultPath string) (bool, error) {
	return m.Manager.IsInstalled(id, vaultPath)
}

// Calls returns the recorded Install invocations
func (m *MockInstaller) Calls() []InstallCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]InstallCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockRegistry implements plugins.Registry over a fixed set of entries
type MockRegistry struct {
	Entries  map[string]registry.Entry
	FindFunc func(ctx context.Context, id string) (*registry.Entry, error)
	Err      error
}

// NewMockRegistry returns a registry knowing ids, each published at
// "community/<id>"
func NewMockRegistry(ids ...string) *MockRegistry {
	r := &MockRegistry{Entries: map[string]registry.Entry{}}
	for _, id := range ids {
		r.Add(registry.Entry{
			ID:          id,
			Name:        id,
			Author:      "community",
			Description: "The " + id + " plugin",
			Repo:        "community/" + id,
		})
	}
	return r
}

// Add registers entry
func (r *MockRegistry) Add(entry registry.Entry) {
	r.Entries[entry.ID] = entry
}

// Find returns the entry for id, nil when absent
func (r *MockRegistry) Find(ctx context.Context, id string) (*registry.Entry, error) {
	if r.FindFunc != nil {
		return r.FindFunc(ctx, id)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	entry, ok := r.Entries[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}
