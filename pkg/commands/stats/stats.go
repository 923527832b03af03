// Package stats implements the stats command. Besides per-vault counts it
// builds a cross-vault view of which plugin versions are installed where.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/plugins"
	"github.com/arthur-debert/ovm/pkg/types"
)

// CommandName is used to label reports and logs
const CommandName = "stats"

// Options defines the options for the stats command
type Options struct {
	Vaults   []types.Vault
	Document *config.Document
	Manager  *plugins.Manager
	Batch    batch.Options
}

// InstalledPlugin describes a configured plugin found in a vault
type InstalledPlugin struct {
	ID      string `json:"id" yaml:"id"`
	Version string `json:"version" yaml:"version"`
	Size    int64  `json:"size" yaml:"size"`
}

// Key is the label used to group identical installs across vaults
func (p InstalledPlugin) Key() string {
	return Key(p.ID, p.Version, p.Size)
}

// Mismatch is a configured pin that differs from the installed version
type Mismatch struct {
	ID        string `json:"id" yaml:"id"`
	Pinned    string `json:"pinned" yaml:"pinned"`
	Installed string `json:"installed" yaml:"installed"`
}

// VaultStats is the per-vault result
type VaultStats struct {
	Vault             types.Vault       `json:"vault" yaml:"vault"`
	ConfiguredPlugins int               `json:"configuredPlugins" yaml:"configuredPlugins"`
	InstalledPlugins  int               `json:"installedPlugins" yaml:"installedPlugins"`
	Plugins           []InstalledPlugin `json:"plugins" yaml:"plugins"`
	Mismatches        []Mismatch        `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// Totals aggregates counts over the whole batch
type Totals struct {
	TotalVaults           int `json:"totalVaults" yaml:"totalVaults"`
	TotalPlugins          int `json:"totalPlugins" yaml:"totalPlugins"`
	TotalInstalledPlugins int `json:"totalInstalledPlugins" yaml:"totalInstalledPlugins"`
}

// Result is the outcome of a stats batch
type Result struct {
	Report *batch.Report[VaultStats]
	Totals Totals

	// InstalledPlugins maps "id@version (size)" to the names of the vaults
	// having that install
	InstalledPlugins map[string][]string
}

// Keys returns the InstalledPlugins keys in display order
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.InstalledPlugins))
	for k := range r.InstalledPlugins {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Key formats the grouping label of a plugin install
func Key(id, version string, size int64) string {
	return fmt.Sprintf("%s@%s (%s)", id, version, plugins.FormatSize(size))
}

// Accumulator collects installs across vaults. It is created per batch
// and safe for concurrent handlers.
type Accumulator struct {
	mu        sync.Mutex
	installed map[string]map[string]bool
}

// NewAccumulator returns an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{installed: make(map[string]map[string]bool)}
}

// Record notes that vaultName has the install labelled key
func (a *Accumulator) Record(key, vaultName string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.installed[key] == nil {
		a.installed[key] = make(map[string]bool)
	}
	a.installed[key][vaultName] = true
}

// Snapshot returns key to sorted, de-duplicated vault names
func (a *Accumulator) Snapshot() map[string][]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string][]string, len(a.installed))
	for key, vaults := range a.installed {
		names := make([]string, 0, len(vaults))
		for name := range vaults {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })
		out[key] = names
	}
	return out
}

// Execute runs the stats batch
func Execute(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.stats")

	if opts.Document == nil || opts.Manager == nil {
		return nil, errors.New(errors.ErrInternal, "stats requires a config document and plugin manager")
	}
	if len(opts.Vaults) == 0 {
		return nil, errors.New(errors.ErrNoVaults, "No vaults selected")
	}

	acc := NewAccumulator()
	report := batch.Run(ctx, CommandName, opts.Vaults, NewHandler(opts.Manager, opts.Document.Plugins, acc), opts.Batch)

	result := &Result{
		Report: report,
		Totals: Totals{
			TotalVaults:  report.Total(),
			TotalPlugins: len(opts.Document.Plugins),
		},
		InstalledPlugins: acc.Snapshot(),
	}
	for _, res := range report.Results {
		result.Totals.TotalInstalledPlugins += res.Value.InstalledPlugins
	}

	logger.Info().
		Int("vaults", result.Totals.TotalVaults).
		Int("installed", result.Totals.TotalInstalledPlugins).
		Msg("Command finished")
	return result, nil
}

// NewHandler returns the per-vault stats handler recording installs in acc
func NewHandler(manager *plugins.Manager, configured []types.Plugin, acc *Accumulator) batch.Handler[VaultStats] {
	return func(ctx context.Context, vault types.Vault) (VaultStats, error) {
		logger := logging.GetLogger("commands.stats").With().Str("vault", vault.Name).Logger()
		logger.Debug().Msg("Statistics for vault")

		stats := VaultStats{
			Vault:             vault,
			ConfiguredPlugins: len(configured),
			Plugins:           []InstalledPlugin{},
		}

		for _, plugin := range configured {
			installed, err := manager.IsInstalled(plugin.ID, vault.Path)
			if err != nil {
				return stats, err
			}
			if !installed {
				continue
			}

			manifest, err := manager.ReadManifest(plugin.ID, vault.Path)
			if err != nil {
				return stats, err
			}
			size, err := manager.Size(plugin.ID, vault.Path)
			if err != nil {
				return stats, err
			}

			info := InstalledPlugin{ID: plugin.ID, Version: manifest.Version, Size: size}
			stats.Plugins = append(stats.Plugins, info)
			stats.InstalledPlugins++
			acc.Record(info.Key(), vault.Name)

			if !plugins.VersionMatches(plugin.Version, manifest.Version) {
				stats.Mismatches = append(stats.Mismatches, Mismatch{
					ID:        plugin.ID,
					Pinned:    plugin.Version,
					Installed: manifest.Version,
				})
			}
		}

		return stats, nil
	}
}
