// Package commands provides the entry points of every ovm command.
//
// Each command is implemented in its own subdirectory on top of pkg/batch:
//   - install/    - install configured or single plugins
//   - uninstall/  - remove configured or single plugins
//   - prune/      - remove plugins missing from the config
//   - stats/      - plugin counts and versions across vaults
//   - run/        - run a shell command in every vault
//   - initconfig/ - create the default config document
//
// This file re-exports the command functions so callers depend on one
// package.
package commands

import (
	"context"

	"github.com/arthur-debert/ovm/pkg/commands/initconfig"
	"github.com/arthur-debert/ovm/pkg/commands/install"
	"github.com/arthur-debert/ovm/pkg/commands/prune"
	"github.com/arthur-debert/ovm/pkg/commands/run"
	"github.com/arthur-debert/ovm/pkg/commands/stats"
	"github.com/arthur-debert/ovm/pkg/commands/uninstall"
)

// InstallPlugins installs plugins into vaults.
type InstallOptions = install.Options
type InstallResult = install.Result

func InstallPlugins(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	return install.Execute(ctx, opts)
}

// UninstallPlugins removes plugins from vaults.
type UninstallOptions = uninstall.Options
type UninstallResult = uninstall.Result

func UninstallPlugins(ctx context.Context, opts UninstallOptions) (*UninstallResult, error) {
	return uninstall.Execute(ctx, opts)
}

// PrunePlugins removes unreferenced plugins from vaults.
type PruneOptions = prune.Options
type PruneResult = prune.Result

func PrunePlugins(ctx context.Context, opts PruneOptions) (*PruneResult, error) {
	return prune.Execute(ctx, opts)
}

// VaultStats collects plugin statistics.
type StatsOptions = stats.Options
type StatsResult = stats.Result

func VaultStats(ctx context.Context, opts StatsOptions) (*StatsResult, error) {
	return stats.Execute(ctx, opts)
}

// RunCommand runs a shell command in each vault.
type RunOptions = run.Options
type RunResult = run.Result

func RunCommand(ctx context.Context, opts RunOptions) (*RunResult, error) {
	return run.Execute(ctx, opts)
}

func ValidateRunCommand(command string) error {
	return run.Validate(command)
}

// InitConfig creates the default config document.
type InitConfigOptions = initconfig.Options
type InitConfigResult = initconfig.Result

func InitConfig(opts InitConfigOptions) (*InitConfigResult, error) {
	return initconfig.Execute(opts)
}
