// Package uninstall implements the uninstall command
package uninstall

import (
	"context"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/plugins"
	"github.com/arthur-debert/ovm/pkg/types"
)

// CommandName is used to label reports and logs
const CommandName = "uninstall"

// Result is the report of an uninstall batch
type Result = batch.Report[types.TargetResult]

// Options defines the options for the uninstall command
type Options struct {
	Vaults []types.Vault
	Store  *config.Store

	// PluginID restricts the batch to one plugin. Empty uninstalls every
	// configured plugin.
	PluginID string

	Manager *plugins.Manager
	Batch   batch.Options
}

// Execute runs the uninstall batch
func Execute(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.uninstall")

	if opts.Store == nil || opts.Manager == nil {
		return nil, errors.New(errors.ErrInternal, "uninstall requires a config store and plugin manager")
	}
	if len(opts.Vaults) == 0 {
		return nil, errors.New(errors.ErrNoVaults, "No vaults selected")
	}

	staged := opts.Store.Plugins()
	if opts.PluginID != "" {
		staged = []types.Plugin{{ID: opts.PluginID}}
	}
	logger.Debug().Strs("plugins", types.PluginIDs(staged)).Msg("Executing command")

	report := batch.Run(ctx, CommandName, opts.Vaults, NewHandler(opts, staged), opts.Batch)

	logger.Info().Str("command", CommandName).Msg("Command finished")
	return report, nil
}

// NewHandler returns the per-vault uninstall handler. A staged plugin
// that is not installed is recorded as NotInstalled.
func NewHandler(opts Options, staged []types.Plugin) batch.Handler[types.TargetResult] {
	return func(ctx context.Context, vault types.Vault) (types.TargetResult, error) {
		result := types.TargetResult{Vault: vault}

		for _, plugin := range staged {
			result.Add(uninstallOne(opts, vault, plugin))
		}

		if n := len(result.Uninstalled()); n > 0 {
			logger := logging.GetLogger("commands.uninstall")
			logger.Info().
				Str("vault", vault.Name).
				Int("uninstalled", n).
				Msg("Uninstalled plugins")
		}
		return result, nil
	}
}

func uninstallOne(opts Options, vault types.Vault, plugin types.Plugin) types.PluginOutcome {
	logger := logging.GetLogger("commands.uninstall").With().
		Str("vault", vault.Name).
		Str("plugin", plugin.ID).
		Logger()
	outcome := types.PluginOutcome{Plugin: plugin, Repo: plugin.Repo, Version: plugin.ResolvedVersion()}

	installed, err := opts.Manager.IsInstalled(plugin.ID, vault.Path)
	if err != nil {
		outcome.Kind = types.OutcomeFailed
		outcome.Err = err
		return outcome
	}
	if !installed {
		logger.Warn().Msg("Plugin not installed")
		outcome.Kind = types.OutcomeNotInstalled
		outcome.Err = errors.Newf(errors.ErrPluginNotInstalled, "plugin %s is not installed", plugin.ID).
			WithDetail("vault", vault.Path)
		return outcome
	}

	err = opts.Manager.Remove(plugin.ID, vault.Path)
	if err == nil {
		err = opts.Manager.SetEnabled(plugin.ID, vault.Path, false)
	}
	if err == nil {
		err = opts.Store.Remove(plugin.ID)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to uninstall plugin")
		outcome.Kind = types.OutcomeFailed
		outcome.Err = err
		return outcome
	}

	logger.Info().Msg("Uninstalled plugin")
	outcome.Kind = types.OutcomeUninstalled
	return outcome
}
