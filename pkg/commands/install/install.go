// Package install implements the install command: every staged plugin is
// looked up in the registry and installed into each vault that lacks it.
package install

import (
	"context"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/plugins"
	"github.com/arthur-debert/ovm/pkg/registry"
	"github.com/arthur-debert/ovm/pkg/types"
)

// CommandName is used to label reports and logs
const CommandName = "install"

// Result is the report of an install batch
type Result = batch.Report[types.TargetResult]

// Options defines the options for the install command
type Options struct {
	// Vaults to install into
	Vaults []types.Vault

	// Store holds the config document; it is persisted after a
	// single-plugin install
	Store *config.Store

	// PluginID restricts the batch to one plugin. Empty installs every
	// configured plugin.
	PluginID string

	// Version pins PluginID to a release; empty keeps the configured one
	Version string

	// Enable adds installed plugins to community-plugins.json
	Enable bool

	Installer plugins.Installer
	Registry  plugins.Registry
	Manager   *plugins.Manager

	Batch batch.Options
}

// Execute runs the install batch
func Execute(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.install")

	if opts.Store == nil || opts.Installer == nil || opts.Registry == nil || opts.Manager == nil {
		return nil, errors.New(errors.ErrInternal, "install requires a config store, installer, registry and plugin manager")
	}
	if len(opts.Vaults) == 0 {
		return nil, errors.New(errors.ErrNoVaults, "No vaults selected")
	}

	staged, err := Stage(opts.Store.Snapshot(), opts.PluginID, opts.Version)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("plugins", types.PluginIDs(staged)).
		Int("vaults", len(opts.Vaults)).
		Bool("enable", opts.Enable).
		Msg("Executing command")

	report := batch.Run(ctx, CommandName, opts.Vaults, NewHandler(opts, staged), opts.Batch)

	logger.Info().Str("command", CommandName).Msg("Command finished")
	return report, nil
}

// Stage returns the plugins an install acts on: the configured entry (or a
// bare reference) for pluginID, otherwise the whole configured list
func Stage(doc *config.Document, pluginID, version string) ([]types.Plugin, error) {
	if pluginID == "" {
		return doc.Plugins, nil
	}

	plugin, ok := doc.Find(pluginID)
	if !ok {
		plugin = types.Plugin{ID: pluginID}
	}
	if version != "" {
		plugin.Version = version
	}
	if err := plugins.ValidateVersion(plugin.Version); err != nil {
		return nil, err
	}
	return []types.Plugin{plugin}, nil
}

// NewHandler returns the per-vault install handler for staged plugins
func NewHandler(opts Options, staged []types.Plugin) batch.Handler[types.TargetResult] {
	single := opts.PluginID != ""

	return func(ctx context.Context, vault types.Vault) (types.TargetResult, error) {
		logger := logging.GetLogger("commands.install").With().
			Str("vault", vault.Name).
			Logger()

		result := types.TargetResult{Vault: vault}
		var persistErr error

		for _, plugin := range staged {
			outcome, entry := installOne(ctx, opts, vault, plugin)
			result.Add(outcome)

			if outcome.Kind != types.OutcomeInstalled || !single {
				continue
			}
			if err := opts.Store.Upsert(withRegistryMetadata(plugin, entry)); err != nil {
				logger.Error().Err(err).Str("plugin", plugin.ID).Msg("Failed to persist config")
				persistErr = err
			}
		}

		if n := len(result.Installed()); n > 0 {
			logger.Info().Int("installed", n).Msg("Installed plugins")
		}
		return result, persistErr
	}
}

// installOne handles a single staged plugin in vault. Failures are
// returned as Failed outcomes.
func installOne(ctx context.Context, opts Options, vault types.Vault, plugin types.Plugin) (types.PluginOutcome, *registry.Entry) {
	version := plugin.ResolvedVersion()
	logger := logging.GetLogger("commands.install").With().
		Str("vault", vault.Name).
		Str("plugin", plugin.ID).
		Str("version", version).
		Logger()
	logger.Info().Msgf("Install %s@%s in %s vault", plugin.ID, version, vault.Name)

	outcome := types.PluginOutcome{Plugin: plugin, Version: version}
	fail := func(err error) (types.PluginOutcome, *registry.Entry) {
		outcome.Kind = types.OutcomeFailed
		outcome.Err = registry.AsRateLimit(err)
		if errors.IsErrorCode(outcome.Err, errors.ErrRateLimitExceeded) {
			logger.Error().Err(outcome.Err).Msg(registry.RateLimitMessage)
		} else {
			logger.Error().Err(outcome.Err).Msg("Failed to install plugin")
		}
		return outcome, nil
	}

	entry, err := opts.Registry.Find(ctx, plugin.ID)
	if err != nil {
		return fail(err)
	}
	if entry == nil {
		return fail(errors.Newf(errors.ErrPluginNotFoundInRegistry, "plugin %s not found in registry", plugin.ID).
			WithDetail("plugin", plugin.ID))
	}
	logger.Debug().Stringer("entry", entry).Msg("Registry entry resolved")
	outcome.Repo = entry.Repo

	installed, err := opts.Installer.IsInstalled(plugin.ID, vault.Path)
	if err != nil {
		return fail(err)
	}
	if installed {
		logger.Info().Msg("Plugin already installed")
		outcome.Kind = types.OutcomeAlreadyPresent
		return outcome, entry
	}

	if err := opts.Installer.Install(ctx, entry.Repo, version, vault.Path); err != nil {
		return fail(err)
	}

	if opts.Enable {
		if err := opts.Manager.SetEnabled(plugin.ID, vault.Path, true); err != nil {
			return fail(errors.Wrapf(err, errors.ErrPluginInstall, "plugin %s installed but could not be enabled", plugin.ID))
		}
	}

	outcome.Kind = types.OutcomeInstalled
	return outcome, entry
}

// withRegistryMetadata fills the descriptive fields of plugin from entry
// without overriding what the user configured
func withRegistryMetadata(plugin types.Plugin, entry *registry.Entry) types.Plugin {
	if entry == nil {
		return plugin
	}
	if plugin.Repo == "" {
		plugin.Repo = entry.Repo
	}
	if plugin.Name == "" {
		plugin.Name = entry.Name
	}
	if plugin.Author == "" {
		plugin.Author = entry.Author
	}
	if plugin.Description == "" {
		plugin.Description = entry.Description
	}
	return plugin
}
