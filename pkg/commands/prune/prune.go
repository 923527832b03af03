// Package prune implements the prune command: plugin directories not
// referenced by the config document are removed from each vault.
package prune

import (
	"context"
	"slices"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/plugins"
	"github.com/arthur-debert/ovm/pkg/types"
)

// CommandName is used to label reports and logs
const CommandName = "prune"

// Result is the report of a prune batch
type Result = batch.Report[types.TargetResult]

// Options defines the options for the prune command
type Options struct {
	Vaults   []types.Vault
	Document *config.Document
	Manager  *plugins.Manager
	Batch    batch.Options
}

// Execute runs the prune batch
func Execute(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.prune")

	if opts.Document == nil || opts.Manager == nil {
		return nil, errors.New(errors.ErrInternal, "prune requires a config document and plugin manager")
	}
	if len(opts.Vaults) == 0 {
		return nil, errors.New(errors.ErrNoVaults, "No vaults selected")
	}

	referenced := types.PluginIDs(opts.Document.Plugins)
	logger.Debug().Strs("referenced", referenced).Msg("Executing command")

	report := batch.Run(ctx, CommandName, opts.Vaults, NewHandler(opts.Manager, referenced), opts.Batch)

	logger.Info().Str("command", CommandName).Msg("Command finished")
	return report, nil
}

// NewHandler returns the per-vault prune handler. With no referenced
// plugins nothing is ever pruned.
func NewHandler(manager *plugins.Manager, referenced []string) batch.Handler[types.TargetResult] {
	return func(ctx context.Context, vault types.Vault) (types.TargetResult, error) {
		logger := logging.GetLogger("commands.prune").With().Str("vault", vault.Name).Logger()
		result := types.TargetResult{Vault: vault, Outcomes: []types.PluginOutcome{}}

		if len(referenced) == 0 {
			logger.Debug().Msg("No configured plugins, skipping prune")
			return result, nil
		}

		present, err := manager.ListInstalled(vault.Path)
		if err != nil {
			return result, err
		}

		var pruned []string
		for _, id := range present {
			if slices.Contains(referenced, id) {
				continue
			}
			outcome := types.PluginOutcome{Kind: types.OutcomePruned, Plugin: types.Plugin{ID: id}}
			if err := manager.Remove(id, vault.Path); err != nil {
				outcome.Kind = types.OutcomeFailed
				outcome.Err = err
			} else {
				pruned = append(pruned, id)
			}
			result.Add(outcome)
		}

		logger.Info().Strs("plugins", pruned).Msgf("Pruned %d plugins", len(pruned))
		return result, nil
	}
}
