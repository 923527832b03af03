package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Run executes handler for every vault and returns the aggregated report.
// Failures and panics in one vault are recorded in its result and never
// affect the others. Duplicate vaults are handled once.
func Run[T any](ctx context.Context, command string, vaults []types.Vault, handler Handler[T], opts Options) *Report[T] {
	mode := opts.Mode
	if mode == "" {
		mode = Parallel
	}

	logger := logging.GetLogger("batch").With().
		Str("command", command).
		Str("mode", string(mode)).
		Logger()
	done := logging.LogOperationStart(logger, command)
	defer done()

	agg := NewAggregator[T](command, mode)

	if err := ctx.Err(); err != nil {
		return agg.Report(errors.Wrap(err, errors.ErrInternal, "batch cancelled before start"))
	}

	targets := unique(vaults)
	logger.Info().Int("vaults", len(targets)).Msg("Batch started")

	switch mode {
	case Series:
		for _, vault := range targets {
			agg.Add(runOne(ctx, vault, handler))
		}
	default:
		g := new(errgroup.Group)
		if opts.MaxParallel > 0 {
			g.SetLimit(opts.MaxParallel)
		}
		for _, vault := range targets {
			g.Go(func() error {
				agg.Add(runOne(ctx, vault, handler))
				return nil
			})
		}
		_ = g.Wait()
	}

	report := agg.Report(nil)
	logger.Info().
		Int("total", report.Total()).
		Int("successful", report.SucceededCount()).
		Int("failed", report.FailedCount()).
		Msg("Batch completed")
	return report
}

// runOne invokes handler for vault, converting panics into failures
func runOne[T any](ctx context.Context, vault types.Vault, handler Handler[T]) (res Result[T]) {
	logger := logging.GetLogger("batch").With().Str("vault", vault.Path).Logger()
	start := time.Now()
	res.Vault = vault

	defer func() {
		if r := recover(); r != nil {
			res.Err = errors.New(errors.ErrInternal, fmt.Sprintf("panic while handling vault: %v", r)).
				WithDetail("vault", vault.Path)
			res.Success = false
		}
		res.Duration = time.Since(start)
		if res.Success {
			logger.Debug().Dur("duration", res.Duration).Msg("Vault handled")
		} else {
			logger.Warn().Err(res.Err).Dur("duration", res.Duration).Msg("Vault failed")
		}
	}()

	value, err := handler(ctx, vault)
	res.Value = value
	res.Err = err
	res.Success = err == nil
	if s, ok := any(value).(Succeeder); ok && err == nil {
		res.Success = s.Success()
	}
	return res
}

func unique(vaults []types.Vault) []types.Vault {
	seen := make(map[string]bool, len(vaults))
	out := make([]types.Vault, 0, len(vaults))
	for _, v := range vaults {
		if seen[v.ID()] {
			continue
		}
		seen[v.ID()] = true
		out = append(out, v)
	}
	return out
}
