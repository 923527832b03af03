// Package batch owns the outer loop shared by every command: run a handler
// against each vault under a concurrency policy, isolate per-vault failures,
// and aggregate the outcomes into a report keyed by vault identity.
package batch

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/types"
)

// Mode selects how vaults are scheduled
type Mode string

const (
	// Parallel starts every vault concurrently and waits for all of them
	Parallel Mode = "parallel"
	// Series handles one vault at a time in input order
	Series Mode = "series"
)

// ParseMode converts a setting or flag value into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Parallel, "":
		return Parallel, nil
	case Series:
		return Series, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown batch mode %q", s)
}

// Options controls a batch run
type Options struct {
	Mode Mode

	// MaxParallel caps concurrent vaults in Parallel mode. 0 means no cap.
	MaxParallel int
}

// Handler processes one vault. A returned error marks the vault failed; it
// never stops the batch.
type Handler[T any] func(ctx context.Context, vault types.Vault) (T, error)

// Succeeder lets a handler value mark its vault unsuccessful without an error
type Succeeder interface {
	Success() bool
}

// Result is the outcome of the handler for one vault
type Result[T any] struct {
	Vault    types.Vault
	Value    T
	Err      error
	Success  bool
	Duration time.Duration
}

// Report aggregates the results of one batch
type Report[T any] struct {
	// Command that was executed
	Command string

	// Mode the batch ran in
	Mode Mode

	// Results keyed by vault identity
	Results map[string]Result[T]

	// Success is false only when the batch as a whole failed
	Success bool

	// Err is the whole-batch failure, if any
	Err error

	Started  time.Time
	Duration time.Duration
}

// Ordered returns the results sorted by vault identity
func (r *Report[T]) Ordered() []Result[T] {
	keys := make([]string, 0, len(r.Results))
	for k := range r.Results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Result[T], 0, len(keys))
	for _, k := range keys {
		out = append(out, r.Results[k])
	}
	return out
}

// Get returns the result for a vault identity
func (r *Report[T]) Get(id string) (Result[T], bool) {
	res, ok := r.Results[id]
	return res, ok
}

// Failed returns the unsuccessful results in display order
func (r *Report[T]) Failed() []Result[T] {
	var out []Result[T]
	for _, res := range r.Ordered() {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

// Total is the number of vaults in the report
func (r *Report[T]) Total() int {
	return len(r.Results)
}

// SucceededCount is the number of successful vaults
func (r *Report[T]) SucceededCount() int {
	return r.Total() - r.FailedCount()
}

// FailedCount is the number of unsuccessful vaults
func (r *Report[T]) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	return n
}
