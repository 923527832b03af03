package batch

import (
	"sync"
	"time"
)

// Aggregator collects per-vault results as they complete, in any order
type Aggregator[T any] struct {
	mu      sync.Mutex
	command string
	mode    Mode
	started time.Time
	results map[string]Result[T]
}

// NewAggregator starts collecting results for command
func NewAggregator[T any](command string, mode Mode) *Aggregator[T] {
	return &Aggregator[T]{
		command: command,
		mode:    mode,
		started: time.Now(),
		results: make(map[string]Result[T]),
	}
}

// Add records res under its vault identity
func (a *Aggregator[T]) Add(res Result[T]) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results[res.Vault.ID()] = res
}

// Report returns the aggregated report. fatal, when non-nil, marks the
// whole batch failed.
func (a *Aggregator[T]) Report(fatal error) *Report[T] {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make(map[string]Result[T], len(a.results))
	for k, v := range a.results {
		results[k] = v
	}
	return &Report[T]{
		Command:  a.command,
		Mode:     a.mode,
		Results:  results,
		Success:  fatal == nil,
		Err:      fatal,
		Started:  a.started,
		Duration: time.Since(a.started),
	}
}
