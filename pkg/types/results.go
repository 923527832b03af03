package types

import (
	"encoding/json"
)

// OutcomeKind classifies what happened to one plugin in one vault
type OutcomeKind string

const (
	OutcomeInstalled      OutcomeKind = "installed"
	OutcomeAlreadyPresent OutcomeKind = "already_present"
	OutcomeFailed         OutcomeKind = "failed"
	OutcomeNotInstalled   OutcomeKind = "not_installed"
	OutcomePruned         OutcomeKind = "pruned"
	OutcomeUninstalled    OutcomeKind = "uninstalled"
)

// PluginOutcome is the staged outcome for a single plugin. Repo and Version
// hold the values actually resolved while handling it.
type PluginOutcome struct {
	Kind    OutcomeKind
	Plugin  Plugin
	Repo    string
	Version string
	Err     error
}

// IsFailure reports whether the outcome makes its vault unsuccessful
func (o PluginOutcome) IsFailure() bool {
	return o.Kind == OutcomeFailed || o.Kind == OutcomeNotInstalled
}

// MarshalJSON renders Err as its message
func (o PluginOutcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind    OutcomeKind `json:"kind"`
		Plugin  Plugin      `json:"plugin"`
		Repo    string      `json:"repo,omitempty"`
		Version string      `json:"version,omitempty"`
		Error   string      `json:"error,omitempty"`
	}{
		Kind:    o.Kind,
		Plugin:  o.Plugin,
		Repo:    o.Repo,
		Version: o.Version,
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

// TargetResult is the per-vault result of a plugin-mutating command.
// It is not modified once the handler returns it.
type TargetResult struct {
	Vault    Vault           `json:"vault"`
	Outcomes []PluginOutcome `json:"outcomes"`
}

// Add appends an outcome
func (r *TargetResult) Add(o PluginOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// OfKind returns the plugins whose outcome is kind, in handling order
func (r TargetResult) OfKind(kind OutcomeKind) []Plugin {
	var plugins []Plugin
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			plugins = append(plugins, o.Plugin)
		}
	}
	return plugins
}

func (r TargetResult) Installed() []Plugin      { return r.OfKind(OutcomeInstalled) }
func (r TargetResult) AlreadyPresent() []Plugin { return r.OfKind(OutcomeAlreadyPresent) }
func (r TargetResult) Failed() []Plugin         { return r.OfKind(OutcomeFailed) }
func (r TargetResult) NotInstalled() []Plugin   { return r.OfKind(OutcomeNotInstalled) }
func (r TargetResult) Pruned() []Plugin         { return r.OfKind(OutcomePruned) }
func (r TargetResult) Uninstalled() []Plugin    { return r.OfKind(OutcomeUninstalled) }

// Failures returns the failing outcomes with their errors
func (r TargetResult) Failures() []PluginOutcome {
	var out []PluginOutcome
	for _, o := range r.Outcomes {
		if o.IsFailure() {
			out = append(out, o)
		}
	}
	return out
}

// Success is true when no outcome is Failed or NotInstalled
func (r TargetResult) Success() bool {
	for _, o := range r.Outcomes {
		if o.IsFailure() {
			return false
		}
	}
	return true
}
