package render

import (
	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/commands/run"
	"github.com/arthur-debert/ovm/pkg/commands/stats"
	"github.com/arthur-debert/ovm/pkg/types"
)

// OutcomeView is one plugin outcome in structured output
type OutcomeView struct {
	Plugin  string `json:"plugin" yaml:"plugin"`
	Outcome string `json:"outcome" yaml:"outcome"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Repo    string `json:"repo,omitempty" yaml:"repo,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// VaultView is the structured result of one vault
type VaultView struct {
	Name     string        `json:"name" yaml:"name"`
	Path     string        `json:"path" yaml:"path"`
	Success  bool          `json:"success" yaml:"success"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Outcomes []OutcomeView `json:"outcomes" yaml:"outcomes"`
}

// PluginReportView is the structured form of an install, uninstall or
// prune report
type PluginReportView struct {
	Command  string      `json:"command" yaml:"command"`
	Success  bool        `json:"success" yaml:"success"`
	Total    int         `json:"total" yaml:"total"`
	Failed   int         `json:"failed" yaml:"failed"`
	Duration string      `json:"duration" yaml:"duration"`
	Vaults   []VaultView `json:"vaults" yaml:"vaults"`
}

// NewPluginReportView converts a report into its structured form, vaults
// in identity order
func NewPluginReportView(report *batch.Report[types.TargetResult]) PluginReportView {
	view := PluginReportView{
		Command:  report.Command,
		Success:  report.Success,
		Total:    report.Total(),
		Failed:   report.FailedCount(),
		Duration: batch.FormatDuration(report.Duration),
		Vaults:   []VaultView{},
	}

	for _, res := range report.Ordered() {
		vault := VaultView{
			Name:     res.Vault.Name,
			Path:     res.Vault.Path,
			Success:  res.Success,
			Error:    errString(res.Err),
			Outcomes: []OutcomeView{},
		}
		for _, o := range res.Value.Outcomes {
			vault.Outcomes = append(vault.Outcomes, OutcomeView{
				Plugin:  o.Plugin.ID,
				Outcome: string(o.Kind),
				Version: o.Version,
				Repo:    o.Repo,
				Error:   errString(o.Err),
			})
		}
		view.Vaults = append(view.Vaults, vault)
	}
	return view
}

// StatsView is the structured form of a stats result
type StatsView struct {
	TotalStats       stats.Totals                `json:"totalStats" yaml:"totalStats"`
	InstalledPlugins map[string][]string         `json:"installedPlugins" yaml:"installedPlugins"`
	Mismatches       map[string][]stats.Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
	Errors           map[string]string           `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// NewStatsView converts a stats result into its structured form
func NewStatsView(result *stats.Result) StatsView {
	view := StatsView{
		TotalStats:       result.Totals,
		InstalledPlugins: result.InstalledPlugins,
	}
	for _, res := range result.Report.Ordered() {
		if len(res.Value.Mismatches) > 0 {
			if view.Mismatches == nil {
				view.Mismatches = map[string][]stats.Mismatch{}
			}
			view.Mismatches[res.Vault.Name] = res.Value.Mismatches
		}
		if res.Err != nil {
			if view.Errors == nil {
				view.Errors = map[string]string{}
			}
			view.Errors[res.Vault.Path] = res.Err.Error()
		}
	}
	return view
}

// RunView is one vault's run record keyed by vault path in structured output
type RunView struct {
	Success  bool   `json:"success" yaml:"success"`
	Duration string `json:"duration" yaml:"duration"`
	Stdout   string `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRunView converts a run result into records keyed by vault path
func NewRunView(result *run.Result) map[string]RunView {
	view := make(map[string]RunView, result.Report.Total())
	for _, res := range result.Report.Ordered() {
		rec := res.Value
		view[res.Vault.Path] = RunView{
			Success:  rec.Success,
			Duration: rec.Duration,
			Stdout:   rec.Stdout,
			Error:    firstNonEmpty(rec.Error, errString(res.Err)),
		}
	}
	return view
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
