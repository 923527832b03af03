// Package render writes command reports as tables, JSON, YAML or JUnit XML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/commands/initconfig"
	"github.com/arthur-debert/ovm/pkg/commands/run"
	"github.com/arthur-debert/ovm/pkg/commands/stats"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/arthur-debert/ovm/pkg/ui/styles"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Renderer writes reports to Out
type Renderer struct {
	Out    io.Writer
	Format Format
	Color  bool
}

// New returns a renderer for out, styling output when out is a color terminal
func New(out io.Writer, format Format) *Renderer {
	return &Renderer{Out: out, Format: format, Color: ColorEnabled(out)}
}

// PluginReport renders an install, uninstall or prune report
func (r *Renderer) PluginReport(report *batch.Report[types.TargetResult]) error {
	view := NewPluginReportView(report)
	switch r.Format {
	case FormatJSON:
		return r.json(view)
	case FormatYAML:
		return r.yaml(view)
	case FormatJUnit:
		return r.junit(pluginSuite(report))
	}

	rows := [][]string{{"Vault", "Plugin", "Outcome", "Version", "Detail"}}
	for _, vault := range view.Vaults {
		if len(vault.Outcomes) == 0 {
			rows = append(rows, []string{vault.Name, "-", r.outcome("none"), "", vault.Error})
			continue
		}
		for _, o := range vault.Outcomes {
			rows = append(rows, []string{vault.Name, o.Plugin, r.outcome(o.Outcome), o.Version, o.Error})
		}
	}
	if err := r.table(rows); err != nil {
		return err
	}
	return r.summary(view.Command, view.Total, view.Failed, view.Duration)
}

// Stats renders a stats result
func (r *Renderer) Stats(result *stats.Result) error {
	view := NewStatsView(result)
	switch r.Format {
	case FormatJSON:
		return r.json(view)
	case FormatYAML:
		return r.yaml(view)
	case FormatJUnit:
		return errors.New(errors.ErrInvalidInput, "junit output is not available for stats")
	}

	totals := [][]string{
		{"Total vaults", "Total plugins", "Total installed plugins"},
		{
			strconv.Itoa(view.TotalStats.TotalVaults),
			strconv.Itoa(view.TotalStats.TotalPlugins),
			strconv.Itoa(view.TotalStats.TotalInstalledPlugins),
		},
	}
	if err := r.table(totals); err != nil {
		return err
	}

	if keys := result.Keys(); len(keys) > 0 {
		rows := [][]string{{"Plugin", "Vaults"}}
		for _, key := range keys {
			rows = append(rows, []string{r.style("Plugin", key), strings.Join(view.InstalledPlugins[key], ", ")})
		}
		if err := r.table(rows); err != nil {
			return err
		}
	}

	if len(view.Mismatches) > 0 {
		rows := [][]string{{"Vault", "Plugin", "Pinned", "Installed"}}
		for _, res := range result.Report.Ordered() {
			for _, m := range res.Value.Mismatches {
				rows = append(rows, []string{res.Vault.Name, m.ID, m.Pinned, r.style("Warning", m.Installed)})
			}
		}
		if err := r.table(rows); err != nil {
			return err
		}
	}
	return nil
}

// Run renders a run result
func (r *Renderer) Run(result *run.Result) error {
	switch r.Format {
	case FormatJSON:
		return r.json(NewRunView(result))
	case FormatYAML:
		return r.yaml(NewRunView(result))
	case FormatJUnit:
		return r.junit(runSuite(result))
	}

	rows := [][]string{{"Vault", "Success", "Duration", "Output"}}
	for _, res := range result.Report.Ordered() {
		rec := res.Value
		output := rec.Stdout
		if !rec.Success {
			output = firstNonEmpty(rec.Error, errString(res.Err))
		}
		rows = append(rows, []string{res.Vault.Name, r.success(rec.Success), rec.Duration, output})
	}
	if err := r.table(rows); err != nil {
		return err
	}
	return r.summary(result.Report.Command, result.Report.Total(), result.Report.FailedCount(), batch.FormatDuration(result.Report.Duration))
}

// InitConfig renders the outcome of config init
func (r *Renderer) InitConfig(result *initconfig.Result) error {
	switch r.Format {
	case FormatJSON:
		return r.json(result)
	case FormatYAML:
		return r.yaml(result)
	}
	if result.Created {
		return r.Message("Success", "Config file created at "+result.Path)
	}
	return r.Message("Muted", "Config file already exists at "+result.Path)
}

// Message writes a single styled line
func (r *Renderer) Message(style, text string) error {
	_, err := fmt.Fprintln(r.Out, r.style(style, text))
	return err
}

func (r *Renderer) json(v interface{}) error {
	encoder := json.NewEncoder(r.Out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (r *Renderer) yaml(v interface{}) error {
	encoder := yaml.NewEncoder(r.Out)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func (r *Renderer) table(rows [][]string) error {
	if r.Color {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.Out, out)
	return err
}

func (r *Renderer) summary(command string, total, failed int, duration string) error {
	line := fmt.Sprintf("%s: %d vaults, %d failed (%s)", command, total, failed, duration)
	if failed > 0 {
		return r.Message("Warning", line)
	}
	return r.Message("Success", line)
}

func (r *Renderer) outcome(kind string) string {
	switch types.OutcomeKind(kind) {
	case types.OutcomeInstalled, types.OutcomeUninstalled, types.OutcomePruned:
		return r.style("Success", kind)
	case types.OutcomeFailed, types.OutcomeNotInstalled:
		return r.style("Error", kind)
	}
	return r.style("Muted", kind)
}

func (r *Renderer) success(ok bool) string {
	if ok {
		return r.style("Success", "true")
	}
	return r.style("Error", "false")
}

func (r *Renderer) style(name, text string) string {
	if !r.Color {
		return text
	}
	return styles.Render(name, text)
}
