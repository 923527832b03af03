package ovm

import (
	"fmt"

	"github.com/arthur-debert/ovm/pkg/commands"
	"github.com/arthur-debert/ovm/pkg/config"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/arthur-debert/ovm/pkg/paths"
	"github.com/arthur-debert/ovm/pkg/settings"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/arthur-debert/ovm/pkg/ui/render"
	"github.com/arthur-debert/ovm/pkg/ui/selector"
	"github.com/arthur-debert/ovm/pkg/vaults"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags of the root command
type globalOptions struct {
	verbosity   int
	noColor     bool
	configPath  string
	path        string
	all         bool
	output      string
	mode        string
	maxParallel int
}

// overrides maps the flags set on the command line to settings keys
func (o *globalOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	out := make(map[string]interface{})
	flags := cmd.Flags()
	if flags.Changed("config") {
		out["config_path"] = o.configPath
	}
	if flags.Changed("output") {
		out["output.format"] = o.output
	}
	if flags.Changed("mode") {
		out["batch.mode"] = o.mode
	}
	if flags.Changed("max-parallel") {
		out["batch.max_parallel"] = o.maxParallel
	}
	return out
}

// app bundles what a command needs once flags are parsed
type app struct {
	opts     *globalOptions
	paths    paths.Paths
	settings *settings.Settings
	deps     *commands.Deps
	renderer *render.Renderer
}

// newApp resolves paths and settings and wires the command dependencies.
// Callers must Close the app.
func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	p, err := paths.New()
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	s, err := settings.Load(p, opts.overrides(cmd))
	if err != nil {
		return nil, err
	}

	format, err := render.ParseFormat(s.Output.Format)
	if err != nil {
		return nil, err
	}

	deps, err := commands.NewDeps(s, p)
	if err != nil {
		return nil, err
	}

	renderer := render.New(cmd.OutOrStdout(), format)
	if opts.noColor {
		renderer.Color = false
	}

	logger := logging.GetLogger("cmd")
	logger.Debug().
		Str("config", s.ConfigPath).
		Str("mode", s.Batch.Mode).
		Str("output", s.Output.Format).
		Msg("Settings resolved")

	return &app{opts: opts, paths: p, settings: s, deps: deps, renderer: renderer}, nil
}

// Close releases the dependencies
func (a *app) Close() {
	if err := a.deps.Close(); err != nil {
		logger := logging.GetLogger("cmd")
		logger.Warn().Err(err).Msg("Failed to release resources")
	}
}

// vaults discovers the vaults and lets the user pick some of them when
// running interactively
func (a *app) vaults() ([]types.Vault, error) {
	found, err := vaults.Load(a.opts.path, a.paths.ObsidianConfigPath())
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("cmd")
	if a.opts.all || len(found) == 1 || !stdinIsTerminal() {
		logger.Debug().Int("vaults", len(found)).Msg("Using every vault found")
		return found, nil
	}

	selected, err := selector.SelectVaults(found)
	if err != nil {
		return nil, err
	}
	logger.Debug().Strs("vaults", vaults.Names(selected)).Msg("Vaults selected")
	return selected, nil
}

// store opens the plugin config. A missing or invalid config is fatal.
func (a *app) store() (*config.Store, error) {
	return config.OpenStore(a.deps.FS, a.settings.ConfigPath)
}
