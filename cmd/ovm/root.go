package ovm

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/ovm/internal/version"
	"github.com/arthur-debert/ovm/pkg/cobrax/topics"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "ovm",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, opts.noColor)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.noColor, "no-color", false, MsgFlagNoColor)
	flags.StringVarP(&opts.configPath, "config", "c", "", MsgFlagConfig)
	flags.StringVarP(&opts.path, "path", "p", "", MsgFlagPath)
	flags.BoolVarP(&opts.all, "all", "a", false, MsgFlagAll)
	flags.StringVarP(&opts.output, "output", "o", "", MsgFlagOutput)
	flags.StringVar(&opts.mode, "mode", "", MsgFlagMode)
	flags.IntVar(&opts.maxParallel, "max-parallel", 0, MsgFlagMaxParallel)

	rootCmd.AddGroup(
		&cobra.Group{ID: "plugins", Title: "PLUGINS:"},
		&cobra.Group{ID: "vaults", Title: "VAULTS:"},
		&cobra.Group{ID: "config", Title: "CONFIG:"},
		&cobra.Group{ID: "misc", Title: "MISC:"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInstallCmd(opts))
	rootCmd.AddCommand(newUninstallCmd(opts))
	rootCmd.AddCommand(newPruneCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newConfigInitShortcut(opts))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newVersionCmd())

	source, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, source, topics.Options{
			Renderer: topics.NewGlamourRenderer(stdoutIsTerminal()),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// newConfigInitShortcut exposes "config init" as the top level "ci"
func newConfigInitShortcut(opts *globalOptions) *cobra.Command {
	cmd := newConfigInitCmd(opts)
	cmd.Use = "ci"
	cmd.Aliases = nil
	cmd.Hidden = true
	return cmd
}
