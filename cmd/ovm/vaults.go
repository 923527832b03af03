package ovm

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/commands"
	"github.com/arthur-debert/ovm/pkg/logging"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Aliases: []string{"rs"},
		Short:   MsgStatsShort,
		Long:    MsgStatsLong,
		Example: MsgStatsExample,
		GroupID: "vaults",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := a.store()
			if err != nil {
				return err
			}
			targets, err := a.vaults()
			if err != nil {
				return err
			}

			result, err := commands.VaultStats(cmd.Context(), commands.StatsOptions{
				Vaults:   targets,
				Document: store.Snapshot(),
				Manager:  a.deps.Manager,
				Batch:    a.deps.Batch,
			})
			if err != nil {
				return err
			}
			if err := a.renderer.Stats(result); err != nil {
				return err
			}
			return result.Report.Err
		},
	}
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var (
		workDir bool
		async   bool
		silent  bool
		timeout time.Duration
		shell   string
	)

	cmd := &cobra.Command{
		Use:     "run <command>",
		Aliases: []string{"r", "vr"},
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "vaults",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			if err := commands.ValidateRunCommand(command); err != nil {
				return err
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			targets, err := a.vaults()
			if err != nil {
				return err
			}

			batchOpts := a.deps.Batch
			if cmd.Flags().Changed("async") {
				batchOpts.Mode = batch.Series
				if async {
					batchOpts.Mode = batch.Parallel
				}
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = a.settings.Run.Timeout
			}
			if !cmd.Flags().Changed("shell") {
				shell = a.settings.Run.Shell
			}

			var cmdLog *logging.CommandLogger
			if a.settings.Run.LogOutput || silent {
				cmdLog, err = logging.NewCommandLogger(a.paths.RunLogFilePath())
				if err != nil {
					return err
				}
				defer func() { _ = cmdLog.Close() }()
			}

			result, err := commands.RunCommand(cmd.Context(), commands.RunOptions{
				Vaults:                         targets,
				Command:                        command,
				Shell:                          shell,
				RunFromVaultDirectoryAsWorkDir: workDir,
				Timeout:                        timeout,
				Silent:                         silent,
				Log:                            cmdLog,
				Batch:                          batchOpts,
			})
			if err != nil {
				return err
			}

			if silent {
				if err := a.renderer.Message("Muted", fmt.Sprintf(MsgRunLogged, result.LogPath)); err != nil {
					return err
				}
			} else if err := a.renderer.Run(result); err != nil {
				return err
			}
			return result.Report.Err
		},
	}

	cmd.Flags().BoolVar(&workDir, "runFromVaultDirectoryAsWorkDir", false, MsgFlagWorkDir)
	cmd.Flags().BoolVar(&async, "async", true, MsgFlagAsync)
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, MsgFlagSilent)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, MsgFlagTimeout)
	cmd.Flags().StringVar(&shell, "shell", "", MsgFlagShell)
	return cmd
}
