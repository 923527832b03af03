package ovm

import (
	"github.com/arthur-debert/ovm/pkg/commands"
	"github.com/spf13/cobra"
)

func newInstallCmd(opts *globalOptions) *cobra.Command {
	var (
		enable  bool
		version string
	)

	cmd := &cobra.Command{
		Use:     "install [pluginId]",
		Aliases: []string{"pi"},
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "plugins",
		Args:    cobra.MaximumNArgs(1),
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

			report, err := commands.InstallPlugins(cmd.Context(), commands.InstallOptions{
				Vaults:    targets,
				Store:     store,
				PluginID:  firstArg(args),
				Version:   version,
				Enable:    enable,
				Installer: a.deps.Installer,
				Registry:  a.deps.Registry,
				Manager:   a.deps.Manager,
				Batch:     a.deps.Batch,
			})
			if err != nil {
				return err
			}
			if err := a.renderer.PluginReport(report); err != nil {
				return err
			}
			return report.Err
		},
	}

	cmd.Flags().BoolVarP(&enable, "enable", "e", true, MsgFlagEnable)
	cmd.Flags().StringVar(&version, "version", "", MsgFlagVersion)
	return cmd
}

func newUninstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall [pluginId]",
		Aliases: []string{"pu"},
		Short:   MsgUninstallShort,
		Long:    MsgUninstallLong,
		Example: MsgUninstallExample,
		GroupID: "plugins",
		Args:    cobra.MaximumNArgs(1),
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

			report, err := commands.UninstallPlugins(cmd.Context(), commands.UninstallOptions{
				Vaults:   targets,
				Store:    store,
				PluginID: firstArg(args),
				Manager:  a.deps.Manager,
				Batch:    a.deps.Batch,
			})
			if err != nil {
				return err
			}
			if err := a.renderer.PluginReport(report); err != nil {
				return err
			}
			return report.Err
		},
	}
}

func newPruneCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "prune",
		Aliases: []string{"pp"},
		Short:   MsgPruneShort,
		Long:    MsgPruneLong,
		GroupID: "plugins",
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

			report, err := commands.PrunePlugins(cmd.Context(), commands.PruneOptions{
				Vaults:   targets,
				Document: store.Snapshot(),
				Manager:  a.deps.Manager,
				Batch:    a.deps.Batch,
			})
			if err != nil {
				return err
			}
			if err := a.renderer.PluginReport(report); err != nil {
				return err
			}
			return report.Err
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
