package ovm

import (
	"fmt"

	"github.com/arthur-debert/ovm/pkg/commands"
	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/filesystem"
	"github.com/arthur-debert/ovm/pkg/settings"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "config",
	}
	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newSettingsCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Aliases: []string{"ci"},
		Short:   MsgConfigInitShort,
		Long:    MsgConfigInitLong,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := commands.InitConfig(commands.InitConfigOptions{
				FS:         a.deps.FS,
				ConfigPath: a.settings.ConfigPath,
			})
			if err != nil {
				return err
			}
			return a.renderer.InitConfig(result)
		},
	}
}

func newSettingsCmd(opts *globalOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: MsgSettingsShort,
		Long:  MsgSettingsLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if !write {
				data, err := settings.Encode(a.settings)
				if err != nil {
					return errors.Wrap(err, errors.ErrInternal, "cannot encode settings")
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			target := a.paths.SettingsFiles()[0]
			exists, err := filesystem.Exists(a.deps.FS, target)
			if err != nil {
				return err
			}
			if exists {
				return errors.Newf(errors.ErrConfigExists, MsgErrSettingsFile, target)
			}
			if err := filesystem.WriteFileAtomic(a.deps.FS, target, []byte(settings.GenerateContent()), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrConfigWrite, "cannot write %s", target)
			}
			return a.renderer.Message("Success", fmt.Sprintf("Settings file created at %s", target))
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}
