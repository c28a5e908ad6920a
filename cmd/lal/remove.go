package main

import (
	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/resolve"
	"github.com/dpvpro/lal/pkg/status"
)

func newRemoveCmd() *cobra.Command {
	var save, saveDev bool

	cmd := &cobra.Command{
		Use:   "remove <name> [name ...]",
		Short: "Delete one or more dependencies from INPUT and, optionally, the manifest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			m, err := loadManifest(pwd)
			if err != nil {
				return err
			}
			status.Info("removing dependencies")
			if err := resolve.Remove(m, args, save, saveDev, inputDir(pwd)); err != nil {
				return status.Failed(err)
			}
			status.Done()
			if save || saveDev {
				return manifestWriteBack(pwd, m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "also remove from dependencies in the manifest")
	cmd.Flags().BoolVarP(&saveDev, "save-dev", "d", false, "also remove from dev_dependencies in the manifest")
	return cmd
}
