package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/manifest"
	"github.com/dpvpro/lal/pkg/status"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <environment>",
		Short: "Create a manifest for this repository, named after the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			name := filepath.Base(pwd)
			if !manifest.ValidComponentName(name) {
				return errs.InvalidComponentName(name)
			}
			if _, lerr := manifest.Locate(pwd); lerr == nil && !force {
				return errs.ManifestExists()
			}

			m := &manifest.Manifest{
				Name:                  name,
				Environment:           args[0],
				SupportedEnvironments: []string{args[0]},
			}
			status.Info("writing manifest for " + name)
			if err := manifest.Write(pwd, m); err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing manifest")
	return cmd
}
