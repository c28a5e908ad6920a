package main

import (
	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/resolve"
	"github.com/dpvpro/lal/pkg/status"
)

func newFetchCmd() *cobra.Command {
	var coreOnly bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Populate INPUT from the manifest's pinned dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			m, err := loadManifest(pwd)
			if err != nil {
				return err
			}
			env, err := resolveEnvironment(pwd, m)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := buildCache(cfg)
			if err != nil {
				return err
			}

			status.Info("fetching dependencies")
			if err := resolve.Fetch(c, m, coreOnly, env, inputDir(pwd)); err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}
	cmd.Flags().BoolVarP(&coreOnly, "core", "c", false, "fetch only non-dev dependencies")
	return cmd
}
