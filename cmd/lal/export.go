package main

import (
	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/resolve"
	"github.com/dpvpro/lal/pkg/status"
)

func newExportCmd() *cobra.Command {
	var env, outDir string

	cmd := &cobra.Command{
		Use:   "export <name[=version|=channel/version]>",
		Short: "Copy a published component's tarball out of the cache without touching INPUT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := buildCache(cfg)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = "."
			}
			status.Info("exporting " + args[0])
			if err := resolve.Export(c, args[0], outDir, env); err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", "environment to resolve the component in (required)")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "directory to copy the tarball into (default: .)")
	return cmd
}
