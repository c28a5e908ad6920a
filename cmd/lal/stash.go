package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/resolve"
	"github.com/dpvpro/lal/pkg/status"
)

func newStashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stash <label>",
		Short: "Save the current OUTPUT under a named local label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			m, err := loadManifest(pwd)
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

			status.Info("stashing " + m.Name + " as " + args[0])
			if err := resolve.Stash(c, m.Name, args[0], filepath.Join(pwd, "OUTPUT")); err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}
	return cmd
}
