package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/config"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/status"
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Show or override this repository's build environment",
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
			fmt.Println(env)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <environment>",
		Short: "Pin this repository to an environment via .lal/opts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, ok := cfg.Environments[args[0]]; !ok {
				return errs.MissingEnvironment(args[0])
			}
			env := args[0]
			status.Info("pinning environment to " + env)
			if err := config.WriteSticky(pwd, config.StickyOptions{Env: &env}); err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Drop the sticky environment override",
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := cwd()
			if err != nil {
				return err
			}
			return config.DeleteSticky(pwd)
		},
	}

	cmd.AddCommand(set, reset)
	return cmd
}
