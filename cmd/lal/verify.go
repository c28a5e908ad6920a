package main

import (
	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/lockfile"
	"github.com/dpvpro/lal/pkg/resolve"
	"github.com/dpvpro/lal/pkg/status"
)

func newVerifyCmd() *cobra.Command {
	var simple bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that INPUT matches the manifest's dependency tree exactly",
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

			input := inputDir(pwd)
			lf := &lockfile.Lockfile{Name: m.Name}
			if m.Channel != nil {
				lf.Channel = m.Channel
			}
			lf.PopulateFromInput(m, input, false)

			status.Info("verifying dependency tree")
			warnings, err := resolve.Verify(lf, m, env, input, simple)
			for _, w := range warnings {
				status.Warn(w.Error())
			}
			if err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}
	cmd.Flags().BoolVarP(&simple, "simple", "s", false, "allow stashed/non-global versions (skips the global-version and tree-shape checks)")
	return cmd
}
