package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/build"
	"github.com/dpvpro/lal/pkg/runner"
)

func newBuildCmd() *cobra.Command {
	var component, configuration, version string
	var interactive, release bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the current component inside its configured environment container",
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
			m.Environment = env
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			r, err := runner.NewDockerRunner()
			if err != nil {
				return err
			}

			_, err = build.Build(context.Background(), r, m, cfg, pwd, build.Options{
				Component:     component,
				Configuration: configuration,
				Version:       version,
				Interactive:   interactive,
				Release:       release,
			})
			return err
		},
	}
	cmd.Flags().StringVarP(&component, "component", "C", "", "sub-component to build (default: the manifest's own name)")
	cmd.Flags().StringVarP(&configuration, "configuration", "o", "", "build configuration (default: the component's default_configuration)")
	cmd.Flags().StringVarP(&version, "version", "v", "0", "version to stamp into the lockfile")
	cmd.Flags().BoolVarP(&interactive, "shell", "s", false, "create the build container with a TTY and open stdin")
	cmd.Flags().BoolVarP(&release, "release", "r", false, "mark this as a release build")
	return cmd
}
