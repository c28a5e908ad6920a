package main

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/build"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
)

func newPublishCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "publish <version>",
		Short: "Upload the current component's ARTIFACT to the configured backend",
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
			if env == "" {
				env, err = resolveEnvironment(pwd, m)
				if err != nil {
					return err
				}
			}
			version, verr := strconv.ParseUint(args[0], 10, 32)
			if verr != nil {
				return errs.InvalidVersion(args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			b, err := buildBackend(cfg)
			if err != nil {
				return err
			}

			ch := channel.Default()
			if m.Channel != nil {
				ch = channel.Parse(*m.Channel)
			}

			return build.Publish(b, filepath.Join(pwd, "ARTIFACT"), m.Name, uint32(version), env, ch)
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", "", "environment to publish under (default: the repo's resolved environment)")
	return cmd
}
