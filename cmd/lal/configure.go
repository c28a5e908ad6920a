package main

import (
	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/config"
	"github.com/dpvpro/lal/pkg/status"
)

// newConfigureCmd seeds the config file under config.Dir() ($CONFIG_DIR,
// or the XDG config home for vendor dpvpro and project lal) from flags.
func newConfigureCmd() *cobra.Command {
	var backendKind, master, slave, release, vgroup, username, password, localPath, cacheDir string
	var interactive, autoupgrade bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Write the user-wide configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{
				Backend: config.BackendConfig{
					Kind:     config.BackendKind(backendKind),
					Master:   master,
					Slave:    slave,
					Release:  release,
					VGroup:   vgroup,
					Username: username,
					Password: password,
					Path:     localPath,
				},
				Cache:        cacheDir,
				Environments: map[string]config.Environment{},
				Interactive:  interactive,
				Autoupgrade:  autoupgrade,
			}

			status.Info("writing configuration to " + config.Dir())
			if err := config.Write(cfg); err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}
	cmd.Flags().StringVar(&backendKind, "backend", string(config.BackendLocal), "storage backend kind: local or remote")
	cmd.Flags().StringVar(&master, "master", "", "remote backend master host")
	cmd.Flags().StringVar(&slave, "slave", "", "remote backend slave host")
	cmd.Flags().StringVar(&release, "release", "", "remote backend release repository")
	cmd.Flags().StringVar(&vgroup, "vgroup", "", "remote backend version group")
	cmd.Flags().StringVar(&username, "username", "", "remote backend basic-auth username")
	cmd.Flags().StringVar(&password, "password", "", "remote backend basic-auth password")
	cmd.Flags().StringVar(&localPath, "local-path", "", "local backend storage root")
	cmd.Flags().StringVar(&cacheDir, "cache", "", "cache directory")
	cmd.Flags().BoolVar(&interactive, "interactive", true, "allow interactive prompts during builds")
	cmd.Flags().BoolVar(&autoupgrade, "autoupgrade", false, "allow self-upgrade checks")
	return cmd
}
