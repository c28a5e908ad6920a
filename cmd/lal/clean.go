package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/cache"
	"github.com/dpvpro/lal/pkg/status"
)

func newCleanCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Sweep cache entries untouched for more than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			b, err := buildBackend(cfg)
			if err != nil {
				return err
			}

			status.Info("cleaning cache")
			if err := cache.Clean(b.CacheDir(), time.Duration(days)*24*time.Hour); err != nil {
				return status.Failed(err)
			}
			return status.Done()
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 14, "remove cache entries untouched for more than this many days")
	return cmd
}
