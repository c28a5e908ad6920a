package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpvpro/lal/pkg/resolve"
	"github.com/dpvpro/lal/pkg/status"
)

func newUpdateCmd() *cobra.Command {
	var save, saveDev, all, coreOnly bool

	cmd := &cobra.Command{
		Use:   "update [name[=version|=channel/version|=label] ...]",
		Short: "Fetch one or more dependencies at a new version and re-pin them",
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

			var results []resolve.UpdateResult
			if all {
				results, err = resolve.UpdateAll(c, m, save, saveDev, coreOnly, env, inputDir(pwd))
			} else {
				results, err = resolve.Update(c, m, args, save, saveDev, env, inputDir(pwd))
			}
			if err != nil {
				return status.Failed(err)
			}
			for _, r := range results {
				status.ExtraInfo(describeUpdate(r))
			}
			if save || saveDev {
				return manifestWriteBack(pwd, m)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "pin the new version(s) into dependencies")
	cmd.Flags().BoolVarP(&saveDev, "save-dev", "d", false, "pin the new version(s) into dev_dependencies")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "update every dependency already in the manifest")
	cmd.Flags().BoolVarP(&coreOnly, "core", "c", false, "with --all, update only non-dev dependencies")
	return cmd
}

// describeUpdate renders one update outcome. Version comparison is only
// meaningful within one channel, so a channel change is reported as such
// rather than as an upgrade or downgrade.
func describeUpdate(r resolve.UpdateResult) string {
	if r.StashLabel != "" {
		return fmt.Sprintf("%s set to stashed build %q", r.Name, r.StashLabel)
	}
	oldCh, newCh := derefOr(r.OldChannel, "/"), derefOr(r.NewChannel, "/")
	switch {
	case r.NewVersion == nil:
		return fmt.Sprintf("%s updated", r.Name)
	case oldCh != newCh:
		return fmt.Sprintf("%s changed from channel %s to channel %s (version %d)", r.Name, oldCh, newCh, *r.NewVersion)
	case r.OldVersion == nil:
		return fmt.Sprintf("%s pinned at %d", r.Name, *r.NewVersion)
	case *r.NewVersion > *r.OldVersion:
		return fmt.Sprintf("%s upgraded from %d to %d", r.Name, *r.OldVersion, *r.NewVersion)
	case *r.NewVersion < *r.OldVersion:
		return fmt.Sprintf("%s downgraded from %d to %d", r.Name, *r.OldVersion, *r.NewVersion)
	default:
		return fmt.Sprintf("%s maintained at %d", r.Name, *r.NewVersion)
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
