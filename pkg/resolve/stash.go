package resolve

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/dpvpro/lal/pkg/cache"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/lockfile"
)

// Stash rejects integer-parseable labels (they would collide with
// published versions), requires an existing OUTPUT/ directory, rewrites
// the just-built lockfile's Version field to label so that subsequent
// listings display it, and tars OUTPUT/ into the stash slot.
func Stash(c *cache.Cached, name, label, outputDir string) error {
	if _, err := strconv.ParseUint(label, 10, 32); err == nil {
		return errs.InvalidStashName(label)
	}
	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		return errs.MissingBuild()
	}

	lockfilePath := filepath.Join(outputDir, "lockfile.json")
	lf, err := lockfile.Read(lockfilePath)
	if err != nil {
		return errs.MissingBuild()
	}
	lf.Version = label
	if err := lockfile.Write(lockfilePath, lf); err != nil {
		return err
	}

	return c.StashOutput(name, label, outputDir)
}
