// Package resolve implements the resolution operations that sit above
// the cached backend: fetch, update, remove, export, stash, and the
// verifier.
package resolve

import (
	"os"
	"path/filepath"

	"github.com/dpvpro/lal/pkg/cache"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/lockfile"
	"github.com/dpvpro/lal/pkg/manifest"
)

// Fetch installs every dependency (plus dev dependencies unless coreOnly)
// into inputDir, skipping already-satisfied entries found in an existing
// lockfile snapshot, removing anything extraneous, and wiping inputDir
// entirely on any single failure (partial symlink extractions can leave a
// corrupt tree).
func Fetch(c *cache.Cached, m *manifest.Manifest, coreOnly bool, env, inputDir string) error {
	if err := m.Verify(); err != nil {
		return err
	}

	targets := make(map[string]manifest.Coordinates, len(m.Dependencies)+len(m.DevDependencies))
	for name, coord := range m.Dependencies {
		targets[name] = coord
	}
	if !coreOnly {
		for name, coord := range m.DevDependencies {
			targets[name] = coord
		}
	}

	snapshot := &lockfile.Lockfile{Name: m.Name}
	snapshot.PopulateFromInput(m, inputDir, false)

	removeExtraneous(inputDir, targets)

	var lastErr error
	for name, coord := range targets {
		if satisfied(snapshot, name, coord, env) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(inputDir, name)); err != nil {
			lastErr = errs.IO(err)
			continue
		}
		ch := channel.Default()
		if coord.Channel != nil {
			ch = channel.Parse(*coord.Channel)
		}
		v := coord.Version
		if _, err := c.UnpackPublishedComponent(name, &v, env, ch, inputDir); err != nil {
			lastErr = err
			continue
		}
	}

	if lastErr != nil {
		_ = os.RemoveAll(inputDir)
		return errs.InstallFailure()
	}
	return nil
}

func satisfied(snapshot *lockfile.Lockfile, name string, coord manifest.Coordinates, env string) bool {
	child, ok := snapshot.Dependencies[name]
	if !ok {
		return false
	}
	if child.Version != formatVersion(coord.Version) || child.Environment != env {
		return false
	}
	want := channel.Default()
	if coord.Channel != nil {
		want = channel.Parse(*coord.Channel)
	}
	have := channel.Default()
	if child.Channel != nil {
		have = channel.Parse(*child.Channel)
	}
	return want.Equal(have)
}

func removeExtraneous(inputDir string, targets map[string]manifest.Coordinates) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := targets[e.Name()]; !ok {
			_ = os.RemoveAll(filepath.Join(inputDir, e.Name()))
		}
	}
}
