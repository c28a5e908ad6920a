package resolve

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/lockfile"
	"github.com/dpvpro/lal/pkg/manifest"
)

// Verify runs every check in order and returns the first semantic
// violation; warnings encountered along the way (e.g. components present
// at multiple versions that are not direct dependencies) are returned
// alongside a nil error.
//
// simple skips the global-version check (2) and the tree/environment/
// channel checks (4-6), for use when a user has explicitly opted into
// local experimentation with stashed artifacts.
func Verify(lf *lockfile.Lockfile, m *manifest.Manifest, env, inputDir string, simple bool) ([]error, error) {
	var warnings []error

	if err := verifyDependenciesPresent(m, inputDir); err != nil {
		return warnings, err
	}

	for name := range m.Dependencies {
		if name == m.Name {
			return warnings, errs.DependencyCycle(name)
		}
	}
	for name := range m.DevDependencies {
		if name == m.Name {
			return warnings, errs.DependencyCycle(name)
		}
	}

	if simple {
		// simple_verify is the -s escape hatch for local experimentation
		// with stashed artifacts: it skips the global-version check (2)
		// along with the tree/environment/channel checks (4-6), since a
		// stashed component necessarily carries a non-integer version.
		return warnings, nil
	}

	if err := verifyGlobalVersions(lf, m); err != nil {
		return warnings, err
	}

	w, err := verifyConsistentVersions(lf, m)
	warnings = append(warnings, w...)
	if err != nil {
		return warnings, err
	}

	if err := verifyEnvironmentConsistency(lf, env); err != nil {
		return warnings, err
	}

	if err := verifyChannelContainment(lf, m); err != nil {
		return warnings, err
	}

	return warnings, nil
}

func verifyDependenciesPresent(m *manifest.Manifest, inputDir string) error {
	var missing []string
	for name := range m.Dependencies {
		info, err := os.Stat(filepath.Join(inputDir, name))
		if err != nil || !info.IsDir() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errs.MissingDependencies()
	}
	return nil
}

func verifyGlobalVersions(lf *lockfile.Lockfile, m *manifest.Manifest) error {
	all := m.AllDependencies()
	for name, child := range lf.Dependencies {
		v, err := strconv.ParseUint(child.Version, 10, 32)
		if err != nil {
			return errs.NonGlobalDependencies(name)
		}
		coord, ok := all[name]
		if !ok {
			// A first-level dependency in the snapshot should be in the
			// manifest.
			return errs.ExtraneousDependencies(name)
		}
		if uint32(v) != coord.Version {
			return errs.InvalidVersion(name)
		}
	}
	return nil
}

func verifyConsistentVersions(lf *lockfile.Lockfile, m *manifest.Manifest) ([]error, error) {
	var warnings []error
	versions := lf.FindAllDependencyVersions()
	for name, set := range versions {
		if len(set) <= 1 {
			continue
		}
		_, isDirect := m.Dependencies[name]
		if isDirect {
			return warnings, errs.MultipleVersions(name)
		}
		warnings = append(warnings, errs.MultipleVersions(name))
	}
	return warnings, nil
}

func verifyEnvironmentConsistency(lf *lockfile.Lockfile, env string) error {
	envs := lf.FindAllEnvironments()
	for name, set := range envs {
		if len(set) > 1 {
			return errs.MultipleEnvironments(name)
		}
		for e := range set {
			if e != "" && e != env {
				return errs.EnvironmentMismatch(name, e)
			}
		}
	}
	return nil
}

func verifyChannelContainment(lf *lockfile.Lockfile, m *manifest.Manifest) error {
	ownCh := channel.Default()
	if m.Channel != nil {
		ownCh = channel.Parse(*m.Channel)
	}
	var walk func(node *lockfile.Lockfile)
	var firstErr error
	walk = func(node *lockfile.Lockfile) {
		if firstErr != nil {
			return
		}
		if node.Channel != nil && strings.TrimSpace(*node.Channel) != "" {
			childCh := channel.Parse(*node.Channel)
			if err := channel.Contains(ownCh, childCh); err != nil {
				firstErr = err
				return
			}
		}
		for _, child := range node.Dependencies {
			walk(child)
		}
	}
	walk(lf)
	return firstErr
}
