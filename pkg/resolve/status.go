package resolve

import (
	"os"
	"path/filepath"

	"github.com/dpvpro/lal/pkg/lockfile"
	"github.com/dpvpro/lal/pkg/manifest"
)

// Dependency is one row of a Status report: a manifest dependency
// annotated with what was actually found under INPUT/, plus whether it
// came from dev_dependencies.
type Dependency struct {
	Name        string
	Development bool
	Missing     bool
	// Version is the version the manifest declares.
	Version uint32
	// ActualVersion is the version recorded by INPUT/<name>/lockfile.json
	// (possibly a stash label); empty when Missing.
	ActualVersion string
	// Mismatch is set when ActualVersion differs from the declared
	// Version, including the stashed (non-integer) case.
	Mismatch bool
}

// Status reports, for every manifest dependency (and every extraneous
// directory under INPUT/), whether it is present at the declared
// version, present at some other version, missing, or unaccounted
// for — a softer read-only diagnostic than the pass/fail Verify.
type Status struct {
	Dependencies []Dependency
	Extraneous   []string
}

// AnalyzeStatus builds a Status report for m against inputDir. Each
// present dependency's own lockfile.json supplies the installed version
// compared against the manifest's declaration.
func AnalyzeStatus(m *manifest.Manifest, inputDir string) Status {
	var out Status
	seen := make(map[string]bool)

	for name, coord := range m.Dependencies {
		seen[name] = true
		out.Dependencies = append(out.Dependencies, analyzeDependency(name, coord, false, inputDir))
	}
	for name, coord := range m.DevDependencies {
		seen[name] = true
		out.Dependencies = append(out.Dependencies, analyzeDependency(name, coord, true, inputDir))
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if !seen[e.Name()] {
			out.Extraneous = append(out.Extraneous, e.Name())
		}
	}
	return out
}

func analyzeDependency(name string, coord manifest.Coordinates, dev bool, inputDir string) Dependency {
	d := Dependency{
		Name:        name,
		Development: dev,
		Version:     coord.Version,
	}
	if !dirExists(filepath.Join(inputDir, name)) {
		d.Missing = true
		return d
	}
	lf, err := lockfile.Read(filepath.Join(inputDir, name, "lockfile.json"))
	if err != nil {
		// A directory with no readable lockfile carries no usable build:
		// report it as missing rather than guessing at its version.
		d.Missing = true
		return d
	}
	d.ActualVersion = lf.Version
	d.Mismatch = lf.Version != formatVersion(coord.Version)
	return d
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
