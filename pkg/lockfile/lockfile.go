// Package lockfile implements the recursive build-record tree emitted by
// every build and consumed by the verifier and propagation planner.
package lockfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/manifest"
)

// Lockfile is the authoritative record of what went into a build. It is
// recursive: Dependencies maps a direct child's name to that child's own
// lockfile, as recorded by the child's own build.
type Lockfile struct {
	Name           string               `json:"name"`
	Version        string               `json:"version"`
	Environment    string               `json:"environment"`
	Channel        *string              `json:"channel,omitempty"`
	Configuration  string               `json:"configuration"`
	Tool           string               `json:"tool"`
	BuildTimestamp string               `json:"build_timestamp"`
	Sha            *string              `json:"sha,omitempty"`
	Dependencies   map[string]*Lockfile `json:"dependencies,omitempty"`
}

// Read parses a lockfile.json at path.
func Read(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO(err)
	}
	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, errs.Parse(err)
	}
	return &lf, nil
}

// Write pretty-prints lf to path with a trailing newline.
func Write(path string, lf *Lockfile) error {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return errs.Parse(err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.IO(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.IO(err)
	}
	return nil
}

// PopulateFromInput grafts each direct dependency's own lockfile.json
// (read from inputDir/<name>/lockfile.json) onto lf.Dependencies. It never
// re-walks a child's own INPUT tree: the child's nested Dependencies field
// is trusted as-is, per the build-time snapshot it represents.
//
// Missing direct dependencies are tolerated (the returned slice holds one
// MissingLockfile per missing/unreadable child, matching fetch's
// tolerant-snapshot semantics) unless strict is true, in which case the
// first missing child lockfile stops the walk and the returned slice
// holds only that MissingLockfile.
func (lf *Lockfile) PopulateFromInput(m *manifest.Manifest, inputDir string, strict bool) []error {
	var warnings []error
	lf.Dependencies = make(map[string]*Lockfile, len(m.Dependencies))
	for name := range m.Dependencies {
		childPath := filepath.Join(inputDir, name, "lockfile.json")
		child, err := Read(childPath)
		if err != nil {
			wrapped := errs.MissingLockfile(name)
			if strict {
				return []error{wrapped}
			}
			warnings = append(warnings, wrapped)
			continue
		}
		lf.Dependencies[name] = child
	}
	return warnings
}

// walk invokes fn for lf and every nested lockfile, passing the current
// depth's owning name.
func (lf *Lockfile) walk(fn func(name string, node *Lockfile)) {
	fn(lf.Name, lf)
	for name, child := range lf.Dependencies {
		_ = name
		child.walk(fn)
	}
}

// FindAllDependencyVersions maps every component name appearing anywhere
// in the tree (including the root) to the set of version strings it was
// observed at.
func (lf *Lockfile) FindAllDependencyVersions() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	lf.walk(func(name string, node *Lockfile) {
		if out[name] == nil {
			out[name] = make(map[string]struct{})
		}
		out[name][node.Version] = struct{}{}
	})
	return out
}

// FindAllEnvironments maps every component name in the tree to the set of
// environments it was built in.
func (lf *Lockfile) FindAllEnvironments() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	lf.walk(func(name string, node *Lockfile) {
		if out[name] == nil {
			out[name] = make(map[string]struct{})
		}
		out[name][node.Environment] = struct{}{}
	})
	return out
}

// FindAllChannels maps every component name in the tree to the set of
// channels it was observed with; an unset channel is recorded as "".
func (lf *Lockfile) FindAllChannels() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	lf.walk(func(name string, node *Lockfile) {
		if out[name] == nil {
			out[name] = make(map[string]struct{})
		}
		key := ""
		if node.Channel != nil {
			key = *node.Channel
		}
		out[name][key] = struct{}{}
	})
	return out
}

// FindAllDependencyNames maps every component name in the tree to the set
// of its own direct children's names, the input propagation planning
// walks to compute topological upgrade stages.
func (lf *Lockfile) FindAllDependencyNames() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	lf.walk(func(name string, node *Lockfile) {
		set := out[name]
		if set == nil {
			set = make(map[string]struct{})
			out[name] = set
		}
		for childName := range node.Dependencies {
			set[childName] = struct{}{}
		}
	})
	return out
}

// GetReverseDepsTransitivelyFor returns every component name in the tree
// that transitively depends on target (target itself excluded).
func (lf *Lockfile) GetReverseDepsTransitivelyFor(target string) map[string]struct{} {
	names := lf.FindAllDependencyNames()
	out := make(map[string]struct{})
	var dependsOn func(name string, seen map[string]bool) bool
	dependsOn = func(name string, seen map[string]bool) bool {
		if seen[name] {
			return false
		}
		seen[name] = true
		for child := range names[name] {
			if child == target {
				return true
			}
			if dependsOn(child, seen) {
				return true
			}
		}
		return false
	}
	for name := range names {
		if name == target {
			continue
		}
		if dependsOn(name, map[string]bool{}) {
			out[name] = struct{}{}
		}
	}
	return out
}
