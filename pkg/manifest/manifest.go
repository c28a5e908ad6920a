// Package manifest reads, writes, and validates the per-repository
// manifest.json that declares a component's name, build environments, and
// pinned dependencies.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dpvpro/lal/pkg/errs"
)

// LalDir is the preferred subdirectory for manifest and sticky-option
// storage, mirroring the legacy tool's ".lal" convention.
const LalDir = ".lal"

const preferredManifestName = "manifest.json"
const legacyManifestName = "manifest.json"

var componentNameRe = regexp.MustCompile(`^[a-z][a-z0-9_.-]*$`)

// ComponentConfiguration describes one buildable sub-component: the set of
// build configurations it supports and which one is used by default.
type ComponentConfiguration struct {
	Configurations       []string `json:"configurations"`
	DefaultConfiguration string   `json:"default_configuration"`
}

// Manifest is the authoritative declaration of a component owned by the
// repository it lives in.
type Manifest struct {
	Name                  string                            `json:"name"`
	Environment           string                            `json:"environment"`
	SupportedEnvironments []string                          `json:"supported_environments"`
	Components            map[string]ComponentConfiguration `json:"components,omitempty"`
	Dependencies          map[string]Coordinates            `json:"dependencies,omitempty"`
	DevDependencies       map[string]Coordinates            `json:"dev_dependencies,omitempty"`
	Channel               *string                           `json:"channel,omitempty"`
}

// Location identifies which of the two manifest locations a repository
// uses: the preferred ".lal/manifest.json" or the legacy toplevel one.
type Location struct {
	Path     string
	IsLegacy bool
}

// Locate finds the manifest under pwd, preferring `.lal/manifest.json` and
// falling back to the legacy toplevel `manifest.json`. If both exist, the
// preferred one is returned and no warning is logged here (see
// BothLocationsExist).
func Locate(pwd string) (Location, error) {
	preferred := filepath.Join(pwd, LalDir, preferredManifestName)
	legacy := filepath.Join(pwd, legacyManifestName)

	_, errPreferred := os.Stat(preferred)
	_, errLegacy := os.Stat(legacy)

	if errPreferred == nil {
		return Location{Path: preferred, IsLegacy: false}, nil
	}
	if errLegacy == nil {
		return Location{Path: legacy, IsLegacy: true}, nil
	}
	return Location{}, errs.MissingManifest()
}

// BothLocationsExist reports whether pwd has both the preferred and the
// legacy manifest file, the condition under which the CLI's manifest
// loader logs a warning.
func BothLocationsExist(pwd string) bool {
	preferred := filepath.Join(pwd, LalDir, preferredManifestName)
	legacy := filepath.Join(pwd, legacyManifestName)
	_, errPreferred := os.Stat(preferred)
	_, errLegacy := os.Stat(legacy)
	return errPreferred == nil && errLegacy == nil
}

// Read locates and parses the manifest at pwd.
func Read(pwd string) (*Manifest, Location, error) {
	loc, err := Locate(pwd)
	if err != nil {
		return nil, Location{}, err
	}
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		return nil, loc, errs.IO(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, loc, errs.Parse(err)
	}
	return &m, loc, nil
}

// Write pretty-prints m to its preferred location under pwd, creating the
// `.lal` subdirectory if necessary, with a trailing newline.
func Write(pwd string, m *Manifest) error {
	if err := CreateLalSubdir(pwd); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.Parse(err)
	}
	data = append(data, '\n')
	path := filepath.Join(pwd, LalDir, preferredManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.IO(err)
	}
	return nil
}

// CreateLalSubdir ensures `<pwd>/.lal` exists.
func CreateLalSubdir(pwd string) error {
	if err := os.MkdirAll(filepath.Join(pwd, LalDir), 0o755); err != nil {
		return errs.IO(err)
	}
	return nil
}

// AllDependencies is the union of Dependencies and DevDependencies; on
// key collision the dev entry wins (see DESIGN.md Open Questions).
func (m *Manifest) AllDependencies() map[string]Coordinates {
	out := make(map[string]Coordinates, len(m.Dependencies)+len(m.DevDependencies))
	for k, v := range m.Dependencies {
		out[k] = v
	}
	for k, v := range m.DevDependencies {
		out[k] = v
	}
	return out
}

// ValidComponentName reports whether name is a legal, lowercase component
// identifier.
func ValidComponentName(name string) bool {
	return componentNameRe.MatchString(name)
}

// Verify checks every structural invariant of the manifest: lowercase
// names throughout, default configurations present in their own
// configuration set, a non-empty supported-environments list containing
// the default environment, and lowercase dependency names.
func (m *Manifest) Verify() error {
	if !ValidComponentName(m.Name) {
		return errs.InvalidComponentName(m.Name)
	}
	if len(m.SupportedEnvironments) == 0 {
		return errs.NoSupportedEnvironments()
	}
	found := false
	for _, e := range m.SupportedEnvironments {
		if e == m.Environment {
			found = true
			break
		}
	}
	if !found {
		return errs.UnsupportedEnvironment()
	}
	for name, cfg := range m.Components {
		if !ValidComponentName(name) {
			return errs.InvalidComponentName(name)
		}
		ok := false
		for _, c := range cfg.Configurations {
			if c == cfg.DefaultConfiguration {
				ok = true
				break
			}
		}
		if !ok {
			return errs.InvalidBuildConfiguration(name)
		}
	}
	for name := range m.Dependencies {
		if !ValidComponentName(name) {
			return errs.InvalidComponentName(name)
		}
	}
	for name := range m.DevDependencies {
		if !ValidComponentName(name) {
			return errs.InvalidComponentName(name)
		}
	}
	return nil
}
