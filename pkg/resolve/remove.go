package resolve

import (
	"os"
	"path/filepath"

	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/manifest"
)

// Remove deletes INPUT/<name>/ for each name in xs (tolerant of a missing
// INPUT directory entirely), and, if save or saveDev is set, drops each
// name from the corresponding manifest map first — failing with
// MissingComponent if a name isn't present there.
func Remove(m *manifest.Manifest, xs []string, save, saveDev bool, inputDir string) error {
	if save || saveDev {
		target := m.Dependencies
		if saveDev {
			target = m.DevDependencies
		}
		for _, name := range xs {
			if _, ok := target[name]; !ok {
				return errs.MissingComponent(name)
			}
			delete(target, name)
		}
	}

	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		return nil
	}
	for _, name := range xs {
		path := filepath.Join(inputDir, name)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := os.RemoveAll(path); err != nil {
				return errs.IO(err)
			}
		}
	}
	return nil
}
