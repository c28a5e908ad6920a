package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/manifest"
)

const stickyOptsName = "opts"

// StickyOptions is the per-repository override of the manifest's default
// environment, stored at `<repo>/.lal/opts`.
type StickyOptions struct {
	Env *string `json:"env,omitempty"`
}

func stickyPath(pwd string) string {
	return filepath.Join(pwd, manifest.LalDir, stickyOptsName)
}

// ReadSticky returns the sticky options for pwd, or the zero value
// (everything unset) if `.lal/opts` does not exist.
func ReadSticky(pwd string) (StickyOptions, error) {
	path := stickyPath(pwd)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StickyOptions{}, nil
		}
		return StickyOptions{}, errs.IO(err)
	}
	var opts StickyOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return StickyOptions{}, errs.Parse(err)
	}
	return opts, nil
}

// WriteSticky overwrites `<pwd>/.lal/opts`, creating the `.lal`
// subdirectory first.
func WriteSticky(pwd string, opts StickyOptions) error {
	if err := manifest.CreateLalSubdir(pwd); err != nil {
		return err
	}
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return errs.Parse(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(stickyPath(pwd), data, 0o644); err != nil {
		return errs.IO(err)
	}
	return nil
}

// DeleteSticky removes the local `.lal/opts` file, if present.
func DeleteSticky(pwd string) error {
	err := os.Remove(stickyPath(pwd))
	if err != nil && !os.IsNotExist(err) {
		return errs.IO(err)
	}
	return nil
}
