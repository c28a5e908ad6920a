// Package archive wraps github.com/docker/docker/pkg/archive for the two
// tar/gzip operations the cache and build driver need: packing a
// directory into a gzip-compressed tarball with its own name stripped
// from every entry path, and unpacking one back onto disk while
// preserving symlinks and file modes.
package archive

import (
	"io"
	"os"
	"path/filepath"

	dockerarchive "github.com/docker/docker/pkg/archive"

	"github.com/dpvpro/lal/pkg/errs"
)

// Pack tars srcDir (gzip-compressed) into destTarball, with entry paths
// relative to srcDir (no leading directory component), preserving
// symlinks.
func Pack(srcDir, destTarball string) error {
	rc, err := dockerarchive.TarWithOptions(srcDir, &dockerarchive.TarOptions{
		Compression: dockerarchive.Gzip,
	})
	if err != nil {
		return errs.IO(err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destTarball), 0o755); err != nil {
		return errs.IO(err)
	}
	out, err := os.Create(destTarball)
	if err != nil {
		return errs.IO(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errs.IO(err)
	}
	return nil
}

// Unpack extracts srcTarball into destDir, creating destDir if necessary
// and preserving symlinks and file modes. Callers are responsible for
// clearing any pre-existing contents of destDir first; the cache layer
// does this before every unpack.
func Unpack(srcTarball, destDir string) error {
	in, err := os.Open(srcTarball)
	if err != nil {
		return errs.IO(err)
	}
	defer in.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errs.IO(err)
	}

	if err := dockerarchive.Untar(in, destDir, &dockerarchive.TarOptions{
		Compression: dockerarchive.Gzip,
		NoLchown:    true,
	}); err != nil {
		return errs.IO(err)
	}
	return nil
}
