package resolve

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dpvpro/lal/pkg/cache"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/manifest"
)

// Export resolves spec exactly as Update parses it ("name",
// "name=version", "name=channel/version", or "name=label") and copies the
// resolved tarball into outDir/<name>.tar.gz. env must be non-empty:
// exports must be reproducibly tagged to one environment.
func Export(c *cache.Cached, spec, outDir, env string) error {
	if env == "" {
		return errs.EnvironmentUnspecified()
	}
	name, coordsPart, hasCoords := strings.Cut(spec, "=")
	if name != strings.ToLower(name) {
		return errs.InvalidComponentName(name)
	}
	if !manifest.ValidComponentName(name) {
		return errs.InvalidComponentName(name)
	}

	var tarball string
	if !hasCoords {
		path, _, err := c.RetrievePublishedComponent(name, nil, env, channel.Default())
		if err != nil {
			return err
		}
		tarball = path
	} else {
		version, ch := channel.ParseCoords(coordsPart)
		target := channel.Default()
		if ch != nil {
			target = *ch
		}
		if err := target.Verify(); err != nil {
			return err
		}
		if version != nil {
			path, _, err := c.RetrievePublishedComponent(name, version, env, target)
			if err != nil {
				return err
			}
			tarball = path
		} else if ch != nil && strings.Contains(coordsPart, "/") {
			path, _, err := c.RetrievePublishedComponent(name, nil, env, target)
			if err != nil {
				return err
			}
			tarball = path
		} else {
			path, err := c.RetrieveStashedComponent(name, coordsPart)
			if err != nil {
				return err
			}
			tarball = path
		}
	}

	if outDir == "" {
		outDir = "."
	}
	dest := filepath.Join(outDir, name+".tar.gz")
	return copyFile(tarball, dest)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errs.IO(err)
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errs.IO(err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return errs.IO(err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return errs.IO(err)
	}
	return nil
}
