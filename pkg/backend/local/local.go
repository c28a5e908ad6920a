// Package local implements the filesystem-local storage backend: a
// directory tree playing the role of the remote store, addressed the same
// way the cache addresses its own artifacts.
package local

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/dpvpro/lal/pkg/backend"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
)

// Backend stores published artifacts under a plain directory tree rooted
// at Root, mirroring the cache's own on-disk layout.
type Backend struct {
	Root string
}

// New returns a local.Backend rooted at root.
func New(root string) *Backend {
	return &Backend{Root: root}
}

func (b *Backend) componentDir(name, env string, ch channel.Channel) string {
	parts := append([]string{b.Root, "environments", env}, splitChannel(ch)...)
	parts = append(parts, name)
	return filepath.Join(parts...)
}

func splitChannel(ch channel.Channel) []string {
	if ch.Empty() {
		return nil
	}
	var out []string
	for _, seg := range ch.Components() {
		out = append(out, "channels", seg)
	}
	return out
}

// GetVersions lists integer-named subdirectories of the component's
// directory, descending.
func (b *Backend) GetVersions(name, env string, ch channel.Channel) ([]uint32, error) {
	dir := b.componentDir(name, env, ch)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.IO(err)
	}
	var versions []uint32
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		versions = append(versions, uint32(v))
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })
	return versions, nil
}

// GetLatestVersion returns the highest version under GetVersions.
func (b *Backend) GetLatestVersion(name, env string, ch channel.Channel) (uint32, error) {
	versions, err := b.GetVersions(name, env, ch)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, errs.NoIntersectedVersion(name)
	}
	return versions[0], nil
}

// GetComponentInfo resolves version (nil meaning latest) and returns the
// on-disk source path as the opaque Location.
func (b *Backend) GetComponentInfo(name string, version *uint32, env string, ch channel.Channel) (backend.Component, error) {
	v := uint32(0)
	if version == nil {
		latest, err := b.GetLatestVersion(name, env, ch)
		if err != nil {
			return backend.Component{}, err
		}
		v = latest
	} else {
		v = *version
	}
	tarball := filepath.Join(b.componentDir(name, env, ch), strconv.FormatUint(uint64(v), 10), name+".tar.gz")
	return backend.Component{Name: name, Version: v, Location: tarball}, nil
}

// PublishArtifact copies the artifact directory's tarball and lockfile
// into the versioned component directory.
func (b *Backend) PublishArtifact(artifactDir, name string, version uint32, env string, ch channel.Channel) error {
	dest := filepath.Join(b.componentDir(name, env, ch), strconv.FormatUint(uint64(version), 10))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errs.IO(err)
	}
	if err := copyFile(filepath.Join(artifactDir, name+".tar.gz"), filepath.Join(dest, name+".tar.gz")); err != nil {
		return err
	}
	if err := copyFile(filepath.Join(artifactDir, "lockfile.json"), filepath.Join(dest, "lockfile.json")); err != nil {
		return err
	}
	return nil
}

// RawFetch copies the file named by location (a source path for this
// backend) to dest.
func (b *Backend) RawFetch(location, dest string) error {
	return copyFile(location, dest)
}

// CacheDir returns Root: the local backend has no separate cache tier,
// so the cached wrapper's cache directory is the store itself. Both use
// the same environments/ layout, so the wrapper finds a published
// tarball already in place and does not copy it.
func (b *Backend) CacheDir() string { return b.Root }

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errs.IO(err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errs.IO(err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return errs.IO(err)
	}
	return nil
}

var _ backend.Backend = (*Backend)(nil)
