// Package cache implements the universal CachedBackend wrapper: it
// memoizes published artifacts on disk under a backend's cache
// directory, unpacks tarballs into the INPUT tree, and manages the stash
// of locally-labeled pseudo-versions.
package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dpvpro/lal/pkg/archive"
	"github.com/dpvpro/lal/pkg/backend"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
)

// Cached wraps a backend.Backend with on-disk memoization and stash
// support.
type Cached struct {
	Backend backend.Backend
}

// New returns a Cached wrapper over b.
func New(b backend.Backend) *Cached {
	return &Cached{Backend: b}
}

func (c *Cached) cacheDir() string { return c.Backend.CacheDir() }

func (c *Cached) artifactDir(name string, version uint32, env string, ch channel.Channel) string {
	parts := append([]string{c.cacheDir(), "environments", env}, channelSegments(ch)...)
	parts = append(parts, name, strconv.FormatUint(uint64(version), 10))
	return filepath.Join(parts...)
}

func channelSegments(ch channel.Channel) []string {
	if ch.Empty() {
		return nil
	}
	var out []string
	for _, seg := range ch.Components() {
		out = append(out, "channels", seg)
	}
	return out
}

func (c *Cached) stashDir(name, label string) string {
	return filepath.Join(c.cacheDir(), "stash", name, label)
}

// GetLatestSupportedVersions computes, per environment, the descending
// list of published versions, then intersects those lists across every
// supplied environment while preserving descending order. If no version
// exists in every environment it returns NoIntersectedVersion; with no
// environments at all it returns an empty result and no error.
func (c *Cached) GetLatestSupportedVersions(name string, envs []string, ch channel.Channel) ([]uint32, error) {
	if len(envs) == 0 {
		return nil, nil
	}
	sets := make([]map[uint32]struct{}, len(envs))
	first, err := c.Backend.GetVersions(name, envs[0], ch)
	if err != nil {
		return nil, err
	}
	sets[0] = toSet(first)

	for i := 1; i < len(envs); i++ {
		versions, err := c.Backend.GetVersions(name, envs[i], ch)
		if err != nil {
			return nil, err
		}
		sets[i] = toSet(versions)
	}

	var out []uint32
	for v := range sets[0] {
		inAll := true
		for i := 1; i < len(sets); i++ {
			if _, ok := sets[i][v]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	if len(out) == 0 {
		return nil, errs.NoIntersectedVersion(name)
	}
	return out, nil
}

func toSet(versions []uint32) map[uint32]struct{} {
	out := make(map[uint32]struct{}, len(versions))
	for _, v := range versions {
		out[v] = struct{}{}
	}
	return out
}

// RetrievePublishedComponent resolves (name, version?, env, channel)
// against the backend, fetching the tarball into the cache directory if
// it is not already present there. A present cache entry is treated as
// durable and reused without re-verifying against the backend.
func (c *Cached) RetrievePublishedComponent(name string, version *uint32, env string, ch channel.Channel) (string, backend.Component, error) {
	comp, err := c.Backend.GetComponentInfo(name, version, env, ch)
	if err != nil {
		return "", backend.Component{}, err
	}

	dir := c.artifactDir(name, comp.Version, env, ch)
	tarball := filepath.Join(dir, name+".tar.gz")

	if _, err := os.Stat(tarball); err == nil {
		return tarball, comp, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", backend.Component{}, errs.IO(err)
	}
	scratch := filepath.Join(dir, name+".tar.gz.tmp")
	if err := c.Backend.RawFetch(comp.Location, scratch); err != nil {
		return "", backend.Component{}, err
	}
	if err := os.Rename(scratch, tarball); err != nil {
		return "", backend.Component{}, errs.IO(err)
	}
	return tarball, comp, nil
}

// UnpackPublishedComponent retrieves the published tarball and extracts
// it into inputDir/<name>/, clearing any pre-existing contents first.
func (c *Cached) UnpackPublishedComponent(name string, version *uint32, env string, ch channel.Channel, inputDir string) (backend.Component, error) {
	tarball, comp, err := c.RetrievePublishedComponent(name, version, env, ch)
	if err != nil {
		return backend.Component{}, err
	}
	dest := filepath.Join(inputDir, name)
	if err := os.RemoveAll(dest); err != nil {
		return backend.Component{}, errs.IO(err)
	}
	if err := archive.Unpack(tarball, dest); err != nil {
		return backend.Component{}, err
	}
	return comp, nil
}

// RetrieveStashedComponent returns the tarball path for a stashed label,
// or MissingStashArtifact.
func (c *Cached) RetrieveStashedComponent(name, label string) (string, error) {
	tarball := filepath.Join(c.stashDir(name, label), name+".tar.gz")
	if _, err := os.Stat(tarball); err != nil {
		return "", errs.MissingStashArtifact(name + "=" + label)
	}
	return tarball, nil
}

// UnpackStashedComponent retrieves the stashed tarball and extracts it
// into inputDir/<name>/, as UnpackPublishedComponent does for published
// artifacts.
func (c *Cached) UnpackStashedComponent(name, label, inputDir string) error {
	tarball, err := c.RetrieveStashedComponent(name, label)
	if err != nil {
		return err
	}
	dest := filepath.Join(inputDir, name)
	if err := os.RemoveAll(dest); err != nil {
		return errs.IO(err)
	}
	return archive.Unpack(tarball, dest)
}

// StashOutput tars outputDir (stripping its own leading path component)
// into the stash slot for (name, label), and copies outputDir's
// lockfile.json alongside it.
func (c *Cached) StashOutput(name, label, outputDir string) error {
	dest := c.stashDir(name, label)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errs.IO(err)
	}
	if err := archive.Pack(outputDir, filepath.Join(dest, name+".tar.gz")); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(outputDir, "lockfile.json"))
	if err != nil {
		return errs.IO(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "lockfile.json"), data, 0o644); err != nil {
		return errs.IO(err)
	}
	return nil
}

// Clean walks the cache's environments/ and stash/ subtrees and removes
// every version/label directory (identified as a directory that directly
// contains at least one regular file — the tarball and, for stash,
// lockfile.json pair nothing else nests under) whose modification time is
// older than the cutoff. The first removal failure aborts the sweep.
//
// Leaf directories are recognized structurally rather than at a fixed
// depth: channel segments make the environments tree arbitrarily deep,
// and the stash tree is one level shallower.
func Clean(cacheDir string, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	for _, sub := range []string{"environments", "stash"} {
		if err := cleanStaleLeaves(filepath.Join(cacheDir, sub), cutoff); err != nil {
			return err
		}
	}
	return nil
}

// cleanStaleLeaves recurses into dir, treating any directory that
// directly contains a regular file as a removal candidate and otherwise
// descending into its subdirectories.
func cleanStaleLeaves(dir string, cutoff time.Time) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.IO(err)
	}

	hasFile := false
	var subdirs []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e)
		} else {
			hasFile = true
		}
	}

	if hasFile {
		info, err := os.Stat(dir)
		if err != nil {
			return errs.IO(err)
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(dir); err != nil {
				return errs.IO(err)
			}
		}
		return nil
	}

	for _, d := range subdirs {
		if err := cleanStaleLeaves(filepath.Join(dir, d.Name()), cutoff); err != nil {
			return err
		}
	}
	return nil
}
