// Package backend defines the polymorphic storage-backend capability set
// that remote and local implementations satisfy, and that the cached
// wrapper in pkg/cache composes over.
package backend

import (
	"github.com/dpvpro/lal/pkg/channel"
)

// Component is the result of resolving a (name, version?, env, channel)
// query: the concrete version found and an opaque location a later
// RawFetch call can use to retrieve its bytes.
type Component struct {
	Name    string
	Version uint32
	// Location is opaque to callers: a URL for a remote backend, a source
	// path for a local-filesystem backend.
	Location string
}

// Backend is the capability set any storage implementation must satisfy.
// Implementations must be deterministic: the same (name, version, env,
// channel) resolves to the same Location for the lifetime of that
// version.
type Backend interface {
	// GetVersions lists every published version of name in descending
	// order.
	GetVersions(name, env string, ch channel.Channel) ([]uint32, error)

	// GetLatestVersion returns the highest published version.
	GetLatestVersion(name, env string, ch channel.Channel) (uint32, error)

	// GetComponentInfo resolves version (nil meaning latest) to a
	// Component.
	GetComponentInfo(name string, version *uint32, env string, ch channel.Channel) (Component, error)

	// PublishArtifact uploads ARTIFACT/<name>.tar.gz and
	// ARTIFACT/lockfile.json from artifactDir under
	// env/<env>/<channelpath>/<name>/<version>/.
	PublishArtifact(artifactDir, name string, version uint32, env string, ch channel.Channel) error

	// RawFetch writes the artifact bytes named by location to dest.
	RawFetch(location, dest string) error

	// CacheDir returns the root of this backend's on-disk cache.
	CacheDir() string
}
