package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpvpro/lal/pkg/channel"
)

func seedArtifact(t *testing.T, name string) string {
	t.Helper()
	artifactDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, name+".tar.gz"), []byte("tarball"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "lockfile.json"), []byte("{}"), 0o644))
	return artifactDir
}

func TestGetVersionsDescendingAndFiltered(t *testing.T) {
	b := New(t.TempDir())
	artifactDir := seedArtifact(t, "libx")

	for _, v := range []uint32{3, 1, 7} {
		require.NoError(t, b.PublishArtifact(artifactDir, "libx", v, "xenial", channel.Default()))
	}
	// A non-integer directory name is not a version and must be skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(b.Root, "environments", "xenial", "libx", "garbage"), 0o755))

	versions, err := b.GetVersions("libx", "xenial", channel.Default())
	require.NoError(t, err)
	assert.Equal(t, []uint32{7, 3, 1}, versions)
}

func TestGetVersionsMissingComponent(t *testing.T) {
	b := New(t.TempDir())
	versions, err := b.GetVersions("nothing", "xenial", channel.Default())
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, err = b.GetLatestVersion("nothing", "xenial", channel.Default())
	assert.Error(t, err)
}

func TestGetComponentInfoResolvesLatest(t *testing.T) {
	b := New(t.TempDir())
	artifactDir := seedArtifact(t, "libx")
	require.NoError(t, b.PublishArtifact(artifactDir, "libx", 4, "xenial", channel.Default()))
	require.NoError(t, b.PublishArtifact(artifactDir, "libx", 9, "xenial", channel.Default()))

	comp, err := b.GetComponentInfo("libx", nil, "xenial", channel.Default())
	require.NoError(t, err)
	assert.Equal(t, uint32(9), comp.Version)
	assert.Equal(t, "libx", comp.Name)

	data, err := os.ReadFile(comp.Location)
	require.NoError(t, err)
	assert.Equal(t, "tarball", string(data))
}

func TestChanneledLayout(t *testing.T) {
	b := New(t.TempDir())
	artifactDir := seedArtifact(t, "libx")
	ch := channel.Parse("/a/b")
	require.NoError(t, b.PublishArtifact(artifactDir, "libx", 2, "xenial", ch))

	// Channel components interleave literal "channels/" path segments.
	expected := filepath.Join(b.Root, "environments", "xenial",
		"channels", "a", "channels", "b", "libx", "2", "libx.tar.gz")
	_, err := os.Stat(expected)
	require.NoError(t, err)

	// The channeled tree is invisible to a default-channel listing.
	versions, err := b.GetVersions("libx", "xenial", channel.Default())
	require.NoError(t, err)
	assert.Empty(t, versions)

	versions, err = b.GetVersions("libx", "xenial", ch)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, versions)
}

func TestRawFetch(t *testing.T) {
	b := New(t.TempDir())
	src := filepath.Join(t.TempDir(), "src.tar.gz")
	require.NoError(t, os.WriteFile(src, []byte("bytes"), 0o644))

	dest := filepath.Join(t.TempDir(), "nested", "dest.tar.gz")
	require.NoError(t, b.RawFetch(src, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}
