package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpvpro/lal/pkg/archive"
	"github.com/dpvpro/lal/pkg/backend/local"
	"github.com/dpvpro/lal/pkg/channel"
)

func TestGetLatestSupportedVersionsIntersection(t *testing.T) {
	store := t.TempDir()
	b := local.New(store)
	c := New(b)

	artifactDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "libx.tar.gz"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "lockfile.json"), []byte("{}"), 0o644))
	require.NoError(t, b.PublishArtifact(artifactDir, "libx", 5, "xenial", channel.Default()))
	// libx/5 only exists in xenial, not centos.

	_, err := c.GetLatestSupportedVersions("libx", []string{"xenial", "centos"}, channel.Default())
	assert.Error(t, err)

	require.NoError(t, b.PublishArtifact(artifactDir, "libx", 5, "centos", channel.Default()))
	versions, err := c.GetLatestSupportedVersions("libx", []string{"xenial", "centos"}, channel.Default())
	require.NoError(t, err)
	assert.Equal(t, []uint32{5}, versions)
}

func TestUnpackPublishedComponent(t *testing.T) {
	store := t.TempDir()
	b := local.New(store)
	c := New(b)

	artifactDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(artifactDir, "payload"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "payload", "file.txt"), []byte("hi"), 0o644))

	tarball := filepath.Join(artifactDir, "gtest.tar.gz")
	require.NoError(t, archive.Pack(filepath.Join(artifactDir, "payload"), tarball))
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "lockfile.json"), []byte("{}"), 0o644))
	require.NoError(t, b.PublishArtifact(artifactDir, "gtest", 6, "xenial", channel.Default()))

	inputDir := t.TempDir()
	_, err := c.UnpackPublishedComponent("gtest", nil, "xenial", channel.Default(), inputDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(inputDir, "gtest", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
}

func TestStashAndRetrieve(t *testing.T) {
	store := t.TempDir()
	b := local.New(store)
	c := New(b)

	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "lockfile.json"), []byte(`{"name":"self","version":"1"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "artifact.bin"), []byte("data"), 0o644))

	require.NoError(t, c.StashOutput("self", "mine", outputDir))

	tarball, err := c.RetrieveStashedComponent("self", "mine")
	require.NoError(t, err)
	_, err = os.Stat(tarball)
	require.NoError(t, err)

	_, err = c.RetrieveStashedComponent("self", "nonexistent")
	assert.Error(t, err)
}

func TestCleanRemovesStaleOnly(t *testing.T) {
	store := t.TempDir()
	staleDir := filepath.Join(store, "environments", "xenial", "libx", "5")
	freshDir := filepath.Join(store, "environments", "xenial", "libx", "6")
	require.NoError(t, os.MkdirAll(staleDir, 0o755))
	require.NoError(t, os.MkdirAll(freshDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staleDir, "libx.tar.gz"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(freshDir, "libx.tar.gz"), []byte("x"), 0o644))

	old := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(staleDir, old, old))

	require.NoError(t, Clean(store, 7*24*time.Hour))

	_, err := os.Stat(staleDir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshDir)
	assert.NoError(t, err)
}
