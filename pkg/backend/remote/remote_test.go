package remote

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
)

func newTestBackend(t *testing.T, handler http.Handler) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.URL, "myrepo-release", "myrepo-group", "user", "pass", t.TempDir(), srv.Client())
}

func TestGetVersionsParsesListing(t *testing.T) {
	b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/storage/myrepo-release/env/xenial/libx", r.URL.Path)
		fmt.Fprint(w, `{"children":[{"uri":"/3"},{"uri":"/10"},{"uri":"/notaversion"},{"uri":"/1"}]}`)
	}))

	versions, err := b.GetVersions("libx", "xenial", channel.Default())
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 3, 1}, versions)
}

func TestGetVersionsChanneledPath(t *testing.T) {
	b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/storage/myrepo-release/env/xenial/channels/a/channels/b/libx", r.URL.Path)
		fmt.Fprint(w, `{"children":[{"uri":"/2"}]}`)
	}))

	versions, err := b.GetVersions("libx", "xenial", channel.Parse("/a/b"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, versions)
}

func TestGetVersionsNotFoundIsEmpty(t *testing.T) {
	b := newTestBackend(t, http.NotFoundHandler())

	versions, err := b.GetVersions("libx", "xenial", channel.Default())
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, err = b.GetLatestVersion("libx", "xenial", channel.Default())
	assert.True(t, errs.Is(err, errs.KindNoIntersectedVersion))
}

func TestGetComponentInfoLocationIsDownloadURL(t *testing.T) {
	b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"children":[{"uri":"/5"}]}`)
	}))

	comp, err := b.GetComponentInfo("libx", nil, "xenial", channel.Default())
	require.NoError(t, err)
	assert.Equal(t, uint32(5), comp.Version)
	assert.Equal(t, b.Slave+"/myrepo-group/env/xenial/libx/5/libx.tar.gz", comp.Location)
}

func TestRawFetchWritesDestination(t *testing.T) {
	b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "tarball-bytes")
	}))

	dest := filepath.Join(t.TempDir(), "nested", "libx.tar.gz")
	require.NoError(t, b.RawFetch(b.Slave+"/whatever", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "tarball-bytes", string(data))
}

func TestPublishArtifactTwoStepChecksumUpload(t *testing.T) {
	type putRecord struct {
		path     string
		body     []byte
		checksum string
		deploy   string
	}
	var puts []putRecord

	b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "pass", pass)

		body, _ := io.ReadAll(r.Body)
		puts = append(puts, putRecord{
			path:     r.URL.Path,
			body:     body,
			checksum: r.Header.Get("X-Checksum-Sha1"),
			deploy:   r.Header.Get("X-Checksum-Deploy"),
		})
		w.WriteHeader(http.StatusCreated)
	}))

	artifactDir := t.TempDir()
	tarContent := []byte("the-tarball")
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "libx.tar.gz"), tarContent, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "lockfile.json"), []byte("{}"), 0o644))

	require.NoError(t, b.PublishArtifact(artifactDir, "libx", 7, "xenial", channel.Default()))

	// Two uploads, two PUTs each: content then empty checksum confirmation.
	require.Len(t, puts, 4)
	assert.Equal(t, "/myrepo-release/env/xenial/libx/7/libx.tar.gz", puts[0].path)
	assert.Equal(t, tarContent, puts[0].body)
	assert.Empty(t, puts[0].deploy)

	sum := sha1.Sum(tarContent)
	assert.Equal(t, puts[0].path, puts[1].path)
	assert.Empty(t, puts[1].body)
	assert.Equal(t, "true", puts[1].deploy)
	assert.Equal(t, hex.EncodeToString(sum[:]), puts[1].checksum)

	assert.Equal(t, "/myrepo-release/env/xenial/libx/7/lockfile.json", puts[2].path)
}

func TestPublishArtifactRejectsNonCreated(t *testing.T) {
	b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	artifactDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "libx.tar.gz"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "lockfile.json"), []byte("{}"), 0o644))

	err := b.PublishArtifact(artifactDir, "libx", 7, "xenial", channel.Default())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindUploadFailure))
}

func TestPublishArtifactRequiresCredentials(t *testing.T) {
	b := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without credentials")
	}))
	b.Username = ""

	err := b.PublishArtifact(t.TempDir(), "libx", 7, "xenial", channel.Default())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindMissingBackendCredentials))
}
