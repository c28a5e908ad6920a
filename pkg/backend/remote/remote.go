// Package remote implements the HTTP-based storage backend: version
// listing via a JSON directory-listing endpoint (a `{children:
// [{uri:...}]}` document, queried with gojsonq rather than a dedicated
// response struct), download from a slave host, and checksum-confirmed
// upload to the release tree with HTTP basic auth.
package remote

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/thedevsaddam/gojsonq"

	"github.com/dpvpro/lal/pkg/backend"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/errs"
)

// Backend talks to a split master/slave HTTP artifact store: the master
// serves listings, the slave serves downloads (from the VGroup tree) and
// accepts uploads (into the Release tree).
type Backend struct {
	Master   string
	Slave    string
	Release  string
	VGroup   string
	Username string
	Password string
	Cache    string

	Client *http.Client
}

// New returns a remote.Backend; if client is nil, http.DefaultClient is
// used.
func New(master, slave, release, vgroup, username, password, cache string, client *http.Client) *Backend {
	if client == nil {
		client = http.DefaultClient
	}
	return &Backend{
		Master: master, Slave: slave, Release: release, VGroup: vgroup,
		Username: username, Password: password, Cache: cache, Client: client,
	}
}

func (b *Backend) storageURL(name, env string, ch channel.Channel) string {
	parts := []string{strings.TrimRight(b.Master, "/"), "api", "storage", b.Release, "env", env}
	if cp := ch.HTTPString(); cp != "" {
		parts = append(parts, cp)
	}
	parts = append(parts, name)
	return strings.Join(parts, "/")
}

func (b *Backend) downloadURL(name string, version uint32, env string, ch channel.Channel) string {
	parts := []string{strings.TrimRight(b.Slave, "/"), b.VGroup, "env", env}
	if cp := ch.HTTPString(); cp != "" {
		parts = append(parts, cp)
	}
	parts = append(parts, name, strconv.FormatUint(uint64(version), 10), name+".tar.gz")
	return strings.Join(parts, "/")
}

// uploadURL addresses the release tree (not the virtual download group,
// which is read-only): env/<env>/<channelpath>/<name>/<version>/<file>.
func (b *Backend) uploadURL(name string, version uint32, env string, ch channel.Channel, file string) string {
	parts := []string{strings.TrimRight(b.Slave, "/"), b.Release, "env", env}
	if cp := ch.HTTPString(); cp != "" {
		parts = append(parts, cp)
	}
	parts = append(parts, name, strconv.FormatUint(uint64(version), 10), file)
	return strings.Join(parts, "/")
}

// GetVersions fetches the storage listing and returns every entry whose
// URI component parses as an unsigned integer, descending.
func (b *Backend) GetVersions(name, env string, ch channel.Channel) ([]uint32, error) {
	url := b.storageURL(name, env, ch)
	resp, err := b.Client.Get(url)
	if err != nil {
		return nil, errs.Transport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.BackendFailure(fmt.Sprintf("listing %s returned %d", url, resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Transport(err)
	}

	jq := gojsonq.New().FromString(string(body))
	if jq.Error() != nil {
		return nil, errs.Parse(jq.Error())
	}
	res, err := jq.From("children").PluckR("uri")
	if err != nil {
		return nil, errs.BackendFailure("unexpected listing shape from " + url)
	}
	uris, _ := res.StringSlice()

	var versions []uint32
	for _, uri := range uris {
		trimmed := strings.TrimPrefix(uri, "/")
		v, err := strconv.ParseUint(trimmed, 10, 32)
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

// GetComponentInfo resolves version (nil meaning latest) to a Component
// whose Location is the download URL.
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
	return backend.Component{Name: name, Version: v, Location: b.downloadURL(name, v, env, ch)}, nil
}

// RawFetch downloads the artifact at location (a URL for this backend) to
// dest.
func (b *Backend) RawFetch(location, dest string) error {
	resp, err := b.Client.Get(location)
	if err != nil {
		return errs.Transport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errs.BackendFailure(fmt.Sprintf("download %s returned %d", location, resp.StatusCode))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errs.IO(err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return errs.IO(err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return errs.IO(err)
	}
	return nil
}

// CacheDir returns this backend's scratch cache directory.
func (b *Backend) CacheDir() string { return b.Cache }

// PublishArtifact uploads the tarball with HTTP basic auth, then a second
// PUT recording the SHA-1 checksum; both requests must report Created,
// else UploadFailure. The same two-step sequence is then run for
// lockfile.json.
func (b *Backend) PublishArtifact(artifactDir, name string, version uint32, env string, ch channel.Channel) error {
	if b.Username == "" || b.Password == "" {
		return errs.MissingBackendCredentials()
	}
	tarball := filepath.Join(artifactDir, name+".tar.gz")
	if err := b.uploadWithChecksum(tarball, b.uploadURL(name, version, env, ch, name+".tar.gz")); err != nil {
		return err
	}
	lockfilePath := filepath.Join(artifactDir, "lockfile.json")
	if err := b.uploadWithChecksum(lockfilePath, b.uploadURL(name, version, env, ch, "lockfile.json")); err != nil {
		return err
	}
	return nil
}

func (b *Backend) uploadWithChecksum(path, url string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.IO(err)
	}

	if err := b.put(url, bytes.NewReader(data), nil); err != nil {
		return err
	}

	sum := sha1.Sum(data)
	headers := map[string]string{
		"X-Checksum-Deploy": "true",
		"X-Checksum-Sha1":   hex.EncodeToString(sum[:]),
	}
	if err := b.put(url, bytes.NewReader(nil), headers); err != nil {
		return err
	}
	return nil
}

func (b *Backend) put(url string, body io.Reader, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodPut, url, body)
	if err != nil {
		return errs.Transport(err)
	}
	req.SetBasicAuth(b.Username, b.Password)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := b.Client.Do(req)
	if err != nil {
		return errs.Transport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return errs.UploadFailure(fmt.Sprintf("%s returned %d", url, resp.StatusCode))
	}
	return nil
}

var _ backend.Backend = (*Backend)(nil)
