package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpvpro/lal/pkg/config"
	"github.com/dpvpro/lal/pkg/lockfile"
	"github.com/dpvpro/lal/pkg/manifest"
	"github.com/dpvpro/lal/pkg/runner"
)

// fakeRunner stands in for a container engine: it writes OUTPUT/lockfile.json-
// worthy build products directly rather than shelling out to Docker.
type fakeRunner struct {
	calledImage     string
	calledContainer string
}

func (f *fakeRunner) Run(_ context.Context, image, name string, mnt runner.Mount, _ []runner.Mount, _ bool, _ []string) error {
	f.calledImage = image
	f.calledContainer = name
	return os.WriteFile(filepath.Join(mnt.Src, "OUTPUT", "built.bin"), []byte("binary"), 0o644)
}

func TestBuildAssemblesArtifact(t *testing.T) {
	repoDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "INPUT"), 0o755))

	m := &manifest.Manifest{
		Name:                  "widget",
		Environment:           "xenial",
		SupportedEnvironments: []string{"xenial"},
	}
	cfg := &config.Config{
		Environments: map[string]config.Environment{
			"xenial": {Container: "widget-builder", Tag: "xenial"},
		},
	}

	r := &fakeRunner{}
	lf, err := Build(context.Background(), r, m, cfg, repoDir, Options{Version: "7"})
	require.NoError(t, err)
	require.Equal(t, "widget-builder:xenial", r.calledImage)
	require.Equal(t, "lal_xenial_widget_7", r.calledContainer)
	require.Equal(t, "widget", lf.Name)
	require.Equal(t, "7", lf.Version)

	_, err = os.Stat(filepath.Join(repoDir, "ARTIFACT", "widget.tar.gz"))
	require.NoError(t, err)

	// The lockfile must be inside OUTPUT (and therefore the tarball), not
	// just alongside it: consumers read INPUT/<name>/lockfile.json.
	_, err = os.Stat(filepath.Join(repoDir, "OUTPUT", "lockfile.json"))
	require.NoError(t, err)

	readBack, err := lockfile.Read(filepath.Join(repoDir, "ARTIFACT", "lockfile.json"))
	require.NoError(t, err)
	require.Equal(t, "widget", readBack.Name)
}

func TestBuildRejectsExistingOutput(t *testing.T) {
	repoDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "OUTPUT"), 0o755))

	m := &manifest.Manifest{Name: "widget", Environment: "xenial", SupportedEnvironments: []string{"xenial"}}
	cfg := &config.Config{Environments: map[string]config.Environment{"xenial": {Container: "widget-builder"}}}

	_, err := Build(context.Background(), &fakeRunner{}, m, cfg, repoDir, Options{Version: "7"})
	require.Error(t, err)
}
