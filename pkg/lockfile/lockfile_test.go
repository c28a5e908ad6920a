package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpvpro/lal/pkg/manifest"
)

func writeChildLockfile(t *testing.T, inputDir, name, version, env string) {
	t.Helper()
	child := &Lockfile{Name: name, Version: version, Environment: env, Tool: "test"}
	require.NoError(t, Write(filepath.Join(inputDir, name, "lockfile.json"), child))
}

func TestWriteReadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lockfile.json")
	lf := &Lockfile{Name: "root", Version: "1", Environment: "xenial", Tool: "lal-go"}
	require.NoError(t, Write(path, lf))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, lf.Name, got.Name)
	assert.Equal(t, lf.Version, got.Version)
}

func TestPopulateFromInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "INPUT")
	require.NoError(t, os.MkdirAll(input, 0o755))
	writeChildLockfile(t, input, "gtest", "6", "xenial")

	m := &manifest.Manifest{
		Name:         "root",
		Dependencies: map[string]manifest.Coordinates{"gtest": {Version: 6}},
	}
	lf := &Lockfile{Name: "root"}
	warnings := lf.PopulateFromInput(m, input, false)
	assert.Empty(t, warnings)
	require.Contains(t, lf.Dependencies, "gtest")
	assert.Equal(t, "6", lf.Dependencies["gtest"].Version)
}

func TestPopulateFromInputMissingTolerant(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "INPUT")
	require.NoError(t, os.MkdirAll(input, 0o755))

	m := &manifest.Manifest{
		Name:         "root",
		Dependencies: map[string]manifest.Coordinates{"gtest": {Version: 6}},
	}
	lf := &Lockfile{Name: "root"}
	warnings := lf.PopulateFromInput(m, input, false)
	assert.Len(t, warnings, 1)
}

func TestFindAllDependencyVersionsMultiple(t *testing.T) {
	root := &Lockfile{
		Name:    "root",
		Version: "1",
		Dependencies: map[string]*Lockfile{
			"a": {Name: "a", Version: "5", Dependencies: map[string]*Lockfile{
				"shared": {Name: "shared", Version: "2"},
			}},
			"b": {Name: "b", Version: "3", Dependencies: map[string]*Lockfile{
				"shared": {Name: "shared", Version: "9"},
			}},
		},
	}
	versions := root.FindAllDependencyVersions()
	assert.Len(t, versions["shared"], 2)
}

func TestGetReverseDepsTransitivelyFor(t *testing.T) {
	root := &Lockfile{
		Name: "root",
		Dependencies: map[string]*Lockfile{
			"a": {Name: "a", Dependencies: map[string]*Lockfile{
				"b": {Name: "b"},
			}},
		},
	}
	revs := root.GetReverseDepsTransitivelyFor("b")
	assert.Contains(t, revs, "root")
	assert.Contains(t, revs, "a")
}
