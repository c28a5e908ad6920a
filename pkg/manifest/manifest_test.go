package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatesRoundtrip(t *testing.T) {
	bare := Coordinates{Version: 6}
	data, err := json.Marshal(bare)
	require.NoError(t, err)
	assert.Equal(t, "6", string(data))

	var back Coordinates
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, bare, back)

	ch := "/a/b"
	withChannel := Coordinates{Version: 3, Channel: &ch}
	data, err = json.Marshal(withChannel)
	require.NoError(t, err)

	var back2 Coordinates
	require.NoError(t, json.Unmarshal(data, &back2))
	require.NotNil(t, back2.Channel)
	assert.Equal(t, "/a/b", *back2.Channel)
	assert.Equal(t, uint32(3), back2.Version)
}

func TestManifestWriteReadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		Name:                  "mycomponent",
		Environment:           "xenial",
		SupportedEnvironments: []string{"xenial"},
		Dependencies:          map[string]Coordinates{"gtest": {Version: 6}},
	}
	require.NoError(t, Write(dir, m))

	loc, err := Locate(dir)
	require.NoError(t, err)
	assert.False(t, loc.IsLegacy)
	assert.Equal(t, filepath.Join(dir, LalDir, "manifest.json"), loc.Path)

	got, _, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, m.Dependencies["gtest"].Version, got.Dependencies["gtest"].Version)
}

func TestLocateMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := Locate(dir)
	assert.Error(t, err)
}

func TestLocateLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`{"name":"x","environment":"e","supported_environments":["e"]}`), 0o644))

	loc, err := Locate(dir)
	require.NoError(t, err)
	assert.True(t, loc.IsLegacy)
}

func TestVerify(t *testing.T) {
	m := &Manifest{
		Name:                  "comp",
		Environment:           "xenial",
		SupportedEnvironments: []string{"xenial"},
	}
	assert.NoError(t, m.Verify())

	m.Name = "Comp"
	assert.Error(t, m.Verify())
	m.Name = "comp"

	m.SupportedEnvironments = nil
	assert.Error(t, m.Verify())
	m.SupportedEnvironments = []string{"centos"}
	assert.Error(t, m.Verify())
}

func TestAllDependenciesDevWins(t *testing.T) {
	m := &Manifest{
		Dependencies:    map[string]Coordinates{"x": {Version: 1}},
		DevDependencies: map[string]Coordinates{"x": {Version: 2}},
	}
	all := m.AllDependencies()
	assert.Equal(t, uint32(2), all["x"].Version)
}
