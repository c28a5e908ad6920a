package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirUsesConfigDirOverride(t *testing.T) {
	t.Setenv("CONFIG_DIR", "/tmp/lal-config-test")
	assert.Equal(t, "/tmp/lal-config-test", Dir())
}

func TestWriteReadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	c := &Config{
		Backend:      BackendConfig{Kind: BackendLocal, Path: filepath.Join(dir, "store")},
		Cache:        filepath.Join(dir, "cache"),
		Environments: map[string]Environment{"xenial": {Container: "xenial-build"}},
	}
	require.NoError(t, Write(c))

	got, err := Read()
	require.NoError(t, err)
	assert.Equal(t, c.Cache, got.Cache)
	assert.Equal(t, "xenial-build", got.Environments["xenial"].Container)
}

func TestReadRejectsReservedEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	c := &Config{Environments: map[string]Environment{"default": {Container: "x"}}}
	require.NoError(t, Write(c))

	_, err := Read()
	assert.Error(t, err)
}

func TestStickyOptionsRoundtrip(t *testing.T) {
	dir := t.TempDir()
	env := "centos"
	require.NoError(t, WriteSticky(dir, StickyOptions{Env: &env}))

	got, err := ReadSticky(dir)
	require.NoError(t, err)
	require.NotNil(t, got.Env)
	assert.Equal(t, "centos", *got.Env)

	require.NoError(t, DeleteSticky(dir))
	_, err = os.Stat(filepath.Join(dir, ".lal", "opts"))
	assert.True(t, os.IsNotExist(err))
}

func TestStickyOptionsDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	got, err := ReadSticky(dir)
	require.NoError(t, err)
	assert.Nil(t, got.Env)
}
