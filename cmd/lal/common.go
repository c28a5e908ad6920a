package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dpvpro/lal/pkg/backend"
	"github.com/dpvpro/lal/pkg/backend/local"
	"github.com/dpvpro/lal/pkg/backend/remote"
	"github.com/dpvpro/lal/pkg/cache"
	"github.com/dpvpro/lal/pkg/config"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/manifest"
	"github.com/dpvpro/lal/pkg/status"
)

// inputDirName is the repo-relative scratch tree the resolve operations
// unpack dependencies into and read them from.
const inputDirName = "INPUT"

func cwd() (string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return "", errs.IO(err)
	}
	return pwd, nil
}

func loadManifest(pwd string) (*manifest.Manifest, error) {
	m, _, err := manifest.Read(pwd)
	if err != nil {
		return nil, err
	}
	if manifest.BothLocationsExist(pwd) {
		status.Warn(fmt.Sprintf("both %s and legacy manifest.json present - using %s", manifest.LalDir, manifest.LalDir))
	}
	return m, nil
}

// resolveEnvironment applies the sticky-options override (`.lal/opts`)
// over the manifest's own declared environment.
func resolveEnvironment(pwd string, m *manifest.Manifest) (string, error) {
	opts, err := config.ReadSticky(pwd)
	if err != nil {
		return "", err
	}
	if opts.Env != nil && *opts.Env != "" {
		return *opts.Env, nil
	}
	return m.Environment, nil
}

func loadConfig() (*config.Config, error) {
	return config.Read()
}

func buildBackend(cfg *config.Config) (backend.Backend, error) {
	switch cfg.Backend.Kind {
	case config.BackendLocal:
		return local.New(cfg.Backend.Path), nil
	case config.BackendRemote:
		return remote.New(
			cfg.Backend.Master,
			cfg.Backend.Slave,
			cfg.Backend.Release,
			cfg.Backend.VGroup,
			cfg.Backend.Username,
			cfg.Backend.Password,
			cfg.Cache,
			http.DefaultClient,
		), nil
	default:
		return nil, errs.NewDetail(errs.KindMissingConfig, string(cfg.Backend.Kind))
	}
}

func buildCache(cfg *config.Config) (*cache.Cached, error) {
	b, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}
	return cache.New(b), nil
}

func inputDir(pwd string) string {
	return filepath.Join(pwd, inputDirName)
}

func manifestWriteBack(pwd string, m *manifest.Manifest) error {
	return manifest.Write(pwd, m)
}
