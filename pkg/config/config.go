// Package config reads and writes the user-wide configuration (backend
// choice, cache path, environments, mounts) and resolves the directory it
// lives in, following the XDG-style resolution idiom used elsewhere in
// the ecosystem this module was adapted from.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/OpenPeeDeeP/xdg"

	"github.com/dpvpro/lal/pkg/errs"
)

const (
	vendor      = "dpvpro"
	projectName = "lal"

	// ReservedEnvironment is the environment name rejected at load time,
	// since it would collide with Go's own zero-value/"unset" sentinel in
	// call sites that default an empty string to "default".
	ReservedEnvironment = "default"
)

// Mount describes one extra bind mount offered to build containers.
type Mount struct {
	Src      string `json:"src"`
	Dest     string `json:"dest"`
	Readonly bool   `json:"readonly"`
}

// Environment is a named container-image descriptor: the build toolchain
// used for one supported environment.
type Environment struct {
	Container string `json:"container"`
	Tag       string `json:"tag,omitempty"`
}

// BackendKind tags which storage backend a Config selects.
type BackendKind string

const (
	BackendRemote BackendKind = "remote"
	BackendLocal  BackendKind = "local"
)

// BackendConfig is the tagged union describing how to construct the
// active storage backend.
type BackendConfig struct {
	Kind BackendKind `json:"kind"`

	// Remote backend fields.
	Master   string `json:"master,omitempty"`
	Slave    string `json:"slave,omitempty"`
	Release  string `json:"release,omitempty"`
	VGroup   string `json:"vgroup,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// Local backend fields.
	Path string `json:"path,omitempty"`
}

// Config is the user-wide configuration file.
type Config struct {
	Backend      BackendConfig          `json:"backend"`
	Cache        string                 `json:"cache"`
	Environments map[string]Environment `json:"environments"`
	Mounts       []Mount                `json:"mounts,omitempty"`
	LastUpgrade  *time.Time             `json:"last_upgrade,omitempty"`
	Autoupgrade  bool                   `json:"autoupgrade"`
	Interactive  bool                   `json:"interactive"`
}

// Dir resolves the configuration directory: the CONFIG_DIR environment
// variable if set, else the XDG config-home for this vendor/project.
func Dir() string {
	if d := os.Getenv("CONFIG_DIR"); d != "" {
		return d
	}
	return xdg.New(vendor, projectName).ConfigHome()
}

func configPath() string {
	return filepath.Join(Dir(), "config")
}

// Read parses the config file, rejecting a "default" environment key.
func Read() (*Config, error) {
	path := configPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.MissingConfig()
		}
		return nil, errs.IO(err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errs.Parse(err)
	}
	if _, reserved := c.Environments[ReservedEnvironment]; reserved {
		return nil, errs.InvalidComponentName(ReservedEnvironment)
	}
	return &c, nil
}

// Write pretty-prints c to the config file, creating the config
// directory if necessary.
func Write(c *Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.IO(err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errs.Parse(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(configPath(), data, 0o644); err != nil {
		return errs.IO(err)
	}
	return nil
}

// GetEnvironment looks up a named environment, or MissingEnvironment.
func (c *Config) GetEnvironment(name string) (Environment, error) {
	env, ok := c.Environments[name]
	if !ok {
		return Environment{}, errs.MissingEnvironment(name)
	}
	return env, nil
}

// CheckMount reports whether a configured mount's source path exists on
// disk; the build driver refuses to start a container with a dangling
// bind source (docker-volume-name fallback is intentionally not modeled
// here: this repo's Runner takes bind mounts only, see pkg/runner).
func CheckMount(m Mount) bool {
	_, err := os.Stat(m.Src)
	return err == nil
}
