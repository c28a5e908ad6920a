// Package build drives one component build: invoking the configured
// Runner against INPUT/, collecting the OUTPUT/ it produces into a
// lockfile and a publishable tarball under ARTIFACT/.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dpvpro/lal/pkg/archive"
	"github.com/dpvpro/lal/pkg/backend"
	"github.com/dpvpro/lal/pkg/channel"
	"github.com/dpvpro/lal/pkg/config"
	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/lockfile"
	"github.com/dpvpro/lal/pkg/manifest"
	"github.com/dpvpro/lal/pkg/naming"
	"github.com/dpvpro/lal/pkg/runner"
	"github.com/dpvpro/lal/pkg/status"
)

// ToolVersion is recorded on every lockfile this driver writes, in the
// lockfile.Tool field.
const ToolVersion = "lal/2"

// Options configures one build invocation.
type Options struct {
	// Component is the sub-component to build; empty selects m.Name
	// itself for a single-component repository.
	Component string
	// Configuration selects which of the component's declared build
	// configurations to use; empty selects its DefaultConfiguration.
	Configuration string
	// Version is stamped into the lockfile; callers pass the version
	// about to be published, or a stash label for a local build.
	Version string
	// Interactive is passed to Runner.Run as its interactive flag.
	Interactive bool
	// Release is accepted from the CLI's --release flag; Build does not
	// read it, and the lockfile and ARTIFACT/ it writes are the same
	// whether it is set or not.
	Release bool
}

// Build runs one component's build container over repoDir and assembles
// OUTPUT/ into ARTIFACT/<name>.tar.gz plus ARTIFACT/lockfile.json.
//
// It requires repoDir/INPUT to already hold one unpacked dependency per
// direct dependency (pkg/resolve.Fetch's job) and repoDir/OUTPUT to not
// yet exist; the caller is expected to have cleaned a stale OUTPUT before
// calling Build, which always starts from a fresh container and bind
// mount rather than reusing one.
func Build(ctx context.Context, r runner.Runner, m *manifest.Manifest, cfg *config.Config, repoDir string, opts Options) (*lockfile.Lockfile, error) {
	component := opts.Component
	if component == "" {
		component = m.Name
	}
	configuration := opts.Configuration
	if configuration == "" {
		if cc, ok := m.Components[component]; ok {
			configuration = cc.DefaultConfiguration
		}
	}

	env, err := cfg.GetEnvironment(m.Environment)
	if err != nil {
		return nil, err
	}

	ownChannel := ""
	if m.Channel != nil {
		ownChannel = *m.Channel
	}
	names := naming.New(naming.Args{
		Prefix:      "lal",
		Name:        component,
		Version:     opts.Version,
		Environment: m.Environment,
		Channel:     ownChannel,
		RepoDir:     repoDir,
	})

	status.Info(fmt.Sprintf("verifying OUTPUT for %s", component))
	if _, err := os.Stat(names.OutputDir); err == nil {
		return nil, status.Failed(errs.NewDetail(errs.KindInvalidBuildConfiguration, "OUTPUT already exists - remove it first"))
	}
	if err := os.MkdirAll(names.OutputDir, 0o755); err != nil {
		return nil, status.Failed(errs.IO(err))
	}
	status.Done()

	image := names.Image
	if env.Tag != "" {
		image = fmt.Sprintf("%s:%s", env.Container, env.Tag)
	} else if env.Container != "" {
		image = env.Container
	}

	status.Info(fmt.Sprintf("building %s in %s", component, image))
	argv := []string{"/bin/sh", "-c", buildCommand(component, configuration)}
	mnt := runner.Mount{Src: repoDir, Dest: "/repo", Readonly: false}
	extra := make([]runner.Mount, 0, len(cfg.Mounts))
	for _, m := range cfg.Mounts {
		if !config.CheckMount(m) {
			return nil, status.Failed(errs.MissingMount(m.Src))
		}
		extra = append(extra, runner.Mount{Src: m.Src, Dest: m.Dest, Readonly: m.Readonly})
	}
	if err := r.Run(ctx, image, names.Container, mnt, extra, opts.Interactive, argv); err != nil {
		return nil, err
	}
	status.Done()

	status.Info("collecting build output")
	lf := &lockfile.Lockfile{
		Name:           component,
		Version:        opts.Version,
		Environment:    m.Environment,
		Configuration:  configuration,
		Tool:           ToolVersion,
		BuildTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if ownChannel != "" {
		lf.Channel = &ownChannel
	}
	warnings := lf.PopulateFromInput(m, names.InputDir, false)
	for _, w := range warnings {
		status.Warn(w.Error())
	}
	// The lockfile goes into OUTPUT before packing: consumers unpack the
	// tarball into INPUT/<name>/ and read lockfile.json from inside it.
	if err := lockfile.Write(filepath.Join(names.OutputDir, "lockfile.json"), lf); err != nil {
		return nil, status.Failed(err)
	}
	status.Done()

	status.Info("packaging ARTIFACT")
	if err := os.MkdirAll(names.ArtifactDir, 0o755); err != nil {
		return nil, status.Failed(errs.IO(err))
	}
	tarball := filepath.Join(names.ArtifactDir, component+".tar.gz")
	if err := archive.Pack(names.OutputDir, tarball); err != nil {
		return nil, status.Failed(err)
	}
	if err := lockfile.Write(filepath.Join(names.ArtifactDir, "lockfile.json"), lf); err != nil {
		return nil, status.Failed(err)
	}
	status.Done()

	return lf, nil
}

// buildCommand is the in-container entry point: every build runs
// `./BUILD <component> <configuration>` at the repository root, the convention
// this module's components are expected to follow (generalized from a
// fixed dpkg-buildpackage invocation to an arbitrary build script, since
// components here are not all Debian packages).
func buildCommand(component, configuration string) string {
	return fmt.Sprintf("cd /repo && ./BUILD %s %s", component, configuration)
}

// Publish uploads repoDir/ARTIFACT's tarball and lockfile to b under the
// given version, environment, and channel. A missing tarball or lockfile
// means no release build has been made in this working directory.
func Publish(b backend.Backend, artifactDir, name string, version uint32, env string, ch channel.Channel) error {
	if _, err := os.Stat(filepath.Join(artifactDir, name+".tar.gz")); err != nil {
		return errs.MissingTarball()
	}
	if _, err := os.Stat(filepath.Join(artifactDir, "lockfile.json")); err != nil {
		return errs.MissingBuild()
	}
	status.Info(fmt.Sprintf("publishing %s=%d to %s", name, version, env))
	if err := b.PublishArtifact(artifactDir, name, version, env, ch); err != nil {
		return status.Failed(err)
	}
	return status.Done()
}
