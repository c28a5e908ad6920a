// Package naming computes the derived container/image names and scratch
// directory paths for one build from a handful of build arguments
// (component, version, environment, channel).
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Args holds the inputs needed to derive every path and name for a build.
type Args struct {
	// Prefix is the program name, used as the image/container namespace.
	Prefix string

	// Name is the component this repo builds.
	Name string
	// Version is the version being built (may be a stash label).
	Version string
	// Environment is the build environment name.
	Environment string
	// Channel is the component's own channel, "" for the default/root
	// channel.
	Channel string

	// RepoDir is the repository root (the working directory the manifest
	// lives in).
	RepoDir string
}

// Naming holds every derived name and path for a build.
type Naming struct {
	Args

	// Container is the name given to the build container.
	Container string
	// Image is the environment's container image reference.
	Image string

	// InputDir holds one unpacked dependency tarball per direct
	// dependency.
	InputDir string
	// OutputDir holds the build's own artifacts.
	OutputDir string
	// ArtifactDir holds the publishable <name>.tar.gz + lockfile.json
	// pair.
	ArtifactDir string
}

// New computes every derived name and path from args.
func New(args Args) *Naming {
	version := standardizeVersion(args.Version)
	image := fmt.Sprintf("%s:%s", args.Prefix, args.Environment)
	container := fmt.Sprintf("%s_%s_%s_%s", args.Prefix, args.Environment, args.Name, version)
	if args.Channel != "" {
		container = fmt.Sprintf("%s_%s", container, channelSlug(args.Channel))
	}

	return &Naming{
		Args: args,

		Container: container,
		Image:     image,

		InputDir:    filepath.Join(args.RepoDir, "INPUT"),
		OutputDir:   filepath.Join(args.RepoDir, "OUTPUT"),
		ArtifactDir: filepath.Join(args.RepoDir, "ARTIFACT"),
	}
}

// standardizeVersion replaces '/', ':' and '+', which Docker disallows in
// a container name, with '-'. Other characters are left unchanged.
func standardizeVersion(version string) string {
	version = strings.ReplaceAll(version, "/", "-")
	version = strings.ReplaceAll(version, ":", "-")
	version = strings.ReplaceAll(version, "+", "-")
	return version
}

// channelSlug turns a channel's canonical "/a/b" rendering into a
// container-name-safe "a-b" segment.
func channelSlug(ch string) string {
	ch = strings.TrimPrefix(ch, "/")
	return strings.ReplaceAll(ch, "/", "-")
}
