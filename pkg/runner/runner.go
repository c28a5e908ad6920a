// Package runner adapts the Docker Engine API into the narrow
// container-runner collaborator the build driver depends on: invoke an
// image by reference, with one bind mount for the working directory, an
// interactive/non-interactive flag, and an argv.
package runner

import "context"

// Mount is one bind mount offered to the build container: a host path
// bound read-write (or read-only) at a path inside the container.
type Mount struct {
	Src      string
	Dest     string
	Readonly bool
}

// Runner is the out-of-scope container-shell collaborator the build
// driver depends on. A fake implementation lets pkg/build be exercised
// end to end without a real container engine.
type Runner interface {
	// Run invokes image with argv inside a freshly created container
	// named name (a stale container left behind under the same name is
	// removed first), bind-mounting workdir plus any extra mounts (a
	// repository's user-configured mounts, see config.Mount), and tears
	// the container down afterwards. If interactive is true, the
	// container is created with a TTY and open stdin.
	Run(ctx context.Context, image, name string, workdir Mount, extra []Mount, interactive bool, argv []string) error
}
