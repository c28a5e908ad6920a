// Package util holds small helpers shared by the container-runner layer
// that don't warrant their own package.
package util

import (
	"slices"

	"github.com/docker/docker/api/types/mount"
)

// CompareMounts reports whether a and b describe the same set of bind
// mounts, used by pkg/runner to drop a user-configured extra mount that
// would otherwise collide with the build's own workdir bind.
func CompareMounts(a, b []mount.Mount) bool {
	if len(a) != len(b) {
		return false
	}

	matches := 0
	for _, aMount := range a {
		if slices.Contains(b, aMount) {
			matches++
		}
	}

	return matches == len(a)
}
