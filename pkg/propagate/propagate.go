// Package propagate computes the staged update plan for pushing a new
// version of one or more components through every repository that
// transitively depends on them, without re-verifying any intermediate
// state — a read-only planning aid layered on the lockfile's aggregation
// queries (GetReverseDepsTransitivelyFor, FindAllDependencyNames,
// FindAllChannels).
package propagate

import (
	"fmt"
	"sort"

	"github.com/dpvpro/lal/pkg/errs"
	"github.com/dpvpro/lal/pkg/lockfile"
)

// Repo names one component to update, optionally qualified by the
// channel it was last observed at.
type Repo struct {
	Component string `json:"component"`
	Channel   string `json:"channel,omitempty"`
}

// String renders "name" or "name=channel".
func (r Repo) String() string {
	if r.Channel == "" {
		return r.Component
	}
	return fmt.Sprintf("%s=%s", r.Component, r.Channel)
}

// SingleUpdate is one component to update, and the already-handled
// dependencies of its that the update should pick up.
type SingleUpdate struct {
	Repo         Repo   `json:"repo"`
	Dependencies []Repo `json:"dependencies"`
}

// UpdateStage is a set of updates that can run in parallel, since none of
// them depends on another update in the same stage.
type UpdateStage struct {
	Updates []SingleUpdate `json:"updates"`
}

// UpdateSequence is the full staged plan: stages must run in order, but
// every update within one stage is independent of the others.
type UpdateSequence struct {
	Stages []UpdateStage `json:"stages"`
}

// Compute works out, for the given root lockfile and the set of
// components about to receive a new version, every repository that
// transitively depends on one of them, then stages those repositories
// into update waves ordered so that a repository's own dependencies are
// always updated in an earlier (or the same "handled") wave.
func Compute(lf *lockfile.Lockfile, components []string) (UpdateSequence, error) {
	if len(components) == 0 {
		return UpdateSequence{}, errs.MissingComponent("")
	}

	allRequired := make(map[string]struct{})
	for _, c := range components {
		for name := range lf.GetReverseDepsTransitivelyFor(c) {
			allRequired[name] = struct{}{}
		}
	}

	dependencies := lf.FindAllDependencyNames()
	channels := lf.FindAllChannels()

	var seq UpdateSequence
	remaining := cloneSet(allRequired)
	handled := make(map[string]struct{}, len(components))
	for _, c := range components {
		handled[c] = struct{}{}
	}

	for len(remaining) > 0 {
		var stage UpdateStage

		for _, repo := range sortedKeys(remaining) {
			depsForName := dependencies[repo]
			if !intersects(depsForName, remaining) {
				stage.Updates = append(stage.Updates, SingleUpdate{
					Repo:         depToRepo(repo, channels),
					Dependencies: reposFor(intersection(depsForName, handled), channels),
				})
			}
		}

		if len(stage.Updates) == 0 {
			// Every remaining component depends on another remaining
			// component: the dependency graph has a cycle.
			return seq, errs.DependencyCycle(sortedKeys(remaining)[0])
		}

		for _, u := range stage.Updates {
			delete(remaining, u.Repo.Component)
			handled[u.Repo.Component] = struct{}{}
		}
		seq.Stages = append(seq.Stages, stage)
	}

	return seq, nil
}

func depToRepo(component string, channels map[string]map[string]struct{}) Repo {
	var ch string
	seen := channels[component]
	for c := range seen {
		if c != "" {
			ch = c
			break
		}
	}
	return Repo{Component: component, Channel: ch}
}

func reposFor(names map[string]struct{}, channels map[string]map[string]struct{}) []Repo {
	out := make([]Repo, 0, len(names))
	for _, n := range sortedKeys(names) {
		out = append(out, depToRepo(n, channels))
	}
	return out
}

func cloneSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func intersection(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}
