package propagate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpvpro/lal/pkg/lockfile"
)

// root -> mid -> leaf; propagating "leaf" should produce two stages: mid
// first (leaf is already handled), then root (mid is handled after stage
// one).
func TestComputeStagesLinearChain(t *testing.T) {
	leaf := &lockfile.Lockfile{Name: "leaf", Version: "1"}
	mid := &lockfile.Lockfile{Name: "mid", Version: "1", Dependencies: map[string]*lockfile.Lockfile{"leaf": leaf}}
	root := &lockfile.Lockfile{Name: "root", Version: "1", Dependencies: map[string]*lockfile.Lockfile{"mid": mid}}

	seq, err := Compute(root, []string{"leaf"})
	require.NoError(t, err)
	require.Len(t, seq.Stages, 2)
	require.Equal(t, "mid", seq.Stages[0].Updates[0].Repo.Component)
	require.Equal(t, "root", seq.Stages[1].Updates[0].Repo.Component)
}

// Two independent branches depending on the same leaf should land in the
// same stage as each other, with root itself following in the next stage
// since it transitively depends on both.
func TestComputeParallelStage(t *testing.T) {
	leaf := &lockfile.Lockfile{Name: "leaf", Version: "1"}
	a := &lockfile.Lockfile{Name: "a", Version: "1", Dependencies: map[string]*lockfile.Lockfile{"leaf": leaf}}
	b := &lockfile.Lockfile{Name: "b", Version: "1", Dependencies: map[string]*lockfile.Lockfile{"leaf": leaf}}
	root := &lockfile.Lockfile{
		Name:    "root",
		Version: "1",
		Dependencies: map[string]*lockfile.Lockfile{
			"a": a,
			"b": b,
		},
	}

	seq, err := Compute(root, []string{"leaf"})
	require.NoError(t, err)
	require.Len(t, seq.Stages, 2)
	require.Len(t, seq.Stages[0].Updates, 2)
	require.Equal(t, "root", seq.Stages[1].Updates[0].Repo.Component)
}

func TestRepoStringChannelSuffix(t *testing.T) {
	require.Equal(t, "foo", Repo{Component: "foo"}.String())
	require.Equal(t, "foo=/testing", Repo{Component: "foo", Channel: "/testing"}.String())
}
