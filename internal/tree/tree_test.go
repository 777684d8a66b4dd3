package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSprog/FlameCrafter/internal/fold"
	"github.com/theSprog/FlameCrafter/internal/parse"
)

func frames(names ...string) []parse.Frame {
	fr := make([]parse.Frame, len(names))
	for i, n := range names {
		fr[i] = parse.Frame{Name: n, Kind: parse.FuncFrame}
	}
	return fr
}

func TestBuild_ScenarioA(t *testing.T) {
	ms := fold.New()
	ms.Add(frames("main", "worker", "compute"), 1)

	root := Build(ms, 0)
	assert.Equal(t, uint64(1), root.Total)
	assert.Equal(t, 3, root.Height)
	assert.Nil(t, root.Frame)
}

func TestBuild_ScenarioB(t *testing.T) {
	ms := fold.New()
	ms.Add(frames("a", "b"), 2)
	ms.Add(frames("a", "c"), 1)

	root := Build(ms, 0)
	require.Len(t, root.Children, 1)

	var a *Node
	for _, c := range root.Children {
		a = c
	}
	require.NotNil(t, a)
	assert.Equal(t, uint64(3), a.Total)
	require.Len(t, a.Children, 2)

	var bTotal, cTotal uint64
	for _, c := range a.Children {
		if c.Frame.Name == "b" {
			bTotal = c.Total
		}
		if c.Frame.Name == "c" {
			cTotal = c.Total
		}
	}
	assert.Equal(t, uint64(2), bTotal)
	assert.Equal(t, uint64(1), cTotal)
}

func TestInvariant_TotalEqualsSelfSum(t *testing.T) {
	ms := fold.New()
	ms.Add(frames("a", "b"), 2)
	ms.Add(frames("a", "c"), 1)
	ms.Add(frames("a"), 5)

	root := Build(ms, 0)
	var check func(n *Node) uint64
	check = func(n *Node) uint64 {
		sum := n.Self
		for _, c := range n.Children {
			sum += check(c)
		}
		assert.Equal(t, n.Total, sum, "node %v total mismatch", n.Frame)
		return sum
	}
	check(root)
}

func TestPrune_ScenarioF(t *testing.T) {
	ms := fold.New()
	ms.Add(frames("a", "b"), 995)
	ms.Add(frames("a", "c"), 5)

	root := Build(ms, 0)
	var a *Node
	for _, c := range root.Children {
		a = c
	}
	a.Prune(0.01)
	assert.Len(t, a.Children, 1)
	for _, c := range a.Children {
		assert.Equal(t, "b", c.Frame.Name)
	}
}

func TestHeatRatio(t *testing.T) {
	ms := fold.New()
	ms.Add(frames("a", "b"), 3)
	ms.Add(frames("a", "c"), 1)
	root := Build(ms, 0)
	var a *Node
	for _, c := range root.Children {
		a = c
	}
	assert.InDelta(t, 1.0, a.HeatRatio(), 1e-9)
	for _, c := range a.Children {
		if c.Frame.Name == "b" {
			assert.InDelta(t, 0.75, c.HeatRatio(), 1e-9)
		}
	}
}

func TestMaxDepthTruncation(t *testing.T) {
	ms := fold.New()
	ms.Add(frames("a", "b", "c", "d"), 1)
	root := Build(ms, 2)
	depth := 0
	root.Walk(func(n *Node, d int) bool {
		if d > depth {
			depth = d
		}
		return true
	})
	assert.LessOrEqual(t, depth, 2)
}

func TestDestroy_DoesNotPanic(t *testing.T) {
	ms := fold.New()
	ms.Add(frames("a", "b", "c"), 1)
	ms.Add(frames("a", "d"), 1)
	root := Build(ms, 0)
	assert.NotPanics(t, func() { root.Destroy() })
}
