package svg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSprog/FlameCrafter/internal/config"
	"github.com/theSprog/FlameCrafter/internal/fold"
	"github.com/theSprog/FlameCrafter/internal/parse"
	"github.com/theSprog/FlameCrafter/internal/tree"
)

func mustBuild(stacks [][]string, counts []uint64) *tree.Node {
	ms := fold.New()
	for i, names := range stacks {
		frames := make([]parse.Frame, len(names))
		for j, n := range names {
			frames[j] = parse.Frame{Name: n, Kind: parse.FuncFrame}
		}
		ms.Add(frames, counts[i])
	}
	return tree.Build(ms, 0)
}

func TestWrite_ScenarioA_FourGroups(t *testing.T) {
	root := mustBuild([][]string{{"main", "worker", "compute"}}, []uint64{1})
	cfg := config.Default()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, root, cfg))

	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "<g class=\"func_g\">"))
	assert.Contains(t, out, "Flame Graph")
}

func TestLayout_ScenarioE_IcicleOrientation(t *testing.T) {
	root := mustBuild([][]string{{"a", "b"}}, []uint64{1})
	cfg := config.New(config.WithInverted(true))

	rects := Layout(root, cfg)
	geo := ComputeGeometry(root, cfg)

	var rootRect, childRect *Rect
	for i := range rects {
		if rects[i].Node == root {
			rootRect = &rects[i]
		}
		if rects[i].Depth == 1 {
			childRect = &rects[i]
		}
	}
	require.NotNil(t, rootRect)
	require.NotNil(t, childRect)
	assert.InDelta(t, geo.PadTop, rootRect.Y, 0.001)
	assert.InDelta(t, rootRect.Y+float64(cfg.FrameHeight), childRect.Y, 0.001)
}

func TestLayout_MinWidthOmitsNarrowChildren(t *testing.T) {
	root := mustBuild([][]string{{"a"}, {"b"}}, []uint64{9999, 1})
	cfg := config.New(config.WithWidth(1000), config.WithMinWidth(5))

	rects := Layout(root, cfg)
	names := map[string]bool{}
	for _, r := range rects {
		if r.Node.Frame != nil {
			names[r.Node.Frame.Name] = true
		}
	}
	assert.True(t, names["a"])
	assert.False(t, names["b"])
}

func TestLayout_MinWidthZeroEmitsEverything(t *testing.T) {
	root := mustBuild([][]string{{"a"}, {"b"}}, []uint64{9999, 1})
	cfg := config.New(config.WithWidth(1000), config.WithMinWidth(0))

	rects := Layout(root, cfg)
	assert.Len(t, rects, 3) // root + a + b
}
