// Package svg computes per-node rectangles (flame or icicle orientation)
// and streams SVG/CSS/embedded script output, per spec.md §4.8 (C8).
package svg

import (
	"sort"

	"github.com/theSprog/FlameCrafter/internal/config"
	"github.com/theSprog/FlameCrafter/internal/tree"
)

// Rect is one emitted node's placement on the canvas.
type Rect struct {
	Node   *tree.Node
	Depth  int
	X, Y   float64
	Width  float64
	Height float64
}

// Geometry holds the derived canvas dimensions (spec.md §4.8).
type Geometry struct {
	PixelsPerSample float64
	ImageWidth      float64
	ImageHeight     float64
	PadTop          float64
	PadBottom       float64
	PadSubtitle     float64
}

// ComputeGeometry derives the canvas geometry for root under cfg.
func ComputeGeometry(root *tree.Node, cfg config.Config) Geometry {
	n := float64(root.Total)
	padTop := 3 * float64(cfg.FontSize)
	padBottom := 2*float64(cfg.FontSize) + 10
	padSubtitle := 0.0
	if cfg.Subtitle != "" {
		padSubtitle = 2 * float64(cfg.FontSize)
	}
	d := float64(root.Height)
	imgHeight := (d+1)*float64(cfg.FrameHeight) + padTop + padBottom + padSubtitle

	pxPerSample := 0.0
	if n > 0 {
		pxPerSample = (float64(cfg.Width) - 2*float64(cfg.XPad)) / n
	}

	return Geometry{
		PixelsPerSample: pxPerSample,
		ImageWidth:      float64(cfg.Width),
		ImageHeight:     imgHeight,
		PadTop:          padTop,
		PadBottom:       padBottom,
		PadSubtitle:     padSubtitle,
	}
}

// Layout places every non-omitted node left-to-right by child-iteration
// order, width-proportional to inclusive count. A child narrower than
// cfg.MinWidth is omitted - its subtree is not emitted, but its slot width
// is still consumed on the x-axis so horizontal neighbours stay correctly
// placed (spec.md §4.8).
func Layout(root *tree.Node, cfg config.Config) []Rect {
	geo := ComputeGeometry(root, cfg)
	if geo.PixelsPerSample == 0 {
		return nil
	}

	var rects []Rect
	var walk func(n *tree.Node, depth int, x, width float64)
	walk = func(n *tree.Node, depth int, x, width float64) {
		if width >= cfg.MinWidth {
			y := frameY(geo, cfg, depth)
			rects = append(rects, Rect{Node: n, Depth: depth, X: x, Y: y, Width: width, Height: float64(cfg.FrameHeight)})
		}

		childX := x
		for _, key := range sortedChildKeys(n.Children) {
			c := n.Children[key]
			cw := float64(c.Total) * geo.PixelsPerSample
			walk(c, depth+1, childX, cw)
			childX += cw
		}
	}
	walk(root, 0, float64(cfg.XPad), geo.ImageWidth-2*float64(cfg.XPad))
	return rects
}

func frameY(geo Geometry, cfg config.Config, depth int) float64 {
	if cfg.Inverted {
		return geo.PadTop + geo.PadSubtitle + float64(depth)*float64(cfg.FrameHeight)
	}
	return geo.ImageHeight - geo.PadBottom - float64(depth+1)*float64(cfg.FrameHeight)
}

// sortedChildKeys returns a deterministic iteration order over a node's
// children. Spec.md §8's "order invariance" law only requires the folded
// multiset and tree shape be order-independent; a stable rendering order
// makes output reproducible across runs of the same tree.
func sortedChildKeys(children map[string]*tree.Node) []string {
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
