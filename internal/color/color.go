// Package color computes an RGB string from (frame name, heat), per
// spec.md §4.7 (C7). A small tag-to-constructor registry resolves a scheme
// tag to an instance, mirroring the dispatch-table design note in §9 and
// the teacher's item-type switch in lexOTag.
package color

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Scheme maps (frame name, heat ratio in [0,1]) to an "rgb(r,g,b)" string.
type Scheme interface {
	Color(frameName string, heat float64) string
}

type schemeFunc func(frameName string, heat float64) string

func (f schemeFunc) Color(name string, heat float64) string { return f(name, heat) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func nameBias(name string) float64 {
	h := xxhash.Sum64String(name)
	return float64(h%1000) / 1000.0
}

// Hot mixes a hash of the frame name with the heat ratio to bias toward
// reds, oranges, and yellows as heat increases (spec.md §4.7).
var Hot Scheme = schemeFunc(func(name string, heat float64) string {
	heat = clamp01(heat)
	bias := nameBias(name)
	r := 205 + int(50*heat)
	g := 50 + int(150*((heat+bias)/2))
	b := 30 + int(20*bias)
	return fmt.Sprintf("rgb(%d,%d,%d)", clampByte(r), clampByte(g), clampByte(b))
})

// Cold is the blue-leaning counterpart to Hot, grounded on the "cold"
// branch of the example flamegraph renderers (see DESIGN.md).
var Cold Scheme = schemeFunc(func(name string, heat float64) string {
	heat = clamp01(heat)
	bias := nameBias(name)
	r := 30 + int(20*bias)
	g := 50 + int(130*heat)
	b := 150 + int(90*((heat+bias)/2))
	return fmt.Sprintf("rgb(%d,%d,%d)", clampByte(r), clampByte(g), clampByte(b))
})

// Memory biases toward green, grounded on the "mem" scheme variant.
var Memory Scheme = schemeFunc(func(name string, heat float64) string {
	heat = clamp01(heat)
	bias := nameBias(name)
	r := 30 + int(20*bias)
	g := 190 + int(50*heat)
	b := 30 + int(20*bias)
	return fmt.Sprintf("rgb(%d,%d,%d)", clampByte(r), clampByte(g), clampByte(b))
})

// Java skews orange/brown, a common differentiator for JVM stacks.
var Java Scheme = schemeFunc(func(name string, heat float64) string {
	heat = clamp01(heat)
	bias := nameBias(name)
	r := 180 + int(60*heat)
	g := 90 + int(70*bias)
	b := 30
	return fmt.Sprintf("rgb(%d,%d,%d)", clampByte(r), clampByte(g), clampByte(b))
})

// Aqua and Orange round out the example-derived palette variety.
var Aqua Scheme = schemeFunc(func(name string, heat float64) string {
	heat = clamp01(heat)
	bias := nameBias(name)
	r := 30 + int(20*bias)
	g := 150 + int(90*heat)
	b := 150 + int(90*bias)
	return fmt.Sprintf("rgb(%d,%d,%d)", clampByte(r), clampByte(g), clampByte(b))
})

var Orange Scheme = schemeFunc(func(name string, heat float64) string {
	heat = clamp01(heat)
	bias := nameBias(name)
	r := 220 + int(35*heat)
	g := 100 + int(60*bias)
	b := 20
	return fmt.Sprintf("rgb(%d,%d,%d)", clampByte(r), clampByte(g), clampByte(b))
})

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

var registry = map[string]Scheme{
	"hot":    Hot,
	"cold":   Cold,
	"mem":    Memory,
	"memory": Memory,
	"java":   Java,
	"aqua":   Aqua,
	"orange": Orange,
}

// Resolve resolves a scheme tag to an instance. Unknown tags fall back to
// Hot (spec.md §4.7).
func Resolve(tag string) Scheme {
	if s, ok := registry[tag]; ok {
		return s
	}
	return Hot
}
