// Package parse converts line runs into Sample records (spec.md §4.4, C4).
// Frame names are copied out of the input buffer, so samples stay valid
// after the buffer is closed. Two dialects are supported, each implementing
// Parser; Resolve maps a dialect tag to a new parser for it, mirroring the
// tagged-variant dispatch design note in spec.md §9.
package parse

import "github.com/cespare/xxhash/v2"

// FrameKind distinguishes a resolved function symbol from a fallback
// library identifier.
type FrameKind int

const (
	FuncFrame FrameKind = iota
	LibFrame
)

// Frame is a (name, kind, already-bracketed) triple whose name is a copy of
// the text in the input buffer. A cached hash is computed at most once (spec.md §3, §8 invariant 4).
type Frame struct {
	Name      string
	Kind      FrameKind
	Bracketed bool

	hash   uint64
	hashed bool
}

// Hash memoizes and returns the frame's hash, covering all three fields.
func (f *Frame) Hash() uint64 {
	if f.hashed {
		return f.hash
	}
	h := xxhash.New()
	h.Write([]byte(f.Name))
	h.Write([]byte{byte(f.Kind)})
	if f.Bracketed {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	f.hash = h.Sum64()
	f.hashed = true
	return f.hash
}

// Equal reports whether f and o carry the same name, kind, and
// already-bracketed flag.
func (f Frame) Equal(o Frame) bool {
	return f.Name == o.Name && f.Kind == o.Kind && f.Bracketed == o.Bracketed
}

// Less orders frames lexicographically on (name, kind, bracketed).
func (f Frame) Less(o Frame) bool {
	if f.Name != o.Name {
		return f.Name < o.Name
	}
	if f.Kind != o.Kind {
		return f.Kind < o.Kind
	}
	return !f.Bracketed && o.Bracketed
}
