// Package fold aggregates samples by whole-stack equality into a multiset
// keyed by the entire frame sequence (spec.md §4.5, C5).
package fold

import (
	"bytes"
	"fmt"
	"io"

	"github.com/theSprog/FlameCrafter/internal/flamelog"
	"github.com/theSprog/FlameCrafter/internal/parse"
)

// FramesKey is a borrowed view over a sample's frame sequence; it is the
// key of the folding multiset (spec.md §3). Equality is element-wise; hash
// is an order-sensitive combination of frame hashes with a cached memo.
type FramesKey struct {
	Frames []parse.Frame

	hash   uint64
	hashed bool
}

// Hash combines the per-frame hashes order-sensitively and memoizes the
// result (spec.md §8 invariant 4/5).
func (k *FramesKey) Hash() uint64 {
	if k.hashed {
		return k.hash
	}
	var h uint64 = 14695981039346656037 // FNV offset basis, combined below.
	for i := range k.Frames {
		h ^= k.Frames[i].Hash()
		h *= 1099511628211 // FNV prime; order-sensitive via running xor/mul.
	}
	k.hash = h
	k.hashed = true
	return h
}

// Equal reports element-wise equality against another frame sequence.
func (k *FramesKey) Equal(frames []parse.Frame) bool {
	if len(k.Frames) != len(frames) {
		return false
	}
	for i := range frames {
		if !k.Frames[i].Equal(frames[i]) {
			return false
		}
	}
	return true
}

type entry struct {
	key   FramesKey
	count uint64
}

// Multiset maps FramesKey -> count, maintaining the invariant that every
// key is non-empty and every value is positive (spec.md §3).
type Multiset struct {
	buckets map[uint64][]entry
	size    int
}

// New returns an empty Multiset.
func New() *Multiset {
	return &Multiset{buckets: make(map[uint64][]entry)}
}

// Add inserts frames with the given count, summing on collision.
func (m *Multiset) Add(frames []parse.Frame, count uint64) {
	if len(frames) == 0 || count == 0 {
		return
	}
	key := FramesKey{Frames: frames}
	h := key.Hash()
	bucket := m.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(frames) {
			bucket[i].count += count
			return
		}
	}
	m.buckets[h] = append(bucket, entry{key: key, count: count})
	m.size++
}

// Len returns the number of distinct keys.
func (m *Multiset) Len() int { return m.size }

// Total returns the sum of all retained counts.
func (m *Multiset) Total() uint64 {
	var total uint64
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			total += e.count
		}
	}
	return total
}

// Range iterates every (key, count) pair. Iteration order is unspecified
// (map-backed), matching the "order invariance" law of spec.md §8.
func (m *Multiset) Range(fn func(key FramesKey, count uint64) bool) {
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			if !fn(e.key, e.count) {
				return
			}
		}
	}
}

// Filter drops every key whose total count falls below minCount.
func (m *Multiset) Filter(minCount uint64) {
	if minCount == 0 {
		return
	}
	dropped := 0
	for h, bucket := range m.buckets {
		kept := bucket[:0]
		for _, e := range bucket {
			if e.count >= minCount {
				kept = append(kept, e)
			} else {
				dropped++
				m.size--
			}
		}
		if len(kept) == 0 {
			delete(m.buckets, h)
		} else {
			m.buckets[h] = kept
		}
	}
	if dropped > 0 {
		flamelog.Debugf("fold: filtered %d stacks below min-count threshold", dropped)
	}
}

// Fold folds samples into a new Multiset. Each sample's frame sequence is
// truncated to maxDepth first if maxDepth > 0, per SPEC_FULL.md's
// resolution of the max_depth Open Question (truncation at fold time).
func Fold(samples []parse.Sample, maxDepth int) *Multiset {
	ms := New()
	for _, s := range samples {
		if !s.Valid() {
			continue
		}
		frames := s.Frames
		if maxDepth > 0 && len(frames) > maxDepth {
			frames = frames[:maxDepth]
		}
		ms.Add(frames, s.Count)
	}
	return ms
}

// WriteFolded serialises the multiset as one "frame1;frame2;...;frameN
// count\n" line per key. Library-kind frames that were not already
// bracketed are wrapped in "[...]" at serialisation time (spec.md §4.5,
// §9 "Folded writer line terminators").
func (m *Multiset) WriteFolded(w io.Writer) error {
	var buf bytes.Buffer
	var rangeErr error
	m.Range(func(key FramesKey, count uint64) bool {
		for i, f := range key.Frames {
			if i > 0 {
				buf.WriteByte(';')
			}
			writeFoldedFrame(&buf, f)
		}
		fmt.Fprintf(&buf, " %d\n", count)
		if buf.Len() > 64*1024 {
			if _, err := w.Write(buf.Bytes()); err != nil {
				rangeErr = err
				return false
			}
			buf.Reset()
		}
		return true
	})
	if rangeErr != nil {
		return rangeErr
	}
	if buf.Len() > 0 {
		_, err := w.Write(buf.Bytes())
		return err
	}
	return nil
}

func writeFoldedFrame(buf *bytes.Buffer, f parse.Frame) {
	if f.Kind == parse.LibFrame && !f.Bracketed {
		buf.WriteByte('[')
		buf.WriteString(f.Name)
		buf.WriteByte(']')
		return
	}
	buf.WriteString(f.Name)
}
