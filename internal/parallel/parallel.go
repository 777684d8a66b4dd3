// Package parallel replaces the sequential scan/detect/parse/fold stages
// with a block-parallel variant for large perf-script inputs, per spec.md
// §4.9/§5 (C9). It activates only above Threshold(hwParallelism) lines and
// only for the perf-script dialect.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/theSprog/FlameCrafter/internal/flamelog"
	"github.com/theSprog/FlameCrafter/internal/fold"
	"github.com/theSprog/FlameCrafter/internal/parse"
	"github.com/theSprog/FlameCrafter/internal/scan"
)

// Threshold returns the line-count floor above which the parallel
// orchestrator activates: hwParallelism * 10000 (spec.md §4.9).
func Threshold(hwParallelism int) int {
	return hwParallelism * 10000
}

// Options controls the optional per-sample transforms Run applies before
// folding, matching the sequential path's collapse step.
type Options struct {
	// Reverse flips each sample's frame order after the mandatory
	// leaf-to-root canonicalisation, per SPEC_FULL.md's Open Question
	// resolution (applied uniformly regardless of path).
	Reverse bool
	// MaxDepth truncates each sample's frames before folding, 0 = unlimited.
	MaxDepth int
}

// Run partitions idx's line range into p contiguous blocks, parses each
// independently via a PerfScriptParser, and merges the results into a
// ConcurrentMultiset. No ordering is promised between workers; aggregation
// is commutative and associative, so the merged result is deterministic
// given the input (spec.md §5).
func Run(ctx context.Context, idx *scan.Indexed, p int, opts Options) (*fold.Multiset, error) {
	if p <= 0 {
		p = runtime.NumCPU()
	}
	total := idx.LineCount()
	if total == 0 {
		return fold.New(), nil
	}
	if p > total {
		p = total
	}

	cms := newConcurrentMultiset(runtime.NumCPU())
	blockSize := (total + p - 1) / p

	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < p; w++ {
		w := w
		start := w * blockSize
		end := start + blockSize
		if end > total {
			end = total
		}
		if start >= end {
			continue
		}
		g.Go(func() error {
			return processBlock(idx, start, end, total, cms, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flamelog.Debugf("parallel: merged %d workers into %d distinct stacks", p, cms.Len())
	return cms.toSequential(), nil
}

// processBlock implements the boundary-seek rule (spec.md §4.9): a worker
// advances its start forward until it hits a blank line or a header line
// (the first ':'-bearing line), so each frame belongs to exactly one
// worker's ownership. [start, end) governs which samples this block may
// *start*, not where it must stop reading: a block that is still inside a
// sample it started keeps reading past end until that sample's real
// terminator (a blank line, or the header that opens the next sample) is
// found, so a sample straddling a block boundary is completed by exactly
// the block that owns it and skipped entirely by every later block (whose
// own seekToBoundary lands on that same terminator and finds nothing to
// own before it). This is what keeps the parallel fold equal to the
// sequential one regardless of where blockSize happens to cut the input.
func processBlock(idx *scan.Indexed, start, end, total int, cms *concurrentMultiset, opts Options) error {
	seekStart := seekToBoundary(idx, start, end)

	var cur *parse.Sample
	flush := func() {
		if cur == nil {
			return
		}
		cur.Reverse()
		if opts.Reverse {
			cur.Reverse()
		}
		if opts.MaxDepth > 0 && len(cur.Frames) > opts.MaxDepth {
			cur.Frames = cur.Frames[:opts.MaxDepth]
		}
		if cur.Valid() {
			cms.add(cur.Frames, cur.Count)
		}
		cur = nil
	}

	for i := seekStart; i < total; i++ {
		if i >= end && cur == nil {
			// Nothing left that we started, and we've crossed into the
			// next block's territory: stop without touching its line.
			return nil
		}
		line := idx.Line(i)
		if len(line) == 0 {
			flush()
			continue
		}
		if isHeaderLine(line) {
			if i >= end {
				// This header opens a sample outside our range. A header
				// always closes whatever sample precedes it, so flush
				// the one we were completing, then stop without
				// consuming the header itself.
				flush()
				return nil
			}
			flush()
			comm, ts, ok := parse.ParseHeaderLine(string(line))
			if !ok {
				continue
			}
			cur = &parse.Sample{Proc: comm, TimestampUS: ts, Count: 1}
			continue
		}
		if cur == nil {
			continue
		}
		if fr, ok := parse.ParseFrameLine(string(line)); ok {
			cur.Frames = append(cur.Frames, fr)
		}
	}
	flush()
	return nil
}

// seekToBoundary advances from start to the next blank line or header line
// within [start, end), a safe point to begin owning samples from. A block
// whose assigned range starts mid-sample skips that partial prefix; the
// block that started it is the one responsible for completing it, however
// far past end that takes (see processBlock). If no boundary appears
// before end, this block owns nothing at all and returns end, on which
// processBlock immediately bails.
func seekToBoundary(idx *scan.Indexed, start, end int) int {
	if start == 0 {
		return 0
	}
	for i := start; i < end; i++ {
		line := idx.Line(i)
		if len(line) == 0 || isHeaderLine(line) {
			return i
		}
	}
	return end
}

func isHeaderLine(line scan.Line) bool {
	for _, c := range line {
		if c == ':' {
			return true
		}
	}
	return false
}

// concurrentMultiset shards frame-hash buckets across NumCPU locks, giving
// per-bucket mutual exclusion: an atomic fetch-add on collision, or
// insert-under-exclusion on first occurrence (spec.md §5).
type concurrentMultiset struct {
	shards []shard
	mask   uint64
}

type shard struct {
	mu      sync.Mutex
	entries map[uint64][]shardEntry
}

type shardEntry struct {
	frames []parse.Frame
	count  uint64
}

func newConcurrentMultiset(n int) *concurrentMultiset {
	if n <= 0 {
		n = 1
	}
	// round up to a power of two so (hash & mask) is a cheap shard pick.
	size := 1
	for size < n {
		size <<= 1
	}
	shards := make([]shard, size)
	for i := range shards {
		shards[i].entries = make(map[uint64][]shardEntry)
	}
	return &concurrentMultiset{shards: shards, mask: uint64(size - 1)}
}

func (c *concurrentMultiset) add(frames []parse.Frame, count uint64) {
	if len(frames) == 0 || count == 0 {
		return
	}
	key := fold.FramesKey{Frames: frames}
	h := key.Hash()
	s := &c.shards[h&c.mask]

	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.entries[h]
	for i := range bucket {
		k := fold.FramesKey{Frames: bucket[i].frames}
		if k.Equal(frames) {
			atomic.AddUint64(&bucket[i].count, count)
			return
		}
	}
	s.entries[h] = append(bucket, shardEntry{frames: frames, count: count})
}

func (c *concurrentMultiset) Len() int {
	n := 0
	for i := range c.shards {
		c.shards[i].mu.Lock()
		for _, bucket := range c.shards[i].entries {
			n += len(bucket)
		}
		c.shards[i].mu.Unlock()
	}
	return n
}

func (c *concurrentMultiset) toSequential() *fold.Multiset {
	ms := fold.New()
	for i := range c.shards {
		c.shards[i].mu.Lock()
		for _, bucket := range c.shards[i].entries {
			for _, e := range bucket {
				ms.Add(e.frames, e.count)
			}
		}
		c.shards[i].mu.Unlock()
	}
	return ms
}
