// Package scan produces trimmed line views over a byte buffer without
// copying, per spec.md §4.2 (C2). Two variants share the same line
// semantics: a line ends at '\n' or EOF; trimming strips leading and
// trailing ASCII whitespace (" \t\r\n").
package scan

// Line is a trimmed, borrowed view into the scanned buffer.
type Line []byte

func trim(b []byte) Line {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return Line(b[start:end])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Sequential walks the buffer with a single forward cursor, mirroring the
// teacher lexer's next/backup discipline but over lines instead of runes.
type Sequential struct {
	buf []byte
	pos int
}

// NewSequential returns a Sequential scanner positioned at the start of buf.
func NewSequential(buf []byte) *Sequential {
	return &Sequential{buf: buf}
}

// Next returns the next trimmed line, or false at EOF.
func (s *Sequential) Next() (Line, bool) {
	if s.pos >= len(s.buf) {
		return nil, false
	}
	start := s.pos
	nl := indexByte(s.buf[s.pos:], '\n')
	var end int
	if nl < 0 {
		end = len(s.buf)
		s.pos = end
	} else {
		end = s.pos + nl
		s.pos = end + 1
	}
	return trim(s.buf[start:end]), true
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// Indexed precomputes line-start offsets so any line is O(1) accessible and
// blocks can be assigned by line index (used by the parallel orchestrator).
type Indexed struct {
	buf    []byte
	starts []int
}

// NewIndexed precomputes the line-start table for buf.
func NewIndexed(buf []byte) *Indexed {
	starts := []int{0}
	for i, c := range buf {
		if c == '\n' && i+1 < len(buf) {
			starts = append(starts, i+1)
		}
	}
	if len(buf) == 0 {
		starts = nil
	}
	return &Indexed{buf: buf, starts: starts}
}

// LineCount returns the number of lines in the buffer.
func (idx *Indexed) LineCount() int { return len(idx.starts) }

// Line returns the trimmed line at index i.
func (idx *Indexed) Line(i int) Line {
	start := idx.starts[i]
	var end int
	if i+1 < len(idx.starts) {
		end = idx.starts[i+1] - 1
	} else {
		end = len(idx.buf)
	}
	return trim(idx.buf[start:end])
}
