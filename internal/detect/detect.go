// Package detect classifies an input buffer as perf-script or generic by
// inspecting its leading lines, per spec.md §4.3 (C3).
package detect

import (
	"bytes"

	"github.com/theSprog/FlameCrafter/internal/scan"
)

// Dialect is the recognised input format.
type Dialect int

const (
	Generic Dialect = iota
	PerfScript
)

func (d Dialect) String() string {
	if d == PerfScript {
		return "perf-script"
	}
	return "generic"
}

const maxInspected = 128

// Detect inspects up to the first 128 non-blank trimmed lines of buf and
// classifies the dialect. Ambiguity resolves to Generic.
func Detect(buf []byte) Dialect {
	s := scan.NewSequential(buf)
	inspected := 0
	for inspected < maxInspected {
		line, ok := s.Next()
		if !ok {
			break
		}
		if len(line) == 0 {
			continue
		}
		inspected++
		if looksLikePerfScript(line) {
			return PerfScript
		}
	}
	return Generic
}

func looksLikePerfScript(line scan.Line) bool {
	if bytes.Contains(line, []byte("cycles:")) || bytes.Contains(line, []byte("instructions:")) {
		return true
	}
	if isHexDigit(line[0]) && bytes.IndexByte(line, '(') >= 0 {
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
