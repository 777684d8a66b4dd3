package parse

import (
	"strings"

	"github.com/theSprog/FlameCrafter/internal/scan"
)

// GenericParser parses the fallback dialect (spec.md §4.4.2): one frame per
// non-blank, non-comment line, verbatim; a blank line or '#'-prefixed line
// terminates the current sample. All samples carry count 1 and no process
// name. Unlike the perf-script dialect, an empty result is not itself fatal
// here - the caller decides whether overall pipeline emptiness is fatal.
type GenericParser struct{}

func (p *GenericParser) Tag() string { return "generic" }

func (p *GenericParser) Parse(buf []byte) ([]Sample, error) {
	s := scan.NewSequential(buf)

	var samples []Sample
	var cur Sample

	flush := func() {
		cur.Count = 1
		if cur.Valid() {
			samples = append(samples, cur)
		}
		cur = Sample{}
	}

	for {
		line, ok := s.Next()
		if !ok {
			break
		}
		if len(line) == 0 || strings.HasPrefix(string(line), "#") {
			flush()
			continue
		}
		cur.Frames = append(cur.Frames, Frame{Name: string(line), Kind: FuncFrame})
	}
	flush()

	return samples, nil
}
