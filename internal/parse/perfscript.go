package parse

import (
	"strconv"
	"strings"

	"github.com/theSprog/FlameCrafter/internal/errs"
	"github.com/theSprog/FlameCrafter/internal/flamelog"
	"github.com/theSprog/FlameCrafter/internal/scan"
)

// PerfScriptParser parses the "perf script" dialect (spec.md §4.4.1). A
// record is a header line containing ':', followed by zero or more frame
// lines, terminated by a blank line or EOF.
type PerfScriptParser struct{}

func (p *PerfScriptParser) Tag() string { return "perf-script" }

func (p *PerfScriptParser) Parse(buf []byte) ([]Sample, error) {
	s := scan.NewSequential(buf)

	var samples []Sample
	var cur *Sample

	flush := func() {
		if cur == nil {
			return
		}
		cur.reverseFramesInPlace()
		if cur.Valid() {
			samples = append(samples, *cur)
		}
		cur = nil
	}

	for {
		line, ok := s.Next()
		if !ok {
			break
		}
		if len(line) == 0 {
			flush()
			continue
		}
		if cur == nil {
			comm, ts, ok := parseHeader(string(line))
			if !ok {
				flamelog.Warnf("perf-script: skipping malformed header %q", line)
				continue
			}
			cur = &Sample{Proc: comm, TimestampUS: ts, Count: 1}
			continue
		}
		fr, ok := parseFrameLine(string(line))
		if !ok {
			continue
		}
		cur.Frames = append(cur.Frames, fr)
	}
	flush()

	if len(samples) == 0 {
		return nil, errs.New(errs.ParseEmpty, "perf-script input yielded zero valid samples")
	}
	return samples, nil
}

// reverseFramesInPlace flips the accumulated leaf-to-root frame order to
// root-to-leaf, matching what folding and tree-building expect.
func (s *Sample) reverseFramesInPlace() { s.Reverse() }

// ParseHeaderLine exports parseHeader for callers outside this package that
// walk perf-script lines themselves, such as internal/parallel's
// block-parallel orchestrator.
func ParseHeaderLine(line string) (comm string, timestampUS uint64, ok bool) {
	return parseHeader(line)
}

// ParseFrameLine exports parseFrameLine for the same reason as
// ParseHeaderLine.
func ParseFrameLine(line string) (Frame, bool) {
	return parseFrameLine(line)
}

// parseHeader extracts the comm name (the whitespace-delimited prefix) and
// the fractional-seconds timestamp converted to microseconds (spec.md
// §4.4.1). Missing timestamp yields 0.
func parseHeader(line string) (comm string, timestampUS uint64, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", 0, false
	}
	head := line[:idx]
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return "", 0, false
	}
	comm = fields[0]

	// The numeric token immediately before the first ':' is the last
	// whitespace-delimited field of head, if it has the "<seconds>.<fraction>"
	// form and parses as a float. A bare integer there is the pid, not a
	// timestamp.
	last := fields[len(fields)-1]
	if !strings.Contains(last, ".") {
		return comm, 0, true
	}
	if sec, err := strconv.ParseFloat(last, 64); err == nil {
		timestampUS = uint64(sec*1e6 + 0.5)
	}
	return comm, timestampUS, true
}

// parseFrameLine applies the frame extraction rules of spec.md §4.4.1 to a
// single frame line: skip the leading hex address, split "name[+offset]
// [(lib)]", and classify the result as a function or library frame.
func parseFrameLine(line string) (Frame, bool) {
	rest := skipLeadingHexAddr(line)
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return Frame{}, false
	}

	lib := ""
	fn := rest
	if openParen, closeParen, ok := lastParenSpan(rest); ok {
		lib = rest[openParen+1 : closeParen]
		fn = strings.TrimSpace(rest[:openParen])
	}

	if fn != "[unknown]" {
		fn = stripOffsetSuffix(fn)
	}

	bracketed := false
	if lib != "" {
		if i := strings.LastIndexByte(lib, '/'); i >= 0 {
			lib = lib[i+1:]
		}
		if strings.HasPrefix(lib, "[") && strings.HasSuffix(lib, "]") {
			bracketed = true
		}
	}

	if fn != "" && fn != "[unknown]" {
		return Frame{Name: fn, Kind: FuncFrame}, true
	}
	if lib != "" {
		return Frame{Name: lib, Kind: LibFrame, Bracketed: bracketed}, true
	}
	return Frame{}, false
}

// skipLeadingHexAddr drops the first whitespace-delimited token (the stack
// address) and returns the remainder of the line.
func skipLeadingHexAddr(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	i := strings.IndexAny(trimmed, " \t")
	if i < 0 {
		return ""
	}
	return trimmed[i:]
}

// lastParenSpan finds the trailing "(...)" group: the last '(' that has a
// matching ')' after it, both reported as byte offsets into s.
func lastParenSpan(s string) (open, close int, ok bool) {
	close = strings.LastIndexByte(s, ')')
	if close < 0 {
		return 0, 0, false
	}
	open = strings.LastIndexByte(s[:close], '(')
	if open < 0 {
		return 0, 0, false
	}
	return open, close, true
}

// stripOffsetSuffix removes a trailing "+0xNNN" offset from a function
// token, unless the function is literally "[unknown]" (handled by caller).
func stripOffsetSuffix(fn string) string {
	i := strings.LastIndex(fn, "+0x")
	if i < 0 {
		return fn
	}
	suffix := fn[i+3:]
	if suffix == "" || !isAllHex(suffix) {
		return fn
	}
	return fn[:i]
}

func isAllHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
