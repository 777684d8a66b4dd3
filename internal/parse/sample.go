package parse

// Sample is an ordered frame sequence plus an occurrence count, an optional
// process name, and an optional microsecond timestamp (spec.md §3).
//
// Frames are leaf-to-root immediately after a dialect's parser produces
// them and root-to-leaf once the parser canonicalises the sample before
// returning it (spec.md §4, header note).
type Sample struct {
	Frames      []Frame
	Count       uint64
	Proc        string
	TimestampUS uint64
}

// Valid reports whether the sample has at least one frame and a positive
// count. Invalid samples are silently dropped by both dialects.
func (s Sample) Valid() bool {
	return len(s.Frames) >= 1 && s.Count >= 1
}

// Reverse reverses the sample's frame order in place. Used to honor the
// config.Reverse option (see SPEC_FULL.md's Open Question resolution).
func (s *Sample) Reverse() {
	for i, j := 0, len(s.Frames)-1; i < j; i, j = i+1, j-1 {
		s.Frames[i], s.Frames[j] = s.Frames[j], s.Frames[i]
	}
}
