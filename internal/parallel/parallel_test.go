package parallel

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSprog/FlameCrafter/internal/fold"
	"github.com/theSprog/FlameCrafter/internal/scan"
)

func TestThreshold(t *testing.T) {
	assert.Equal(t, 40000, Threshold(4))
	assert.Equal(t, 0, Threshold(0))
}

func perfScriptFixture() []byte {
	lines := []string{
		"swapper 0 [000] 1.000000: cycles:",
		"\tffffffff main+0x10 (/bin/app)",
		"\tffffffff worker+0x20 (/bin/app)",
		"",
		"swapper 0 [000] 2.000000: cycles:",
		"\tffffffff main+0x10 (/bin/app)",
		"\tffffffff worker+0x20 (/bin/app)",
	}
	return []byte(strings.Join(lines, "\n"))
}

func TestRun_MergesAcrossWorkers(t *testing.T) {
	buf := perfScriptFixture()
	idx := scan.NewIndexed(buf)

	ms, err := Run(context.Background(), idx, 2, Options{})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), ms.Total())
}

// straddlingFixture puts the blank line that terminates the first sample
// at the boundary between block 0 and block 1 (p=3, 7 lines, blockSize=3):
// block 0 owns the header at line 0 but the blank that closes it falls at
// line 3, inside block 1's nominal range, and the second sample's header
// at line 4 sits one line further still.
func straddlingFixture() []byte {
	lines := []string{
		"swapper 0 [000] 1.000000: cycles:",
		"\tffffffff main+0x10 (/bin/app)",
		"\tffffffff workerA+0x20 (/bin/app)",
		"",
		"swapper 0 [000] 2.000000: cycles:",
		"\tffffffff main+0x10 (/bin/app)",
		"\tffffffff workerB+0x20 (/bin/app)",
	}
	return []byte(strings.Join(lines, "\n"))
}

func TestRun_StraddlingSampleNotDropped(t *testing.T) {
	buf := straddlingFixture()
	idx := scan.NewIndexed(buf)

	ms, err := Run(context.Background(), idx, 3, Options{})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), ms.Total())
	require.Equal(t, 2, ms.Len())

	var stacks []string
	ms.Range(func(key fold.FramesKey, count uint64) bool {
		var frames []string
		for _, f := range key.Frames {
			frames = append(frames, f.Name)
		}
		stacks = append(stacks, strings.Join(frames, ";"))
		assert.Equal(t, uint64(1), count)
		return true
	})
	assert.ElementsMatch(t, []string{"workerA;main", "workerB;main"}, stacks)
}

func TestRun_EmptyInput(t *testing.T) {
	idx := scan.NewIndexed(nil)
	ms, err := Run(context.Background(), idx, 4, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ms.Total())
}

func TestRun_MaxDepthTruncates(t *testing.T) {
	buf := perfScriptFixture()
	idx := scan.NewIndexed(buf)

	ms, err := Run(context.Background(), idx, 2, Options{MaxDepth: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, ms.Len())
	assert.Equal(t, uint64(2), ms.Total())
}

func TestSeekToBoundary_FindsBlankLine(t *testing.T) {
	buf := perfScriptFixture()
	idx := scan.NewIndexed(buf)

	// start mid-sample (line 1, a frame line); should seek to the blank
	// line separating the two samples.
	got := seekToBoundary(idx, 1, idx.LineCount())
	assert.Equal(t, scan.Line(nil), trimmedOrNil(idx.Line(got)))
}

func trimmedOrNil(l scan.Line) scan.Line {
	if len(l) == 0 {
		return nil
	}
	return l
}
