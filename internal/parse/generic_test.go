package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericParser_ScenarioA(t *testing.T) {
	input := "main\nworker\ncompute\n"
	p := &GenericParser{}
	samples, err := p.Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Len(t, samples[0].Frames, 3)
	assert.Equal(t, uint64(1), samples[0].Count)
	assert.Equal(t, "main", samples[0].Frames[0].Name)
	assert.Equal(t, "worker", samples[0].Frames[1].Name)
	assert.Equal(t, "compute", samples[0].Frames[2].Name)
}

func TestGenericParser_ScenarioB(t *testing.T) {
	input := "a\nb\n\na\nb\n\na\nc\n"
	p := &GenericParser{}
	samples, err := p.Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, samples, 3)
}

func TestGenericParser_CommentTerminates(t *testing.T) {
	input := "a\nb\n# comment\nc\nd\n"
	p := &GenericParser{}
	samples, err := p.Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, []string{"a", "b"}, frameNames(samples[0]))
	assert.Equal(t, []string{"c", "d"}, frameNames(samples[1]))
}

func frameNames(s Sample) []string {
	names := make([]string, len(s.Frames))
	for i, f := range s.Frames {
		names[i] = f.Name
	}
	return names
}
