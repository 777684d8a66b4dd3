package htmlout

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSprog/FlameCrafter/internal/config"
	"github.com/theSprog/FlameCrafter/internal/fold"
	"github.com/theSprog/FlameCrafter/internal/parse"
	"github.com/theSprog/FlameCrafter/internal/tree"
)

func TestWrite_EmbedsJSONTree(t *testing.T) {
	ms := fold.New()
	ms.Add([]parse.Frame{{Name: "main", Kind: parse.FuncFrame}, {Name: "worker", Kind: parse.FuncFrame}}, 3)
	root := tree.Build(ms, 0)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, root, config.Default()))

	out := buf.String()
	assert.Contains(t, out, `"name":"main"`)
	assert.Contains(t, out, `"value":3`)
}

func TestWrite_EmptyTreeIsPipelineEmpty(t *testing.T) {
	root := tree.Build(fold.New(), 0)
	var buf bytes.Buffer
	err := Write(&buf, root, config.Default())
	require.Error(t, err)
}
