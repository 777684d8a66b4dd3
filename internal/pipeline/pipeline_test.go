package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theSprog/FlameCrafter/internal/config"
)

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRun_GenericToSVG(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "main\nworker\ncompute\n")
	out := filepath.Join(dir, "out.svg")

	require.NoError(t, Run(in, out, config.Default()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "func_g")
}

func TestRun_GenericToHTML(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "main\nworker\n")
	out := filepath.Join(dir, "out.html")

	require.NoError(t, Run(in, out, config.Default()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flamegraph()")
}

func TestRun_UnknownSuffix(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "main\n")
	out := filepath.Join(dir, "out.txt")

	err := Run(in, out, config.Default())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "suffix-unknown"))
}

func TestRun_EmptyInputIsParseEmpty(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "")
	out := filepath.Join(dir, "out.svg")

	err := Run(in, out, config.Default())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse-empty"))
}

func TestRun_BlanksAndCommentsOnlyIsParseEmpty(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "\n\n# just a comment\n\n")
	out := filepath.Join(dir, "out.svg")

	err := Run(in, out, config.Default())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse-empty"))
}

func TestRun_MinCountThresholdFiltersToPipelineEmpty(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "main\nworker\n")
	out := filepath.Join(dir, "out.svg")

	cfg := config.New(config.WithMinCountThreshold(5))
	err := Run(in, out, cfg)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "pipeline-empty"))
}

func TestRun_MissingFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.svg")

	err := Run(filepath.Join(dir, "missing.txt"), out, config.Default())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "file-not-found"))
}

func TestRun_WriteFoldedSidecar(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "main\nworker\n")
	out := filepath.Join(dir, "out.svg")

	cfg := config.New(config.WithWriteFoldedFile(true))
	require.NoError(t, Run(in, out, cfg))

	sidecar, err := os.ReadFile(out + ".collapse")
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), "main;worker 1")
}
