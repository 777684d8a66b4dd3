// Package pipeline wires buffer, detect, parse, fold, tree, svg and htmlout
// into the single end-to-end conversion spec.md §5/§6 describes (C10).
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/theSprog/FlameCrafter/internal/buffer"
	"github.com/theSprog/FlameCrafter/internal/config"
	"github.com/theSprog/FlameCrafter/internal/detect"
	"github.com/theSprog/FlameCrafter/internal/errs"
	"github.com/theSprog/FlameCrafter/internal/flamelog"
	"github.com/theSprog/FlameCrafter/internal/fold"
	"github.com/theSprog/FlameCrafter/internal/htmlout"
	"github.com/theSprog/FlameCrafter/internal/parallel"
	"github.com/theSprog/FlameCrafter/internal/parse"
	"github.com/theSprog/FlameCrafter/internal/scan"
	"github.com/theSprog/FlameCrafter/internal/svg"
	"github.com/theSprog/FlameCrafter/internal/tree"
)

// Run executes the full pipeline: validate config, mmap input, detect
// dialect, parse, fold, build + prune the tree, and dispatch to the
// renderer selected by outputPath's extension.
func Run(inputPath, outputPath string, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	renderer, err := rendererFor(outputPath)
	if err != nil {
		return err
	}

	buf, err := buffer.Open(inputPath)
	if err != nil {
		return err
	}
	defer buf.Close()

	root, err := build(buf.Bytes(), outputPath, cfg)
	if err != nil {
		return err
	}
	defer root.Destroy()

	out, err := os.Create(outputPath)
	if err != nil {
		return errs.Wrap(errs.IO, err, "create %q", outputPath)
	}
	defer out.Close()

	if err := renderer(out, root, cfg); err != nil {
		return err
	}
	flamelog.Infof("pipeline: wrote %q (total=%d)", outputPath, root.Total)
	return nil
}

// build runs the detect/parse/fold/tree-build stages shared by every
// output renderer, including the optional folded-stacks sidecar write.
func build(data []byte, outputPath string, cfg config.Config) (*tree.Node, error) {
	dialect := detect.Detect(data)
	flamelog.Debugf("pipeline: detected dialect %s", dialect)

	ms, err := collapse(data, dialect, cfg)
	if err != nil {
		return nil, err
	}
	if ms.Len() == 0 {
		// Nothing survived parsing+folding at all: empty input, or input
		// containing only blanks/comments, both yield zero valid samples
		// (spec.md §8 boundary behaviour), which is parse-empty, not
		// pipeline-empty — the latter is reserved for a non-empty parse
		// that an explicit filter below then empties out.
		return nil, errs.New(errs.ParseEmpty, "input yielded zero valid samples")
	}

	if cfg.MinCountThreshold > 0 {
		ms.Filter(cfg.MinCountThreshold)
		if ms.Len() == 0 {
			return nil, errs.New(errs.PipelineEmpty, "min_count_threshold filtered every stack")
		}
	}

	if cfg.WriteFoldedFile {
		if err := writeFoldedSidecar(ms, outputPath); err != nil {
			return nil, err
		}
	}

	root := tree.Build(ms, cfg.MaxDepth)
	root.Prune(cfg.MinHeatThreshold)
	return root, nil
}

// writeFoldedSidecar writes the collapsed-stacks text form alongside
// outputPath, at "<outputPath>.collapse" (spec.md §4.5 "folded writer").
func writeFoldedSidecar(ms *fold.Multiset, outputPath string) error {
	path := outputPath + ".collapse"
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IO, err, "create %q", path)
	}
	defer f.Close()
	if err := ms.WriteFolded(f); err != nil {
		return errs.Wrap(errs.IO, err, "write %q", path)
	}
	flamelog.Debugf("pipeline: wrote folded sidecar %q", path)
	return nil
}

// collapse produces the folded multiset, taking the block-parallel path
// for large perf-script inputs (spec.md §4.9) and the sequential
// parse-then-fold path otherwise.
func collapse(data []byte, dialect detect.Dialect, cfg config.Config) (*fold.Multiset, error) {
	idx := scan.NewIndexed(data)
	const hwParallelism = 4 // conservative floor; parallel.Run itself fans out to runtime.NumCPU() workers.

	if dialect == detect.PerfScript && idx.LineCount() >= parallel.Threshold(hwParallelism) {
		flamelog.Debugf("pipeline: %d lines exceeds parallel threshold, using block-parallel fold", idx.LineCount())
		return parallel.Run(context.Background(), idx, 0, parallel.Options{
			Reverse:  cfg.Reverse,
			MaxDepth: cfg.MaxDepth,
		})
	}

	parser := parse.Resolve(dialect.String())
	if parser == nil {
		return nil, errs.New(errs.ParseFormat, "no parser registered for dialect %q", dialect)
	}
	samples, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.Reverse {
		for i := range samples {
			samples[i].Reverse()
		}
	}
	return fold.Fold(samples, cfg.MaxDepth), nil
}

type renderFunc func(w io.Writer, root *tree.Node, cfg config.Config) error

func rendererFor(outputPath string) (renderFunc, error) {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".svg":
		return svg.Write, nil
	case ".html", ".htm":
		return htmlout.Write, nil
	default:
		return nil, errs.New(errs.SuffixUnknown, "unrecognised output suffix %q", filepath.Ext(outputPath))
	}
}
