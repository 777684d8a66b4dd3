// Package cli wires the flamecrafter command-line surface: one positional
// "<input> <output>" pair plus the rendering flags spec.md §3 exposes,
// following the single-root-command shape of the teacher pack's CLI
// examples (spf13/cobra).
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/theSprog/FlameCrafter/internal/config"
	"github.com/theSprog/FlameCrafter/internal/flamelog"
	"github.com/theSprog/FlameCrafter/internal/pipeline"
)

var Version = "dev"

var opts struct {
	title       string
	subtitle    string
	notes       string
	width       int
	frameHeight int
	xpad        int
	fontType    string
	fontSize    int
	fontWidth   float64
	colors      string
	reverse     bool
	inverted    bool
	minWidth    float64
	maxDepth    int
	minHeat     float64
	interactive bool
	writeFolded bool
	minCount    uint64
	verbose     bool
}

// Execute builds and runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flamecrafter <input> <output>",
		Short:         "Render stack-trace samples as an interactive flame graph",
		Long:          "flamecrafter converts perf-script (or generic) stack samples into an SVG or HTML flame graph.",
		Version:       Version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.title, "title", "Flame Graph", "graph title")
	flags.StringVar(&opts.subtitle, "subtitle", "", "graph subtitle")
	flags.StringVar(&opts.notes, "notes", "", "notes text (stored in the configuration; not written to the output)")
	flags.IntVar(&opts.width, "width", 1200, "image width in pixels")
	flags.IntVar(&opts.frameHeight, "frame-height", 16, "frame height in pixels")
	flags.IntVar(&opts.xpad, "xpad", 10, "left/right padding in pixels")
	flags.StringVar(&opts.fontType, "font-type", "Verdana", "label font family")
	flags.IntVar(&opts.fontSize, "font-size", 12, "label font size")
	flags.Float64Var(&opts.fontWidth, "font-width", 0.59, "average font character width ratio")
	flags.StringVar(&opts.colors, "colors", "hot", "color scheme (hot, cold, memory, java, aqua, orange)")
	flags.BoolVar(&opts.reverse, "reverse", false, "reverse each stack's frame order before folding")
	flags.BoolVar(&opts.inverted, "inverted", false, "icicle orientation (root at top)")
	flags.Float64Var(&opts.minWidth, "min-width", 0.1, "minimum rendered frame width in pixels")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "truncate stacks deeper than this many frames (0 = unlimited)")
	flags.Float64Var(&opts.minHeat, "min-heat-threshold", 0, "prune subtrees narrower than this fraction of their parent")
	flags.BoolVar(&opts.interactive, "interactive", true, "embed search/zoom interaction script (SVG only)")
	flags.BoolVar(&opts.writeFolded, "write-folded-file", false, "also write the collapsed-stacks sidecar file")
	flags.Uint64Var(&opts.minCount, "min-count-threshold", 0, "drop stacks with fewer than this many samples")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if opts.verbose {
		if err := flamelog.SetLogWriter(os.Stderr); err != nil {
			return err
		}
	}

	cfg := config.New(
		config.WithTitle(opts.title),
		config.WithSubtitle(opts.subtitle),
		config.WithNotes(opts.notes),
		config.WithWidth(opts.width),
		config.WithFrameHeight(opts.frameHeight),
		config.WithXPad(opts.xpad),
		config.WithFont(opts.fontType, opts.fontSize, opts.fontWidth),
		config.WithColors(opts.colors),
		config.WithReverse(opts.reverse),
		config.WithInverted(opts.inverted),
		config.WithMinWidth(opts.minWidth),
		config.WithMaxDepth(opts.maxDepth),
		config.WithMinHeatThreshold(opts.minHeat),
		config.WithInteractive(opts.interactive),
		config.WithWriteFoldedFile(opts.writeFolded),
		config.WithMinCountThreshold(opts.minCount),
	)

	return pipeline.Run(args[0], args[1], cfg)
}
