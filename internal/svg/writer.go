package svg

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/theSprog/FlameCrafter/internal/color"
	"github.com/theSprog/FlameCrafter/internal/config"
	"github.com/theSprog/FlameCrafter/internal/errs"
	"github.com/theSprog/FlameCrafter/internal/tree"
)

const rootColor = "rgb(247,247,247)"
const neutralGrey = "rgb(160,160,160)"

// Write streams the full SVG document for root under cfg: XML prologue,
// DOCTYPE, background gradient defs, style block, interactive script, and
// one <g><title/><rect/><text/></g> per emitted rect (spec.md §4.8/§6).
func Write(w io.Writer, root *tree.Node, cfg config.Config) error {
	rects := Layout(root, cfg)
	if len(rects) == 0 {
		return errs.New(errs.PipelineEmpty, "svg: layout produced no rectangles")
	}
	geo := ComputeGeometry(root, cfg)
	scheme := color.Resolve(cfg.Colors)

	bw := bufio.NewWriter(w)
	writeShellHead(bw, geo, cfg)

	fmt.Fprintf(bw, "<g id=\"frames\">\n")
	maxDepth := root.Height
	if maxDepth == 0 {
		maxDepth = 1
	}
	for _, r := range rects {
		if err := writeRect(bw, r, root, cfg, scheme, maxDepth); err != nil {
			return errs.Wrap(errs.Render, err, "write node %v", r.Node.Frame)
		}
	}
	fmt.Fprintf(bw, "</g>\n")

	writeShellTail(bw, cfg)

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.Render, err, "flush svg output")
	}
	return nil
}

func writeShellHead(w *bufio.Writer, geo Geometry, cfg config.Config) {
	fmt.Fprint(w, `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg1.1.dtd">
`)
	fmt.Fprintf(w, "<svg version=\"1.1\" xmlns=\"http://www.w3.org/2000/svg\" xmlns:xlink=\"http://www.w3.org/1999/xlink\" xmlns:fg=\"http://flamecrafter/ns\" width=\"%d\" height=\"%d\">\n",
		cfg.Width, int(geo.ImageHeight+0.5))

	fmt.Fprintf(w, "<defs>\n<linearGradient id=\"background\" y1=\"0\" y2=\"1\" x1=\"0\" x2=\"0\">\n"+
		"<stop stop-color=\"%s\" offset=\"5%%\"/>\n<stop stop-color=\"%s\" offset=\"95%%\"/>\n</linearGradient>\n</defs>\n",
		escape(cfg.BGColor1), escape(cfg.BGColor2))

	fmt.Fprintf(w, "<style type=\"text/css\">\n.func_g:hover { stroke:black; stroke-width:0.5; cursor:pointer; }\n"+
		"text { font-family:%s; font-size:%dpx; fill:rgb(0,0,0); }\n</style>\n",
		escape(cfg.FontType), cfg.FontSize)

	fmt.Fprintf(w, "<rect id=\"background\" x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"url(#background)\"/>\n",
		cfg.Width, int(geo.ImageHeight+0.5))

	fmt.Fprintf(w, "<text id=\"title\" x=\"%d\" y=\"%d\" text-anchor=\"middle\" style=\"font-size:%dpx\">%s</text>\n",
		cfg.Width/2, int(float64(cfg.FontSize)*1.5), cfg.FontSize+5, escape(cfg.Title))
	if cfg.Subtitle != "" {
		fmt.Fprintf(w, "<text id=\"subtitle\" x=\"%d\" y=\"%d\" text-anchor=\"middle\" style=\"font-size:%dpx\">%s</text>\n",
			cfg.Width/2, int(float64(cfg.FontSize)*3), cfg.FontSize, escape(cfg.Subtitle))
	}

	fmt.Fprintf(w, "<text id=\"details\" x=\"%d\" y=\"%d\" style=\"font-size:%dpx\"> </text>\n", cfg.XPad, int(geo.ImageHeight)-int(geo.PadBottom)/2, cfg.FontSize)
	fmt.Fprintf(w, "<text id=\"unzoom\" x=\"%d\" y=\"%d\" style=\"font-size:%dpx;opacity:0\">Reset Zoom</text>\n", cfg.XPad, int(float64(cfg.FontSize)*1.5), cfg.FontSize)
	fmt.Fprintf(w, "<text id=\"search\" x=\"%d\" y=\"%d\" style=\"font-size:%dpx\">Search</text>\n", cfg.Width-cfg.XPad-100, int(float64(cfg.FontSize)*1.5), cfg.FontSize)
	fmt.Fprintf(w, "<text id=\"ignorecase\" x=\"%d\" y=\"%d\" style=\"font-size:%dpx;opacity:0.5\">ic</text>\n", cfg.Width-cfg.XPad-20, int(float64(cfg.FontSize)*1.5), cfg.FontSize)
	fmt.Fprintf(w, "<text id=\"matched\" x=\"%d\" y=\"%d\" style=\"font-size:%dpx\"> </text>\n", cfg.Width-cfg.XPad-100, int(geo.ImageHeight)-int(geo.PadBottom)/2, cfg.FontSize)

	if cfg.Interactive {
		fmt.Fprintf(w, "<script type=\"text/ecmascript\">\n<![CDATA[\n"+
			"var fontsize = %d;\nvar fontwidth = %v;\nvar xpad = %d;\nvar inverted = %v;\nvar searchcolor = \"%s\";\nvar nametype = \"%s\";\n%s\n]]>\n</script>\n",
			cfg.FontSize, cfg.FontWidth, cfg.XPad, cfg.Inverted, escapeJS(cfg.SearchColor), escapeJS(cfg.NameType), interactiveScript)
	}
}

func writeShellTail(w *bufio.Writer, cfg config.Config) {
	_ = cfg
	fmt.Fprint(w, "</svg>\n")
}

func writeRect(w *bufio.Writer, r Rect, root *tree.Node, cfg config.Config, scheme color.Scheme, maxDepth int) error {
	name := nodeName(r.Node)
	fillColor := fillFor(r, root, scheme, maxDepth)

	fmt.Fprint(w, "<g class=\"func_g\">\n")

	pct := 0.0
	if root.Total > 0 {
		pct = float64(r.Node.Total) / float64(root.Total) * 100
	}
	fmt.Fprintf(w, "<title>%s (%s %s, %.2f%%)</title>\n",
		escape(name), humanize.Comma(int64(r.Node.Total)), escape(cfg.CountName), pct)

	fmt.Fprintf(w, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" rx=\"2\" ry=\"2\"/>\n",
		r.X, r.Y, r.Width, r.Height, fillColor)

	fmt.Fprintf(w, "<text x=\"%.2f\" y=\"%.2f\"></text>\n", r.X+3, r.Y+r.Height-4)

	fmt.Fprint(w, "</g>\n")
	return nil
}

func nodeName(n *tree.Node) string {
	if n.Frame == nil {
		return "all"
	}
	return n.Frame.Name
}

func fillFor(r Rect, root *tree.Node, scheme color.Scheme, maxDepth int) string {
	if r.Node == root {
		return rootColor
	}
	name := nodeName(r.Node)
	if name == "--" || name == "-" {
		return neutralGrey
	}
	heat := float64(r.Depth) / float64(maxDepth)
	return scheme.Color(name, heat)
}

func escape(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '&':
			out = append(out, []rune("&amp;")...)
		case '<':
			out = append(out, []rune("&lt;")...)
		case '>':
			out = append(out, []rune("&gt;")...)
		case '"':
			out = append(out, []rune("&quot;")...)
		case '\'':
			out = append(out, []rune("&apos;")...)
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func escapeJS(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
