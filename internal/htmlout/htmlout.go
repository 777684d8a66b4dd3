// Package htmlout renders a minimal self-contained HTML document embedding
// the flame tree as JSON plus a third-party visualiser bundle (spec.md
// §4.8 "HTML path", §6). Per spec.md §1 this renderer is a collaborator
// and is not specified further: it only JSON-serialises the tree.
package htmlout

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/theSprog/FlameCrafter/internal/config"
	"github.com/theSprog/FlameCrafter/internal/errs"
	"github.com/theSprog/FlameCrafter/internal/tree"
)

//go:embed assets/*
var assets embed.FS

// jsonNode mirrors the {"name","value","children"} shape spec.md §6 and
// §4.8 mandate, where value is the node's total (inclusive) count.
type jsonNode struct {
	Name     string     `json:"name"`
	Value    uint64     `json:"value"`
	Children []jsonNode `json:"children,omitempty"`
}

func toJSONNode(n *tree.Node) jsonNode {
	name := "all"
	if n.Frame != nil {
		name = n.Frame.Name
	}
	jn := jsonNode{Name: name, Value: n.Total}

	keys := make([]string, 0, len(n.Children))
	for k := range n.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		jn.Children = append(jn.Children, toJSONNode(n.Children[k]))
	}
	return jn
}

// Write emits a self-contained HTML document embedding d3, d3-flamegraph,
// and the JSON tree for root.
func Write(w io.Writer, root *tree.Node, cfg config.Config) error {
	if root.Total == 0 {
		return errs.New(errs.PipelineEmpty, "htmlout: empty tree")
	}

	payload, err := json.Marshal(toJSONNode(root))
	if err != nil {
		return errs.Wrap(errs.Render, err, "marshal tree")
	}

	d3js, err := assets.ReadFile("assets/d3.min.js")
	if err != nil {
		return errs.Wrap(errs.Render, err, "read d3 asset")
	}
	fgjs, err := assets.ReadFile("assets/d3-flamegraph.min.js")
	if err != nil {
		return errs.Wrap(errs.Render, err, "read d3-flamegraph asset")
	}
	fgcss, err := assets.ReadFile("assets/d3-flamegraph.css")
	if err != nil {
		return errs.Wrap(errs.Render, err, "read d3-flamegraph css asset")
	}

	_, err = fmt.Fprintf(w, htmlTemplate, cfg.Title, fgcss, d3js, fgjs, payload)
	if err != nil {
		return errs.Wrap(errs.Render, err, "write html")
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>%s</style>
</head>
<body>
<div id="chart"></div>
<script>%s</script>
<script>%s</script>
<script>
var data = %s;
var chart = flamegraph().width(document.getElementById("chart").clientWidth || 1200);
d3.select("#chart").datum(data).call(chart);
</script>
</body>
</html>
`
