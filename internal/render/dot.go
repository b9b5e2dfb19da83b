package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hiegraph/hiegraph/internal/collapse"
)

type dotRenderer struct{}

// Render writes the graph in Graphviz DOT, clustering declaration nodes by
// module. Import edges are drawn dashed between module representatives.
func (dotRenderer) Render(w io.Writer, g *collapse.Graph) error {
	var b strings.Builder
	b.WriteString("digraph declarations {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    node [shape=box];\n")

	order, byModule := groupByModule(g)
	for i, mod := range order {
		nodes := byModule[mod]
		if len(nodes) == 1 && nodes[0].Kind == collapse.KindModule {
			n := nodes[0]
			fmt.Fprintf(&b, "    %s [label=%s];\n", n.ID, dotQuote(n.Label))
			continue
		}
		fmt.Fprintf(&b, "    subgraph cluster_%d {\n", i)
		fmt.Fprintf(&b, "        label=%s;\n", dotQuote(mod))
		for _, n := range nodes {
			fmt.Fprintf(&b, "        %s [label=%s];\n", n.ID, dotQuote(n.Label))
		}
		b.WriteString("    }\n")
	}

	known := make(map[string]bool)
	for _, n := range g.Nodes {
		known[n.ID] = true
	}
	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		if e.Kind == collapse.EdgeImport {
			fmt.Fprintf(&b, "    %s -> %s [style=dashed];\n", e.From, e.To)
		} else {
			fmt.Fprintf(&b, "    %s -> %s;\n", e.From, e.To)
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
