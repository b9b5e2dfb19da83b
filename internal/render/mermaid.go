package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hiegraph/hiegraph/internal/collapse"
)

type mermaidRenderer struct{}

// Render writes the graph as a Mermaid flowchart: one subgraph per module,
// declaration nodes inside it, use-edges as solid arrows and import edges as
// dotted arrows.
func (mermaidRenderer) Render(w io.Writer, g *collapse.Graph) error {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	order, byModule := groupByModule(g)
	single := make(map[string]bool)
	for _, mod := range order {
		nodes := byModule[mod]
		if len(nodes) == 1 && nodes[0].Kind == collapse.KindModule {
			// Collapsed module: a plain node, no subgraph around it.
			n := nodes[0]
			fmt.Fprintf(&b, "    %s[%s]\n", n.ID, mermaidLabel(n.Label))
			single[mod] = true
			continue
		}
		fmt.Fprintf(&b, "    subgraph %s\n", mermaidLabel(mod))
		for _, n := range nodes {
			fmt.Fprintf(&b, "        %s[%s]\n", n.ID, mermaidLabel(n.Label))
		}
		b.WriteString("    end\n")
	}

	known := make(map[string]bool)
	for _, n := range g.Nodes {
		known[n.ID] = true
	}
	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		switch e.Kind {
		case collapse.EdgeImport:
			fmt.Fprintf(&b, "    %s -.-> %s\n", e.From, e.To)
		default:
			fmt.Fprintf(&b, "    %s --> %s\n", e.From, e.To)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// mermaidLabel quotes a label when it contains characters Mermaid would
// otherwise parse as syntax.
func mermaidLabel(s string) string {
	if strings.ContainsAny(s, " .[]()<>-\"{}|") {
		return `"` + strings.ReplaceAll(s, `"`, "#quot;") + `"`
	}
	return s
}
