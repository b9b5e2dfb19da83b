// Package render writes shaped graphs out as diagram text. Two formats are
// supported: Mermaid flowcharts and Graphviz DOT, both grouping declaration
// nodes into per-module containers.
package render

import (
	"fmt"
	"io"

	"github.com/hiegraph/hiegraph/internal/collapse"
)

// Format names a supported output format.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
)

// Renderer writes a shaped graph to w.
type Renderer interface {
	Render(w io.Writer, g *collapse.Graph) error
}

// New returns the renderer for format.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatMermaid, "":
		return mermaidRenderer{}, nil
	case FormatDOT:
		return dotRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Formats lists the supported format names.
func Formats() []Format {
	return []Format{FormatMermaid, FormatDOT}
}

// groupByModule partitions nodes by module, preserving node order inside a
// module and first-seen order of modules.
func groupByModule(g *collapse.Graph) (order []string, byModule map[string][]collapse.Node) {
	byModule = make(map[string][]collapse.Node)
	for _, n := range g.Nodes {
		if _, seen := byModule[n.Module]; !seen {
			order = append(order, n.Module)
		}
		byModule[n.Module] = append(byModule[n.Module], n)
	}
	return order, byModule
}
