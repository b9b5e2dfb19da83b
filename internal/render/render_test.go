package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiegraph/hiegraph/internal/collapse"
)

func declGraph() *collapse.Graph {
	return &collapse.Graph{
		Nodes: []collapse.Node{
			{ID: "m0_d0", Label: "User", Module: "App", Kind: collapse.KindDecl},
			{ID: "m0_d1", Label: "Session", Module: "App", Kind: collapse.KindDecl},
			{ID: "m1_d0", Label: "Addr", Module: "Lib.Types", Kind: collapse.KindDecl},
		},
		Edges: []collapse.Edge{
			{From: "m0_d0", To: "m1_d0", Kind: collapse.EdgeUse},
		},
	}
}

func collapsedGraph() *collapse.Graph {
	return &collapse.Graph{
		Nodes: []collapse.Node{
			{ID: "m0", Label: "App", Module: "App", Kind: collapse.KindModule},
			{ID: "m1", Label: "Lib.Types", Module: "Lib.Types", Kind: collapse.KindModule},
		},
		Edges: []collapse.Edge{
			{From: "m0", To: "m1", Kind: collapse.EdgeUse},
			{From: "m0", To: "m1", Kind: collapse.EdgeImport},
		},
	}
}

func renderString(t *testing.T, format Format, g *collapse.Graph) string {
	t.Helper()
	r, err := New(format)
	require.NoError(t, err)
	var b strings.Builder
	require.NoError(t, r.Render(&b, g))
	return b.String()
}

func TestNew(t *testing.T) {
	t.Run("defaults to mermaid", func(t *testing.T) {
		r, err := New("")
		require.NoError(t, err)
		assert.IsType(t, mermaidRenderer{}, r)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		_, err := New("svg")
		assert.Error(t, err)
	})
}

func TestMermaid(t *testing.T) {
	out := renderString(t, FormatMermaid, declGraph())

	assert.True(t, strings.HasPrefix(out, "flowchart LR\n"))
	assert.Contains(t, out, "subgraph App\n")
	assert.Contains(t, out, `subgraph "Lib.Types"`)
	assert.Contains(t, out, "m0_d0[User]")
	assert.Contains(t, out, "m0_d0 --> m1_d0")
	// Two subgraphs, two "end" markers.
	assert.Equal(t, 2, strings.Count(out, "    end\n"))
}

func TestMermaidCollapsed(t *testing.T) {
	out := renderString(t, FormatMermaid, collapsedGraph())

	assert.NotContains(t, out, "subgraph")
	assert.Contains(t, out, "m0[App]")
	assert.Contains(t, out, "m0 --> m1")
	assert.Contains(t, out, "m0 -.-> m1")
}

func TestMermaidSkipsDanglingEdges(t *testing.T) {
	g := declGraph()
	g.Edges = append(g.Edges, collapse.Edge{From: "m0_d0", To: "ghost"})
	out := renderString(t, FormatMermaid, g)
	assert.NotContains(t, out, "ghost")
}

func TestMermaidLabelQuoting(t *testing.T) {
	g := &collapse.Graph{
		Nodes: []collapse.Node{
			{ID: "n0", Label: `Tagged "quoted"`, Module: "M", Kind: collapse.KindDecl},
		},
	}
	out := renderString(t, FormatMermaid, g)
	assert.Contains(t, out, `n0["Tagged #quot;quoted#quot;"]`)
}

func TestDOT(t *testing.T) {
	out := renderString(t, FormatDOT, declGraph())

	assert.True(t, strings.HasPrefix(out, "digraph declarations {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "subgraph cluster_0 {")
	assert.Contains(t, out, `label="Lib.Types";`)
	assert.Contains(t, out, `m0_d0 [label="User"];`)
	assert.Contains(t, out, "m0_d0 -> m1_d0;")
}

func TestDOTCollapsed(t *testing.T) {
	out := renderString(t, FormatDOT, collapsedGraph())

	assert.NotContains(t, out, "cluster_")
	assert.Contains(t, out, "m0 -> m1;")
	assert.Contains(t, out, "m0 -> m1 [style=dashed];")
}

func TestDOTQuoting(t *testing.T) {
	assert.Equal(t, `"a\"b"`, dotQuote(`a"b`))
}

func TestEmptyGraph(t *testing.T) {
	for _, format := range Formats() {
		out := renderString(t, format, &collapse.Graph{})
		assert.NotEmpty(t, out, "format %s", format)
	}
}
