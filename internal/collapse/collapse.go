// Package collapse shapes extracted modules into a renderable graph. It owns
// the post-extraction phases: indexing declaration keys across modules,
// deriving use-edges, filtering modules, focusing, and optionally collapsing
// declarations into module-level nodes.
package collapse

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hbollon/go-edlib"

	"github.com/hiegraph/hiegraph/internal/types"
)

// Options control graph shaping. The zero value keeps everything and draws
// declaration-level nodes.
type Options struct {
	Exclude        []string // module-name glob patterns to drop
	Focus          string   // keep only this module and its direct neighbors
	CollapseModule bool     // one node per module instead of per declaration
	ImportEdges    bool     // draw module import edges
}

// NodeKind discriminates graph nodes.
type NodeKind uint8

const (
	KindDecl NodeKind = iota
	KindModule
)

// Node is one renderable graph node.
type Node struct {
	ID     string
	Label  string
	Module string
	Kind   NodeKind
}

// EdgeKind discriminates graph edges.
type EdgeKind uint8

const (
	EdgeUse EdgeKind = iota
	EdgeImport
)

// Edge is a directed edge between node IDs.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Graph is the shaped output consumed by the renderers.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// ModulesOf lists the distinct module names present in the graph, sorted.
func (g *Graph) ModulesOf() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, n := range g.Nodes {
		if _, dup := seen[n.Module]; !dup {
			seen[n.Module] = struct{}{}
			out = append(out, n.Module)
		}
	}
	sort.Strings(out)
	return out
}

// declOwner records which declaration a key belongs to. Constructor and
// field keys attribute to their enclosing data type, so a use of either
// draws an edge to the type's node.
type declOwner struct {
	module string
	nodeID string
}

// Shape builds the graph for the given modules. Modules are processed in
// name order so output is deterministic regardless of discovery order.
func Shape(modules []*types.Module, opts Options) (*Graph, error) {
	mods := make([]*types.Module, len(modules))
	copy(mods, modules)
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })

	kept := mods[:0]
	for _, m := range mods {
		excluded, err := matchesAny(m.Name, opts.Exclude)
		if err != nil {
			return nil, err
		}
		if !excluded {
			kept = append(kept, m)
		}
	}

	if opts.Focus != "" {
		if err := checkFocus(opts.Focus, kept); err != nil {
			return nil, err
		}
	}

	g := &Graph{}
	owners := make(map[types.Key]declOwner)
	moduleID := make(map[string]string)

	for mi, m := range kept {
		mid := fmt.Sprintf("m%d", mi)
		moduleID[m.Name] = mid
		if opts.CollapseModule {
			g.Nodes = append(g.Nodes, Node{ID: mid, Label: m.Name, Module: m.Name, Kind: KindModule})
		}
		for di, decl := range m.Decls {
			if decl.Data == nil {
				continue
			}
			id := fmt.Sprintf("m%d_d%d", mi, di)
			if opts.CollapseModule {
				id = mid
			} else {
				g.Nodes = append(g.Nodes, Node{ID: id, Label: decl.Data.Name, Module: m.Name, Kind: KindDecl})
			}
			owner := declOwner{module: m.Name, nodeID: id}
			owners[decl.Data.Key] = owner
			for _, con := range decl.Data.Cons {
				owners[con.Key] = owner
				for _, f := range con.Body.Fields {
					owners[f.Key] = owner
				}
			}
		}
	}

	edgeSeen := make(map[Edge]struct{})
	addEdge := func(e Edge) {
		if e.From == e.To {
			return
		}
		if _, dup := edgeSeen[e]; dup {
			return
		}
		edgeSeen[e] = struct{}{}
		g.Edges = append(g.Edges, e)
	}

	for _, m := range kept {
		for _, decl := range m.Decls {
			if decl.Data == nil {
				continue
			}
			from, ok := owners[decl.Data.Key]
			if !ok {
				continue
			}
			for _, con := range decl.Data.Cons {
				for _, key := range con.AllUses() {
					// Keys owned by no kept declaration are externals; edges
					// into them are pruned rather than drawn dangling.
					to, known := owners[key]
					if !known {
						continue
					}
					addEdge(Edge{From: from.nodeID, To: to.nodeID, Kind: EdgeUse})
				}
			}
		}
	}

	if opts.ImportEdges {
		for _, m := range kept {
			from, ok := moduleID[m.Name]
			if !ok {
				continue
			}
			for _, imp := range m.Imports {
				if to, known := moduleID[imp]; known {
					addEdge(Edge{From: from, To: to, Kind: EdgeImport})
				}
			}
		}
	}

	if opts.Focus != "" {
		focusNeighborhood(g, opts.Focus)
	}
	return g, nil
}

// matchesAny reports whether name matches any of the glob patterns.
func matchesAny(name string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("bad exclude pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// checkFocus verifies the focus module exists, suggesting the closest match
// when it does not.
func checkFocus(focus string, modules []*types.Module) error {
	names := make([]string, len(modules))
	for i, m := range modules {
		if m.Name == focus {
			return nil
		}
		names[i] = m.Name
	}
	if suggestion := closestName(focus, names); suggestion != "" {
		return fmt.Errorf("unknown module %q (did you mean %q?)", focus, suggestion)
	}
	return fmt.Errorf("unknown module %q", focus)
}

// closestName returns the most similar candidate by Jaro-Winkler, or ""
// when nothing is close enough to be a plausible typo.
func closestName(name string, candidates []string) string {
	const threshold = 0.75
	best, bestScore := "", float32(0)
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(name, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < threshold {
		return ""
	}
	return best
}

// focusNeighborhood trims the graph to the focus module's nodes plus any
// node sharing an edge with them.
func focusNeighborhood(g *Graph, focus string) {
	focused := make(map[string]struct{})
	for _, n := range g.Nodes {
		if n.Module == focus {
			focused[n.ID] = struct{}{}
		}
	}
	keep := make(map[string]struct{}, len(focused))
	for id := range focused {
		keep[id] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := focused[e.From]; ok {
			keep[e.To] = struct{}{}
		}
		if _, ok := focused[e.To]; ok {
			keep[e.From] = struct{}{}
		}
	}

	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if _, ok := keep[n.ID]; ok {
			nodes = append(nodes, n)
		}
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if _, ok := keep[e.From]; !ok {
			continue
		}
		if _, ok := keep[e.To]; !ok {
			continue
		}
		edges = append(edges, e)
	}
	g.Edges = edges
}
