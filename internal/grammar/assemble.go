package grammar

import (
	"github.com/hiegraph/hiegraph/internal/resolve"
	"github.com/hiegraph/hiegraph/internal/types"
)

// Assemble extracts one Module from a raw dump. It resolves the dump's type
// table once, substitutes every node's raw type indices with the resolved
// symbol lists, and runs the module production over the rewritten forest.
// The second result is false when the module production does not match
// exactly once; no partial module is ever returned.
func Assemble(dump *types.ModuleDump) (*types.Module, bool) {
	resolved := resolve.Flatten(dump.Types)

	roots := make([]node, len(dump.Trees))
	for i, t := range dump.Trees {
		roots[i] = substitute(t, resolved)
	}
	return ParseModule(dump.Name, dump.Path, roots)
}

// substitute rewrites a raw tree into the grammar's working form, replacing
// each type index with its flattened symbol list. Out-of-range indices
// contribute nothing; the dump already failed to say anything about them.
func substitute(n *types.Node[types.TypeIndex], resolved [][]types.Key) node {
	out := &types.Node[[]types.Key]{
		Annotations: n.Annotations,
		Identifiers: n.Identifiers,
	}
	if len(n.Types) > 0 {
		out.Types = make([][]types.Key, 0, len(n.Types))
		for _, ix := range n.Types {
			if int(ix) >= 0 && int(ix) < len(resolved) {
				out.Types = append(out.Types, resolved[ix])
			}
		}
	}
	if len(n.Children) > 0 {
		out.Children = make([]node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = substitute(c, resolved)
		}
	}
	return out
}
