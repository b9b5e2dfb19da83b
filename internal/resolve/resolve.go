// Package resolve flattens a module's self-referential type table into
// direct symbol lists.
package resolve

import (
	"github.com/hiegraph/hiegraph/internal/types"
)

// Flatten maps every slot of the table to the ordered concatenation of
// symbol identities reachable by fully expanding structural references
// starting at that slot. Duplicates are kept and concatenation follows the
// left-to-right order of sub-indices.
//
// Each of the N slots is expanded from scratch with its own visited state;
// nothing is shared across starting indices. Known inefficiency, accepted
// for the table sizes dumps actually carry.
func Flatten(table types.TypeTable) [][]types.Key {
	out := make([][]types.Key, len(table))
	for i := range table {
		r := resolver{table: table, onPath: make([]bool, len(table))}
		out[i] = r.expand(types.TypeIndex(i))
	}
	return out
}

type resolver struct {
	table  types.TypeTable
	onPath []bool
}

// expand walks one slot depth-first. An index already on the active
// expansion path contributes an empty list, which truncates cycles without
// suppressing repeated sibling references.
func (r *resolver) expand(i types.TypeIndex) []types.Key {
	if i < 0 || int(i) >= len(r.table) || r.onPath[i] {
		return nil
	}
	switch t := r.table[i].(type) {
	case types.TypeRef:
		return []types.Key{t.Key}
	case types.TypeApp:
		r.onPath[i] = true
		var keys []types.Key
		for _, arg := range t.Args {
			keys = append(keys, r.expand(arg)...)
		}
		r.onPath[i] = false
		return keys
	default:
		return nil
	}
}
