package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiegraph/hiegraph/internal/types"
)

// raw builds an unresolved tree node for Assemble tests.
type raw = types.Node[types.TypeIndex]

func nd(kids ...*raw) *raw { return &raw{Children: kids} }

func withAnn(n *raw, category, sub string) *raw {
	n.Annotations = append(n.Annotations, types.Annotation{Category: category, Subcategory: sub})
	return n
}

func withIdent(n *raw, e types.IdentifierEntry) *raw {
	n.Identifiers = append(n.Identifiers, e)
	return n
}

func withTypes(n *raw, ixs ...types.TypeIndex) *raw {
	n.Types = append(n.Types, ixs...)
	return n
}

func declEntry(ctx types.IdentContext, name, key string) types.IdentifierEntry {
	return types.IdentifierEntry{
		Ident:   types.Identifier{Name: name, Key: types.Key(key)},
		Details: types.IdentifierDetails{Contexts: []types.IdentContext{ctx}},
	}
}

func useEntry(name, key string) types.IdentifierEntry {
	return declEntry(types.ContextUse, name, key)
}

func importEntry(module string) types.IdentifierEntry {
	return types.IdentifierEntry{
		Ident:   types.Identifier{ModuleName: module},
		Details: types.IdentifierDetails{Contexts: []types.IdentContext{types.ContextImport}},
	}
}

func moduleRootNode(kids ...*raw) *raw {
	return withAnn(nd(kids...), "Module", "Module")
}

func importNode(module string) *raw {
	inner := withIdent(nd(), importEntry(module))
	return withAnn(nd(inner), "ImportDecl", "ImportDecl")
}

func assemble(t *testing.T, dump *types.ModuleDump) *types.Module {
	t.Helper()
	mod, ok := Assemble(dump)
	require.True(t, ok, "expected module to assemble")
	return mod
}

func TestImportRoundTrip(t *testing.T) {
	dump := &types.ModuleDump{
		Name:  "Main",
		Path:  "src/Main.hs",
		Trees: []*raw{moduleRootNode(importNode("Data.List"))},
	}

	mod := assemble(t, dump)
	assert.Equal(t, "Main", mod.Name)
	assert.Equal(t, "src/Main.hs", mod.Path)
	assert.Equal(t, []string{"Data.List"}, mod.Imports)
	assert.Empty(t, mod.Decls)
}

func TestDataTypeRoundTrip(t *testing.T) {
	// data Tree = Leaf | Node { val :: k }
	nameChild := withIdent(nd(), declEntry(types.ContextDataDecl, "Tree", "k:tree"))

	leafCon := nd(withIdent(nd(), declEntry(types.ContextConDecl, "Leaf", "k:leaf")))

	fieldName := withIdent(nd(), declEntry(types.ContextFieldDecl, "val", "k:val"))
	fieldNode := withTypes(nd(fieldName), 0)
	nodeCon := nd(
		withIdent(nd(), declEntry(types.ContextConDecl, "Node", "k:node")),
		nd(fieldNode),
	)

	dump := &types.ModuleDump{
		Name:  "Data.Tree",
		Trees: []*raw{moduleRootNode(nd(nameChild, leafCon, nodeCon))},
		Types: types.TypeTable{types.TypeRef{Key: "k"}},
	}

	mod := assemble(t, dump)
	require.Len(t, mod.Decls, 1)
	data := mod.Decls[0].Data
	require.NotNil(t, data)
	assert.Equal(t, types.DeclData, mod.Decls[0].Kind)
	assert.Equal(t, "Tree", data.Name)
	assert.Equal(t, types.Key("k:tree"), data.Key)

	require.Len(t, data.Cons, 2)

	leaf := data.Cons[0]
	assert.Equal(t, "Leaf", leaf.Name)
	assert.False(t, leaf.Body.Record)
	assert.Empty(t, leaf.Body.Uses)

	node := data.Cons[1]
	assert.Equal(t, "Node", node.Name)
	require.True(t, node.Body.Record)
	require.Len(t, node.Body.Fields, 1)
	field := node.Body.Fields[0]
	assert.Equal(t, "val", field.Name)
	assert.Equal(t, types.Key("k:val"), field.Key)
	assert.Equal(t, types.Uses{"k"}, field.Uses)
}

func TestModuleRootExactness(t *testing.T) {
	importChild := importNode("Data.List")

	t.Run("no module root fails", func(t *testing.T) {
		_, ok := Assemble(&types.ModuleDump{Name: "M", Trees: []*raw{nd(importChild)}})
		assert.False(t, ok)
	})

	t.Run("two module roots fail", func(t *testing.T) {
		dump := &types.ModuleDump{
			Name:  "M",
			Trees: []*raw{moduleRootNode(), moduleRootNode()},
		}
		_, ok := Assemble(dump)
		assert.False(t, ok)
	})

	t.Run("empty forest fails", func(t *testing.T) {
		_, ok := Assemble(&types.ModuleDump{Name: "M"})
		assert.False(t, ok)
	})
}

func TestDeclNameExactness(t *testing.T) {
	t.Run("two name children drop the declaration", func(t *testing.T) {
		data := nd(
			withIdent(nd(), declEntry(types.ContextDataDecl, "A", "k:a")),
			withIdent(nd(), declEntry(types.ContextDataDecl, "B", "k:b")),
		)
		mod := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(data)}})
		assert.Empty(t, mod.Decls)
	})

	t.Run("two occurrences in one child drop the declaration", func(t *testing.T) {
		nameChild := withIdent(
			withIdent(nd(), declEntry(types.ContextDataDecl, "A", "k:a")),
			declEntry(types.ContextDataDecl, "B", "k:b"),
		)
		mod := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(nd(nameChild))}})
		assert.Empty(t, mod.Decls)
	})

	t.Run("unresolved name occurrence does not count", func(t *testing.T) {
		nameChild := withIdent(nd(), declEntry(types.ContextDataDecl, "A", ""))
		mod := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(nd(nameChild))}})
		assert.Empty(t, mod.Decls)
	})
}

func TestImportExactness(t *testing.T) {
	t.Run("tagged child fails the import", func(t *testing.T) {
		inner := withAnn(withIdent(nd(), importEntry("Data.List")), "IEName", "IEName")
		imp := withAnn(nd(inner), "ImportDecl", "ImportDecl")
		mod := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(imp)}})
		assert.Empty(t, mod.Imports)
	})

	t.Run("two untagged children fail the import", func(t *testing.T) {
		imp := withAnn(nd(
			withIdent(nd(), importEntry("Data.List")),
			withIdent(nd(), importEntry("Data.Map")),
		), "ImportDecl", "ImportDecl")
		mod := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(imp)}})
		assert.Empty(t, mod.Imports)
	})

	t.Run("name entry instead of module entry fails", func(t *testing.T) {
		inner := withIdent(nd(), useEntry("foo", "k:foo"))
		imp := withAnn(nd(inner), "ImportDecl", "ImportDecl")
		mod := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(imp)}})
		assert.Empty(t, mod.Imports)
	})
}

func TestUnmatchedChildrenSilentlyDropped(t *testing.T) {
	// Nodes shaped like value or class declarations match no production in
	// this revision; they vanish without failing the module.
	valueShaped := withAnn(nd(), "FunBind", "HsBindLR")
	classShaped := withAnn(nd(), "ClassDecl", "TyClDecl")
	unknown := withAnn(nd(), "Mystery", "Whatever")

	mod := assemble(t, &types.ModuleDump{
		Name:  "M",
		Trees: []*raw{moduleRootNode(valueShaped, classShaped, unknown, importNode("Data.Char"))},
	})
	assert.Equal(t, []string{"Data.Char"}, mod.Imports)
	assert.Empty(t, mod.Decls)
}

func TestRecordBacktracksToNaked(t *testing.T) {
	// One good field plus one broken field: the record form must fail as a
	// whole and the constructor fall back to its flat use-list.
	goodField := nd(withIdent(nd(), declEntry(types.ContextFieldDecl, "val", "k:val")))
	brokenField := withIdent(nd(), useEntry("x", "k:x")) // no field-name child

	con := nd(
		withIdent(nd(), declEntry(types.ContextConDecl, "Node", "k:node")),
		nd(goodField, brokenField),
	)
	data := nd(withIdent(nd(), declEntry(types.ContextDataDecl, "Tree", "k:tree")), con)

	mod := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(data)}})
	require.Len(t, mod.Decls, 1)
	require.Len(t, mod.Decls[0].Data.Cons, 1)

	body := mod.Decls[0].Data.Cons[0].Body
	assert.False(t, body.Record, "record with broken field must not partially commit")
	assert.Empty(t, body.Fields)
	// The naked use-list spans the whole constructor subtree, so the broken
	// field's use still shows up.
	assert.Equal(t, types.Uses{"k:x"}, body.Uses)
}

func TestUses(t *testing.T) {
	resolvedNode := func(kids ...*types.Node[[]types.Key]) *types.Node[[]types.Key] {
		return &types.Node[[]types.Key]{Children: kids}
	}

	t.Run("types before identifiers, pre-order", func(t *testing.T) {
		child := resolvedNode()
		child.Identifiers = []types.IdentifierEntry{useEntry("e", "E")}

		root := resolvedNode(child)
		root.Types = [][]types.Key{{"A"}, {"B", "C"}}
		root.Identifiers = []types.IdentifierEntry{useEntry("d", "D")}

		assert.Equal(t, types.Uses{"A", "B", "C", "D", "E"}, Uses(root))
	})

	t.Run("bindings and unresolved names excluded", func(t *testing.T) {
		n := resolvedNode()
		n.Identifiers = []types.IdentifierEntry{
			declEntry(types.ContextBinding, "b", "K1"),
			useEntry("u", ""), // unresolved
			importEntry("Data.List"),
			useEntry("ok", "K2"),
		}
		assert.Equal(t, types.Uses{"K2"}, Uses(n))
	})

	t.Run("duplicates kept", func(t *testing.T) {
		n := resolvedNode()
		n.Identifiers = []types.IdentifierEntry{useEntry("a", "K"), useEntry("a", "K")}
		assert.Equal(t, types.Uses{"K", "K"}, Uses(n))
	})
}

func TestSiblingOrderDoesNotLeak(t *testing.T) {
	mkData := func(name, key, useKey string) *raw {
		con := nd(withIdent(withIdent(nd(),
			declEntry(types.ContextConDecl, name+"C", key+":c")),
			useEntry("u", useKey)))
		return nd(withIdent(nd(), declEntry(types.ContextDataDecl, name, key)), con)
	}

	a := mkData("A", "k:a", "k:use-a")
	b := mkData("B", "k:b", "k:use-b")

	usesOf := func(mod *types.Module, name string) types.Uses {
		for _, d := range mod.Decls {
			if d.Data.Name == name {
				return d.Data.Cons[0].Body.Uses
			}
		}
		t.Fatalf("decl %s not found", name)
		return nil
	}

	forward := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(a, b)}})

	// Rebuild so the trees are fresh, then reorder the siblings.
	a2 := mkData("A", "k:a", "k:use-a")
	b2 := mkData("B", "k:b", "k:use-b")
	reversed := assemble(t, &types.ModuleDump{Name: "M", Trees: []*raw{moduleRootNode(b2, a2)}})

	assert.Equal(t, usesOf(forward, "A"), usesOf(reversed, "A"))
	assert.Equal(t, usesOf(forward, "B"), usesOf(reversed, "B"))
	assert.Equal(t, types.Uses{"k:use-a"}, usesOf(forward, "A"))
}

func TestTypeSubstitution(t *testing.T) {
	// A constructor whose node carries type indices picks up the flattened
	// symbol lists, cycles truncated.
	con := withTypes(nd(withIdent(nd(), declEntry(types.ContextConDecl, "C", "k:c"))), 1, 2)
	data := nd(withIdent(nd(), declEntry(types.ContextDataDecl, "T", "k:t")), con)

	dump := &types.ModuleDump{
		Name:  "M",
		Trees: []*raw{moduleRootNode(data)},
		Types: types.TypeTable{
			types.TypeRef{Key: "X"},
			types.TypeApp{Args: []types.TypeIndex{0, 0}},
			types.TypeApp{Args: []types.TypeIndex{2}}, // self cycle
		},
	}

	mod := assemble(t, dump)
	require.Len(t, mod.Decls, 1)
	body := mod.Decls[0].Data.Cons[0].Body
	assert.False(t, body.Record)
	assert.Equal(t, types.Uses{"X", "X"}, body.Uses)
}
