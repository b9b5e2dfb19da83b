// Package grammar recognizes modules, imports, and data declarations in the
// annotated trees of an interface dump. The productions are built on the
// treeparse combinators: every structural requirement is an exact-match rule,
// so a construct is either extracted whole or dropped whole — there are no
// partial declarations and no diagnostics.
package grammar

import (
	"github.com/hiegraph/hiegraph/internal/treeparse"
	"github.com/hiegraph/hiegraph/internal/types"
)

// node is the grammar's working context: a tree node whose type annotations
// the assembler has already resolved to symbol lists.
type node = *types.Node[[]types.Key]

// namedEntity is a key/name pair pulled out of an identifier occurrence.
type namedEntity struct {
	key  types.Key
	name string
}

func children(n node) []node { return n.Children }

func identifiers(n node) []types.IdentifierEntry { return n.Identifiers }

// declName matches a node carrying exactly one resolved name occurrence
// recorded with the given declaration context. Zero or multiple occurrences
// invalidate the match; the enclosing production fails with it.
func declName(ctx types.IdentContext) treeparse.Parser[node, namedEntity] {
	return treeparse.One(identifiers, func(e types.IdentifierEntry) (namedEntity, bool) {
		if e.Ident.IsModule() || e.Ident.Key == "" || !e.Details.Has(ctx) {
			return namedEntity{}, false
		}
		return namedEntity{key: e.Ident.Key, name: e.Ident.Name}, true
	})
}

// ParseModule runs the module production over a root forest. It requires
// exactly one module-root node; each of that node's children is tried as an
// import first, then as a top-level declaration, and children matching
// neither are dropped without comment.
func ParseModule(name, path string, roots []node) (*types.Module, bool) {
	forest := func(ns []node) []node { return ns }

	body, ok := treeparse.One(forest, moduleRoot)(roots)
	if !ok {
		return nil, false
	}
	return &types.Module{
		Name:    name,
		Path:    path,
		Imports: body.imports,
		Decls:   body.decls,
	}, true
}

type moduleBody struct {
	imports []string
	decls   []types.TopLevelDecl
}

func moduleRoot(n node) (moduleBody, bool) {
	if !n.Is(types.NodeModuleRoot) {
		return moduleBody{}, false
	}
	var body moduleBody
	for _, child := range n.Children {
		if imp, ok := parseImport(child); ok {
			body.imports = append(body.imports, imp)
			continue
		}
		if decl, ok := parseDecl(child); ok {
			body.decls = append(body.decls, decl)
		}
	}
	return body, true
}

// parseImport matches an import declaration: an import-tagged node with
// exactly one untagged child whose identifier table holds exactly one
// resolved module reference recorded in import context. Anything else fails
// the import as a whole.
func parseImport(n node) (string, bool) {
	if !n.Is(types.NodeImportDecl) {
		return "", false
	}
	importedModule := treeparse.One(identifiers, func(e types.IdentifierEntry) (string, bool) {
		if !e.Ident.IsModule() || !e.Details.Has(types.ContextImport) {
			return "", false
		}
		return e.Ident.ModuleName, true
	})
	untagged := func(ns []node) []node {
		var out []node
		for _, c := range ns {
			if c.Untagged() {
				out = append(out, c)
			}
		}
		return out
	}
	return treeparse.One(untagged, importedModule)(n.Children)
}

// parseDecl is the ordered alternation over top-level declaration forms.
// Value and class rows are unimplemented placeholders kept as extension
// points; nodes shaped like them fall through and get dropped upstream.
var parseDecl = treeparse.Choice(parseDataType, parseValue, parseClass)

func parseValue(node) (types.TopLevelDecl, bool) {
	return types.TopLevelDecl{}, false
}

func parseClass(node) (types.TopLevelDecl, bool) {
	return types.TopLevelDecl{}, false
}

// parseDataType matches a data declaration: exactly one child names the
// type, and every child of the declaration node is tried as a constructor.
// Zero constructors are fine.
func parseDataType(n node) (types.TopLevelDecl, bool) {
	name, ok := treeparse.One(children, declName(types.ContextDataDecl))(n)
	if !ok {
		return types.TopLevelDecl{}, false
	}
	cons, _ := treeparse.Many(children, parseCon)(n)

	dt := &types.DataType{Key: name.key, Name: name.name, Cons: cons}
	return types.TopLevelDecl{Kind: types.DeclData, Data: dt}, true
}

// parseCon matches one constructor: exactly one child names it, then the
// body is read as a record form or, only when the record form fails as a
// whole, as the constructor's flat use-list. The record attempt commits
// nothing: a record shape with a broken field backtracks fully to naked.
func parseCon(n node) (types.DataCon, bool) {
	name, ok := treeparse.One(children, declName(types.ContextConDecl))(n)
	if !ok {
		return types.DataCon{}, false
	}
	body, ok := treeparse.Choice(parseRecord, parseNaked)(n)
	if !ok {
		return types.DataCon{}, false
	}
	return types.DataCon{Key: name.key, Name: name.name, Body: body}, true
}

// parseRecord matches a record body: exactly one child of the constructor
// holds the field list, every entry of that list must be a well-formed
// field, and the list must be non-empty. A record shape with one broken
// field fails here in full, so the constructor backtracks to its naked
// form instead of committing a partial record.
func parseRecord(n node) (types.DataConBody, bool) {
	fieldList := func(c node) ([]types.Field, bool) {
		fields, ok := treeparse.All(children, parseField)(c)
		if !ok || len(fields) == 0 {
			return nil, false
		}
		return fields, true
	}
	fields, ok := treeparse.One(children, fieldList)(n)
	if !ok {
		return types.DataConBody{}, false
	}
	return types.DataConBody{Record: true, Fields: fields}, true
}

// parseField matches a single record field: exactly one child names it, and
// the field's whole subtree supplies its use-list.
func parseField(n node) (types.Field, bool) {
	name, ok := treeparse.One(children, declName(types.ContextFieldDecl))(n)
	if !ok {
		return types.Field{}, false
	}
	return types.Field{Key: name.key, Name: name.name, Uses: Uses(n)}, true
}

func parseNaked(n node) (types.DataConBody, bool) {
	return types.DataConBody{Uses: Uses(n)}, true
}

// Uses collects every symbol the subtree rooted at n depends on, in
// pre-order: at each node first the node's resolved type annotations, then
// its identifier occurrences recorded in use context. Nothing is
// deduplicated; downstream shaping decides what repetition means.
func Uses(n node) types.Uses {
	var out types.Uses
	var walk func(node)
	walk = func(m node) {
		for _, syms := range m.Types {
			out = append(out, syms...)
		}
		for _, e := range m.Identifiers {
			if !e.Ident.IsModule() && e.Ident.Key != "" && e.Details.Has(types.ContextUse) {
				out = append(out, e.Ident.Key)
			}
		}
		for _, c := range m.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}
