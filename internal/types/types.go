// Package types defines the shared data model for hiegraph: the annotated
// syntax trees and type tables supplied by interface dumps, and the Module
// values the extraction grammar produces from them.
package types

// Key is the process-unique identity of a named entity. Keys are assigned by
// the compiler that produced the dump and are carried through verbatim; the
// extractor only compares them, it never constructs new ones.
type Key string

// TypeIndex addresses a slot in a module's TypeTable.
type TypeIndex int

// Annotation is a (category, subcategory) tag describing the syntactic role
// of a tree node. The vocabulary is open on the dump side; the grammar only
// matches the handful of tags classified below.
type Annotation struct {
	Category    string
	Subcategory string
}

// NodeClass is the closed classification of node annotations the grammar
// cares about. Unknown tags map to NodeUnrecognized so matching stays total
// without misreading them.
type NodeClass uint8

const (
	NodeUnrecognized NodeClass = iota
	NodeModuleRoot
	NodeImportDecl
)

// Classify maps an annotation onto the grammar's node vocabulary.
func Classify(a Annotation) NodeClass {
	switch a.Category {
	case "Module":
		return NodeModuleRoot
	case "ImportDecl":
		return NodeImportDecl
	default:
		return NodeUnrecognized
	}
}

// IdentContext describes how an identifier occurrence is used at a node:
// bound, declared, referenced, or mentioned by an import.
type IdentContext uint8

const (
	ContextUnrecognized IdentContext = iota
	ContextUse
	ContextBinding
	ContextImport
	ContextDataDecl  // occurrence declares a data type name
	ContextConDecl   // occurrence declares a constructor name
	ContextFieldDecl // occurrence declares a record field name
)

// Identifier is a resolved-or-unresolved reference carried in a node's
// identifier table. It is either a module reference (ModuleName non-empty)
// or a name; a name with an empty Key is unresolved.
type Identifier struct {
	ModuleName string
	Name       string
	Key        Key
}

// IsModule reports whether the identifier refers to a module rather than a
// named entity.
func (i Identifier) IsModule() bool { return i.ModuleName != "" }

// Resolved reports whether the identifier carries an identity.
func (i Identifier) Resolved() bool { return i.IsModule() || i.Key != "" }

// IdentifierDetails holds the usage contexts recorded for one occurrence.
type IdentifierDetails struct {
	Contexts []IdentContext
}

// Has reports whether ctx is among the occurrence's usage contexts.
func (d IdentifierDetails) Has(ctx IdentContext) bool {
	for _, c := range d.Contexts {
		if c == ctx {
			return true
		}
	}
	return false
}

// IdentifierEntry is one row of a node's identifier table. Entries keep the
// order the dump listed them in; use-list extraction depends on it.
type IdentifierEntry struct {
	Ident   Identifier
	Details IdentifierDetails
}

// Node is one annotated tree node. The type parameter is the node's type
// annotation payload: TypeIndex straight out of a dump, []Key once the
// assembler has substituted resolved symbol lists.
type Node[T any] struct {
	Annotations []Annotation
	Identifiers []IdentifierEntry
	Types       []T
	Children    []*Node[T]
}

// Is reports whether any of the node's annotations classifies as class.
func (n *Node[T]) Is(class NodeClass) bool {
	for _, a := range n.Annotations {
		if Classify(a) == class {
			return true
		}
	}
	return false
}

// Untagged reports whether the node carries no annotations at all.
func (n *Node[T]) Untagged() bool { return len(n.Annotations) == 0 }

// TypeTerm is one slot of a type table: either a direct symbol reference or
// a structural term pointing at further slots. Tables may be cyclic.
type TypeTerm interface {
	isTypeTerm()
}

// TypeRef is a symbol-reference leaf.
type TypeRef struct {
	Key Key
}

// TypeApp is a structural term holding an ordered list of sub-indices into
// the same table. Self-references are permitted.
type TypeApp struct {
	Args []TypeIndex
}

func (TypeRef) isTypeTerm() {}
func (TypeApp) isTypeTerm() {}

// TypeTable is a module's indexed array of type terms.
type TypeTable []TypeTerm

// ModuleDump is the per-module contract with the tree source: a root forest
// of raw nodes plus the type table their indices point into.
type ModuleDump struct {
	Name  string
	Path  string
	Trees []*Node[TypeIndex]
	Types TypeTable
}
