package types

// Module is the extraction result for one dump: the module's own identity,
// its imports in source order, and its recognized top-level declarations.
// A Module owns its declarations outright; nothing in it is shared with or
// outlives another module's parse.
type Module struct {
	Name    string
	Path    string
	Imports []string
	Decls   []TopLevelDecl
}

// DeclKind discriminates TopLevelDecl variants.
type DeclKind uint8

const (
	DeclData DeclKind = iota
	DeclValue
	DeclClass
)

// TopLevelDecl is one recognized top-level declaration. Only data types are
// produced in this revision; DeclValue and DeclClass are reserved for future
// grammar rows and never appear in output.
type TopLevelDecl struct {
	Kind DeclKind
	Data *DataType
}

// DataType is a data declaration with its constructors in source order.
type DataType struct {
	Key  Key
	Name string
	Cons []DataCon
}

// DataCon is one constructor of a data type.
type DataCon struct {
	Key  Key
	Name string
	Body DataConBody
}

// DataConBody is the constructor's payload: either named record fields or a
// flat use-list for positional ("naked") constructors.
type DataConBody struct {
	Record bool
	Fields []Field // Record form, source order
	Uses   Uses    // Naked form
}

// Field is a record field together with the symbols its type mentions.
type Field struct {
	Key  Key
	Name string
	Uses Uses
}

// Uses is an ordered list of symbol identities a declaration depends on.
// Duplicates are kept; order is the traversal order they were collected in.
type Uses []Key

// AllUses returns every symbol the constructor depends on, in order,
// regardless of body form.
func (c DataCon) AllUses() Uses {
	if !c.Body.Record {
		return c.Body.Uses
	}
	var out Uses
	for _, f := range c.Body.Fields {
		out = append(out, f.Uses...)
	}
	return out
}
