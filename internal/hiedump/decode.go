// Package hiedump reads per-module interface dumps: JSON files carrying the
// annotated root forest and type table the compiler emitted for one module.
// This is the tree source the extraction core consumes; all I/O lives here,
// the core stays purely computational.
package hiedump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	hgerrors "github.com/hiegraph/hiegraph/internal/errors"
	"github.com/hiegraph/hiegraph/internal/types"
)

// Dump is a decoded interface dump plus bookkeeping about where it came
// from. Digest is an xxhash of the raw file content, used to detect changed
// dumps across watch-mode runs.
type Dump struct {
	Module *types.ModuleDump
	Path   string
	Digest uint64
}

// dumpJSON is the on-disk shape of one module dump.
type dumpJSON struct {
	Module struct {
		Name string `json:"name"`
		Path string `json:"path"`
	} `json:"module"`
	Types []typeJSON `json:"types"`
	Trees []nodeJSON `json:"trees"`
}

// typeJSON is one type-table slot: a symbol-reference leaf ("var") or a
// structural term ("node"). Exactly one of the two fields is set.
type typeJSON struct {
	Var  string `json:"var,omitempty"`
	Node []int  `json:"node,omitempty"`
}

type nodeJSON struct {
	Ann      [][2]string `json:"ann,omitempty"`
	Ids      []identJSON `json:"ids,omitempty"`
	Types    []int       `json:"types,omitempty"`
	Children []nodeJSON  `json:"children,omitempty"`
}

// identJSON is one identifier-table row. Module references set "module";
// names set "name" and, when the compiler resolved them, "key".
type identJSON struct {
	Module string   `json:"module,omitempty"`
	Name   string   `json:"name,omitempty"`
	Key    string   `json:"key,omitempty"`
	Ctx    []string `json:"ctx,omitempty"`
}

// Decode reads one module dump from r. Unknown annotation and context
// strings are kept as unrecognized rather than rejected; the dump vocabulary
// grows faster than this tool does.
func Decode(r io.Reader) (*types.ModuleDump, error) {
	var raw dumpJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Module.Name == "" {
		return nil, fmt.Errorf("dump has no module name")
	}

	dump := &types.ModuleDump{
		Name:  raw.Module.Name,
		Path:  raw.Module.Path,
		Types: make(types.TypeTable, len(raw.Types)),
		Trees: make([]*types.Node[types.TypeIndex], len(raw.Trees)),
	}
	for i, t := range raw.Types {
		dump.Types[i] = decodeType(t)
	}
	for i := range raw.Trees {
		dump.Trees[i] = decodeNode(&raw.Trees[i])
	}
	return dump, nil
}

func decodeType(t typeJSON) types.TypeTerm {
	if t.Var != "" {
		return types.TypeRef{Key: types.Key(t.Var)}
	}
	args := make([]types.TypeIndex, len(t.Node))
	for i, ix := range t.Node {
		args[i] = types.TypeIndex(ix)
	}
	return types.TypeApp{Args: args}
}

func decodeNode(n *nodeJSON) *types.Node[types.TypeIndex] {
	out := &types.Node[types.TypeIndex]{}
	for _, a := range n.Ann {
		out.Annotations = append(out.Annotations, types.Annotation{Category: a[0], Subcategory: a[1]})
	}
	for _, id := range n.Ids {
		out.Identifiers = append(out.Identifiers, decodeIdent(id))
	}
	for _, ix := range n.Types {
		out.Types = append(out.Types, types.TypeIndex(ix))
	}
	for i := range n.Children {
		out.Children = append(out.Children, decodeNode(&n.Children[i]))
	}
	return out
}

func decodeIdent(id identJSON) types.IdentifierEntry {
	entry := types.IdentifierEntry{
		Ident: types.Identifier{
			ModuleName: id.Module,
			Name:       id.Name,
			Key:        types.Key(id.Key),
		},
	}
	for _, c := range id.Ctx {
		entry.Details.Contexts = append(entry.Details.Contexts, decodeContext(c))
	}
	return entry
}

// decodeContext maps a dump context string onto the grammar vocabulary.
func decodeContext(s string) types.IdentContext {
	switch s {
	case "use":
		return types.ContextUse
	case "bind":
		return types.ContextBinding
	case "import":
		return types.ContextImport
	case "datadecl":
		return types.ContextDataDecl
	case "condecl":
		return types.ContextConDecl
	case "fielddecl":
		return types.ContextFieldDecl
	default:
		return types.ContextUnrecognized
	}
}

// Load reads and decodes the dump file at path.
func Load(path string) (*Dump, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, hgerrors.NewDumpError("read", path, err)
	}
	return LoadBytes(path, content)
}

// LoadBytes decodes an in-memory dump, attributing errors to path.
func LoadBytes(path string, content []byte) (*Dump, error) {
	mod, err := Decode(bytes.NewReader(content))
	if err != nil {
		return nil, hgerrors.NewDecodeError(path, err)
	}
	return &Dump{
		Module: mod,
		Path:   path,
		Digest: xxhash.Sum64(content),
	}, nil
}
