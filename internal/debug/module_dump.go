package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/hiegraph/hiegraph/internal/types"
)

// DumpOptions controls module dump formatting.
type DumpOptions struct {
	ShowKeys bool   // print symbol keys next to names
	Indent   string // defaults to two spaces
}

// DumpModule writes a module's extraction result as an indented tree. This
// is the diagnostics view of what the grammar recognized; rendering proper
// goes through the render package.
func DumpModule(w io.Writer, m *types.Module, opts DumpOptions) error {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	var b strings.Builder

	fmt.Fprintf(&b, "module %s", m.Name)
	if m.Path != "" {
		fmt.Fprintf(&b, " (%s)", m.Path)
	}
	b.WriteByte('\n')

	for _, imp := range m.Imports {
		fmt.Fprintf(&b, "%simport %s\n", opts.Indent, imp)
	}
	for _, decl := range m.Decls {
		dumpDecl(&b, decl, opts)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func dumpDecl(b *strings.Builder, decl types.TopLevelDecl, opts DumpOptions) {
	if decl.Data == nil {
		return
	}
	fmt.Fprintf(b, "%sdata %s%s\n", opts.Indent, decl.Data.Name, keySuffix(decl.Data.Key, opts))
	for _, con := range decl.Data.Cons {
		indent := opts.Indent + opts.Indent
		if con.Body.Record {
			fmt.Fprintf(b, "%scon %s%s (record)\n", indent, con.Name, keySuffix(con.Key, opts))
			for _, f := range con.Body.Fields {
				fmt.Fprintf(b, "%sfield %s%s uses %s\n",
					indent+opts.Indent, f.Name, keySuffix(f.Key, opts), usesList(f.Uses))
			}
		} else {
			fmt.Fprintf(b, "%scon %s%s uses %s\n",
				indent, con.Name, keySuffix(con.Key, opts), usesList(con.Body.Uses))
		}
	}
}

func keySuffix(k types.Key, opts DumpOptions) string {
	if !opts.ShowKeys {
		return ""
	}
	return fmt.Sprintf(" [%s]", k)
}

func usesList(uses types.Uses) string {
	if len(uses) == 0 {
		return "(none)"
	}
	parts := make([]string, len(uses))
	for i, k := range uses {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
