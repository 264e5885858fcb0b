package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/tree"
)

// schemaDecl mirrors one entry under the top-level "schema" struct in a
// CUE definition file:
//
//	schema: quote: {
//	    kind:     "block"
//	    linkable: true
//	    tag:      "q"
//	    children: ["text", "emphasis"]
//	    excerpt:  true
//	}
type schemaDecl struct {
	Kind     string   `json:"kind"`
	Linkable bool     `json:"linkable"`
	Tag      string   `json:"tag"`
	Children []string `json:"children"`
	Excerpt  bool     `json:"excerpt"`
}

// LoadSchemaDefs loads schema definitions from all CUE files in a directory
// and returns them as registry definitions, ordered by schema name.
// Declarations with excerpt: true get a storage creator that snapshots the
// node's text content.
func LoadSchemaDefs(dir string) ([]registry.Definition, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("schema directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing schema directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning schema directory: %w", err)
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	schemasVal := value.LookupPath(cue.ParsePath("schema"))
	if !schemasVal.Exists() {
		return nil, fmt.Errorf("no top-level schema struct in %s", dir)
	}
	iter, err := schemasVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterating schema declarations: %w", err)
	}

	decls := map[string]schemaDecl{}
	for iter.Next() {
		name := iter.Label()
		var decl schemaDecl
		if err := iter.Value().Decode(&decl); err != nil {
			return nil, fmt.Errorf("schema.%s: %w", name, err)
		}
		if err := checkSchemaDecl(name, decl, schemasVal); err != nil {
			return nil, err
		}
		decls[name] = decl
	}
	if len(decls) == 0 {
		return nil, fmt.Errorf("no schema declarations found in %s", dir)
	}

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]registry.Definition, 0, len(names))
	for _, name := range names {
		decl := decls[name]
		def := registry.Definition{
			Schema: tree.Schema{
				Name:         name,
				Kind:         tree.Kind(decl.Kind),
				Linkable:     decl.Linkable,
				ChildSchemas: decl.Children,
			},
			Tag: decl.Tag,
		}
		if decl.Excerpt {
			def.StorageCreator = excerptCreator
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// DefaultSchemaDefs returns the prose definitions used when no schema
// directory is given: linkable paragraph and section blocks plus an
// emphasis inline, with text excerpts stored for paragraphs.
func DefaultSchemaDefs() []registry.Definition {
	return []registry.Definition{
		{
			Schema:         tree.Schema{Name: "paragraph", Kind: tree.KindBlock, Linkable: true},
			StorageCreator: excerptCreator,
		},
		{
			Schema: tree.Schema{Name: "section", Kind: tree.KindBlock, Linkable: true},
		},
		{
			Schema: tree.Schema{
				Name:         "emphasis",
				Kind:         tree.KindInline,
				ChildSchemas: []string{tree.SchemaText, tree.SchemaInline},
			},
			Tag: "em",
		},
	}
}

// builtinInline reports whether name is one of the always-present inline
// schemas, which declarations may reference as children without redefining.
func builtinInline(name string) bool {
	return name == tree.SchemaText || name == tree.SchemaInline
}

func checkSchemaDecl(name string, decl schemaDecl, schemasVal cue.Value) error {
	switch tree.Kind(decl.Kind) {
	case tree.KindBlock, tree.KindInline:
	default:
		return fmt.Errorf("schema.%s: kind must be %q or %q, got %q",
			name, tree.KindBlock, tree.KindInline, decl.Kind)
	}
	for _, child := range decl.Children {
		if builtinInline(child) || child == tree.SchemaContainer {
			continue
		}
		if !schemasVal.LookupPath(cue.MakePath(cue.Str(child))).Exists() {
			return fmt.Errorf("schema.%s: unknown child schema %q", name, child)
		}
	}
	return nil
}

// excerptCreator derives a storage value from a resolved node by walking its
// subtree and concatenating text leaves.
func excerptCreator(_ context.Context, node *tree.ResolvedNode) (tree.Value, error) {
	var parts []string
	err := tree.Walk(node, func(n *tree.ResolvedNode) error {
		if n.SchemaName != tree.SchemaText {
			return nil
		}
		if text, ok := n.Data["text"].(tree.String); ok {
			parts = append(parts, string(text))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree.Map{
		"schema":  tree.String(node.SchemaName),
		"excerpt": tree.String(strings.Join(parts, "")),
	}, nil
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
