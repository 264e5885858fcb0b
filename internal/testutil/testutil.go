// Package testutil provides shared fixtures for content model tests:
// a small prose schema set and panicking builders for known-good input.
package testutil

import (
	"context"

	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/tree"
)

// ProseDefs returns the schema set used throughout the tests: a linkable
// block paragraph, a linkable block section, and an inline emphasis span.
// The paragraph declares a storage creator that captures the node's
// concatenated text.
func ProseDefs() []registry.Definition {
	return []registry.Definition{
		{
			Schema:         tree.Schema{Name: "paragraph", Kind: tree.KindBlock, Linkable: true},
			StorageCreator: TextExcerptCreator,
		},
		{
			Schema: tree.Schema{Name: "section", Kind: tree.KindBlock, Linkable: true},
		},
		{
			Schema: tree.Schema{
				Name:         "emphasis",
				Kind:         tree.KindInline,
				ChildSchemas: []string{tree.SchemaText, "emphasis"},
			},
		},
	}
}

// MustRegistry creates a registry seeded with ProseDefs plus any extra
// definitions. Panics on registration failure; use only with known-good
// definitions.
func MustRegistry(extra ...registry.Definition) *registry.Registry {
	reg := registry.New()
	if err := reg.AddMany(ProseDefs()); err != nil {
		panic(err)
	}
	if err := reg.AddMany(extra); err != nil {
		panic(err)
	}
	return reg
}

// MustBuild constructs a raw node through the registry, panicking on
// failure. Use only with known-good input.
func MustBuild(reg *registry.Registry, tag string, args registry.Args) *tree.RawNode {
	n, err := reg.Build(tag, args)
	if err != nil {
		panic(err)
	}
	return n
}

// TextExcerptCreator is a storage creator that collects the concatenated
// text content beneath a resolved node.
func TextExcerptCreator(_ context.Context, n *tree.ResolvedNode) (tree.Value, error) {
	var excerpt string
	err := tree.Walk(n, func(c *tree.ResolvedNode) error {
		if c.SchemaName == tree.SchemaText {
			if s, ok := c.Data["text"].(tree.String); ok {
				excerpt += string(s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree.Map{
		"schema":  tree.String(n.SchemaName),
		"excerpt": tree.String(excerpt),
	}, nil
}
