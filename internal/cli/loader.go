package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pagefold/stele/internal/document"
	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/tree"
)

// DocumentFile is the YAML shape of a document on disk:
//
//	name: user-guide
//	anchors:
//	  - name: keyQuote
//	    tag: paragraph
//	tree:
//	  tag: container
//	  children:
//	    - tag: paragraph
//	      slug: intro
//	      anchor: keyQuote
//	      storage_key: p/intro
//	      children:
//	        - "Hello "
//	        - tag: emphasis
//	          children: ["world"]
type DocumentFile struct {
	Name    string       `yaml:"name"`
	Anchors []AnchorDecl `yaml:"anchors"`
	Tree    *NodeDecl    `yaml:"tree"`
}

// AnchorDecl declares a named anchor and the tag its eventual node must carry.
type AnchorDecl struct {
	Name string `yaml:"name"`
	Tag  string `yaml:"tag"`
}

// NodeDecl is one tag invocation in a document file.
type NodeDecl struct {
	Tag        string         `yaml:"tag"`
	Slug       string         `yaml:"slug"`
	Anchor     string         `yaml:"anchor"`
	StorageKey string         `yaml:"storage_key"`
	Data       map[string]any `yaml:"data"`
	Children   []ChildDecl    `yaml:"children"`
}

// ChildDecl is either a bare string (text content) or a nested node.
type ChildDecl struct {
	Text string
	Node *NodeDecl
}

func (c *ChildDecl) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&c.Text)
	case yaml.MappingNode:
		c.Node = &NodeDecl{}
		return value.Decode(c.Node)
	default:
		return fmt.Errorf("line %d: child must be a string or a node mapping", value.Line)
	}
}

// LoadDocument reads a YAML document file, declares its anchors, and builds
// its raw tree through the registry. The returned document has not been
// resolved yet.
func LoadDocument(path string, reg *registry.Registry) (*document.Document, *tree.RawNode, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading document file: %w", err)
	}
	var df DocumentFile
	if err := yaml.Unmarshal(raw, &df); err != nil {
		return nil, nil, fmt.Errorf("parsing document file: %w", err)
	}
	if df.Name == "" {
		return nil, nil, fmt.Errorf("%s: document name is required", path)
	}
	if df.Tree == nil {
		return nil, nil, fmt.Errorf("%s: document tree is required", path)
	}

	doc := document.New(reg, df.Name)
	for _, decl := range df.Anchors {
		if _, err := doc.DeclareAnchor(decl.Name, decl.Tag); err != nil {
			return nil, nil, fmt.Errorf("anchor %q: %w", decl.Name, err)
		}
	}

	root, err := buildNode(reg, doc, df.Tree)
	if err != nil {
		return nil, nil, err
	}
	return doc, root, nil
}

func buildNode(reg *registry.Registry, doc *document.Document, decl *NodeDecl) (*tree.RawNode, error) {
	if decl.Tag == "" {
		return nil, fmt.Errorf("node is missing a tag")
	}

	children := make([]any, 0, len(decl.Children))
	for _, child := range decl.Children {
		if child.Node != nil {
			built, err := buildNode(reg, doc, child.Node)
			if err != nil {
				return nil, err
			}
			children = append(children, built)
			continue
		}
		children = append(children, child.Text)
	}

	args := registry.Args{
		Slug:       decl.Slug,
		StorageKey: decl.StorageKey,
		Children:   children,
	}
	if len(decl.Data) > 0 {
		v, err := tree.ToValue(decl.Data)
		if err != nil {
			return nil, fmt.Errorf("tag %q data: %w", decl.Tag, err)
		}
		m, ok := v.(tree.Map)
		if !ok {
			return nil, fmt.Errorf("tag %q data: expected a mapping", decl.Tag)
		}
		args.Data = m
	}
	if decl.Anchor != "" {
		anchor, err := doc.Anchor(decl.Anchor)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", decl.Tag, err)
		}
		args.Anchor = anchor
	}

	node, err := reg.Build(decl.Tag, args)
	if err != nil {
		return nil, fmt.Errorf("tag %q: %w", decl.Tag, err)
	}
	return node, nil
}
