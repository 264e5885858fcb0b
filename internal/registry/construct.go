package registry

import (
	"fmt"
	"strings"

	"github.com/pagefold/stele/internal/tree"
)

// Args carries everything an author may pass to a tag invocation.
type Args struct {
	// Data is the schema-defined payload.
	Data tree.Map

	// Slug is an optional human label used as the preferred identifier
	// source during resolution.
	Slug string

	// StorageKey marks the node for side-table population.
	StorageKey string

	// Anchor, if non-nil, attaches the constructed node to a named anchor
	// via its single-use bind.
	Anchor *tree.Anchor

	// Children is heterogeneous author input: nodes, anchor references,
	// strings, stringifiable values, or slices of those.
	Children any

	// OnChild, if non-nil, is forwarded to the children normalizer and
	// fires once per raw child element processed.
	OnChild func(*tree.RawNode)
}

// Build constructs a raw node through the tag registered under tag.
// Children are normalized into owned clones, the content fingerprint is
// computed, structural child checks run against the registry, and the
// node is bound to the given anchor if one was supplied.
func (r *Registry) Build(tag string, args Args) (*tree.RawNode, error) {
	schema, err := r.Tag(tag)
	if err != nil {
		return nil, err
	}

	// The plain-text leaf takes no structured children: its input is
	// coerced to a single string.
	if schema.Name == tree.SchemaText {
		return tree.NewTextNode(textFromArgs(args)), nil
	}

	children, err := tree.NormalizeChildren(args.Children, args.OnChild)
	if err != nil {
		return nil, err
	}
	if err := r.checkChildren(schema, children); err != nil {
		return nil, err
	}

	var data tree.Map
	if args.Data != nil {
		data = tree.Clone(args.Data).(tree.Map)
	}
	fp, err := tree.ComputeFingerprint(schema.Name, data, children)
	if err != nil {
		return nil, err
	}

	node := &tree.RawNode{
		SchemaName:  schema.Name,
		TagName:     tag,
		Fingerprint: fp,
		Data:        data,
		StorageKey:  args.StorageKey,
		Children:    children,
		Slug:        args.Slug,
	}
	if args.Anchor != nil {
		if err := args.Anchor.TryBind(node); err != nil {
			return nil, err
		}
		node.AnchorName = args.Anchor.Name
	}
	return node, nil
}

// checkChildren enforces the structural child constraints declared by the
// parent schema: an explicit ChildSchemas allow-list, and the rule that an
// inline container may only hold inline-kind children.
func (r *Registry) checkChildren(parent tree.Schema, children []*tree.RawNode) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		child, err := r.Schema(c.SchemaName)
		if err != nil {
			return err
		}
		if parent.Kind == tree.KindInline && child.Kind != tree.KindInline {
			return tree.NewInvalidArgument(fmt.Sprintf(
				"inline schema %s cannot contain block child %s", parent.Name, child.Name))
		}
		if len(parent.ChildSchemas) > 0 && !contains(parent.ChildSchemas, child.Name) {
			return tree.NewInvalidArgument(fmt.Sprintf(
				"schema %s does not allow child schema %s", parent.Name, child.Name))
		}
	}
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// textFromArgs coerces text-tag input to a single string. Slices
// concatenate in order.
func textFromArgs(args Args) string {
	switch val := args.Children.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, "")
	case []any:
		var b strings.Builder
		for _, elem := range val {
			fmt.Fprint(&b, elem)
		}
		return b.String()
	default:
		return fmt.Sprint(val)
	}
}
