package tree

import "fmt"

// NormalizeChildren converts heterogeneous author input into a flat,
// ordered slice of owned child nodes.
//
// Rules, applied per input element in order:
//   - A raw node is deep-cloned and appended; the source is never aliased,
//     so mutating it later cannot affect the normalized output.
//   - An anchor reference yields a clone of the anchor's bound node with
//     its anchor name stripped and its slug set to the anchor name. A
//     reused anchor therefore still produces a human-traceable identifier
//     without violating anchor single-assignment.
//   - Anything else is coerced to its string form and becomes a text node,
//     except that consecutive text is merged into the preceding text node
//     by concatenation and re-fingerprinting.
//
// onChild, if non-nil, fires once per raw input element processed,
// including elements merged into a prior text node; it receives the node
// as it was immediately before merging.
//
// A nil input yields a nil slice (no children). Slice input is flattened;
// nested slices flatten recursively.
func NormalizeChildren(input any, onChild func(*RawNode)) ([]*RawNode, error) {
	if input == nil {
		return nil, nil
	}
	items := flattenChildren(input)
	var out []*RawNode
	for _, item := range items {
		if item == nil {
			continue
		}
		switch Classify(item) {
		case KindRawNode:
			src := item.(*RawNode)
			if src == nil {
				continue
			}
			child := src.Clone()
			if onChild != nil {
				onChild(child)
			}
			out = append(out, child)

		case KindAnchorRef:
			anchor := item.(*Anchor)
			if anchor == nil {
				continue
			}
			bound, ok := anchor.BoundNode()
			if !ok {
				return nil, NewInvalidArgument("cannot reference unbound anchor " + anchor.Name)
			}
			child := bound.Clone()
			child.AnchorName = ""
			child.Slug = anchor.Name
			if onChild != nil {
				onChild(child)
			}
			out = append(out, child)

		case KindResolvedNode:
			return nil, NewInvalidArgument("a resolved node cannot be used as a raw child")

		default:
			child := NewTextNode(stringify(item))
			if onChild != nil {
				onChild(child)
			}
			if prev := lastTextNode(out); prev != nil {
				prevContent, _ := TextContent(prev)
				newContent, _ := TextContent(child)
				setTextContent(prev, prevContent+newContent)
			} else {
				out = append(out, child)
			}
		}
	}
	return out, nil
}

// flattenChildren turns arbitrary author input into a flat []any.
// A single non-slice value becomes a one-element slice.
func flattenChildren(input any) []any {
	switch val := input.(type) {
	case []any:
		var out []any
		for _, elem := range val {
			out = append(out, flattenChildren(elem)...)
		}
		return out
	case []*RawNode:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	default:
		return []any{input}
	}
}

// lastTextNode returns the trailing element of nodes if it is a text node.
func lastTextNode(nodes []*RawNode) *RawNode {
	if len(nodes) == 0 {
		return nil
	}
	last := nodes[len(nodes)-1]
	if _, ok := TextContent(last); ok {
		return last
	}
	return nil
}

// stringify coerces a non-node child value to its string form.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case String:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
