package tree

// Kind classifies a schema as block-level or inline-level content.
type Kind string

const (
	KindBlock  Kind = "block"
	KindInline Kind = "inline"
)

// Schema is the structural type descriptor for a class of nodes.
type Schema struct {
	// Name uniquely identifies the schema within a registry.
	Name string `json:"name"`

	// Kind is block or inline.
	Kind Kind `json:"kind"`

	// Linkable marks schemas whose resolved nodes receive an identifier.
	Linkable bool `json:"linkable"`

	// ChildSchemas optionally restricts which schemas may appear as
	// children. An inline schema's declared children must all be inline;
	// that constraint is enforced at definition-load time, not here.
	ChildSchemas []string `json:"child_schemas,omitempty"`
}

// RawNode is an ephemeral, tree-local node produced by a tag constructor
// and consumed by resolution. Raw nodes are values: construction always
// deep-clones incoming children, so a node placed into two trees never
// shares mutable state between them.
type RawNode struct {
	SchemaName  string     `json:"schema_name"`
	TagName     string     `json:"tag_name"`
	Fingerprint string     `json:"fingerprint"`
	Data        Map        `json:"data,omitempty"`
	StorageKey  string     `json:"storage_key,omitempty"`
	Children    []*RawNode `json:"children,omitempty"`

	// Slug is an optional author-supplied human label used as the
	// preferred identifier source.
	Slug string `json:"slug,omitempty"`

	// AnchorName is set when the node is attached to a named anchor.
	AnchorName string `json:"anchor_name,omitempty"`
}

// ChildNodes implements the walker's child accessor.
func (n *RawNode) ChildNodes() []*RawNode {
	if n == nil {
		return nil
	}
	return n.Children
}

// Clone returns a deep copy of n sharing no mutable state with n or any
// of its descendants.
func (n *RawNode) Clone() *RawNode {
	if n == nil {
		return nil
	}
	out := &RawNode{
		SchemaName:  n.SchemaName,
		TagName:     n.TagName,
		Fingerprint: n.Fingerprint,
		StorageKey:  n.StorageKey,
		Slug:        n.Slug,
		AnchorName:  n.AnchorName,
	}
	if n.Data != nil {
		out.Data = Clone(n.Data).(Map)
	}
	if n.Children != nil {
		out.Children = make([]*RawNode, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// ResolvedNode is a canonical, document-scoped node. Resolved nodes are
// immutable outputs of resolution; ownership transfers fully to the caller.
type ResolvedNode struct {
	SchemaName string          `json:"schema_name"`
	Data       Map             `json:"data,omitempty"`
	StorageKey string          `json:"storage_key,omitempty"`
	Children   []*ResolvedNode `json:"children,omitempty"`
	AnchorName string          `json:"anchor_name,omitempty"`

	// ID is present only if the schema is linkable and identifier
	// assignment was requested during resolution.
	ID string `json:"id,omitempty"`
}

// ChildNodes implements the walker's child accessor.
func (n *ResolvedNode) ChildNodes() []*ResolvedNode {
	if n == nil {
		return nil
	}
	return n.Children
}

// ValueKind discriminates the values authors may pass as children.
type ValueKind int

const (
	// KindOther covers anything stringifiable that is not a node or anchor.
	KindOther ValueKind = iota
	// KindRawNode is a pre-resolution node.
	KindRawNode
	// KindResolvedNode is a post-resolution node.
	KindResolvedNode
	// KindAnchorRef is a named-anchor reference.
	KindAnchorRef
)

// Classify reports which member of the child-value union v is.
// This is the single discrimination point for author input; no other code
// may type-sniff child values.
func Classify(v any) ValueKind {
	switch v.(type) {
	case *RawNode:
		return KindRawNode
	case *ResolvedNode:
		return KindResolvedNode
	case *Anchor:
		return KindAnchorRef
	default:
		return KindOther
	}
}
