package tree

import "sync"

// Anchor is a document-scoped named handle bindable to exactly one raw
// node. Anchors are created when a document declares its anchors, bound
// when the author attaches one to a tag invocation, and consumed by
// resolution, which records the resolved node under the anchor's name.
//
// Binding is a two-state machine, Unbound -> Bound, guarded by a single
// compare-and-set in TryBind. There is no way to unbind or rebind.
type Anchor struct {
	// DocumentID identifies the owning document.
	DocumentID string

	// Name is the anchor's document-unique name.
	Name string

	// BoundTag is the tag name the anchor may be attached to.
	BoundTag string

	mu  sync.Mutex
	raw *RawNode
}

// NewAnchor creates an unbound anchor.
func NewAnchor(documentID, name, boundTag string) *Anchor {
	return &Anchor{DocumentID: documentID, Name: name, BoundTag: boundTag}
}

// TryBind transitions the anchor from Unbound to Bound, attaching raw.
// It fails if the anchor is already bound or if raw was produced by a
// different tag than the anchor was declared for. The raw node is cloned,
// stamped with the anchor name, and owned by the anchor afterwards.
func (a *Anchor) TryBind(raw *RawNode) error {
	if raw == nil {
		return NewInvalidArgument("cannot bind a nil node to an anchor")
	}
	if raw.TagName != a.BoundTag {
		return NewDuplicateAnchorID(
			"node tag "+raw.TagName+" does not match the anchor's declared tag "+a.BoundTag, a.Name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.raw != nil {
		return NewDuplicateAnchorID("anchor is already bound to a node", a.Name)
	}
	bound := raw.Clone()
	bound.AnchorName = a.Name
	a.raw = bound
	return nil
}

// BoundNode returns the attached raw node, if any. The returned node is
// the anchor's own copy; callers who insert it into a tree receive a
// fresh clone from the children normalizer.
func (a *Anchor) BoundNode() (*RawNode, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.raw, a.raw != nil
}

// Bound reports whether the anchor has been attached to a node.
func (a *Anchor) Bound() bool {
	_, ok := a.BoundNode()
	return ok
}
