package resolve

import (
	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/tree"
)

// Resolver transforms raw trees into resolved trees against one registry.
type Resolver struct {
	reg *registry.Registry
}

// New creates a resolver backed by the given registry.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Options controls one resolution.
type Options struct {
	// AssignIDs requests identifier assignment for linkable nodes.
	// When false, no resolved node receives an ID, regardless of schema
	// linkability.
	AssignIDs bool

	// ReservedIDs seeds the reserved set, typically with the identifiers
	// consumed by an earlier, related resolution.
	ReservedIDs IDSet

	// BeforeEach is invoked with each raw node before its children are
	// resolved. A non-nil error aborts the resolution.
	BeforeEach func(*tree.RawNode) error

	// AfterEach is invoked with each resolved node after construction.
	// A non-nil error aborts the resolution.
	AfterEach func(*tree.ResolvedNode) error
}

// Result is the output of one resolution.
type Result struct {
	// Tree is the resolved root.
	Tree *tree.ResolvedNode

	// Anchors maps anchor names to their resolved nodes.
	Anchors map[string]*tree.ResolvedNode

	// ReservedIDs is the full set of identifiers consumed, including
	// anchor identifiers. Use it as the ReservedIDs seed when resolving a
	// sibling tree that must not collide.
	ReservedIDs IDSet
}

// Resolve transforms raw into a resolved tree.
//
// If identifier assignment is requested, the raw tree is pre-walked to
// reserve every anchor identifier before any node resolves. A collision
// between two anchors, or between an anchor and an externally reserved
// identifier, fails immediately; the pre-reservation guarantees that
// auto-generated identifiers never collide with anchor identifiers
// introduced deeper in the tree.
//
// Nodes then resolve depth-first, strictly left-to-right, sequentially.
func (r *Resolver) Resolve(raw *tree.RawNode, opts Options) (*Result, error) {
	if raw == nil {
		return nil, tree.NewInvalidArgument("cannot resolve a nil tree")
	}

	st := &state{
		opts:           opts,
		reserved:       NewIDSet(),
		anchorReserved: NewIDSet(),
		anchors:        make(map[string]*tree.ResolvedNode),
	}
	if opts.ReservedIDs != nil {
		st.reserved = opts.ReservedIDs.Clone()
	}

	if opts.AssignIDs {
		if err := prescanAnchors(raw, st); err != nil {
			return nil, err
		}
	}

	root, err := r.resolveNode(raw, st)
	if err != nil {
		return nil, err
	}

	// Anchor identifiers count as consumed even when their node's schema
	// is not linkable and no ID was assigned.
	for id := range st.anchorReserved {
		st.reserved.Add(id)
	}
	return &Result{Tree: root, Anchors: st.anchors, ReservedIDs: st.reserved}, nil
}

type state struct {
	opts           Options
	reserved       IDSet
	anchorReserved IDSet
	anchors        map[string]*tree.ResolvedNode
}

// prescanAnchors reserves the kebab-cased identifier of every anchor in
// the tree, failing on the first collision.
func prescanAnchors(raw *tree.RawNode, st *state) error {
	return tree.Walk(raw, func(n *tree.RawNode) error {
		if n.AnchorName == "" {
			return nil
		}
		id, err := Kebab(n.AnchorName)
		if err != nil {
			return err
		}
		if st.anchorReserved.Has(id) {
			return tree.NewDuplicateAnchorID("two anchors in the tree collapse to the same identifier", id)
		}
		if st.reserved.Has(id) {
			return tree.NewDuplicateAnchorID("anchor identifier is already reserved", id)
		}
		st.anchorReserved.Add(id)
		return nil
	})
}

func (r *Resolver) resolveNode(n *tree.RawNode, st *state) (*tree.ResolvedNode, error) {
	if st.opts.BeforeEach != nil {
		if err := st.opts.BeforeEach(n); err != nil {
			return nil, err
		}
	}

	// Children resolve strictly in order; the identifier dedup counter
	// depends on it.
	var children []*tree.ResolvedNode
	if n.Children != nil {
		children = make([]*tree.ResolvedNode, 0, len(n.Children))
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			rc, err := r.resolveNode(c, st)
			if err != nil {
				return nil, err
			}
			children = append(children, rc)
		}
	}

	schema, err := r.reg.Schema(n.SchemaName)
	if err != nil {
		return nil, err
	}

	res := &tree.ResolvedNode{
		SchemaName: n.SchemaName,
		StorageKey: n.StorageKey,
		Children:   children,
		AnchorName: n.AnchorName,
	}
	if n.Data != nil {
		res.Data = tree.Clone(n.Data).(tree.Map)
	}

	if st.opts.AssignIDs && schema.Linkable {
		id, err := assignID(st.reserved, st.anchorReserved, n)
		if err != nil {
			return nil, err
		}
		res.ID = id
	}

	if n.AnchorName != "" {
		st.anchors[n.AnchorName] = res
	}

	if st.opts.AfterEach != nil {
		if err := st.opts.AfterEach(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}
