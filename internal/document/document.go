// Package document implements the document assembler: it allocates a
// document identifier, owns the document's named anchors, and drives
// resolution of the document's content trees.
package document

import (
	"context"

	"github.com/google/uuid"

	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/resolve"
	"github.com/pagefold/stele/internal/storage"
	"github.com/pagefold/stele/internal/tree"
)

// Document assembles one document: a process-unique identifier, a set of
// declared anchors, and the reserved-identifier state shared by all of the
// document's content trees.
//
// A Document is not safe for concurrent use; an assembler drives it from
// one goroutine.
type Document struct {
	// ID is the process-wide document identifier (UUIDv7, time-ordered).
	ID string

	// Name is the document's human-readable name.
	Name string

	reg      *registry.Registry
	resolver *resolve.Resolver

	anchors     map[string]*tree.Anchor
	anchorOrder []string
	anchorIDs   resolve.IDSet

	reserved resolve.IDSet
	resolved []*resolve.Result
}

// New creates a document bound to the given registry.
func New(reg *registry.Registry, name string) *Document {
	return &Document{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		reg:       reg,
		resolver:  resolve.New(reg),
		anchors:   make(map[string]*tree.Anchor),
		anchorIDs: resolve.NewIDSet(),
		reserved:  resolve.NewIDSet(),
	}
}

// DeclareAnchor creates a named anchor bindable to exactly one node built
// by boundTag. Declaring two anchors whose names kebab-case to the same
// identifier fails with DUPLICATE_ANCHOR_ID.
func (d *Document) DeclareAnchor(name, boundTag string) (*tree.Anchor, error) {
	id, err := resolve.Kebab(name)
	if err != nil {
		return nil, err
	}
	if _, ok := d.anchors[name]; ok {
		return nil, tree.NewDuplicateAnchorID("anchor is already declared", name)
	}
	if d.anchorIDs.Has(id) {
		return nil, tree.NewDuplicateAnchorID("two declared anchors collapse to the same identifier", id)
	}
	a := tree.NewAnchor(d.ID, name, boundTag)
	d.anchors[name] = a
	d.anchorOrder = append(d.anchorOrder, name)
	d.anchorIDs.Add(id)
	return a, nil
}

// Anchor returns a declared anchor by name.
func (d *Document) Anchor(name string) (*tree.Anchor, error) {
	a, ok := d.anchors[name]
	if !ok {
		return nil, tree.NewNotFound("anchor", name)
	}
	return a, nil
}

// Resolve resolves one content tree with identifier assignment enabled.
// The identifiers consumed by earlier trees of the same document are
// reserved, so sibling trees never collide.
func (d *Document) Resolve(raw *tree.RawNode) (*resolve.Result, error) {
	result, err := d.resolver.Resolve(raw, resolve.Options{
		AssignIDs:   true,
		ReservedIDs: d.reserved,
	})
	if err != nil {
		return nil, err
	}
	d.reserved = result.ReservedIDs
	d.resolved = append(d.resolved, result)
	return result, nil
}

// Complete verifies that every declared anchor was attached to a raw node
// during tree construction. It fails with UNBOUND_ANCHOR naming the first
// unattached anchor in declaration order. A document is not complete until
// this check passes.
func (d *Document) Complete() error {
	for _, name := range d.anchorOrder {
		if !d.anchors[name].Bound() {
			return tree.NewUnboundAnchor(name)
		}
	}
	return nil
}

// Fill populates the side table from every tree resolved so far, using
// the storage creators registered with the document's registry. Trees are
// filled in resolution order.
func (d *Document) Fill(ctx context.Context, table storage.Table) error {
	creators := d.reg.StorageCreators()
	for _, res := range d.resolved {
		err := storage.Fill(ctx, storage.Options{
			Table:    table,
			Tree:     res.Tree,
			Creators: creators,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ReservedIDs returns the identifiers consumed so far across all of the
// document's resolved trees. Useful as the seed for a related document.
func (d *Document) ReservedIDs() resolve.IDSet {
	return d.reserved.Clone()
}

// Anchors returns the resolved node recorded for each anchor name across
// all resolved trees. Anchors not yet reached by any resolution are
// absent.
func (d *Document) Anchors() map[string]*tree.ResolvedNode {
	out := make(map[string]*tree.ResolvedNode)
	for _, res := range d.resolved {
		for name, n := range res.Anchors {
			out[name] = n
		}
	}
	return out
}
