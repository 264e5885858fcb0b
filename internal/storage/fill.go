package storage

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/tree"
)

// Options controls one fill pass.
type Options struct {
	// Table receives the generated values.
	Table Table

	// Tree is the resolved tree to visit.
	Tree *tree.ResolvedNode

	// Creators maps schema names to storage creators, typically the
	// snapshot returned by Registry.StorageCreators. Nodes whose schema
	// has no creator are left untouched.
	Creators map[string]registry.StorageCreator

	// OnVisit, if non-nil, fires for every node visited. Sibling subtrees
	// are visited concurrently, so OnVisit must be safe for concurrent use.
	OnVisit func(*tree.ResolvedNode)
}

// Fill populates the side table from the resolved tree.
//
// For each node with a non-empty storage key not already present in the
// table, the creator registered for the node's schema is invoked with the
// node and its result written under the key. Nodes without a creator,
// without a key, or whose key is already populated are left untouched, so
// re-running a fill never changes previously populated values.
//
// Sibling subtrees are processed concurrently; within one call, in-flight
// creator invocations are deduplicated per key, so a key shared by
// concurrent siblings invokes its creator at most once. Partially filled
// tables are not rolled back on error or cancellation.
func Fill(ctx context.Context, opts Options) error {
	if opts.Tree == nil {
		return nil
	}
	if opts.Table == nil {
		return tree.NewInvalidArgument("fill requires a side table")
	}
	f := &filler{opts: opts}
	return f.visit(ctx, opts.Tree)
}

type filler struct {
	opts   Options
	flight singleflight.Group
}

func (f *filler) visit(ctx context.Context, n *tree.ResolvedNode) error {
	if n == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.opts.OnVisit != nil {
		f.opts.OnVisit(n)
	}

	if err := f.populate(ctx, n); err != nil {
		return err
	}

	if len(n.Children) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		child := c
		g.Go(func() error {
			return f.visit(gctx, child)
		})
	}
	return g.Wait()
}

// populate generates and stores the node's value if its key is empty in
// the table and a creator exists for its schema.
func (f *filler) populate(ctx context.Context, n *tree.ResolvedNode) error {
	if n.StorageKey == "" {
		return nil
	}
	creator, ok := f.opts.Creators[n.SchemaName]
	if !ok {
		return nil
	}

	// The existence check, generation, and write all happen inside one
	// per-key flight. Concurrent siblings sharing the key join the same
	// flight; a later flight for the key re-checks the table and finds
	// the winner's write. Together that makes creator invocation
	// at-most-once per key within a fill.
	_, err, _ := f.flight.Do(n.StorageKey, func() (any, error) {
		if _, present, err := f.opts.Table.Get(ctx, n.StorageKey); err != nil || present {
			return nil, err
		}
		v, err := creator(ctx, n)
		if err != nil {
			return nil, err
		}
		_, err = f.opts.Table.SetIfAbsent(ctx, n.StorageKey, v)
		return nil, err
	})
	return err
}
