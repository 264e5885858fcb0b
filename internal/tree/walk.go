package tree

import "errors"

// Walk control signals, used the way io/fs uses SkipDir and SkipAll.
var (
	// SkipChildren, returned by a step function, skips the current node's
	// subtree and continues with the next sibling.
	SkipChildren = errors.New("skip this node's children")

	// Stop, returned by a step function, aborts the entire walk.
	// Walk returns Stop so callers can tell an aborted walk from a
	// completed one.
	Stop = errors.New("stop the walk")
)

// walkable constrains Walk to node types that expose their children.
// Both *RawNode and *ResolvedNode satisfy it.
type walkable[N any] interface {
	comparable
	ChildNodes() []N
}

// StepFunc is invoked pre-order for every node. It may block (for lookups
// or IO); the walk waits for it before descending. Returning SkipChildren
// skips the node's subtree, returning Stop aborts the walk, and any other
// non-nil error aborts the walk and is returned from Walk.
type StepFunc[N any] func(n N) error

// Walk traverses a node tree pre-order, strictly left-to-right. A child's
// entire subtree completes before the next sibling begins; there is no
// interleaving. Nil child slots are skipped silently. An aborted walk
// returns Stop.
func Walk[N walkable[N]](root N, step StepFunc[N]) error {
	return walk(root, step)
}

func walk[N walkable[N]](n N, step StepFunc[N]) error {
	var zero N
	if n == zero {
		return nil
	}
	switch err := step(n); {
	case errors.Is(err, SkipChildren):
		return nil
	case err != nil:
		return err
	}
	for _, c := range n.ChildNodes() {
		if err := walk(c, step); err != nil {
			return err
		}
	}
	return nil
}
