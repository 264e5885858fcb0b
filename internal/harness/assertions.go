package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagefold/stele/internal/tree"
)

// AssertionError describes one failed assertion.
type AssertionError struct {
	Index   int
	Type    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion[%d] %s: %s", e.Index, e.Type, e.Message)
}

// CheckAssertions evaluates every assertion in the scenario against the
// result and returns all failures.
func CheckAssertions(scenario *Scenario, result *Result) []error {
	var failures []error
	for i, a := range scenario.Assertions {
		if err := checkAssertion(i, a, result); err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}

func checkAssertion(index int, a Assertion, result *Result) error {
	switch a.Type {
	case AssertIDPresent:
		return checkIDPresent(index, a, result)
	case AssertAnchorBound:
		return checkAnchorBound(index, a, result)
	case AssertNodeCount:
		return checkNodeCount(index, a, result)
	case AssertStorageKey:
		return checkStorageKey(index, a, result)
	default:
		return &AssertionError{Index: index, Type: a.Type, Message: "unknown assertion type"}
	}
}

func checkIDPresent(index int, a Assertion, result *Result) error {
	err := tree.Walk(result.Resolved.Tree, func(n *tree.ResolvedNode) error {
		if n.ID == a.ID {
			return tree.Stop
		}
		return nil
	})
	if !errors.Is(err, tree.Stop) {
		return &AssertionError{
			Index:   index,
			Type:    a.Type,
			Message: fmt.Sprintf("no node carries identifier %q", a.ID),
		}
	}
	return nil
}

func checkAnchorBound(index int, a Assertion, result *Result) error {
	node, ok := result.Resolved.Anchors[a.Anchor]
	if !ok {
		return &AssertionError{
			Index:   index,
			Type:    a.Type,
			Message: fmt.Sprintf("anchor %q is not in the resolution result", a.Anchor),
		}
	}
	if a.ID != "" && node.ID != a.ID {
		return &AssertionError{
			Index:   index,
			Type:    a.Type,
			Message: fmt.Sprintf("anchor %q resolved to %q, want %q", a.Anchor, node.ID, a.ID),
		}
	}
	return nil
}

func checkNodeCount(index int, a Assertion, result *Result) error {
	count := 0
	tree.Walk(result.Resolved.Tree, func(n *tree.ResolvedNode) error {
		if n.SchemaName == a.Schema {
			count++
		}
		return nil
	})
	if count != a.Count {
		return &AssertionError{
			Index:   index,
			Type:    a.Type,
			Message: fmt.Sprintf("schema %q appears %d time(s), want %d", a.Schema, count, a.Count),
		}
	}
	return nil
}

func checkStorageKey(index int, a Assertion, result *Result) error {
	v, ok, err := result.Table.Get(context.Background(), a.Key)
	if err != nil {
		return &AssertionError{Index: index, Type: a.Type, Message: err.Error()}
	}
	if !ok {
		return &AssertionError{
			Index:   index,
			Type:    a.Type,
			Message: fmt.Sprintf("key %q is not populated", a.Key),
		}
	}
	if len(a.Expect) == 0 {
		return nil
	}
	m, isMap := v.(tree.Map)
	if !isMap {
		return &AssertionError{
			Index:   index,
			Type:    a.Type,
			Message: fmt.Sprintf("key %q does not hold a mapping", a.Key),
		}
	}
	for field, want := range a.Expect {
		wantVal, err := tree.ToValue(want)
		if err != nil {
			return &AssertionError{Index: index, Type: a.Type, Message: err.Error()}
		}
		got, present := m[field]
		if !present {
			return &AssertionError{
				Index:   index,
				Type:    a.Type,
				Message: fmt.Sprintf("key %q is missing field %q", a.Key, field),
			}
		}
		if !tree.Equal(got, wantVal) {
			return &AssertionError{
				Index:   index,
				Type:    a.Type,
				Message: fmt.Sprintf("key %q field %q: got %v, want %v", a.Key, field, got, wantVal),
			}
		}
	}
	return nil
}
