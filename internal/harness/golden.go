package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/pagefold/stele/internal/tree"
)

// Snapshot captures a scenario's output for golden comparison: the
// resolved tree, anchor identifiers, and the storage table contents, all
// in canonical JSON. The document's process-unique identifier is excluded
// so snapshots stay byte-stable across runs.
type Snapshot struct {
	ScenarioName string
	DocumentName string
	Result       *Result
}

// toCanonicalValue converts the snapshot to a tree value so it can run
// through canonical serialization.
func (s *Snapshot) toCanonicalValue() tree.Value {
	out := tree.Map{
		"scenario": tree.String(s.ScenarioName),
		"document": tree.String(s.DocumentName),
		"tree":     nodeToValue(s.Result.Resolved.Tree),
	}

	if len(s.Result.Resolved.Anchors) > 0 {
		anchors := make(tree.Map, len(s.Result.Resolved.Anchors))
		for name, node := range s.Result.Resolved.Anchors {
			anchors[name] = tree.String(node.ID)
		}
		out["anchors"] = anchors
	}

	stored := s.Result.Table.Snapshot()
	if len(stored) > 0 {
		storage := make(tree.Map, len(stored))
		for key, v := range stored {
			storage[key] = v
		}
		out["storage"] = storage
	}
	return out
}

// nodeToValue renders a resolved node as a tree value mirroring its JSON
// field names.
func nodeToValue(n *tree.ResolvedNode) tree.Value {
	out := tree.Map{"schema_name": tree.String(n.SchemaName)}
	if len(n.Data) > 0 {
		out["data"] = n.Data
	}
	if n.StorageKey != "" {
		out["storage_key"] = tree.String(n.StorageKey)
	}
	if n.AnchorName != "" {
		out["anchor_name"] = tree.String(n.AnchorName)
	}
	if n.ID != "" {
		out["id"] = tree.String(n.ID)
	}
	if len(n.Children) > 0 {
		children := make(tree.List, len(n.Children))
		for i, c := range n.Children {
			children[i] = nodeToValue(c)
		}
		out["children"] = children
	}
	return out
}

// RunWithGolden executes a scenario, checks its assertions, and compares
// the output snapshot against a golden file stored in
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, failure := range CheckAssertions(scenario, result) {
		t.Error(failure)
	}

	snapshot := Snapshot{
		ScenarioName: scenario.Name,
		DocumentName: result.Document.Name,
		Result:       result,
	}
	data, err := tree.MarshalCanonical(snapshot.toCanonicalValue())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
