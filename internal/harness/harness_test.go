package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagefold/stele/internal/tree"
)

func loadAndRun(t *testing.T, name string) (*Scenario, *Result) {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)
	return scenario, result
}

func TestRunEssayScenario(t *testing.T) {
	_, result := loadAndRun(t, "essay-pipeline.yaml")

	assert.Equal(t, "essay", result.Document.Name)
	require.NotNil(t, result.Resolved.Tree)
	require.Len(t, result.Resolved.Tree.Children, 2)

	lead := result.Resolved.Tree.Children[0]
	assert.Equal(t, "lead", lead.ID)

	thesis := result.Resolved.Tree.Children[1]
	assert.Equal(t, "thesis", thesis.ID)
	assert.Equal(t, "thesis", thesis.AnchorName)

	n, err := result.Table.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, ok, err := result.Table.Get(context.Background(), "p/thesis")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tree.String("Second."), v.(tree.Map)["excerpt"])
}

func TestRunQuoteScenarioWithCUESchemas(t *testing.T) {
	_, result := loadAndRun(t, "quote-schemas.yaml")

	require.Len(t, result.Resolved.Tree.Children, 2)
	assert.Equal(t, "heading", result.Resolved.Tree.Children[0].SchemaName)
	assert.Equal(t, "quote", result.Resolved.Tree.Children[1].SchemaName)
	assert.Equal(t, "maxim", result.Resolved.Tree.Children[1].ID)
}

func TestRunScenarioAssertionsPass(t *testing.T) {
	for _, name := range []string{"essay-pipeline.yaml", "quote-schemas.yaml"} {
		t.Run(name, func(t *testing.T) {
			scenario, result := loadAndRun(t, name)
			failures := CheckAssertions(scenario, result)
			assert.Empty(t, failures)
		})
	}
}

func TestRunMissingDocument(t *testing.T) {
	scenario := &Scenario{
		Name:        "broken",
		Description: "document path does not exist",
		Document:    filepath.Join("testdata", "docs", "nope.yaml"),
		Assertions:  []Assertion{{Type: AssertIDPresent, ID: "x"}},
	}
	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "broken"`)
}
