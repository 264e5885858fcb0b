package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagefold/stele/internal/tree"
)

func paragraphDef() Definition {
	return Definition{
		Schema: tree.Schema{Name: "paragraph", Kind: tree.KindBlock, Linkable: true},
	}
}

func TestNewSeedsBuiltins(t *testing.T) {
	reg := New()
	for _, name := range []string{tree.SchemaText, tree.SchemaInline, tree.SchemaContainer} {
		s, err := reg.Schema(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
		_, err = reg.Tag(name)
		require.NoError(t, err)
	}
}

func TestBuiltinKinds(t *testing.T) {
	reg := New()

	text, err := reg.Schema(tree.SchemaText)
	require.NoError(t, err)
	assert.Equal(t, tree.KindInline, text.Kind)
	assert.False(t, text.Linkable)

	inline, err := reg.Schema(tree.SchemaInline)
	require.NoError(t, err)
	assert.Equal(t, tree.KindInline, inline.Kind)
	assert.ElementsMatch(t, []string{tree.SchemaText, tree.SchemaInline}, inline.ChildSchemas)

	container, err := reg.Schema(tree.SchemaContainer)
	require.NoError(t, err)
	assert.Equal(t, tree.KindBlock, container.Kind)
	assert.Empty(t, container.ChildSchemas, "mixed content: no restriction")
}

func TestAddDuplicateSchemaName(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add(paragraphDef()))

	err := reg.Add(paragraphDef())
	require.Error(t, err)
	assert.True(t, tree.IsDuplicateDefinition(err))
}

func TestAddDuplicateTagName(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add(paragraphDef()))

	err := reg.Add(Definition{
		Schema: tree.Schema{Name: "prose", Kind: tree.KindBlock},
		Tag:    "paragraph",
	})
	require.Error(t, err)
	assert.True(t, tree.IsDuplicateDefinition(err))
}

func TestAddCollidesWithBuiltin(t *testing.T) {
	reg := New()
	err := reg.Add(Definition{Schema: tree.Schema{Name: tree.SchemaText, Kind: tree.KindInline}})
	require.Error(t, err)
	assert.True(t, tree.IsDuplicateDefinition(err))
}

func TestAddManyStopsAtFirstFailure(t *testing.T) {
	reg := New()
	err := reg.AddMany([]Definition{
		paragraphDef(),
		paragraphDef(), // duplicate
	})
	require.Error(t, err)

	// The first definition was registered before the failure.
	_, lookupErr := reg.Schema("paragraph")
	assert.NoError(t, lookupErr)
}

func TestRemove(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add(paragraphDef()))

	reg.Remove("paragraph")
	_, err := reg.Schema("paragraph")
	assert.True(t, tree.IsNotFound(err))
	_, err = reg.Tag("paragraph")
	assert.True(t, tree.IsNotFound(err))

	// Absent names are a no-op.
	reg.Remove("paragraph")
	reg.Remove("never-existed")
}

func TestRemoveBuiltinIsNoop(t *testing.T) {
	reg := New()
	reg.Remove(tree.SchemaText)
	_, err := reg.Schema(tree.SchemaText)
	assert.NoError(t, err)
}

func TestReplaceAllPreservesBuiltins(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Add(paragraphDef()))

	newDef := Definition{Schema: tree.Schema{Name: "heading", Kind: tree.KindBlock, Linkable: true}}
	require.NoError(t, reg.ReplaceAll([]Definition{newDef}))

	// Old custom entries are gone, new ones and built-ins are present.
	_, err := reg.Schema("paragraph")
	assert.True(t, tree.IsNotFound(err))
	_, err = reg.Schema("heading")
	assert.NoError(t, err)
	_, err = reg.Schema(tree.SchemaText)
	assert.NoError(t, err)
	_, err = reg.Schema(tree.SchemaInline)
	assert.NoError(t, err)
	_, err = reg.Schema(tree.SchemaContainer)
	assert.NoError(t, err)
}

func TestLookupMissing(t *testing.T) {
	reg := New()
	_, err := reg.Schema("missing")
	require.Error(t, err)
	assert.True(t, tree.IsNotFound(err))

	_, err = reg.Tag("missing")
	require.Error(t, err)
	assert.True(t, tree.IsNotFound(err))
}

func TestStorageCreatorsSnapshot(t *testing.T) {
	creator := func(_ context.Context, _ *tree.ResolvedNode) (tree.Value, error) {
		return tree.String("v"), nil
	}
	reg := New()
	require.NoError(t, reg.Add(Definition{
		Schema:         tree.Schema{Name: "paragraph", Kind: tree.KindBlock},
		StorageCreator: creator,
	}))
	require.NoError(t, reg.Add(Definition{
		Schema: tree.Schema{Name: "heading", Kind: tree.KindBlock},
	}))

	creators := reg.StorageCreators()
	assert.Len(t, creators, 1)
	assert.Contains(t, creators, "paragraph")

	// The snapshot is detached from later mutation.
	reg.Remove("paragraph")
	assert.Contains(t, creators, "paragraph")
}

func TestDefinitionTagNameDefaultsToSchemaName(t *testing.T) {
	def := paragraphDef()
	assert.Equal(t, "paragraph", def.TagName())

	def.Tag = "p"
	assert.Equal(t, "p", def.TagName())
}
