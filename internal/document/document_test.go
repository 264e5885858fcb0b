package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/storage"
	"github.com/pagefold/stele/internal/testutil"
	"github.com/pagefold/stele/internal/tree"
)

func TestNewAllocatesDocumentID(t *testing.T) {
	reg := testutil.MustRegistry()
	a := New(reg, "guide")
	b := New(reg, "guide")

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID, "document identifiers are process-unique")
	assert.Equal(t, "guide", a.Name)
}

func TestDeclareAnchor(t *testing.T) {
	doc := New(testutil.MustRegistry(), "guide")
	a, err := doc.DeclareAnchor("keyQuote", "paragraph")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, a.DocumentID)
	assert.Equal(t, "keyQuote", a.Name)
	assert.False(t, a.Bound())

	got, err := doc.Anchor("keyQuote")
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestDeclareAnchorDuplicates(t *testing.T) {
	doc := New(testutil.MustRegistry(), "guide")
	_, err := doc.DeclareAnchor("keyQuote", "paragraph")
	require.NoError(t, err)

	_, err = doc.DeclareAnchor("keyQuote", "paragraph")
	require.Error(t, err)
	assert.True(t, tree.IsDuplicateAnchorID(err))

	// Distinct names collapsing to the same identifier also collide.
	_, err = doc.DeclareAnchor("key-quote", "paragraph")
	require.Error(t, err)
	assert.True(t, tree.IsDuplicateAnchorID(err))
}

func TestAnchorLookupMissing(t *testing.T) {
	doc := New(testutil.MustRegistry(), "guide")
	_, err := doc.Anchor("phantom")
	require.Error(t, err)
	assert.True(t, tree.IsNotFound(err))
}

func TestDocumentResolveAssignsIDs(t *testing.T) {
	reg := testutil.MustRegistry()
	doc := New(reg, "guide")

	root := testutil.MustBuild(reg, tree.SchemaContainer, registry.Args{Children: []any{
		testutil.MustBuild(reg, "paragraph", registry.Args{Slug: "intro", Children: "hello"}),
	}})
	result, err := doc.Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, "intro", result.Tree.Children[0].ID)
}

func TestDocumentResolveCarriesReservedAcrossTrees(t *testing.T) {
	reg := testutil.MustRegistry()
	doc := New(reg, "guide")

	first, err := doc.Resolve(testutil.MustBuild(reg, tree.SchemaContainer, registry.Args{Children: []any{
		testutil.MustBuild(reg, "paragraph", registry.Args{Slug: "intro", Children: "one"}),
	}}))
	require.NoError(t, err)

	second, err := doc.Resolve(testutil.MustBuild(reg, tree.SchemaContainer, registry.Args{Children: []any{
		testutil.MustBuild(reg, "paragraph", registry.Args{Slug: "intro", Children: "two"}),
	}}))
	require.NoError(t, err)

	assert.Equal(t, "intro", first.Tree.Children[0].ID)
	assert.Equal(t, "intro-1", second.Tree.Children[0].ID)
	assert.True(t, doc.ReservedIDs().Has("intro-1"))
}

func TestCompleteRequiresBoundAnchors(t *testing.T) {
	reg := testutil.MustRegistry()
	doc := New(reg, "guide")
	anchor, err := doc.DeclareAnchor("keyQuote", "paragraph")
	require.NoError(t, err)

	err = doc.Complete()
	require.Error(t, err)
	assert.True(t, tree.IsUnboundAnchor(err))

	_, err = reg.Build("paragraph", registry.Args{Children: "quoted", Anchor: anchor})
	require.NoError(t, err)
	assert.NoError(t, doc.Complete())
}

func TestCompleteNamesFirstUnboundAnchorInDeclarationOrder(t *testing.T) {
	reg := testutil.MustRegistry()
	doc := New(reg, "guide")
	_, err := doc.DeclareAnchor("first", "paragraph")
	require.NoError(t, err)
	_, err = doc.DeclareAnchor("second", "paragraph")
	require.NoError(t, err)

	err = doc.Complete()
	require.Error(t, err)
	var te *tree.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "first", te.Name)
}

func TestDocumentAnchorsAcrossTrees(t *testing.T) {
	reg := testutil.MustRegistry()
	doc := New(reg, "guide")
	anchor, err := doc.DeclareAnchor("keyQuote", "paragraph")
	require.NoError(t, err)

	anchored, err := reg.Build("paragraph", registry.Args{Children: "quoted", Anchor: anchor})
	require.NoError(t, err)
	root := testutil.MustBuild(reg, tree.SchemaContainer, registry.Args{Children: []any{anchored}})

	_, err = doc.Resolve(root)
	require.NoError(t, err)
	require.NoError(t, doc.Complete())

	anchors := doc.Anchors()
	require.Contains(t, anchors, "keyQuote")
	assert.Equal(t, "key-quote", anchors["keyQuote"].ID)
}

func TestDocumentFill(t *testing.T) {
	reg := testutil.MustRegistry()
	doc := New(reg, "guide")

	_, err := doc.Resolve(testutil.MustBuild(reg, tree.SchemaContainer, registry.Args{Children: []any{
		testutil.MustBuild(reg, "paragraph", registry.Args{Slug: "intro", StorageKey: "p/intro", Children: "one"}),
	}}))
	require.NoError(t, err)
	_, err = doc.Resolve(testutil.MustBuild(reg, tree.SchemaContainer, registry.Args{Children: []any{
		testutil.MustBuild(reg, "paragraph", registry.Args{Slug: "coda", StorageKey: "p/coda", Children: "two"}),
	}}))
	require.NoError(t, err)

	table := storage.NewMemTable()
	require.NoError(t, doc.Fill(context.Background(), table))

	n, err := table.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, ok, err := table.Get(context.Background(), "p/coda")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tree.String("two"), v.(tree.Map)["excerpt"])
}
