package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagefold/stele/internal/storage"
	"github.com/pagefold/stele/internal/tree"
)

func TestFillGuide(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "guide.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewFillCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "docs", "guide.yaml"), "--db", dbPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var out FillOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "user-guide", out.Document)
	assert.Equal(t, 2, out.Keys)
	assert.Greater(t, out.Visited, 2)

	// The keys hold paragraph excerpts.
	table, err := storage.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer table.Close()

	v, ok, err := table.Get(context.Background(), "p/opening")
	require.NoError(t, err)
	require.True(t, ok)
	m, isMap := v.(tree.Map)
	require.True(t, isMap)
	assert.Equal(t, tree.String("Welcome to the guide."), m["excerpt"])
}

func TestFillIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "guide.db")
	docPath := filepath.Join("testdata", "docs", "guide.yaml")

	for i := 0; i < 2; i++ {
		buf := &bytes.Buffer{}
		rootOpts := &RootOptions{Format: "json"}
		cmd := NewFillCommand(rootOpts)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{docPath, "--db", dbPath})
		require.NoError(t, cmd.Execute())

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
	}

	table, err := storage.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer table.Close()

	n, err := table.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFillInvalidDocument(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bad.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewFillCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "docs", "unbound.yaml"), "--db", dbPath})

	err := cmd.Execute()
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNBOUND_ANCHOR", resp.Error.Code)
}
