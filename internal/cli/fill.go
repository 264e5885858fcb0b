package cli

import (
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/pagefold/stele/internal/storage"
	"github.com/pagefold/stele/internal/tree"
)

// FillOutput is the JSON payload emitted by the fill command.
type FillOutput struct {
	Document string `json:"document"`
	ID       string `json:"id"`
	Visited  int    `json:"visited"`
	Keys     int    `json:"keys"`
}

// NewFillCommand creates the fill command.
func NewFillCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		schemasDir string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "fill <document.yaml>",
		Short: "Resolve a document and populate its storage side table",
		Long: `Resolve a YAML document file and walk the resolved tree, invoking
each schema's storage creator for nodes carrying a storage key. Values are
written into a SQLite side table; existing keys are never overwritten.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(rootOpts, args[0], schemasDir, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&schemasDir, "schemas", "", "directory of CUE schema definitions")
	cmd.Flags().StringVar(&dbPath, "db", "stele.db", "path to the SQLite side table")
	return cmd
}

func runFill(opts *RootOptions, docPath, schemasDir, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := loadRegistry(schemasDir, formatter)
	if err != nil {
		formatter.Error(errorCode(err), err.Error())
		return &ExitError{Code: ExitFailure, Err: err}
	}

	doc, root, err := LoadDocument(docPath, reg)
	if err != nil {
		formatter.Error(errorCode(err), err.Error())
		return &ExitError{Code: ExitFailure, Err: err}
	}

	result, err := doc.Resolve(root)
	if err == nil {
		err = doc.Complete()
	}
	if err != nil {
		formatter.Error(errorCode(err), err.Error())
		return &ExitError{Code: ExitFailure, Err: err}
	}

	table, err := storage.OpenSQLite(dbPath)
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error())
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer table.Close()

	// Siblings are visited concurrently during fill.
	var visited atomic.Int64
	fillErr := storage.Fill(cmd.Context(), storage.Options{
		Table:    table,
		Tree:     result.Tree,
		Creators: reg.StorageCreators(),
		OnVisit: func(n *tree.ResolvedNode) {
			visited.Add(1)
			if n.StorageKey != "" {
				formatter.VerboseLog("visit %s key=%s", n.SchemaName, n.StorageKey)
			}
		},
	})
	if fillErr != nil {
		formatter.Error(errorCode(fillErr), fillErr.Error())
		return &ExitError{Code: ExitFailure, Err: fillErr}
	}

	keys, err := table.Len(cmd.Context())
	if err != nil {
		formatter.Error(ErrCodeLoadFailed, err.Error())
		return &ExitError{Code: ExitFailure, Err: err}
	}

	out := FillOutput{Document: doc.Name, ID: doc.ID, Visited: int(visited.Load()), Keys: keys}
	return formatter.Successf(out, "filled %q: %d node(s) visited, %d key(s) stored", doc.Name, out.Visited, keys)
}
