package harness

import (
	"context"
	"fmt"

	"github.com/pagefold/stele/internal/cli"
	"github.com/pagefold/stele/internal/document"
	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/resolve"
	"github.com/pagefold/stele/internal/storage"
)

// Result holds everything a scenario produced: the assembled document,
// the resolution result, and the filled storage table.
type Result struct {
	Document *document.Document
	Resolved *resolve.Result
	Table    *storage.MemTable
}

// Run executes a scenario end to end: load schema definitions, build the
// document's raw tree, resolve it, and fill an in-memory storage table.
// Assertion evaluation is separate; see CheckAssertions.
func Run(scenario *Scenario) (*Result, error) {
	reg := registry.New()
	if scenario.Schemas == "" {
		if err := reg.AddMany(cli.DefaultSchemaDefs()); err != nil {
			return nil, err
		}
	} else {
		defs, err := cli.LoadSchemaDefs(scenario.Schemas)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		if err := reg.AddMany(defs); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
	}

	doc, root, err := cli.LoadDocument(scenario.Document, reg)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	resolved, err := doc.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	if err := doc.Complete(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	table := storage.NewMemTable()
	err = storage.Fill(context.Background(), storage.Options{
		Table:    table,
		Tree:     resolved.Tree,
		Creators: reg.StorageCreators(),
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	return &Result{Document: doc, Resolved: resolved, Table: table}, nil
}
