package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagefold/stele/internal/document"
	"github.com/pagefold/stele/internal/registry"
	"github.com/pagefold/stele/internal/resolve"
	"github.com/pagefold/stele/internal/tree"
)

// ResolveOutput is the JSON payload emitted by the resolve command.
type ResolveOutput struct {
	Document string             `json:"document"`
	ID       string             `json:"id"`
	Anchors  map[string]string  `json:"anchors,omitempty"`
	Tree     *tree.ResolvedNode `json:"tree"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var schemasDir string

	cmd := &cobra.Command{
		Use:   "resolve <document.yaml>",
		Short: "Resolve a document file into its canonical tree",
		Long: `Resolve a YAML document file: build its raw tree through the tag
registry, run resolution, assign identifiers, and print the canonical
resolved tree.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args[0], schemasDir, cmd)
		},
	}

	cmd.Flags().StringVar(&schemasDir, "schemas", "", "directory of CUE schema definitions")
	return cmd
}

func runResolve(opts *RootOptions, docPath, schemasDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, result, err := loadAndResolve(docPath, schemasDir, formatter)
	if err != nil {
		formatter.Error(errorCode(err), err.Error())
		return &ExitError{Code: ExitFailure, Err: err}
	}

	out := ResolveOutput{
		Document: doc.Name,
		ID:       doc.ID,
		Tree:     result.Tree,
	}
	if len(result.Anchors) > 0 {
		out.Anchors = make(map[string]string, len(result.Anchors))
		for name, node := range result.Anchors {
			out.Anchors[name] = node.ID
		}
	}
	return formatter.Success(out)
}

// loadRegistry builds the tag registry commands resolve against. With no
// schemas directory the built-in prose definitions are used so document
// files work out of the box.
func loadRegistry(schemasDir string, formatter *OutputFormatter) (*registry.Registry, error) {
	reg := registry.New()
	if schemasDir == "" {
		if err := reg.AddMany(DefaultSchemaDefs()); err != nil {
			return nil, err
		}
		return reg, nil
	}
	defs, err := LoadSchemaDefs(schemasDir)
	if err != nil {
		return nil, err
	}
	formatter.VerboseLog("Loaded %d schema definition(s) from %s", len(defs), schemasDir)
	if err := reg.AddMany(defs); err != nil {
		return nil, err
	}
	return reg, nil
}

// loadAndResolve is the shared front half of the resolve, fill, and
// validate commands: registry, document file, resolution, completeness.
func loadAndResolve(docPath, schemasDir string, formatter *OutputFormatter) (*document.Document, *resolve.Result, error) {
	reg, err := loadRegistry(schemasDir, formatter)
	if err != nil {
		return nil, nil, err
	}

	doc, root, err := LoadDocument(docPath, reg)
	if err != nil {
		return nil, nil, err
	}
	formatter.VerboseLog("Loaded document %q from %s", doc.Name, docPath)

	result, err := doc.Resolve(root)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.Complete(); err != nil {
		return nil, nil, fmt.Errorf("document %q: %w", doc.Name, err)
	}
	return doc, result, nil
}
