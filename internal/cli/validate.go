package cli

import (
	"github.com/spf13/cobra"
)

// ValidateOutput is the JSON payload emitted by the validate command.
type ValidateOutput struct {
	Valid    bool   `json:"valid"`
	Document string `json:"document,omitempty"`
	ID       string `json:"id,omitempty"`
	Anchors  int    `json:"anchors"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var schemasDir string

	cmd := &cobra.Command{
		Use:   "validate <document.yaml>",
		Short: "Check a document file without emitting its tree",
		Long: `Load and fully resolve a YAML document file, reporting whether it is
valid: every tag known, every anchor bound exactly once, every
identifier unique. Nothing is emitted beyond the verdict.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateDoc(rootOpts, args[0], schemasDir, cmd)
		},
	}

	cmd.Flags().StringVar(&schemasDir, "schemas", "", "directory of CUE schema definitions")
	return cmd
}

func runValidateDoc(opts *RootOptions, docPath, schemasDir string, cmd *cobra.Command) error {
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

	out := ValidateOutput{
		Valid:    true,
		Document: doc.Name,
		ID:       doc.ID,
		Anchors:  len(result.Anchors),
	}
	return formatter.Successf(out, "%s is valid (%d anchor(s) bound)", doc.Name, out.Anchors)
}
