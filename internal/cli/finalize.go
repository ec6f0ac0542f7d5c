package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/errors"
	"github.com/matzehuels/kumiko/pkg/finalize"
)

// finalizeCommand creates the finalize command for culling an existing SVG.
func (c *CLI) finalizeCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "finalize <input.svg>",
		Short: "Remove geometry outside the visible area of a generated SVG",
		Long: `Remove geometry outside the visible area of a generated SVG.

Each primitive is transformed by its group and tested against the viewBox
padded by 5%. Groups left empty are dropped. Files without a viewBox are left
unchanged. The input is rewritten in place unless --out is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if out == "" {
				out = input
			}
			if err := errors.ValidateOutputPath(out); err != nil {
				return err
			}
			return runFinalize(cmd, input, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: rewrite input)")

	return cmd
}

func runFinalize(cmd *cobra.Command, input, out string) error {
	logger := loggerFromContext(cmd.Context())

	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeFileNotFound, "input file not found: %s", input)
		}
		return fmt.Errorf("read %s: %w", input, err)
	}

	prog := newProgress(logger)
	result, stats := finalize.SVGWithStats(string(data))
	if err := os.WriteFile(out, []byte(result), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done("Finalized " + out)

	if stats.PrimitivesBefore == 0 {
		printWarning("No primitives found; output unchanged")
	} else {
		printSuccess("Finalized %s", StyleHighlight.Render(input))
		printFinalizeStats(stats)
	}
	printFile(out)
	return nil
}
