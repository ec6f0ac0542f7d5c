package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/pattern"
	"github.com/matzehuels/kumiko/pkg/scheme"
)

// schemesCommand creates the schemes command.
func (c *CLI) schemesCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "schemes",
		Short: "List color schemes",
		Long: `List the built-in color schemes with their palettes.

Pass the key (or the name in any case, with spaces, dashes or underscores)
to --scheme. The special scheme "random" picks one per slug.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				for _, k := range scheme.Keys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), schemeTable(scheme.All()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print keys only, one per line")
	return cmd
}

func schemeTable(all []scheme.Scheme) string {
	rows := make([][]string, len(all))
	for i, s := range all {
		var sw strings.Builder
		for _, hex := range s.Foreground() {
			sw.WriteString(swatch(hex))
		}
		rows[i] = []string{
			s.Name,
			StyleDim.Render(s.Key()),
			swatch(s.Background()) + " " + s.Background(),
			sw.String(),
		}
	}
	return renderTable([]string{"Name", "Key", "Background", "Lines"}, rows)
}

// patternsCommand creates the patterns command.
func (c *CLI) patternsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List kumiko motifs in registry order",
		Long: `List the kumiko motifs. The index is what layer metadata reports as
pattern_index and never changes between releases.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := pattern.Names()
			rows := make([][]string, len(names))
			for i, n := range names {
				rows[i] = []string{strconv.Itoa(i), n}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Pattern"}, rows))
			return nil
		},
	}
}
