package cli

import "github.com/spf13/cobra"

// completionCommand prints a completion script. Subcommands and the
// --scheme and --backend values complete; slugs are free text.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for kumiko to stdout.

Try it in the current shell:
  bash        source <(kumiko completion bash)
  zsh         source <(kumiko completion zsh)
  fish        kumiko completion fish | source
  powershell  kumiko completion powershell | Out-String | Invoke-Expression

To keep it, write the script where your shell looks for completions, e.g.
  kumiko completion zsh > "${fpath[1]}/_kumiko"
  kumiko completion fish > ~/.config/fish/completions/kumiko.fish

Zsh needs compinit enabled; bash needs the bash-completion package.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
