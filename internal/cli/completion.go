package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for narrative.

To load completions:

Bash:
  $ source <(narrative completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ narrative completion bash > /etc/bash_completion.d/narrative
  # macOS:
  $ narrative completion bash > $(brew --prefix)/etc/bash_completion.d/narrative

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ narrative completion zsh > "${fpath[1]}/_narrative"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ narrative completion fish | source

  # To load completions for each session, execute once:
  $ narrative completion fish > ~/.config/fish/completions/narrative.fish

PowerShell:
  PS> narrative completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> narrative completion powershell > narrative.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeRecordNames completes the first argument with stored record names.
func (c *CLI) completeRecordNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if err := c.setup(cmd); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	st, err := c.openStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer st.Close()

	names, err := st.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, toComplete) {
			out = append(out, n)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
