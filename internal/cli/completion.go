package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/scenario"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for callsurface.

Completions cover commands and flags, builtin scenario names, call states,
audio routes and toast kinds.

  $ source <(callsurface completion bash)
  $ callsurface completion zsh > "${fpath[1]}/_callsurface"
  $ callsurface completion fish | source
  PS> callsurface completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
		},
	}

	return cmd
}

// completeScenario offers builtin scenario names and TOML files for the
// first positional argument.
func completeScenario(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return scenario.Builtins(), cobra.ShellCompDirectiveDefault
}

// completeStates offers call state names.
func completeStates(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range callstate.Classes() {
		out = append(out, c.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeSpeakers offers audio route names.
func completeSpeakers(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return callstate.SpeakerNames(), cobra.ShellCompDirectiveNoFileComp
}

// completeToasts offers toast kind names.
func completeToasts(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, k := range toast.Kinds() {
		out = append(out, k.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerCallStateCompletions wires value completion for the call state
// flags a command defines.
func registerCallStateCompletions(cmd *cobra.Command) {
	for name, fn := range map[string]cobra.CompletionFunc{
		"state":   completeStates,
		"speaker": completeSpeakers,
		"toast":   completeToasts,
	} {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fn)
		}
	}
}
