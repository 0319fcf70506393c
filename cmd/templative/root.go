package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Serenacula/templative/internal/version"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/types"
)

var (
	verbosity int
	colorFlag string

	rootCmd = &cobra.Command{
		Use:   "templative",
		Short: "Instantiate project templates from local directories or git URLs",
		Long: `templative keeps a registry of project templates - local directories or
git repositories - and materializes them into new project directories,
with configurable overwrite behavior, symlink handling and git setup.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "Color output: auto, always or never (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// colorOverride parses the persistent --color flag, nil when unset.
func colorOverride() (*types.ColorMode, error) {
	if colorFlag == "" {
		return nil, nil
	}
	mode, err := types.ParseColorMode(colorFlag)
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("templative version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(templative completion bash)

Zsh:
  $ templative completion zsh > "${fpath[1]}/_templative"

Fish:
  $ templative completion fish | source

PowerShell:
  PS> templative completion powershell | Out-String | Invoke-Expression
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
