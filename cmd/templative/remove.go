package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Serenacula/templative/pkg/commands"
)

var removeCmd = &cobra.Command{
	Use:   "remove <template>...",
	Short: "Remove templates from the registry",
	Long: `Remove one or more templates from the registry. The template's files
and any cached clones are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.Remove(args); err != nil {
			return err
		}
		for _, name := range args {
			fmt.Printf("removed %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
