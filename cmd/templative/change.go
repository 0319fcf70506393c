package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Serenacula/templative/pkg/commands"
	"github.com/Serenacula/templative/pkg/types"
)

var changeCmd = &cobra.Command{
	Use:   "change <template>",
	Short: "Update fields on a registered template",
	Long: `Change registry fields on an existing template. Only the flags given
are touched; passing an empty value clears the field where that makes
sense (description, hooks, refs).`,
	Args: cobra.ExactArgs(1),
	RunE: runChange,
}

func init() {
	changeCmd.Flags().String("name", "", "Rename the template")
	changeCmd.Flags().String("description", "", "New description")
	changeCmd.Flags().String("location", "", "New location (path or git URL)")
	changeCmd.Flags().String("git", "", "Git lifecycle override: fresh, preserve, no-git, or empty to clear")
	changeCmd.Flags().String("git-ref", "", "Pin to a git ref, or empty to clear")
	changeCmd.Flags().String("commit", "", "Pin to an exact commit, or empty to clear")
	changeCmd.Flags().String("pre-init", "", "Pre-init hook command, or empty to clear")
	changeCmd.Flags().String("post-init", "", "Post-init hook command, or empty to clear")
	changeCmd.Flags().String("write-mode", "", "Write mode override, or empty to clear")
	changeCmd.Flags().StringArray("exclude", nil, "Exclude pattern override (repeatable)")
	changeCmd.Flags().Bool("no-cache", false, "Skip the cache on init")

	rootCmd.AddCommand(changeCmd)
}

func runChange(cmd *cobra.Command, args []string) error {
	req := commands.ChangeRequest{TemplateName: args[0]}

	stringFlag := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}

	req.Name = stringFlag("name")
	req.Description = stringFlag("description")
	req.Location = stringFlag("location")
	req.GitRef = stringFlag("git-ref")
	req.Commit = stringFlag("commit")
	req.PreInit = stringFlag("pre-init")
	req.PostInit = stringFlag("post-init")

	if cmd.Flags().Changed("git") {
		raw, _ := cmd.Flags().GetString("git")
		var mode *types.GitMode
		if raw != "" {
			parsed, err := types.ParseGitMode(raw)
			if err != nil {
				return err
			}
			mode = &parsed
		}
		req.Git = &mode
	}
	if cmd.Flags().Changed("write-mode") {
		raw, _ := cmd.Flags().GetString("write-mode")
		var mode *types.WriteMode
		if raw != "" {
			parsed, err := types.ParseWriteMode(raw)
			if err != nil {
				return err
			}
			mode = &parsed
		}
		req.WriteMode = &mode
	}
	if cmd.Flags().Changed("exclude") {
		patterns, _ := cmd.Flags().GetStringArray("exclude")
		req.Exclude = &patterns
	}
	if cmd.Flags().Changed("no-cache") {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		req.NoCache = &noCache
	}

	if err := commands.Change(req); err != nil {
		return err
	}
	fmt.Printf("updated %s\n", args[0])
	return nil
}
