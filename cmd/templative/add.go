package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Serenacula/templative/pkg/commands"
	"github.com/Serenacula/templative/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add [path|url]",
	Short: "Register a directory or git URL as a template",
	Long: `Register a template in the registry. The path defaults to the current
directory; git URLs are cloned into the cache right away so the first
init is cheap. The name defaults to the basename of the path or URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringP("name", "n", "", "Template name (default: basename of path)")
	addCmd.Flags().StringP("description", "d", "", "Optional description")
	addCmd.Flags().String("git", "", "Git lifecycle override for this template: fresh, preserve or no-git")
	addCmd.Flags().String("git-ref", "", "Pin to a specific git ref (branch, tag or commit)")
	addCmd.Flags().Bool("no-cache", false, "Skip the cache; clone fresh on each init")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	req := commands.AddRequest{Path: path}
	req.Name, _ = cmd.Flags().GetString("name")
	req.Description, _ = cmd.Flags().GetString("description")
	req.GitRef, _ = cmd.Flags().GetString("git-ref")
	req.NoCache, _ = cmd.Flags().GetBool("no-cache")

	if cmd.Flags().Changed("git") {
		raw, _ := cmd.Flags().GetString("git")
		mode, err := types.ParseGitMode(raw)
		if err != nil {
			return err
		}
		req.Git = &mode
	}

	tmpl, err := commands.Add(req)
	if err != nil {
		return err
	}
	fmt.Printf("added %s -> %s\n", tmpl.Name, tmpl.Location)
	return nil
}
