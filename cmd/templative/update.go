package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Serenacula/templative/pkg/commands"
	"github.com/Serenacula/templative/pkg/gitcache"
)

var updateCmd = &cobra.Command{
	Use:   "update [template]",
	Short: "Refresh cached URL templates",
	Long: `Fetch the latest state of URL-backed templates into the cache. With
--check, report whether updates are available without touching the
cache. Local templates are not applicable to update.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Bool("check", false, "Report available updates without modifying the cache")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	check, _ := cmd.Flags().GetBool("check")
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	statuses, err := commands.Update(name, check, gitcache.Default())
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Println("no templates registered")
		return nil
	}

	var failures []string
	for _, status := range statuses {
		if status.Err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", status.Name, status.Err))
			continue
		}
		fmt.Printf("%s: %s\n", status.Name, status.Status)
	}
	if len(failures) > 0 {
		return fmt.Errorf("some templates failed to update:\n%s", strings.Join(failures, "\n"))
	}
	return nil
}
