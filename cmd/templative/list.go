package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Serenacula/templative/pkg/commands"
	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/gitcache"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered templates with their status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		color, err := colorOverride()
		if err != nil {
			return err
		}
		applyColor(cfg, color)

		reg, err := registry.Load()
		if err != nil {
			return err
		}
		if len(reg.Templates) == 0 {
			fmt.Println("no templates available: use `templative add <FOLDER>` to add a template")
			return nil
		}

		rows := commands.ListRows(reg, gitcache.Default())
		fmt.Print(ui.RenderTemplateList(rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
