package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Serenacula/templative/pkg/commands"
	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/options"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/Serenacula/templative/pkg/ui"
)

var initCmd = &cobra.Command{
	Use:   "init <template> [path]",
	Short: "Materialize a template into a directory",
	Long: `Copy a registered template into the target path (default: current
directory), applying the resolved exclusion, overwrite and symlink
policy, then run the configured git lifecycle and hooks.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("git", "", "Git lifecycle: fresh, preserve or no-git (overrides template and config)")
	initCmd.Flags().String("write-mode", "", "Collision policy: strict, no-overwrite, skip-overwrite, overwrite or ask")
	initCmd.Flags().String("symlinks", "", "Symlink handling: default, literal or resolve")
	initCmd.Flags().StringArray("exclude", nil, "Glob pattern to exclude (repeatable, replaces template/config patterns)")
	initCmd.Flags().String("git-ref", "", "Check out this ref (branch, tag or commit) before copying")
	initCmd.Flags().Bool("no-cache", false, "Skip the template cache; clone fresh for this init")
	initCmd.Flags().String("update-on-init", "", "Refresh the template source first: never, cache or always")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	overrides, err := overridesFromFlags(cmd)
	if err != nil {
		return err
	}
	applyColor(cfg, overrides.Color)

	target := "."
	if len(args) > 1 {
		target = args[1]
	}

	result, err := commands.Init(cfg, commands.InitRequest{
		TemplateName: args[0],
		TargetPath:   target,
		Overrides:    overrides,
		Prompter:     ui.NewTerminalPrompter(),
	})
	if err != nil {
		return err
	}

	if result.Summary != nil && result.Summary.FilesSkipped > 0 {
		fmt.Printf("skipped %d existing file(s)\n", result.Summary.FilesSkipped)
	}
	if result.PostInitErr != nil {
		fmt.Println(ui.StyleWarning.Render(fmt.Sprintf("warning: post-init hook failed: %v", result.PostInitErr)))
	}
	fmt.Printf("created %s from %s\n", result.Target, args[0])
	return nil
}

// overridesFromFlags maps only the flags the user explicitly set, so
// the resolver can distinguish "unset" from "set to the default".
func overridesFromFlags(cmd *cobra.Command) (options.Overrides, error) {
	var o options.Overrides

	if cmd.Flags().Changed("git") {
		raw, _ := cmd.Flags().GetString("git")
		mode, err := types.ParseGitMode(raw)
		if err != nil {
			return o, err
		}
		o.Git = &mode
	}
	if cmd.Flags().Changed("write-mode") {
		raw, _ := cmd.Flags().GetString("write-mode")
		mode, err := types.ParseWriteMode(raw)
		if err != nil {
			return o, err
		}
		o.WriteMode = &mode
	}
	if cmd.Flags().Changed("symlinks") {
		raw, _ := cmd.Flags().GetString("symlinks")
		mode, err := types.ParseSymlinkMode(raw)
		if err != nil {
			return o, err
		}
		o.Symlinks = &mode
	}
	if cmd.Flags().Changed("exclude") {
		patterns, _ := cmd.Flags().GetStringArray("exclude")
		o.Exclude = patterns
	}
	if cmd.Flags().Changed("git-ref") {
		ref, _ := cmd.Flags().GetString("git-ref")
		o.GitRef = &ref
	}
	if cmd.Flags().Changed("no-cache") {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		o.NoCache = &noCache
	}
	if cmd.Flags().Changed("update-on-init") {
		raw, _ := cmd.Flags().GetString("update-on-init")
		mode, err := types.ParseUpdateMode(raw)
		if err != nil {
			return o, err
		}
		o.UpdateOnInit = &mode
	}
	color, err := colorOverride()
	if err != nil {
		return o, err
	}
	o.Color = color

	return o, nil
}

// applyColor switches terminal styling before any output happens.
func applyColor(cfg config.Config, override *types.ColorMode) {
	mode := cfg.Color
	if override != nil {
		mode = *override
	}
	ui.SetColorMode(mode)
}
