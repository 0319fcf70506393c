package ui

import (
	"fmt"

	"github.com/pterm/pterm"
)

// TerminalPrompter asks per-collision overwrite questions on the
// terminal. It satisfies materialize.Prompter.
type TerminalPrompter struct{}

// NewTerminalPrompter returns a prompter backed by pterm's interactive
// confirm.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// ConfirmOverwrite asks whether one existing destination entry should
// be overwritten. The answer applies only to that entry.
func (p *TerminalPrompter) ConfirmOverwrite(relPath string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(fmt.Sprintf("Overwrite %s?", relPath))
}
