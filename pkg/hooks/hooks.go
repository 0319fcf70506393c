// Package hooks runs user-supplied shell commands at fixed points in
// the init sequence. Pre-init failures abort the init; post-init
// failures are reported by the caller but do not roll anything back.
package hooks

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
)

// Run executes command with `sh -c` in dir, blocking until it exits.
func Run(command, dir string) error {
	logger := logging.GetLogger("hooks")
	logger.Debug().Str("command", command).Str("dir", dir).Msg("Running hook")

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return errors.Newf(errors.ErrHookFailed, "hook failed: %s", command).
			WithDetail("output", strings.TrimSpace(output.String())).
			WithDetail("dir", dir)
	}
	return nil
}
