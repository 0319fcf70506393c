// Package types holds the shared value types that flow between the
// config, registry, options and materialization layers.
package types

import "fmt"

// GitMode selects the git lifecycle applied after materialization.
type GitMode string

const (
	// GitFresh strips template history and creates a single initial commit.
	GitFresh GitMode = "fresh"
	// GitPreserve carries the template's git history into the target.
	GitPreserve GitMode = "preserve"
	// GitNone performs no git operations at all.
	GitNone GitMode = "no-git"
)

// ParseGitMode validates a user-supplied git mode string.
func ParseGitMode(s string) (GitMode, error) {
	switch GitMode(s) {
	case GitFresh, GitPreserve, GitNone:
		return GitMode(s), nil
	}
	return "", fmt.Errorf("unknown git mode %q (want fresh, preserve or no-git)", s)
}

// WriteMode is the collision policy for pre-existing destination entries.
type WriteMode string

const (
	WriteStrict        WriteMode = "strict"
	WriteNoOverwrite   WriteMode = "no-overwrite"
	WriteSkipOverwrite WriteMode = "skip-overwrite"
	WriteOverwrite     WriteMode = "overwrite"
	WriteAsk           WriteMode = "ask"
)

// ParseWriteMode validates a user-supplied write mode string.
func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(s) {
	case WriteStrict, WriteNoOverwrite, WriteSkipOverwrite, WriteOverwrite, WriteAsk:
		return WriteMode(s), nil
	}
	return "", fmt.Errorf("unknown write mode %q (want strict, no-overwrite, skip-overwrite, overwrite or ask)", s)
}

// SymlinkMode controls how symlinks in the template are reproduced.
type SymlinkMode string

const (
	// SymlinkDefault reinterprets targets: links into the template become
	// relative, links out of it become absolute.
	SymlinkDefault SymlinkMode = "default"
	// SymlinkLiteral copies the link target text verbatim.
	SymlinkLiteral SymlinkMode = "literal"
	// SymlinkResolve replaces each link with a real copy of what it
	// ultimately points at. Experimental.
	SymlinkResolve SymlinkMode = "resolve"
)

// ParseSymlinkMode validates a user-supplied symlink mode string.
func ParseSymlinkMode(s string) (SymlinkMode, error) {
	switch SymlinkMode(s) {
	case SymlinkDefault, SymlinkLiteral, SymlinkResolve:
		return SymlinkMode(s), nil
	}
	return "", fmt.Errorf("unknown symlink mode %q (want default, literal or resolve)", s)
}

// ColorMode controls terminal color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a user-supplied color mode string.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case ColorAuto, ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// UpdateMode controls whether a cached or local template source is
// refreshed before an init.
type UpdateMode string

const (
	UpdateNever  UpdateMode = "never"
	UpdateCache  UpdateMode = "cache"
	UpdateAlways UpdateMode = "always"
)

// ParseUpdateMode validates a user-supplied update mode string.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch UpdateMode(s) {
	case UpdateNever, UpdateCache, UpdateAlways:
		return UpdateMode(s), nil
	}
	return "", fmt.Errorf("unknown update mode %q (want never, cache or always)", s)
}
