// Package options merges the three configuration layers into the
// effective settings for one invocation.
//
// Precedence per field: CLI flag (when explicitly set) > template entry
// override (when present) > config default. Because the config is total,
// resolution cannot fail and never leaves a field unset.
package options

import (
	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// Overrides carries CLI flag values. Nil pointers (and nil slices) mean
// the flag was not given on the command line.
type Overrides struct {
	Git          *types.GitMode
	WriteMode    *types.WriteMode
	Symlinks     *types.SymlinkMode
	Color        *types.ColorMode
	UpdateOnInit *types.UpdateMode
	Exclude      []string
	NoCache      *bool
	GitRef       *string
}

// Resolved is the fully-populated option set for one invocation. Every
// field holds exactly one effective value.
type Resolved struct {
	Git          types.GitMode
	WriteMode    types.WriteMode
	Symlinks     types.SymlinkMode
	Color        types.ColorMode
	UpdateOnInit types.UpdateMode
	Exclude      []string
	NoCache      bool
	GitRef       string
	Commit       string
	PreInit      string
	PostInit     string
}

// Resolve layers cli over tmpl over cfg. tmpl may be nil for
// invocations that have no template in scope. Pure: no I/O, no
// mutation of its inputs.
func Resolve(cli Overrides, tmpl *registry.Template, cfg config.Config) Resolved {
	res := Resolved{
		Git:          cfg.Git,
		WriteMode:    cfg.WriteMode,
		Symlinks:     cfg.Symlinks,
		Color:        cfg.Color,
		UpdateOnInit: cfg.UpdateOnInit,
		Exclude:      append([]string(nil), cfg.Exclude...),
	}

	if tmpl != nil {
		if tmpl.Git != nil {
			res.Git = *tmpl.Git
		}
		if tmpl.WriteMode != nil {
			res.WriteMode = *tmpl.WriteMode
		}
		if tmpl.Exclude != nil {
			res.Exclude = append([]string(nil), tmpl.Exclude...)
		}
		res.NoCache = tmpl.NoCache
		res.GitRef = tmpl.GitRef
		res.Commit = tmpl.Commit
		res.PreInit = tmpl.PreInit
		res.PostInit = tmpl.PostInit
	}

	if cli.Git != nil {
		res.Git = *cli.Git
	}
	if cli.WriteMode != nil {
		res.WriteMode = *cli.WriteMode
	}
	if cli.Symlinks != nil {
		res.Symlinks = *cli.Symlinks
	}
	if cli.Color != nil {
		res.Color = *cli.Color
	}
	if cli.UpdateOnInit != nil {
		res.UpdateOnInit = *cli.UpdateOnInit
	}
	if cli.Exclude != nil {
		res.Exclude = append([]string(nil), cli.Exclude...)
	}
	if cli.NoCache != nil {
		res.NoCache = *cli.NoCache
	}
	if cli.GitRef != nil {
		res.GitRef = *cli.GitRef
	}

	return res
}
