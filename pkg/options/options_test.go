package options

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Serenacula/templative/pkg/config"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

func TestResolveConfigOnly(t *testing.T) {
	cfg := config.Default()

	res := Resolve(Overrides{}, nil, cfg)

	assert.Equal(t, cfg.Git, res.Git)
	assert.Equal(t, cfg.WriteMode, res.WriteMode)
	assert.Equal(t, cfg.Symlinks, res.Symlinks)
	assert.Equal(t, cfg.Color, res.Color)
	assert.Equal(t, cfg.UpdateOnInit, res.UpdateOnInit)
	assert.Equal(t, cfg.Exclude, res.Exclude)
	assert.False(t, res.NoCache)
	assert.Empty(t, res.GitRef)
	assert.Empty(t, res.PreInit)
}

func TestResolveTemplateOverridesConfig(t *testing.T) {
	cfg := config.Default()
	gitMode := types.GitPreserve
	writeMode := types.WriteOverwrite

	tmpl := &registry.Template{
		Name:      "web",
		Git:       &gitMode,
		WriteMode: &writeMode,
		GitRef:    "develop",
		Commit:    "abc1234",
		PreInit:   "echo pre",
		PostInit:  "echo post",
		Exclude:   []string{"docs"},
		NoCache:   true,
	}

	res := Resolve(Overrides{}, tmpl, cfg)

	assert.Equal(t, types.GitPreserve, res.Git)
	assert.Equal(t, types.WriteOverwrite, res.WriteMode)
	assert.Equal(t, []string{"docs"}, res.Exclude)
	assert.Equal(t, "develop", res.GitRef)
	assert.Equal(t, "abc1234", res.Commit)
	assert.Equal(t, "echo pre", res.PreInit)
	assert.Equal(t, "echo post", res.PostInit)
	assert.True(t, res.NoCache)
	// Fields the template cannot override come from the config.
	assert.Equal(t, cfg.Symlinks, res.Symlinks)
	assert.Equal(t, cfg.Color, res.Color)
}

func TestResolveCLIWinsOverTemplateAndConfig(t *testing.T) {
	cfg := config.Default()
	tmplGit := types.GitPreserve
	tmpl := &registry.Template{
		Name:    "web",
		Git:     &tmplGit,
		GitRef:  "develop",
		Exclude: []string{"docs"},
	}

	cliGit := types.GitNone
	cliWrite := types.WriteAsk
	cliSymlinks := types.SymlinkLiteral
	cliColor := types.ColorNever
	cliUpdate := types.UpdateAlways
	cliNoCache := true
	cliRef := "v2.0"

	res := Resolve(Overrides{
		Git:          &cliGit,
		WriteMode:    &cliWrite,
		Symlinks:     &cliSymlinks,
		Color:        &cliColor,
		UpdateOnInit: &cliUpdate,
		Exclude:      []string{"*.log"},
		NoCache:      &cliNoCache,
		GitRef:       &cliRef,
	}, tmpl, cfg)

	assert.Equal(t, types.GitNone, res.Git)
	assert.Equal(t, types.WriteAsk, res.WriteMode)
	assert.Equal(t, types.SymlinkLiteral, res.Symlinks)
	assert.Equal(t, types.ColorNever, res.Color)
	assert.Equal(t, types.UpdateAlways, res.UpdateOnInit)
	assert.Equal(t, []string{"*.log"}, res.Exclude)
	assert.True(t, res.NoCache)
	assert.Equal(t, "v2.0", res.GitRef)
}

func TestResolveExplicitEmptyExcludeReplaces(t *testing.T) {
	cfg := config.Default()
	tmpl := &registry.Template{Name: "web", Exclude: []string{"docs"}}

	// An empty but non-nil CLI slice clears the inherited patterns.
	res := Resolve(Overrides{Exclude: []string{}}, tmpl, cfg)
	assert.Empty(t, res.Exclude)
}

func TestResolveDoesNotMutateInputs(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude = []string{"a"}
	tmpl := &registry.Template{Name: "web", Exclude: []string{"b"}}

	res := Resolve(Overrides{}, tmpl, cfg)
	res.Exclude[0] = "mutated"

	assert.Equal(t, []string{"a"}, cfg.Exclude)
	assert.Equal(t, []string{"b"}, tmpl.Exclude)
}
