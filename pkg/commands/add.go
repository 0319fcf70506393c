package commands

import (
	"path/filepath"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/gitcache"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// AddRequest carries the add command's arguments.
type AddRequest struct {
	Path        string
	Name        string
	Description string
	Git         *types.GitMode
	GitRef      string
	NoCache     bool
}

// Add registers a directory or git URL as a template. URL templates are
// eagerly cached so the first init is cheap and the URL is validated
// now rather than later.
func Add(req AddRequest) (*registry.Template, error) {
	var location, name string

	if registry.IsGitURL(req.Path) {
		location = req.Path
		if !req.NoCache {
			if _, err := gitcache.Default().Ensure(location, req.GitRef); err != nil {
				return nil, err
			}
		}
		name = req.Name
		if name == "" {
			name = urlBasename(location)
		}
	} else {
		canonical, err := filepath.Abs(req.Path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid template path %s", req.Path)
		}
		resolved, err := filepath.EvalSymlinks(canonical)
		if err != nil {
			return nil, errors.Newf(errors.ErrTemplateMissing, "path not found: %s", req.Path)
		}
		location = resolved
		name = req.Name
		if name == "" {
			name = filepath.Base(resolved)
		}
	}

	tmpl := registry.Template{
		Name:        name,
		Location:    location,
		Description: req.Description,
		Git:         req.Git,
		GitRef:      req.GitRef,
		NoCache:     req.NoCache,
	}

	reg, err := registry.Load()
	if err != nil {
		return nil, err
	}
	if err := reg.Add(tmpl); err != nil {
		return nil, err
	}
	if err := reg.Save(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// urlBasename derives a template name from a git URL: the last path
// segment, minus any .git suffix.
func urlBasename(url string) string {
	trimmed := strings.TrimSuffix(url, "/")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if trimmed == "" {
		return "template"
	}
	return trimmed
}
