package commands

import (
	"path/filepath"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
)

// ChangeRequest updates fields on a registered template. Nil pointers
// leave the field untouched; a pointer to the zero value clears it.
type ChangeRequest struct {
	TemplateName string
	Name         *string
	Description  *string
	Location     *string
	Git          **types.GitMode
	GitRef       *string
	Commit       *string
	PreInit      *string
	PostInit     *string
	WriteMode    **types.WriteMode
	Exclude      *[]string
	NoCache      *bool
}

func (r ChangeRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.Location == nil &&
		r.Git == nil && r.GitRef == nil && r.Commit == nil &&
		r.PreInit == nil && r.PostInit == nil && r.WriteMode == nil &&
		r.Exclude == nil && r.NoCache == nil
}

// Change applies the requested field updates and saves the registry.
func Change(req ChangeRequest) error {
	if req.empty() {
		return errors.New(errors.ErrInvalidInput, "no changes specified")
	}

	reg, err := registry.Load()
	if err != nil {
		return err
	}

	if req.Name != nil && *req.Name != req.TemplateName && reg.Get(*req.Name) != nil {
		return errors.Newf(errors.ErrTemplateExists, "template name already exists: %s", *req.Name)
	}

	tmpl := reg.Get(req.TemplateName)
	if tmpl == nil {
		return errors.Newf(errors.ErrTemplateNotFound, "template not found: %s", req.TemplateName)
	}

	if req.Name != nil {
		tmpl.Name = *req.Name
	}
	if req.Description != nil {
		tmpl.Description = *req.Description
	}
	if req.Location != nil {
		location := *req.Location
		if !registry.IsGitURL(location) {
			abs, err := filepath.Abs(location)
			if err != nil {
				return errors.Wrapf(err, errors.ErrInvalidInput, "invalid location %s", location)
			}
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return errors.Newf(errors.ErrTemplateMissing, "path not found: %s", location)
			}
			location = resolved
		}
		tmpl.Location = location
	}
	if req.Git != nil {
		tmpl.Git = *req.Git
	}
	if req.GitRef != nil {
		tmpl.GitRef = *req.GitRef
	}
	if req.Commit != nil {
		tmpl.Commit = *req.Commit
	}
	if req.PreInit != nil {
		tmpl.PreInit = *req.PreInit
	}
	if req.PostInit != nil {
		tmpl.PostInit = *req.PostInit
	}
	if req.WriteMode != nil {
		tmpl.WriteMode = *req.WriteMode
	}
	if req.Exclude != nil {
		tmpl.Exclude = *req.Exclude
	}
	if req.NoCache != nil {
		tmpl.NoCache = *req.NoCache
	}

	return reg.Save()
}
