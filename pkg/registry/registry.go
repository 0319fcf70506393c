// Package registry persists the set of named templates as a versioned
// JSON file. The core init path reads a single entry per invocation and
// never mutates it; the add/change/remove commands own mutation.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/paths"
	"github.com/Serenacula/templative/pkg/types"
)

// Version is the current registry schema version.
const Version = 1

// Template is one registered template entry. Pointer fields are
// per-template overrides that stay unset unless the user configured
// them; resolution falls through to the global config.
type Template struct {
	Name        string           `json:"name"`
	Location    string           `json:"location"`
	Description string           `json:"description,omitempty"`
	Git         *types.GitMode   `json:"git,omitempty"`
	GitRef      string           `json:"git_ref,omitempty"`
	Commit      string           `json:"commit,omitempty"`
	PreInit     string           `json:"pre_init,omitempty"`
	PostInit    string           `json:"post_init,omitempty"`
	Exclude     []string         `json:"exclude,omitempty"`
	WriteMode   *types.WriteMode `json:"write_mode,omitempty"`
	NoCache     bool             `json:"no_cache,omitempty"`
}

// IsURL reports whether the template location is a git URL rather than
// a local filesystem path.
func (t Template) IsURL() bool {
	return IsGitURL(t.Location)
}

// IsGitURL reports whether location looks like a remote git source.
func IsGitURL(location string) bool {
	for _, prefix := range []string{"http://", "https://", "git://", "ssh://"} {
		if strings.HasPrefix(location, prefix) {
			return true
		}
	}
	// scp-like syntax: git@host:path
	if strings.HasPrefix(location, "git@") && strings.Contains(location, ":") {
		return true
	}
	return false
}

// Registry is the full on-disk template set.
type Registry struct {
	Version   int        `json:"version"`
	Templates []Template `json:"templates"`
}

// New returns an empty registry at the current schema version.
func New() *Registry {
	return &Registry{Version: Version}
}

// Load reads the registry from the standard location, writing an empty
// file on first run.
func Load() (*Registry, error) {
	path := paths.RegistryPath()
	reg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if saveErr := reg.SaveTo(path); saveErr != nil {
			return nil, saveErr
		}
	}
	return reg, nil
}

// LoadFrom reads the registry from an explicit path. A missing file
// yields an empty registry.
func LoadFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrRegistryLoad, "failed to read registry %s", path)
	}

	reg := &Registry{}
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistryLoad, "failed to parse registry %s", path)
	}
	if reg.Version != Version {
		return nil, errors.Newf(errors.ErrRegistryVersion, "unsupported registry version %d (expected %d)", reg.Version, Version)
	}
	return reg, nil
}

// Save writes the registry to the standard location.
func (r *Registry) Save() error {
	return r.SaveTo(paths.RegistryPath())
}

// SaveTo writes the registry atomically (tmp file + rename), with
// entries sorted by name for stable diffs.
func (r *Registry) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrRegistryLoad, "failed to create registry dir for %s", path)
	}
	r.sortTemplates()
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryLoad, "failed to serialize registry")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrRegistryLoad, "failed to write registry %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, errors.ErrRegistryLoad, "failed to rename registry into place at %s", path)
	}
	return nil
}

// Get returns a pointer to the named template, or nil when absent. The
// pointer aliases registry storage; callers mutating it must Save.
func (r *Registry) Get(name string) *Template {
	for i := range r.Templates {
		if r.Templates[i].Name == name {
			return &r.Templates[i]
		}
	}
	return nil
}

// Add registers a new template, rejecting duplicate names.
func (r *Registry) Add(tmpl Template) error {
	if r.Get(tmpl.Name) != nil {
		return errors.Newf(errors.ErrTemplateExists, "template name already exists: %s", tmpl.Name)
	}
	r.Templates = append(r.Templates, tmpl)
	r.sortTemplates()
	return nil
}

// Remove deletes the named template. A missing name is an error.
func (r *Registry) Remove(name string) error {
	for i := range r.Templates {
		if r.Templates[i].Name == name {
			r.Templates = append(r.Templates[:i], r.Templates[i+1:]...)
			return nil
		}
	}
	return errors.Newf(errors.ErrTemplateNotFound, "template not found: %s", name)
}

// Sorted returns the templates ordered by name.
func (r *Registry) Sorted() []Template {
	r.sortTemplates()
	out := make([]Template, len(r.Templates))
	copy(out, r.Templates)
	return out
}

func (r *Registry) sortTemplates() {
	sort.Slice(r.Templates, func(i, j int) bool {
		return r.Templates[i].Name < r.Templates[j].Name
	})
}
