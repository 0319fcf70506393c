package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/registry"
)

func TestAddLocalDirectory(t *testing.T) {
	setupDirs(t)
	source := t.TempDir()
	writeTemplateFile(t, source, "a.txt", "x")

	tmpl, err := Add(AddRequest{Path: source, Name: "web", Description: "web starter"})
	require.NoError(t, err)
	assert.Equal(t, "web", tmpl.Name)
	assert.Equal(t, "web starter", tmpl.Description)

	reg, err := registry.Load()
	require.NoError(t, err)
	saved := reg.Get("web")
	require.NotNil(t, saved)
	assert.Equal(t, tmpl.Location, saved.Location)
}

func TestAddDefaultsNameToDirectoryBasename(t *testing.T) {
	setupDirs(t)
	source := filepath.Join(t.TempDir(), "my-template")
	require.NoError(t, os.MkdirAll(source, 0755))

	tmpl, err := Add(AddRequest{Path: source})
	require.NoError(t, err)
	assert.Equal(t, "my-template", tmpl.Name)
}

func TestAddResolvesSymlinkedLocation(t *testing.T) {
	setupDirs(t)
	root := t.TempDir()
	real := filepath.Join(root, "real")
	require.NoError(t, os.MkdirAll(real, 0755))
	link := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(real, link))

	tmpl, err := Add(AddRequest{Path: link, Name: "tpl"})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(real)
	require.NoError(t, err)
	assert.Equal(t, want, tmpl.Location)
}

func TestAddMissingLocalPath(t *testing.T) {
	setupDirs(t)

	_, err := Add(AddRequest{Path: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTemplateMissing))
}

func TestAddDuplicateName(t *testing.T) {
	setupDirs(t)
	source := t.TempDir()

	_, err := Add(AddRequest{Path: source, Name: "web"})
	require.NoError(t, err)

	_, err = Add(AddRequest{Path: source, Name: "web"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTemplateExists))
}

func TestAddURLWithNoCacheSkipsClone(t *testing.T) {
	setupDirs(t)

	tmpl, err := Add(AddRequest{
		Path:    "https://github.com/example/web-starter.git",
		NoCache: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "web-starter", tmpl.Name)
	assert.Equal(t, "https://github.com/example/web-starter.git", tmpl.Location)
	assert.True(t, tmpl.NoCache)
}

func TestUrlBasename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/user/repo.git", "repo"},
		{"https://github.com/user/repo", "repo"},
		{"https://github.com/user/repo/", "repo"},
		{"git@github.com:user/repo.git", "repo"},
		{"ssh://git@example.com/deep/path/tpl.git", "tpl"},
		{"", "template"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, urlBasename(tt.url), "url %q", tt.url)
	}
}
