package pkgfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, MetadataFileName), `
id = "contoso.web"
version = "1.2.0"
description = "Web helpers"
authors = ["contoso"]
`)
	writeFile(t, filepath.Join(dir, ContentDir, "readme.txt"), "hello")
	writeFile(t, filepath.Join(dir, ContentDir, "images", "logo.svg"), "<svg/>")
	writeFile(t, filepath.Join(dir, ContentDir, "net45", "web.config.transform"), "<configuration/>")
	writeFile(t, filepath.Join(dir, ContentDir, "netstandard2.0", "lib", "util.cs.pp"), "namespace $rootnamespace$")
	writeFile(t, filepath.Join(dir, ContentDir, "logs", EmptyFolderMarker), "")
	writeFile(t, filepath.Join(dir, ContentDir, "css3", "site.css"), "body{}")
	writeFile(t, filepath.Join(dir, ContentDir, "es6", "app.js"), "export {}")
	writeFile(t, filepath.Join(dir, ContentDir, "v2", "api.json"), "{}")

	p, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "contoso.web", p.ID())
	assert.Equal(t, "1.2.0", p.Version)
	assert.Equal(t, dir, p.Dir())

	got := map[string]string{}
	var empty []string
	for _, f := range p.ContentFiles() {
		got[f.EffectivePath()] = f.TargetFramework().String()
		if f.IsEmptyFolder() {
			empty = append(empty, f.EffectivePath())
		}
	}
	assert.Equal(t, map[string]string{
		"readme.txt":           "any",
		"images/logo.svg":      "any",
		"web.config.transform": "net45",
		"lib/util.cs.pp":       "netstandard2.0",
		"logs/_._":             "any",
		"css3/site.css":        "any",
		"es6/app.js":           "any",
		"v2/api.json":          "any",
	}, got)
	assert.Equal(t, []string{"logs/_._"}, empty)
}

func TestLoadWithoutContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, MetadataFileName), "id = \"empty\"\nversion = \"0.1.0\"\n")

	p, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, p.ContentFiles())
}

func TestLoadMissingMetadata(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestFileOpenIsLazy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	f := FromDisk("a.txt", framework.Any, path)

	writeFile(t, path, "written after construction")

	r, err := f.Open()
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "written after construction", string(data))
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		md       Metadata
		wantErrs []string
	}{
		"valid": {
			md: Metadata{ID: "my-pkg.core", Version: "1.0.0"},
		},
		"uppercase id": {
			md:       Metadata{ID: "MyPkg", Version: "1.0.0"},
			wantErrs: []string{"package id"},
		},
		"trailing dot": {
			md:       Metadata{ID: "pkg.", Version: "1.0.0"},
			wantErrs: []string{"package id"},
		},
		"missing version and long description": {
			md:       Metadata{ID: "pkg", Description: strings.Repeat("x", 1025)},
			wantErrs: []string{"version", "description"},
		},
		"version with separator": {
			md:       Metadata{ID: "pkg", Version: "../1.0"},
			wantErrs: []string{"must not be a path"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := (&Package{Metadata: tc.md}).Validate()
			if len(tc.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tc.wantErrs {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
