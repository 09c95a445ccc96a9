package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentpkg/pkgsync/pkg/config"
	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAndOpen(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Init(dir, "web", framework.MustParse("net8.0")))
	assert.Error(t, Init(dir, "web", framework.Any), "second init must fail")

	m, p, err := Open(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, "web", m.Project.Name)
	assert.Equal(t, "net8.0", m.Project.Framework)
	assert.Empty(t, m.Packages)

	assert.Equal(t, "web", p.Name())
	assert.Equal(t, framework.MustParse("net8.0"), p.TargetFramework())
	assert.True(t, p.FileExists(ManifestFile))
}

func TestInitWithoutFramework(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, "tools", framework.Any))

	m, err := config.LoadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	assert.Empty(t, m.Project.Framework)
}

func TestOpenWithoutManifest(t *testing.T) {
	_, _, err := Open(t.TempDir(), Options{})
	assert.Error(t, err)
}

func TestInferName(t *testing.T) {
	assert.Equal(t, "myapp", InferName(filepath.Join("/src", "myapp")))
}

func TestEnsureGitignore(t *testing.T) {
	tests := map[string]struct {
		existing  *string
		entries   []string
		wantAdded []string
		wantFile  string
	}{
		"creates file": {
			entries:   []string{"pkgsync.local.toml"},
			wantAdded: []string{"pkgsync.local.toml"},
			wantFile:  "pkgsync.local.toml\n",
		},
		"appends on a new line": {
			existing:  ptr("bin/"),
			entries:   []string{"pkgsync.local.toml"},
			wantAdded: []string{"pkgsync.local.toml"},
			wantFile:  "bin/\npkgsync.local.toml\n",
		},
		"already present": {
			existing: ptr("bin/\npkgsync.local.toml\n"),
			entries:  []string{"pkgsync.local.toml"},
			wantFile: "bin/\npkgsync.local.toml\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, ".gitignore")
			if tc.existing != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.existing), 0o644))
			}

			added, err := EnsureGitignore(dir, tc.entries)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAdded, added)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.wantFile, string(data))
		})
	}
}
