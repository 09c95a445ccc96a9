package store

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (slash-separated relative path to content) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestPath(t *testing.T) {
	s := New("/srv/pkgsync")

	assert.Equal(t, "/srv/pkgsync", s.Path())
	assert.Equal(t, filepath.Join("/srv/pkgsync", PackagesDir, "contoso.web", "1.0.0"),
		s.Path(PackagesDir, "contoso.web", "1.0.0"))
}

func TestEnsureDirAndExists(t *testing.T) {
	s := New(t.TempDir())

	ok, err := s.Exists(PackagesDir, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.EnsureDir(PackagesDir, "a"))
	require.NoError(t, s.EnsureDir(PackagesDir, "a"), "EnsureDir is idempotent")

	ok, err = s.Exists(PackagesDir, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.DirExists(t, s.Path(PackagesDir, "a"))
}

func TestRemoveVersionKeepsSiblings(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	writeTree(t, s.Path(PackagesDir, "a"), map[string]string{
		"1.0.0/package.toml":  "v1",
		"1.0.0/content/a.txt": "a",
		"2.0.0/package.toml":  "v2",
	})

	require.NoError(t, s.Remove(PackagesDir, "a", "1.0.0"))
	require.NoError(t, s.Remove(PackagesDir, "a", "9.9.9"), "removing a missing version is not an error")

	assert.NoDirExists(t, s.Path(PackagesDir, "a", "1.0.0"))
	assert.FileExists(t, s.Path(PackagesDir, "a", "2.0.0", "package.toml"))
}

func TestHashDir(t *testing.T) {
	expected := func(pairs ...[2]string) string {
		h := sha256.New()
		for _, p := range pairs {
			h.Write([]byte(p[0]))
			h.Write([]byte(p[1]))
		}
		return hashPrefix + hex.EncodeToString(h.Sum(nil))
	}

	tests := map[string]struct {
		files map[string]string
		want  string
	}{
		"metadata only": {
			files: map[string]string{"package.toml": "id = \"a\""},
			want:  expected([2]string{"package.toml", "id = \"a\""}),
		},
		"sorted by slash path": {
			files: map[string]string{
				"package.toml":           "m",
				"content/net45/b.config": "b",
				"content/a.txt":          "a",
			},
			want: expected(
				[2]string{"content/a.txt", "a"},
				[2]string{"content/net45/b.config", "b"},
				[2]string{"package.toml", "m"},
			),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := New(t.TempDir())
			writeTree(t, s.Path("pkg"), tc.files)

			got, err := s.HashDir("pkg")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			again, err := s.HashDir("pkg")
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestHashDirDetectsChanges(t *testing.T) {
	s := New(t.TempDir())
	writeTree(t, s.Path("pkg"), map[string]string{"content/a.txt": "a"})

	before, err := s.HashDir("pkg")
	require.NoError(t, err)

	writeTree(t, s.Path("pkg"), map[string]string{"content/a.txt": "edited"})
	after, err := s.HashDir("pkg")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)

	_, err = s.HashDir("missing")
	assert.Error(t, err)
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"package.toml":                       "id = \"a\"",
		"content/net45/web.config.transform": "<configuration/>",
	})

	s := New(t.TempDir())
	writeTree(t, s.Path(PackagesDir, "a", "1.0.0"), map[string]string{"old.txt": "stale"})

	require.NoError(t, s.CopyDir(src, PackagesDir, "a", "1.0.0"))

	got, err := os.ReadFile(s.Path(PackagesDir, "a", "1.0.0", "content", "net45", "web.config.transform"))
	require.NoError(t, err)
	assert.Equal(t, "<configuration/>", string(got))
	assert.NoFileExists(t, s.Path(PackagesDir, "a", "1.0.0", "old.txt"), "stale content must not survive")

	srcHash, err := New(filepath.Dir(src)).HashDir(filepath.Base(src))
	require.NoError(t, err)
	dstHash, err := s.HashDir(PackagesDir, "a", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, srcHash, dstHash)

	assert.Error(t, s.CopyDir(filepath.Join(t.TempDir(), "missing"), "x"))
}
