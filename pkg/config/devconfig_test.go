package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDevConfig(t *testing.T) {
	tests := map[string]struct {
		global string
		local  string
		env    map[string]string
		flags  Overrides
		want   DevConfig
	}{
		"no config files uses defaults": {
			want: DevConfig{Conflict: "prompt"},
		},
		"global only": {
			global: "conflict = \"ignore\"\nunsupported = [\"*.tt\"]\n",
			want:   DevConfig{Conflict: "ignore", Unsupported: []string{"*.tt"}},
		},
		"local merges over global": {
			global: "conflict = \"ignore\"\nunsupported = [\"*.tt\"]\n",
			local:  "conflict = \"overwrite\"\n",
			want:   DevConfig{Conflict: "overwrite", Unsupported: []string{"*.tt"}},
		},
		"environment beats local": {
			local: "conflict = \"overwrite\"\nstore = \"/from/local\"\n",
			env:   map[string]string{"PKGSYNC_CONFLICT": "ignore"},
			want:  DevConfig{Conflict: "ignore", Store: "/from/local"},
		},
		"flags override everything": {
			global: "conflict = \"ignore\"\n",
			local:  "conflict = \"overwrite\"\n",
			env:    map[string]string{"PKGSYNC_CONFLICT": "ignore"},
			flags:  Overrides{Conflict: "prompt", Store: "/from/flag"},
			want:   DevConfig{Conflict: "prompt", Store: "/from/flag"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			globalPath := filepath.Join(dir, "global-config.toml")
			localPath := filepath.Join(dir, LocalConfigFile)

			if tc.global != "" {
				writeTestConfig(t, globalPath, tc.global)
			}
			if tc.local != "" {
				writeTestConfig(t, localPath, tc.local)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := loadDevConfig(tc.flags, globalPath, localPath)
			if err != nil {
				t.Fatalf("loadDevConfig() error = %v", err)
			}

			if cfg.Conflict != tc.want.Conflict {
				t.Errorf("Conflict = %q, want %q", cfg.Conflict, tc.want.Conflict)
			}
			if cfg.Store != tc.want.Store {
				t.Errorf("Store = %q, want %q", cfg.Store, tc.want.Store)
			}
			if !slicesEqual(cfg.Unsupported, tc.want.Unsupported) {
				t.Errorf("Unsupported = %v, want %v", cfg.Unsupported, tc.want.Unsupported)
			}
		})
	}
}

func TestLoadDevConfigInvalidLocal(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, LocalConfigFile)
	writeTestConfig(t, localPath, "conflict = [")

	if _, err := loadDevConfig(Overrides{}, filepath.Join(dir, "missing.toml"), localPath); err == nil {
		t.Fatal("expected error for malformed local config")
	}
}

func TestWriteLocalDevConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := WriteLocalDevConfig(dir, &DevConfig{Conflict: "overwrite"}); err != nil {
		t.Fatalf("WriteLocalDevConfig() error = %v", err)
	}

	cfg, err := loadDevConfig(Overrides{}, filepath.Join(dir, "missing.toml"), filepath.Join(dir, LocalConfigFile))
	if err != nil {
		t.Fatalf("loadDevConfig() error = %v", err)
	}
	if cfg.Conflict != "overwrite" {
		t.Errorf("Conflict = %q, want overwrite", cfg.Conflict)
	}
}

func writeTestConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func slicesEqual(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
