package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentpkg/pkgsync/pkg/config"
	"github.com/agentpkg/pkgsync/pkg/framework"
)

const ManifestFile = config.ManifestFileName

// IgnoredFiles are project files that hold per-developer state and should be
// gitignored.
var IgnoredFiles = []string{
	config.LocalConfigFile,
}

// InferName derives a project name from the given directory path.
func InferName(dir string) string {
	return filepath.Base(dir)
}

// Init creates a pkgsync.toml manifest in dir with the given project name and
// target framework. Returns an error if the manifest already exists.
func Init(dir, name string, fw framework.Name) error {
	path := filepath.Join(dir, ManifestFile)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", ManifestFile)
	}

	m := &config.Manifest{
		Project: config.ProjectConfig{Name: name},
	}
	if !fw.IsAny() {
		m.Project.Framework = fw.String()
	}

	if err := config.SaveFile(path, m); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// Open loads the manifest in dir and returns it together with an on-disk
// project configured from it.
func Open(dir string, opts Options) (*config.Manifest, *FileSystem, error) {
	m, err := config.LoadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, nil, err
	}

	fw, err := m.TargetFramework()
	if err != nil {
		return nil, nil, err
	}

	opts.Name = m.Project.Name
	opts.Framework = fw
	opts.Properties = m.Project.Properties

	return m, NewOS(dir, opts), nil
}

// EnsureGitignore ensures that each entry appears somewhere in the .gitignore
// file within dir. Only entries not already present are appended. Returns the
// list of entries that were actually added.
func EnsureGitignore(dir string, entries []string) ([]string, error) {
	path := filepath.Join(dir, ".gitignore")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(existing), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var toAdd []string
	for _, entry := range entries {
		if !present[entry] {
			toAdd = append(toAdd, entry)
		}
	}

	if len(toAdd) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return nil, err
		}
	}

	for _, entry := range toAdd {
		if _, err := f.WriteString(entry + "\n"); err != nil {
			return nil, err
		}
	}

	return toAdd, nil
}
