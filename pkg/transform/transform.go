// Package transform holds the transformers that customize how package files
// with a marker extension are installed into a project and removed again.
//
//	.pp         $token$ substitution from project properties
//	.transform  XML merge into an existing document
//	.merge      JSON, YAML or TOML merge into an existing document
package transform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/agentpkg/pkgsync/pkg/filesync"
)

// FileOpener is implemented by projects whose existing files can be read.
// Transformers that merge into a target file need it.
type FileOpener interface {
	OpenFile(path string) (io.ReadCloser, error)
}

// PropertyProvider is implemented by projects that expose named properties
// for token substitution.
type PropertyProvider interface {
	Property(name string) (string, bool)
}

func readFile(f filesync.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.EffectivePath(), err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.EffectivePath(), err)
	}
	return data, nil
}

// readTarget returns the current content of path in project, or ok == false
// when there is no such file.
func readTarget(project filesync.Project, path string) (data []byte, ok bool, err error) {
	if !project.FileExists(path) {
		return nil, false, nil
	}

	opener, isOpener := project.(FileOpener)
	if !isOpener {
		return nil, false, fmt.Errorf("project %q cannot read existing file %s", project.Name(), path)
	}

	r, err := opener.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	data, err = io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}
