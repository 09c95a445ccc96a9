package filesync

import (
	"fmt"
	"io"
	"strings"
)

// Resolution is the answer to a file conflict. The "All" variants mean the
// same as their single counterparts here; remembering them for later
// conflicts is up to whoever answers.
type Resolution int

const (
	Overwrite Resolution = iota
	Ignore
	OverwriteAll
	IgnoreAll
)

var resolutionNames = map[Resolution]string{
	Overwrite:    "overwrite",
	Ignore:       "ignore",
	OverwriteAll: "overwrite-all",
	IgnoreAll:    "ignore-all",
}

func (r Resolution) String() string {
	if s, ok := resolutionNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// ParseResolution parses the String form of a Resolution.
func ParseResolution(s string) (Resolution, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range resolutionNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown conflict resolution %q", s)
}

// TryAddFile adds the content returned by open at path. If a file is already
// there the project decides whether it is overwritten or left alone.
func TryAddFile(project Project, path string, open func() (io.ReadCloser, error)) error {
	if !project.FileExists(path) {
		return addFile(project, path, open)
	}

	message := fmt.Sprintf("File '%s' already exists in project '%s'. Do you want to overwrite it?", path, project.Name())
	log := project.Logger()

	switch project.ResolveFileConflict(message) {
	case Overwrite, OverwriteAll:
		if err := addFile(project, path, open); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("File already exists, overwritten")
	case Ignore, IgnoreAll:
		log.Info().Str("path", path).Msg("File already exists, skipped")
	}
	return nil
}

func addFile(project Project, path string, open func() (io.ReadCloser, error)) error {
	r, err := open()
	if err != nil {
		return fmt.Errorf("opening package file for %s: %w", path, err)
	}
	defer r.Close()

	if err := project.AddFile(path, r); err != nil {
		return fmt.Errorf("adding %s: %w", path, err)
	}
	return nil
}
