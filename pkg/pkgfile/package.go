package pkgfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/pelletier/go-toml/v2"
)

const (
	// MetadataFileName describes a package and sits at its root.
	MetadataFileName = "package.toml"
	// ContentDir holds the files that are synchronized into projects.
	ContentDir = "content"
)

var validIDRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9.-]{0,98}[a-z0-9])?$`)

// Metadata is the content of package.toml.
type Metadata struct {
	ID          string   `toml:"id"`
	Version     string   `toml:"version"`
	Description string   `toml:"description,omitempty"`
	Authors     []string `toml:"authors,omitempty"`
}

// Package is a package laid out on disk.
type Package struct {
	Metadata
	dir   string
	files []filesync.File
}

var _ filesync.Package = &Package{}

// LoadMetadata reads package.toml from dir without scanning content.
func LoadMetadata(dir string) (Metadata, error) {
	path := filepath.Join(dir, MetadataFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read %q: %w", path, err)
	}

	var md Metadata
	if err := toml.Unmarshal(data, &md); err != nil {
		return Metadata{}, fmt.Errorf("failed to unmarshal %q: %w", path, err)
	}
	return md, nil
}

// Load reads the package in dir: its metadata and the list of files under
// content/. A first-level folder named after a framework (content/net45/...)
// scopes its files to that framework and is not part of their effective path.
func Load(dir string) (*Package, error) {
	md, err := LoadMetadata(dir)
	if err != nil {
		return nil, err
	}

	p := &Package{Metadata: md, dir: dir}

	contentRoot := filepath.Join(dir, ContentDir)
	if _, err := os.Stat(contentRoot); errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}

	err = filepath.WalkDir(contentRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(contentRoot, path)
		if err != nil {
			return err
		}
		effectivePath, fw := splitFramework(filepath.ToSlash(rel))
		p.files = append(p.files, FromDisk(effectivePath, fw, path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning content of %q: %w", dir, err)
	}

	return p, nil
}

// splitFramework separates a leading framework folder from a content path.
// Folders that only look like a framework (css3, html5, v2) stay in the path.
func splitFramework(rel string) (string, framework.Name) {
	first, rest, ok := strings.Cut(rel, "/")
	if !ok {
		return rel, framework.Any
	}
	fw, err := framework.Parse(first)
	if err != nil || fw.Version == (framework.Version{}) || !framework.IsKnown(fw) {
		return rel, framework.Any
	}
	return rest, fw
}

func (p *Package) ID() string { return p.Metadata.ID }

// Dir returns where the package lives on disk.
func (p *Package) Dir() string { return p.dir }

func (p *Package) ContentFiles() []filesync.File { return p.files }

// Validate checks the package metadata.
func (p *Package) Validate() error {
	var err error
	if !validIDRegex.MatchString(p.Metadata.ID) {
		err = errors.Join(err, fmt.Errorf("package id must be max 100 characters with only lowercase letters, numbers, dots, and hyphens. must not start or end with a dot or hyphen"))
	}

	if strings.TrimSpace(p.Version) == "" {
		err = errors.Join(err, fmt.Errorf("package version must be provided"))
	} else if strings.ContainsAny(p.Version, `/\`) || p.Version == "." || p.Version == ".." {
		err = errors.Join(err, fmt.Errorf("package version %q must not be a path", p.Version))
	}

	if len(p.Description) > 1024 {
		err = errors.Join(err, fmt.Errorf("package description must be max 1024 characters"))
	}

	return err
}
