package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options configures a FileSystem project.
type Options struct {
	Name      string
	Framework framework.Name
	// Unsupported lists file name globs (matched against the base name,
	// case-insensitively) that are never installed or removed.
	Unsupported []string
	// Properties are substituted into preprocessed files.
	Properties map[string]string
	// Resolver decides file conflicts. Without one, existing files are kept.
	Resolver ConflictResolver
	Logger   *zerolog.Logger
}

// FileSystem is a project rooted in an afero filesystem.
type FileSystem struct {
	fs    afero.Fs
	opts  Options
	log   *zerolog.Logger
	batch *batch
	stats Stats
}

var (
	_ filesync.Project        = &FileSystem{}
	_ filesync.FileSorter     = &FileSystem{}
	_ filesync.BatchProcessor = &FileSystem{}
)

// New returns a project over fsys. Paths handed to the project are relative
// to the root of fsys.
func New(fsys afero.Fs, opts Options) *FileSystem {
	log := opts.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &FileSystem{fs: fsys, opts: opts, log: log}
}

// NewOS returns a project rooted at dir on the local disk.
func NewOS(dir string, opts Options) *FileSystem {
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir), opts)
}

// NewMemory returns an empty in-memory project.
func NewMemory(opts Options) *FileSystem {
	fsys := afero.NewBasePathFs(afero.NewMemMapFs(), "/project")
	_ = fsys.MkdirAll(".", dirPerm)
	return New(fsys, opts)
}

// Fs exposes the underlying filesystem.
func (p *FileSystem) Fs() afero.Fs { return p.fs }

func (p *FileSystem) Name() string { return p.opts.Name }

func (p *FileSystem) TargetFramework() framework.Name { return p.opts.Framework }

func (p *FileSystem) Logger() *zerolog.Logger { return p.log }

func (p *FileSystem) ResolvePath(effectivePath string) string {
	return filepath.FromSlash(effectivePath)
}

func (p *FileSystem) IsSupportedFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, pattern := range p.opts.Unsupported {
		if ok, _ := filepath.Match(strings.ToLower(pattern), base); ok {
			return false
		}
	}
	return true
}

func (p *FileSystem) FileExists(path string) bool {
	info, err := p.fs.Stat(p.name(path))
	return err == nil && !info.IsDir()
}

func (p *FileSystem) DirectoryExists(path string) bool {
	info, err := p.fs.Stat(p.name(path))
	return err == nil && info.IsDir()
}

func (p *FileSystem) AddFile(path string, content io.Reader) error {
	if err := afero.WriteReader(p.fs, p.name(path), content); err != nil {
		return err
	}
	p.log.Debug().Str("path", path).Msg("Added file")
	p.batch.added()
	return nil
}

// OpenFile opens an existing project file for reading.
func (p *FileSystem) OpenFile(path string) (io.ReadCloser, error) {
	return p.fs.Open(p.name(path))
}

func (p *FileSystem) DeleteFileSafe(path string, open func() (io.ReadCloser, error)) {
	if !p.FileExists(path) {
		return
	}

	same, err := p.contentEquals(path, open)
	if err != nil {
		p.log.Warn().Err(err).Str("path", path).Msg("Could not compare file with package content, keeping it")
		return
	}
	if !same {
		p.log.Warn().Str("path", path).Msg("File was modified, skipping")
		return
	}

	if err := p.fs.Remove(p.name(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.log.Warn().Err(err).Str("path", path).Msg("Failed to delete file")
		return
	}
	p.log.Debug().Str("path", path).Msg("Removed file")
	p.batch.removed()
}

func (p *FileSystem) DeleteDirectorySafe(path string, recursive bool) {
	if !p.DirectoryExists(path) {
		return
	}

	var err error
	if recursive {
		err = p.fs.RemoveAll(p.name(path))
	} else {
		// not every afero backend refuses to remove a non-empty directory
		var empty bool
		if empty, err = afero.IsEmpty(p.fs, p.name(path)); err == nil {
			if !empty {
				err = fmt.Errorf("directory %s is not empty", path)
			} else {
				err = p.fs.Remove(p.name(path))
			}
		}
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.log.Warn().Err(err).Str("path", path).Msg("Failed to delete directory")
		return
	}
	p.log.Debug().Str("path", path).Msg("Removed folder")
}

func (p *FileSystem) GetFilesSafe(dir string) []string {
	return p.children(dir, false)
}

func (p *FileSystem) GetDirectoriesSafe(dir string) []string {
	return p.children(dir, true)
}

func (p *FileSystem) children(dir string, dirs bool) []string {
	entries, err := afero.ReadDir(p.fs, p.name(dir))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.log.Warn().Err(err).Str("path", dir).Msg("Failed to list directory")
		}
		return nil
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() == dirs {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths
}

func (p *FileSystem) ResolveFileConflict(message string) filesync.Resolution {
	if p.opts.Resolver == nil {
		return filesync.Ignore
	}
	return p.opts.Resolver.ResolveFileConflict(message)
}

// Property returns a project property for token substitution. The project
// name and target framework are always available as "projectname" and
// "targetframework". Lookups ignore case.
func (p *FileSystem) Property(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "projectname":
		return p.opts.Name, true
	case "targetframework":
		return p.opts.Framework.String(), true
	}
	for k, v := range p.opts.Properties {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func (p *FileSystem) contentEquals(path string, open func() (io.ReadCloser, error)) (bool, error) {
	existing, err := afero.ReadFile(p.fs, p.name(path))
	if err != nil {
		return false, err
	}

	r, err := open()
	if err != nil {
		return false, fmt.Errorf("opening package content: %w", err)
	}
	defer r.Close()

	expected, err := io.ReadAll(r)
	if err != nil {
		return false, fmt.Errorf("reading package content: %w", err)
	}

	return bytes.Equal(existing, expected), nil
}

// name maps a project path to a name in p.fs; the empty path is the root.
func (p *FileSystem) name(path string) string {
	if path == "" {
		return "."
	}
	return path
}
