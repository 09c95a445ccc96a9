package filesync

import (
	"io"

	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/rs/zerolog"
)

// ManifestFileName is the project's own package manifest. It is never handed
// to a transformer, see ResolveTarget.
const ManifestFileName = "pkgsync.toml"

// File is a single entry of a package's content.
type File interface {
	// EffectivePath is the slash-separated path relative to the package
	// content root, with any framework folder removed.
	EffectivePath() string
	// TargetFramework is the framework the file was built for, or
	// framework.Any.
	TargetFramework() framework.Name
	// Open returns a fresh stream over the file's bytes.
	Open() (io.ReadCloser, error)
	// IsEmptyFolder reports whether the entry only marks an empty directory.
	IsEmptyFolder() bool
}

// Package is an installed package as seen by the uninstaller when looking for
// content shared with the package being removed.
type Package interface {
	ID() string
	ContentFiles() []File
}

// Transformer customizes how files with a given extension are installed and
// removed.
type Transformer interface {
	TransformFile(file File, targetPath string, project Project) error
	// RevertFile undoes TransformFile. matchingFiles holds the compatible
	// files with the same effective path from other installed packages.
	RevertFile(file File, targetPath string, matchingFiles []File, project Project) error
}

// TransformerTable maps a file extension, including the dot, to the
// transformer responsible for it.
type TransformerTable map[string]Transformer

// Project is the file tree packages are synchronized into. All paths are
// relative to the project root in the project's native separator convention.
type Project interface {
	Name() string
	TargetFramework() framework.Name
	Logger() *zerolog.Logger

	// ResolvePath maps a package effective path to a project path.
	ResolvePath(effectivePath string) string
	IsSupportedFile(path string) bool

	FileExists(path string) bool
	DirectoryExists(path string) bool
	// AddFile creates or replaces the file at path.
	AddFile(path string, content io.Reader) error
	// DeleteFileSafe removes the file at path when its content still equals
	// the stream returned by open. A missing file is not an error.
	DeleteFileSafe(path string, open func() (io.ReadCloser, error))
	// DeleteDirectorySafe removes the directory at path. A missing directory
	// is not an error.
	DeleteDirectorySafe(path string, recursive bool)
	// GetFilesSafe and GetDirectoriesSafe list the direct children of dir and
	// return nothing when dir does not exist.
	GetFilesSafe(dir string) []string
	GetDirectoriesSafe(dir string) []string

	// ResolveFileConflict blocks until a decision is made about overwriting an
	// existing file.
	ResolveFileConflict(message string) Resolution
}

// FileSorter is implemented by projects that want package files processed in
// a particular order.
type FileSorter interface {
	CompareFiles(a, b File) int
}

// BatchProcessor is implemented by projects that want to be told about a set
// of files before any of them is touched.
type BatchProcessor interface {
	BeginProcessing(paths []string, direction Direction)
	EndProcessing()
}

// Direction is the kind of change a batch is about to make.
type Direction int

const (
	DirectionInstall Direction = iota
	DirectionUninstall
)

func (d Direction) String() string {
	if d == DirectionUninstall {
		return "uninstall"
	}
	return "install"
}
