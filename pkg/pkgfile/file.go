package pkgfile

import (
	"bytes"
	"io"
	"os"
	"path"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/agentpkg/pkgsync/pkg/framework"
)

// EmptyFolderMarker is the file name packages use to ship an empty directory.
const EmptyFolderMarker = "_._"

// File is a package content file whose bytes are read on demand.
type File struct {
	effectivePath string
	framework     framework.Name
	open          func() (io.ReadCloser, error)
}

var _ filesync.File = &File{}

// NewFile returns a File reading its content through open.
func NewFile(effectivePath string, fw framework.Name, open func() (io.ReadCloser, error)) *File {
	return &File{effectivePath: effectivePath, framework: fw, open: open}
}

// FromBytes returns a File backed by data.
func FromBytes(effectivePath string, fw framework.Name, data []byte) *File {
	return NewFile(effectivePath, fw, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// FromDisk returns a File backed by the file at diskPath.
func FromDisk(effectivePath string, fw framework.Name, diskPath string) *File {
	return NewFile(effectivePath, fw, func() (io.ReadCloser, error) {
		return os.Open(diskPath)
	})
}

func (f *File) EffectivePath() string { return f.effectivePath }

func (f *File) TargetFramework() framework.Name { return f.framework }

func (f *File) Open() (io.ReadCloser, error) { return f.open() }

func (f *File) IsEmptyFolder() bool {
	return path.Base(f.effectivePath) == EmptyFolderMarker
}
