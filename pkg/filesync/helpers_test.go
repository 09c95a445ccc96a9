package filesync_test

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"slices"
	"testing"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/agentpkg/pkgsync/pkg/pkgfile"
	"github.com/agentpkg/pkgsync/pkg/project"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// recordingProject counts batch notifications and the directories removed.
type recordingProject struct {
	*project.FileSystem

	begins      []batchCall
	ends        int
	removedDirs []string
}

type batchCall struct {
	paths     []string
	direction filesync.Direction
}

func (r *recordingProject) BeginProcessing(paths []string, direction filesync.Direction) {
	r.begins = append(r.begins, batchCall{paths: paths, direction: direction})
	r.FileSystem.BeginProcessing(paths, direction)
}

func (r *recordingProject) EndProcessing() {
	r.ends++
	r.FileSystem.EndProcessing()
}

func (r *recordingProject) DeleteDirectorySafe(path string, recursive bool) {
	r.removedDirs = append(r.removedDirs, path)
	r.FileSystem.DeleteDirectorySafe(path, recursive)
}

// unsortedProject hides the FileSorter and BatchProcessor capabilities.
type unsortedProject struct {
	filesync.Project
}

func newProject(t *testing.T, opts project.Options) (*recordingProject, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	opts.Logger = &log
	if opts.Name == "" {
		opts.Name = "web"
	}
	return &recordingProject{FileSystem: project.NewMemory(opts)}, &buf
}

func read(t *testing.T, p *recordingProject, path string) string {
	t.Helper()
	data, err := afero.ReadFile(p.Fs(), path)
	require.NoError(t, err)
	return string(data)
}

func write(t *testing.T, p *recordingProject, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(p.Fs(), path, []byte(content), 0o644))
}

func file(path, content string) filesync.File {
	return pkgfile.FromBytes(path, framework.Any, []byte(content))
}

func fwFile(path, fw, content string) filesync.File {
	return pkgfile.FromBytes(path, framework.MustParse(fw), []byte(content))
}

func seq(files ...filesync.File) iter.Seq[filesync.File] {
	return slices.Values(files)
}

type testPackage struct {
	id    string
	files []filesync.File
}

func (p *testPackage) ID() string                    { return p.id }
func (p *testPackage) ContentFiles() []filesync.File { return p.files }

// fakeTransformer writes a marker on install and deletes the target on revert.
type fakeTransformer struct {
	transformed  []string
	reverted     []string
	matching     [][]filesync.File
	transformErr error
	revertErr    error
}

func (f *fakeTransformer) TransformFile(file filesync.File, targetPath string, project filesync.Project) error {
	f.transformed = append(f.transformed, targetPath)
	if f.transformErr != nil {
		return f.transformErr
	}
	return project.AddFile(targetPath, bytes.NewReader([]byte("transformed:"+file.EffectivePath())))
}

func (f *fakeTransformer) RevertFile(file filesync.File, targetPath string, matchingFiles []filesync.File, project filesync.Project) error {
	f.reverted = append(f.reverted, targetPath)
	f.matching = append(f.matching, matchingFiles)
	if f.revertErr != nil {
		return f.revertErr
	}
	project.DeleteFileSafe(targetPath, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("transformed:" + file.EffectivePath()))), nil
	})
	return nil
}

var errBoom = errors.New("boom")
