package project

import (
	"path"
	"strings"

	"github.com/agentpkg/pkgsync/pkg/filesync"
)

const dirPerm = 0o755

// CompareFiles orders package files by directory, then by file name without
// its extensions, then shortest name first, so that a file comes right before
// the files that depend on it (Site.master before Site.master.cs).
func (p *FileSystem) CompareFiles(a, b filesync.File) int {
	aDir, aName := path.Split(strings.ToLower(a.EffectivePath()))
	bDir, bName := path.Split(strings.ToLower(b.EffectivePath()))

	if c := strings.Compare(aDir, bDir); c != 0 {
		return c
	}
	if c := strings.Compare(stem(aName), stem(bName)); c != 0 {
		return c
	}
	if c := len(aName) - len(bName); c != 0 {
		return c
	}
	return strings.Compare(aName, bName)
}

func stem(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// batch is the bookkeeping for one BeginProcessing/EndProcessing pair.
type batch struct {
	direction filesync.Direction
	files     int
	nAdded    int
	nRemoved  int
}

func (b *batch) added() {
	if b != nil {
		b.nAdded++
	}
}

func (b *batch) removed() {
	if b != nil {
		b.nRemoved++
	}
}

func (p *FileSystem) BeginProcessing(paths []string, direction filesync.Direction) {
	p.batch = &batch{direction: direction, files: len(paths)}
	p.log.Debug().
		Stringer("direction", direction).
		Int("files", len(paths)).
		Msg("Begin processing")
}

func (p *FileSystem) EndProcessing() {
	b := p.batch
	p.batch = nil
	if b == nil {
		return
	}

	p.stats.Added += b.nAdded
	p.stats.Removed += b.nRemoved

	p.log.Debug().
		Stringer("direction", b.direction).
		Int("files", b.files).
		Int("added", b.nAdded).
		Int("removed", b.nRemoved).
		Msg("End processing")
}

// Stats counts the files written and deleted through completed batches.
type Stats struct {
	Added   int
	Removed int
}

// Stats returns the totals of all batches ended so far.
func (p *FileSystem) Stats() Stats { return p.stats }
