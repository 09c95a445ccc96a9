package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentpkg/pkgsync/pkg/pkgfile"
	"github.com/agentpkg/pkgsync/pkg/store"
)

// LocalSource is a package directory on the local disk.
type LocalSource struct {
	Path string
}

var _ Source = &LocalSource{}

func (l *LocalSource) Fetch(ctx context.Context, s store.Store) (*ResolvedSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(l.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path for %q: %w", l.Path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("local source path does not exist: %s", absPath)
		}
		return nil, fmt.Errorf("checking local source path %s: %w", absPath, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("local source path is not a directory: %s", absPath)
	}

	md, err := pkgfile.LoadMetadata(absPath)
	if err != nil {
		return nil, err
	}
	if err := (&pkgfile.Package{Metadata: md}).Validate(); err != nil {
		return nil, fmt.Errorf("invalid package at %s: %w", absPath, err)
	}

	segs := StoreSegments(md.ID, md.Version)
	if err := s.EnsureDir(segs[:len(segs)-1]...); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	if err := s.CopyDir(absPath, segs...); err != nil {
		return nil, fmt.Errorf("copying %s into the store: %w", absPath, err)
	}

	integrity, err := s.HashDir(segs...)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", s.Path(segs...), err)
	}

	return &ResolvedSource{
		Dir:       s.Path(segs...),
		ID:        md.ID,
		Version:   md.Version,
		Origin:    l.Path,
		Integrity: integrity,
	}, nil
}

// Metadata reads the package's package.toml without copying anything.
func (l *LocalSource) Metadata() (pkgfile.Metadata, error) {
	absPath, err := filepath.Abs(l.Path)
	if err != nil {
		return pkgfile.Metadata{}, fmt.Errorf("resolving absolute path for %q: %w", l.Path, err)
	}
	return pkgfile.LoadMetadata(absPath)
}
