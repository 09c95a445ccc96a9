package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentpkg/pkgsync/pkg/config"
	"github.com/agentpkg/pkgsync/pkg/store"
)

// ParseRef parses a user-provided reference into a Source. Only local
// filesystem paths (starting with ./, ../, or absolute) are supported.
func ParseRef(ref string) (Source, error) {
	if !isLocalPath(ref) {
		return nil, fmt.Errorf("invalid package reference %q: must be a local path starting with ./, ../ or /", ref)
	}
	return &LocalSource{Path: ref}, nil
}

// StoredSource is a package version already copied into the store by an
// earlier install.
type StoredSource struct {
	ID  string
	Ref config.PackageRef
}

var _ Source = &StoredSource{}

func (s *StoredSource) Fetch(ctx context.Context, st store.Store) (*ResolvedSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segs := StoreSegments(s.ID, s.Ref.Version)
	ok, err := st.Exists(segs...)
	if err != nil {
		return nil, fmt.Errorf("checking store for %s@%s: %w", s.ID, s.Ref.Version, err)
	}
	if !ok {
		return nil, fmt.Errorf("package %s@%s is not in the store at %s", s.ID, s.Ref.Version, st.Path(segs...))
	}

	integrity, err := st.HashDir(segs...)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", st.Path(segs...), err)
	}
	if s.Ref.Integrity != "" && integrity != s.Ref.Integrity {
		return nil, fmt.Errorf("package %s@%s in the store does not match the recorded integrity", s.ID, s.Ref.Version)
	}

	return &ResolvedSource{
		Dir:       st.Path(segs...),
		ID:        s.ID,
		Version:   s.Ref.Version,
		Origin:    s.Ref.Source,
		Integrity: integrity,
	}, nil
}

// isLocalPath reports whether ref looks like a local filesystem path.
func isLocalPath(ref string) bool {
	return strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") || ref == "." || filepath.IsAbs(ref)
}
