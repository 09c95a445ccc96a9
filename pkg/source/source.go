package source

import (
	"context"

	"github.com/agentpkg/pkgsync/pkg/pkgfile"
	"github.com/agentpkg/pkgsync/pkg/store"
)

type Source interface {
	// Fetch copies the package into the store and returns where it landed
	// together with its identity and integrity for the manifest.
	Fetch(ctx context.Context, store store.Store) (*ResolvedSource, error)
}

// Describer is implemented by sources that can report which package they
// hold before it is fetched.
type Describer interface {
	Metadata() (pkgfile.Metadata, error)
}

type ResolvedSource struct {
	Dir       string // Path to the package in the store
	ID        string // Package id from package.toml
	Version   string // Package version from package.toml
	Origin    string // Where the package was fetched from, as recorded in the manifest
	Integrity string // SHA256 of directory contents
}

// StoreSegments returns the store location of a package version.
func StoreSegments(id, version string) []string {
	return []string{store.PackagesDir, id, version}
}
