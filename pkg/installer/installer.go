package installer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/agentpkg/pkgsync/pkg/config"
	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/agentpkg/pkgsync/pkg/pkgfile"
	"github.com/agentpkg/pkgsync/pkg/source"
	"github.com/agentpkg/pkgsync/pkg/store"
	"github.com/agentpkg/pkgsync/pkg/transform"
)

var (
	ErrAlreadyInstalled = errors.New("package is already installed")
	ErrNotInstalled     = errors.New("package is not installed")
	ErrIncompatible     = errors.New("package has no content compatible with the project framework")
)

// Installer synchronizes packages into a project and keeps the project
// manifest in step. The caller saves Manifest once an operation succeeds.
type Installer struct {
	Store    store.Store
	Project  filesync.Project
	Manifest *config.Manifest
	// Transformers defaults to transform.DefaultTable().
	Transformers filesync.TransformerTable
}

func (inst *Installer) transformers() filesync.TransformerTable {
	if inst.Transformers == nil {
		inst.Transformers = transform.DefaultTable()
	}
	return inst.Transformers
}

// Install fetches src into the store and copies its compatible content into
// the project. Installing a different version of an installed package
// removes the old version first. A store copy made by a failed install is
// dropped again unless the store already held that version.
func (inst *Installer) Install(ctx context.Context, src source.Source) (*pkgfile.Package, error) {
	fresh := false
	if d, ok := src.(source.Describer); ok {
		md, err := d.Metadata()
		if err != nil {
			return nil, fmt.Errorf("reading package metadata: %w", err)
		}
		if err := inst.checkNotInstalled(md.ID, md.Version); err != nil {
			return nil, err
		}
		exists, err := inst.Store.Exists(source.StoreSegments(md.ID, md.Version)...)
		if err != nil {
			return nil, fmt.Errorf("checking package store: %w", err)
		}
		fresh = !exists
	}

	resolved, err := src.Fetch(ctx, inst.Store)
	if err != nil {
		return nil, fmt.Errorf("fetching package: %w", err)
	}

	p, files, err := inst.prepare(resolved)
	if err != nil {
		if fresh {
			inst.discard(resolved)
		}
		return nil, err
	}

	if _, ok := inst.Manifest.Packages[p.ID()]; ok {
		if err := inst.Remove(ctx, p.ID()); err != nil {
			return nil, fmt.Errorf("removing previous version of %q: %w", p.ID(), err)
		}
	}

	if err := filesync.Install(inst.Project, slices.Values(files), inst.transformers()); err != nil {
		return nil, fmt.Errorf("installing %s@%s: %w", p.ID(), p.Version, err)
	}

	if inst.Manifest.Packages == nil {
		inst.Manifest.Packages = make(map[string]config.PackageRef)
	}
	inst.Manifest.Packages[p.ID()] = config.PackageRef{
		Version:   p.Version,
		Source:    resolved.Origin,
		Integrity: resolved.Integrity,
	}

	inst.Project.Logger().Info().
		Str("package", p.ID()).
		Str("version", p.Version).
		Int("files", len(files)).
		Msg("Installed package")

	return p, nil
}

// prepare loads a fetched package and picks the files to install. Nothing in
// the project is touched.
func (inst *Installer) prepare(resolved *source.ResolvedSource) (*pkgfile.Package, []filesync.File, error) {
	p, err := pkgfile.Load(resolved.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading package: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validating package %q: %w", p.ID(), err)
	}

	if p.ID() != resolved.ID || p.Version != resolved.Version {
		return nil, nil, fmt.Errorf("store copy at %s holds %s@%s, expected %s@%s",
			resolved.Dir, p.ID(), p.Version, resolved.ID, resolved.Version)
	}

	if err := inst.checkNotInstalled(p.ID(), p.Version); err != nil {
		return nil, nil, err
	}

	files, err := inst.compatibleFiles(p)
	if err != nil {
		return nil, nil, err
	}
	return p, files, nil
}

func (inst *Installer) discard(resolved *source.ResolvedSource) {
	log := inst.Project.Logger()
	if err := inst.Store.Remove(source.StoreSegments(resolved.ID, resolved.Version)...); err != nil {
		log.Warn().Err(err).Str("package", resolved.ID).Msg("Could not remove package from the store")
		return
	}
	log.Debug().Str("package", resolved.ID).Str("version", resolved.Version).Msg("Removed package from the store")
}

// Restore copies the content of every package in the manifest back into the
// project from the store, in id order.
func (inst *Installer) Restore(ctx context.Context) error {
	for _, id := range inst.Manifest.PackageIDs() {
		p, err := inst.load(ctx, id, inst.Manifest.Packages[id])
		if err != nil {
			return err
		}

		files, err := inst.compatibleFiles(p)
		if err != nil {
			return err
		}

		if err := filesync.Install(inst.Project, slices.Values(files), inst.transformers()); err != nil {
			return fmt.Errorf("restoring %s@%s: %w", id, p.Version, err)
		}

		inst.Project.Logger().Info().Str("package", id).Str("version", p.Version).Msg("Restored package")
	}
	return nil
}

// Remove deletes a package's content from the project. Content also provided
// by the other installed packages is kept by the transformers that merge it.
func (inst *Installer) Remove(ctx context.Context, id string) error {
	ref, ok := inst.Manifest.Packages[id]
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrNotInstalled)
	}

	p, err := inst.load(ctx, id, ref)
	if err != nil {
		return err
	}

	others, err := inst.otherPackages(ctx, id)
	if err != nil {
		return err
	}

	files := filesync.CompatibleFiles(inst.Project, p.ContentFiles())
	filesync.Uninstall(inst.Project, slices.Values(files), others, inst.transformers())

	delete(inst.Manifest.Packages, id)

	inst.Project.Logger().Info().Str("package", id).Str("version", ref.Version).Msg("Removed package")
	return nil
}

func (inst *Installer) checkNotInstalled(id, version string) error {
	if ref, ok := inst.Manifest.Packages[id]; ok && ref.Version == version {
		return fmt.Errorf("%s@%s: %w", id, version, ErrAlreadyInstalled)
	}
	return nil
}

func (inst *Installer) compatibleFiles(p *pkgfile.Package) ([]filesync.File, error) {
	files, ok := filesync.TryGetCompatibleFiles(inst.Project, p.ContentFiles())
	if !ok {
		return nil, fmt.Errorf("%s@%s for %s: %w", p.ID(), p.Version, inst.Project.TargetFramework(), ErrIncompatible)
	}
	return files, nil
}

func (inst *Installer) load(ctx context.Context, id string, ref config.PackageRef) (*pkgfile.Package, error) {
	resolved, err := (&source.StoredSource{ID: id, Ref: ref}).Fetch(ctx, inst.Store)
	if err != nil {
		return nil, fmt.Errorf("loading installed package %q: %w", id, err)
	}
	p, err := pkgfile.Load(resolved.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading installed package %q: %w", id, err)
	}
	return p, nil
}

func (inst *Installer) otherPackages(ctx context.Context, exclude string) ([]filesync.Package, error) {
	var others []filesync.Package
	for _, id := range inst.Manifest.PackageIDs() {
		if id == exclude {
			continue
		}
		p, err := inst.load(ctx, id, inst.Manifest.Packages[id])
		if err != nil {
			return nil, err
		}
		others = append(others, p)
	}
	return others, nil
}
