package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentpkg/pkgsync/pkg/config"
	"github.com/agentpkg/pkgsync/pkg/installer"
	"github.com/agentpkg/pkgsync/pkg/logging"
	"github.com/agentpkg/pkgsync/pkg/project"
	"github.com/agentpkg/pkgsync/pkg/store"
)

// session is an opened project together with the installer working on it.
type session struct {
	dir       string
	manifest  *config.Manifest
	project   *project.FileSystem
	installer *installer.Installer
}

func openSession() (*session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	resolver, err := project.PolicyResolver(DevCfg.Conflict, project.ConflictResolverFunc(promptConflict))
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("project")
	m, p, err := project.Open(wd, project.Options{
		Unsupported: DevCfg.Unsupported,
		Resolver:    resolver,
		Logger:      &logger,
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no %s in %s, run pkgsync init first", project.ManifestFile, wd)
	}
	if err != nil {
		return nil, err
	}

	s, err := openStore()
	if err != nil {
		return nil, err
	}

	return &session{
		dir:      wd,
		manifest: m,
		project:  p,
		installer: &installer.Installer{
			Store:    s,
			Project:  p,
			Manifest: m,
		},
	}, nil
}

func openStore() (store.Store, error) {
	if DevCfg.Store != "" {
		return store.New(DevCfg.Store), nil
	}
	return store.Default()
}

func (s *session) save() error {
	path := filepath.Join(s.dir, project.ManifestFile)
	if err := config.SaveFile(path, s.manifest); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
