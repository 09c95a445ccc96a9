package config

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/pelletier/go-toml/v2"
)

// ManifestFileName is the project manifest. The synchronizer never transforms
// a package file landing on this name.
const ManifestFileName = filesync.ManifestFileName

type Manifest struct {
	Project  ProjectConfig         `toml:"project"`
	Packages map[string]PackageRef `toml:"packages,omitempty"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
	// Framework is the project's target framework, e.g. "net8.0". Empty means
	// the project only takes framework-independent content.
	Framework string `toml:"framework,omitempty"`
	// Properties are available to preprocessed (.pp) files as $name$ tokens.
	Properties map[string]string `toml:"properties,omitempty"`
}

// PackageRef records an installed package.
type PackageRef struct {
	Version   string `toml:"version"`
	Source    string `toml:"source,omitempty"`
	Integrity string `toml:"integrity,omitempty"`
}

func UnmarshalManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	err := toml.Unmarshal(data, m)

	return m, err
}

func (m *Manifest) Marshal() ([]byte, error) {
	return toml.Marshal(m)
}

// TargetFramework parses the project framework.
func (m *Manifest) TargetFramework() (framework.Name, error) {
	fw, err := framework.Parse(m.Project.Framework)
	if err != nil {
		return framework.Any, fmt.Errorf("project framework: %w", err)
	}
	return fw, nil
}

// PackageIDs returns the installed package ids in sorted order.
func (m *Manifest) PackageIDs() []string {
	return slices.Sorted(maps.Keys(m.Packages))
}

func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := UnmarshalManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

func SaveFile(path string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
