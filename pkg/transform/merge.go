package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/pelletier/go-toml/v2"
	"sigs.k8s.io/yaml"
)

func init() {
	mustRegister(".merge", &MergeTransformer{})
}

// MergeTransformer merges a JSON, YAML or TOML fragment into the target
// document. The format is picked from the target's extension.
//
// Keys missing from the document are added and maps are merged recursively;
// values already in the document win. List items missing from a document list
// are appended.
type MergeTransformer struct{}

var _ filesync.Transformer = &MergeTransformer{}

type codec struct {
	unmarshal func([]byte) (map[string]any, error)
	marshal   func(map[string]any) ([]byte, error)
}

var codecs = map[string]codec{
	".json": {unmarshal: unmarshalYAML, marshal: marshalJSON},
	".yaml": {unmarshal: unmarshalYAML, marshal: marshalYAML},
	".yml":  {unmarshal: unmarshalYAML, marshal: marshalYAML},
	".toml": {unmarshal: unmarshalTOML, marshal: marshalTOML},
}

func (m *MergeTransformer) TransformFile(file filesync.File, targetPath string, project filesync.Project) error {
	c, err := codecFor(targetPath)
	if err != nil {
		return err
	}

	fragment, err := readDocument(c, file)
	if err != nil {
		return err
	}

	doc, _, err := loadTargetDocument(c, project, targetPath)
	if err != nil {
		return err
	}

	return writeStructured(c, project, targetPath, mergeMaps(doc, fragment))
}

// RevertFile removes from the target document what file added, keeping
// whatever matchingFiles from other packages also provide.
func (m *MergeTransformer) RevertFile(file filesync.File, targetPath string, matchingFiles []filesync.File, project filesync.Project) error {
	c, err := codecFor(targetPath)
	if err != nil {
		return err
	}

	fragment, err := readDocument(c, file)
	if err != nil {
		return err
	}

	kept := map[string]any{}
	for _, f := range matchingFiles {
		other, err := readDocument(c, f)
		if err != nil {
			return err
		}
		kept = mergeMaps(kept, other)
	}

	doc, exists, err := loadTargetDocument(c, project, targetPath)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	return writeStructured(c, project, targetPath, exceptMaps(doc, exceptMaps(fragment, kept)))
}

func codecFor(targetPath string) (codec, error) {
	ext := strings.ToLower(filepath.Ext(targetPath))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, fmt.Errorf("cannot merge into %s: unsupported format %q", targetPath, ext)
	}
	return c, nil
}

func readDocument(c codec, f filesync.File) (map[string]any, error) {
	data, err := readFile(f)
	if err != nil {
		return nil, err
	}
	doc, err := c.unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.EffectivePath(), err)
	}
	return doc, nil
}

func loadTargetDocument(c codec, project filesync.Project, path string) (map[string]any, bool, error) {
	data, ok, err := readTarget(project, path)
	if err != nil || !ok {
		return map[string]any{}, ok, err
	}
	doc, err := c.unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, true, nil
}

func writeStructured(c codec, project filesync.Project, path string, doc map[string]any) error {
	data, err := c.marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", path, err)
	}
	return project.AddFile(path, bytes.NewReader(data))
}

// mergeMaps adds to dst what src has and dst lacks.
func mergeMaps(dst, src map[string]any) map[string]any {
	for k, sv := range src {
		dv, ok := dst[k]
		if !ok {
			dst[k] = sv
			continue
		}
		switch d := dv.(type) {
		case map[string]any:
			if s, ok := sv.(map[string]any); ok {
				dst[k] = mergeMaps(d, s)
			}
		case []any:
			if s, ok := sv.([]any); ok {
				dst[k] = mergeLists(d, s)
			}
		}
	}
	return dst
}

func mergeLists(dst, src []any) []any {
	for _, item := range src {
		if !containsValue(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}

// exceptMaps removes from dst the values src also has, dropping maps and
// lists left empty.
func exceptMaps(dst, src map[string]any) map[string]any {
	for k, sv := range src {
		dv, ok := dst[k]
		if !ok {
			continue
		}
		switch d := dv.(type) {
		case map[string]any:
			s, ok := sv.(map[string]any)
			if !ok {
				continue
			}
			if rest := exceptMaps(d, s); len(rest) > 0 {
				dst[k] = rest
				continue
			}
			delete(dst, k)
		case []any:
			s, ok := sv.([]any)
			if !ok {
				continue
			}
			rest := slices.DeleteFunc(d, func(item any) bool { return containsValue(s, item) })
			if len(rest) > 0 {
				dst[k] = rest
				continue
			}
			delete(dst, k)
		default:
			if reflect.DeepEqual(dv, sv) {
				delete(dst, k)
			}
		}
	}
	return dst
}

func containsValue(list []any, v any) bool {
	return slices.ContainsFunc(list, func(item any) bool { return reflect.DeepEqual(item, v) })
}

// unmarshalYAML also reads JSON, which is a subset of YAML.
func unmarshalYAML(data []byte) (map[string]any, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func marshalYAML(doc map[string]any) ([]byte, error) {
	return yaml.Marshal(doc)
}

func marshalJSON(doc map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func unmarshalTOML(data []byte) (map[string]any, error) {
	doc := map[string]any{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func marshalTOML(doc map[string]any) ([]byte, error) {
	return toml.Marshal(doc)
}
