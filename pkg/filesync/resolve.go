package filesync

import (
	"path"
	"strings"
)

// Target is where a package file lands in the project and the transformer, if
// any, responsible for putting it there.
type Target struct {
	Path        string
	Transformer Transformer
}

// ResolveTarget computes the project path for effectivePath. When the file's
// extension has a registered transformer the extension is stripped and the
// transformer returned, except for the project manifest: a transformed
// manifest placeholder still loses its marker extension but is copied as is.
func ResolveTarget(project Project, transformers TransformerTable, effectivePath string) Target {
	stripped, transformer := stripTransformExtension(transformers, effectivePath)
	if transformer != nil && strings.EqualFold(path.Base(stripped), ManifestFileName) {
		transformer = nil
	}
	return Target{Path: project.ResolvePath(stripped), Transformer: transformer}
}

// ResolveUninstallPath is ResolveTarget's path without the manifest exception.
// It only decides which directory a file occupies.
func ResolveUninstallPath(project Project, transformers TransformerTable, effectivePath string) string {
	stripped, _ := stripTransformExtension(transformers, effectivePath)
	return project.ResolvePath(stripped)
}

func stripTransformExtension(transformers TransformerTable, effectivePath string) (string, Transformer) {
	ext := path.Ext(effectivePath)
	if ext == "" {
		return effectivePath, nil
	}
	transformer, ok := transformers[ext]
	if !ok || transformer == nil {
		return effectivePath, nil
	}
	return strings.TrimSuffix(effectivePath, ext), transformer
}
