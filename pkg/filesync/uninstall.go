package filesync

import (
	"iter"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// Uninstall removes files from project. Transformed files are reverted with
// the help of the same files from otherPackages; plain files are deleted
// unless they were modified. Directories left empty are removed, children
// before parents. The project root is never removed.
//
// Uninstall is best effort: a failing revert is logged as a warning and the
// remaining files are still processed.
func Uninstall(project Project, files iter.Seq[File], otherPackages []Package, transformers TransformerTable) {
	byDir := make(map[string][]File)
	for f := range files {
		var p string
		if f.IsEmptyFolder() {
			p = project.ResolvePath(f.EffectivePath())
		} else {
			p = ResolveUninstallPath(project, transformers, f.EffectivePath())
		}
		dir := parentDir(p)
		byDir[dir] = append(byDir[dir], f)
	}

	for _, dir := range deepestFirst(slices.Collect(maps.Keys(byDir))) {
		if !project.DirectoryExists(dir) {
			continue
		}

		uninstallDirectory(project, byDir[dir], otherPackages, transformers)

		if dir == "" {
			continue
		}
		if len(project.GetFilesSafe(dir)) == 0 && len(project.GetDirectoriesSafe(dir)) == 0 {
			project.DeleteDirectorySafe(dir, false)
		}
	}
}

func uninstallDirectory(project Project, files []File, otherPackages []Package, transformers TransformerTable) {
	if batch, ok := project.(BatchProcessor); ok {
		paths := make([]string, 0, len(files))
		for _, f := range files {
			paths = append(paths, ResolveUninstallPath(project, transformers, f.EffectivePath()))
		}
		batch.BeginProcessing(paths, DirectionUninstall)
		defer batch.EndProcessing()
	}

	for _, f := range files {
		if f.IsEmptyFolder() {
			continue
		}

		target := ResolveTarget(project, transformers, f.EffectivePath())
		if !project.IsSupportedFile(target.Path) {
			continue
		}

		if target.Transformer == nil {
			project.DeleteFileSafe(target.Path, f.Open)
			continue
		}

		matching := matchingFiles(project, otherPackages, f.EffectivePath())
		if err := target.Transformer.RevertFile(f, target.Path, matching, project); err != nil {
			project.Logger().Warn().Err(err).Str("path", target.Path).Msg("Failed to revert file")
		}
	}
}

// matchingFiles collects the compatible content of otherPackages that shares
// effectivePath, compared case-insensitively.
func matchingFiles(project Project, otherPackages []Package, effectivePath string) []File {
	var matching []File
	for _, pkg := range otherPackages {
		for _, other := range CompatibleFiles(project, pkg.ContentFiles()) {
			if strings.EqualFold(other.EffectivePath(), effectivePath) {
				matching = append(matching, other)
			}
		}
	}
	return matching
}

func parentDir(p string) string {
	dir := filepath.Dir(p)
	if dir == "." || dir == string(filepath.Separator) {
		return ""
	}
	return dir
}

// deepestFirst adds every ancestor of dirs and orders the result by depth,
// deepest first, so each directory is visited before its parent. Ties are
// broken by path to keep the order stable.
func deepestFirst(dirs []string) []string {
	depth := make(map[string]int)
	for _, dir := range dirs {
		if dir == "" {
			depth[""] = 0
			continue
		}
		segments := strings.Split(filepath.Clean(dir), string(filepath.Separator))
		for i := range segments {
			depth[filepath.Join(segments[:i+1]...)] = i + 1
		}
	}

	ordered := slices.Collect(maps.Keys(depth))
	slices.SortFunc(ordered, func(a, b string) int {
		if depth[a] != depth[b] {
			return depth[b] - depth[a]
		}
		return strings.Compare(a, b)
	})
	return ordered
}
