package filesync

import (
	"fmt"
	"iter"
	"slices"
)

// Install copies files into project. Files whose extension has a transformer
// in transformers are handed to it; everything else is added, asking the
// project what to do when the target already exists.
//
// The first failure stops the remaining files and is returned. A
// BatchProcessor project always gets its EndProcessing call.
func Install(project Project, files iter.Seq[File], transformers TransformerTable) error {
	list := slices.Collect(files)

	if sorter, ok := project.(FileSorter); ok {
		slices.SortStableFunc(list, sorter.CompareFiles)
	}

	if batch, ok := project.(BatchProcessor); ok {
		paths := make([]string, 0, len(list))
		for _, f := range list {
			paths = append(paths, ResolveUninstallPath(project, transformers, f.EffectivePath()))
		}
		batch.BeginProcessing(paths, DirectionInstall)
		defer batch.EndProcessing()
	}

	for _, f := range list {
		if f.IsEmptyFolder() {
			continue
		}

		target := ResolveTarget(project, transformers, f.EffectivePath())
		if !project.IsSupportedFile(target.Path) {
			continue
		}

		if target.Transformer != nil {
			if err := target.Transformer.TransformFile(f, target.Path, project); err != nil {
				return fmt.Errorf("transforming %s: %w", f.EffectivePath(), err)
			}
			continue
		}

		if err := TryAddFile(project, target.Path, f.Open); err != nil {
			return err
		}
	}

	return nil
}
