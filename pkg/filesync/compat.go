package filesync

import "github.com/agentpkg/pkgsync/pkg/framework"

// CompatibleFiles returns the files of the framework that best matches the
// project's, or nothing when no file is compatible.
func CompatibleFiles(project Project, files []File) []File {
	if project == nil {
		panic("filesync: CompatibleFiles called with a nil project")
	}
	return framework.GetCompatibleItems(project.TargetFramework(), files)
}

// TryGetCompatibleFiles is CompatibleFiles that also reports whether a
// non-empty file set had no compatible file at all.
func TryGetCompatibleFiles(project Project, files []File) ([]File, bool) {
	if project == nil {
		panic("filesync: TryGetCompatibleFiles called with a nil project")
	}
	return framework.TryGetCompatibleItems(project.TargetFramework(), files)
}
