package framework

// Targetable is anything that can be restricted to a target framework, such
// as a package content file.
type Targetable interface {
	TargetFramework() Name
}

// compatibleFamilies lists, per project framework identifier, the other
// families whose content the project can consume and the highest version of
// each it accepts for a given project version.
var compatibleFamilies = map[string]map[string]func(project Version) (Version, bool){
	"net":        {"netstandard": netStandardForNet},
	"netcoreapp": {"netstandard": netStandardForNetCoreApp},
}

// netStandardForNet follows the .NET Standard support table: net45 implements
// 1.1, net451 1.2, net46 1.3, net461 and later 2.0, net5.0 and later 2.1.
func netStandardForNet(v Version) (Version, bool) {
	switch {
	case v.Compare(Version{Major: 5}) >= 0:
		return Version{Major: 2, Minor: 1}, true
	case v.Compare(Version{Major: 4, Minor: 6, Patch: 1}) >= 0:
		return Version{Major: 2}, true
	case v.Compare(Version{Major: 4, Minor: 6}) >= 0:
		return Version{Major: 1, Minor: 3}, true
	case v.Compare(Version{Major: 4, Minor: 5, Patch: 1}) >= 0:
		return Version{Major: 1, Minor: 2}, true
	case v.Compare(Version{Major: 4, Minor: 5}) >= 0:
		return Version{Major: 1, Minor: 1}, true
	default:
		return Version{}, false
	}
}

// netStandardForNetCoreApp: netcoreapp1.x implements 1.6, 2.x 2.0, 3.0 and
// later 2.1.
func netStandardForNetCoreApp(v Version) (Version, bool) {
	switch {
	case v.Compare(Version{Major: 3}) >= 0:
		return Version{Major: 2, Minor: 1}, true
	case v.Compare(Version{Major: 2}) >= 0:
		return Version{Major: 2}, true
	case v.Compare(Version{Major: 1}) >= 0:
		return Version{Major: 1, Minor: 6}, true
	default:
		return Version{}, false
	}
}

// IsKnown reports whether n's identifier is a framework family the matcher
// knows about. Any is not known.
func IsKnown(n Name) bool {
	if _, ok := compatibleFamilies[n.Identifier]; ok {
		return true
	}
	for _, families := range compatibleFamilies {
		if _, ok := families[n.Identifier]; ok {
			return true
		}
	}
	return false
}

// IsCompatible reports whether content built for item can be used by a project
// targeting project.
func IsCompatible(project, item Name) bool {
	if item.IsAny() {
		return true
	}
	if project.IsAny() {
		return false
	}
	if item.Identifier == project.Identifier {
		return item.Version.Compare(project.Version) <= 0
	}
	maxVersion, ok := compatibleFamilies[project.Identifier][item.Identifier]
	if !ok {
		return false
	}
	limit, ok := maxVersion(project.Version)
	return ok && item.Version.Compare(limit) <= 0
}

// TryGetCompatibleItems narrows items to the ones built for the framework that
// best matches project. The boolean is false when items is non-empty and none
// of its frameworks is compatible; an empty input yields an empty result and
// true.
//
// The best match is, in order: the same framework family with the highest
// version not above the project's, then a compatible family with the highest
// version, then framework-less items.
func TryGetCompatibleItems[T Targetable](project Name, items []T) ([]T, bool) {
	if len(items) == 0 {
		return []T{}, true
	}

	var (
		best  Name
		found bool
	)
	for _, item := range items {
		fw := item.TargetFramework()
		if !IsCompatible(project, fw) {
			continue
		}
		if !found || better(project, fw, best) {
			best, found = fw, true
		}
	}
	if !found {
		return nil, false
	}

	compatible := make([]T, 0, len(items))
	for _, item := range items {
		if item.TargetFramework() == best {
			compatible = append(compatible, item)
		}
	}
	return compatible, true
}

// GetCompatibleItems is TryGetCompatibleItems for callers that treat "nothing
// compatible" as an ordinary empty result.
func GetCompatibleItems[T Targetable](project Name, items []T) []T {
	compatible, ok := TryGetCompatibleItems(project, items)
	if !ok {
		return []T{}
	}
	return compatible
}

// better reports whether candidate is a closer match for project than current.
// Both must already be compatible with project.
func better(project, candidate, current Name) bool {
	cr, pr := rank(project, candidate), rank(project, current)
	if cr != pr {
		return cr > pr
	}
	return candidate.Version.Compare(current.Version) > 0
}

func rank(project, n Name) int {
	switch {
	case n.IsAny():
		return 0
	case n.Identifier == project.Identifier:
		return 2
	default:
		return 1
	}
}
