package formatters

import (
	"path/filepath"
	"strings"
)

// BuildNodeNames labels each path with its base name, growing the label to
// the shortest distinct path suffix when base names collide.
func BuildNodeNames(paths []string) map[string]string {
	names := make(map[string]string, len(paths))
	groupedByBase := make(map[string][]string, len(paths))
	for _, path := range paths {
		groupedByBase[filepath.Base(path)] = append(groupedByBase[filepath.Base(path)], path)
	}

	for base, groupedPaths := range groupedByBase {
		if len(groupedPaths) == 1 {
			names[groupedPaths[0]] = base
			continue
		}

		for depth := 2; ; depth++ {
			suffixCounts := make(map[string]int, len(groupedPaths))
			for _, path := range groupedPaths {
				suffixCounts[pathSuffix(path, depth)]++
			}

			allDistinct := true
			for _, path := range groupedPaths {
				if suffixCounts[pathSuffix(path, depth)] > 1 {
					allDistinct = false
					break
				}
			}
			if !allDistinct && depth < maxDepth(groupedPaths) {
				continue
			}

			for _, path := range groupedPaths {
				names[path] = pathSuffix(path, depth)
			}
			break
		}
	}

	return names
}

func maxDepth(paths []string) int {
	depth := 0
	for _, path := range paths {
		if n := len(splitPath(path)); n > depth {
			depth = n
		}
	}
	return depth
}

func splitPath(path string) []string {
	normalized := filepath.ToSlash(filepath.Clean(path))
	return strings.Split(strings.TrimPrefix(normalized, "/"), "/")
}

func pathSuffix(path string, depth int) string {
	parts := splitPath(path)
	if depth > len(parts) {
		depth = len(parts)
	}
	return strings.Join(parts[len(parts)-depth:], "/")
}
