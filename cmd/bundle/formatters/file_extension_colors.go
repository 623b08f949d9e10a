package formatters

import (
	"path/filepath"
	"sort"
)

// ExtensionColors assigns a Graphviz colour name to every extension in fileNames.
func ExtensionColors(fileNames []string) map[string]string {
	availableColors := []string{
		"lightblue", "lightyellow", "mistyrose", "lightsalmon",
		"lightpink", "lavender", "peachpuff", "plum", "powderblue", "khaki",
		"palegoldenrod", "thistle",
	}

	uniqueExtensions := make(map[string]bool)
	for _, fileName := range fileNames {
		ext := filepath.Ext(fileName)
		if ext != "" {
			uniqueExtensions[ext] = true
		}
	}

	sortedExtensions := make([]string, 0, len(uniqueExtensions))
	for ext := range uniqueExtensions {
		sortedExtensions = append(sortedExtensions, ext)
	}
	sort.Strings(sortedExtensions)

	extensionColors := make(map[string]string)
	for i, ext := range sortedExtensions {
		extensionColors[ext] = availableColors[i%len(availableColors)]
	}

	return extensionColors
}

// MajorityExtension returns the most common extension, breaking ties by
// sort order, and whether more than one extension is present.
func MajorityExtension(fileNames []string) (string, bool) {
	counts := make(map[string]int)
	for _, fileName := range fileNames {
		counts[filepath.Ext(fileName)]++
	}

	extensions := make([]string, 0, len(counts))
	for ext := range counts {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)

	majority, maxCount := "", 0
	for _, ext := range extensions {
		if counts[ext] > maxCount {
			majority, maxCount = ext, counts[ext]
		}
	}
	return majority, len(counts) > 1
}
