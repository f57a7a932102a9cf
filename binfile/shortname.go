package binfile

import (
	"path/filepath"
	"strings"
)

// deriveShortName computes the display label for a path. Preference order:
// file name without extension, file name with extension, the caller-supplied
// default, the raw path string. "Blank" means empty or whitespace-only.
func deriveShortName(path, defaultName string) string {
	name := fileName(path)
	if stem := strings.TrimSuffix(name, filepath.Ext(name)); !blank(stem) {
		return stem
	}
	if !blank(name) {
		return name
	}
	if defaultName != "" {
		return defaultName
	}
	return path
}

// fileName returns the part after the last path separator. Both separators
// are honored so Windows-style paths work on any host.
func fileName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
