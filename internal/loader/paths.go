package loader

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath resolves a configuration file reference to a concrete path.
// Absolute paths are cleaned, ~/ is expanded to the home directory, and
// explicitly relative paths (./ or ../) are anchored at parentDir (the
// working directory when parentDir is empty). Anything else is tried
// against the search paths in order and the first existing candidate wins;
// an unresolvable reference is returned verbatim so the caller fails at
// open time.
func (l *Loader) ResolvePath(path, parentDir string) string {
	if parentDir == "" {
		parentDir = "."
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		if expanded, ok := expandHome(path); ok {
			return expanded
		}
		return path
	}
	if isExplicitRelative(path) {
		return filepath.Clean(filepath.Join(parentDir, path))
	}

	for _, searchPath := range l.searchPaths {
		candidate := joinSearchPath(searchPath, parentDir, path)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Clean(candidate)
		}
	}
	return path
}

// isExplicitRelative reports whether path starts with a "." or ".."
// component.
func isExplicitRelative(path string) bool {
	first, _, _ := strings.Cut(path, string(os.PathSeparator))
	return first == "." || first == ".."
}

// joinSearchPath builds a candidate location for a bare file reference. An
// empty search path means the working directory; an explicitly relative one
// is anchored at parentDir; any other search path is used as given.
func joinSearchPath(searchPath, parentDir, path string) string {
	switch {
	case searchPath == "":
		return path
	case isExplicitRelative(searchPath):
		return filepath.Join(parentDir, searchPath, path)
	default:
		return filepath.Join(searchPath, path)
	}
}

func expandHome(path string) (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	if path == "~" {
		return home, true
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), true
}

// expandPathValues rewrites string values that look like file paths. Values
// starting with ./ or ../ become paths relative to dir, values starting
// with ~/ are home-expanded. Only mapping values are considered; sequence
// elements and other strings stay untouched since they may not be paths at
// all.
func expandPathValues(doc map[string]any, dir string) {
	for key, value := range doc {
		switch typed := value.(type) {
		case map[string]any:
			expandPathValues(typed, dir)
		case string:
			switch {
			case strings.HasPrefix(typed, "./"), strings.HasPrefix(typed, "../"):
				doc[key] = filepath.Clean(filepath.Join(dir, typed))
			case strings.HasPrefix(typed, "~/"):
				if expanded, ok := expandHome(typed); ok {
					doc[key] = expanded
				}
			}
		}
	}
}
