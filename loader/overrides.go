package loader

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// flattenOverrides overlays every override entry whose files patterns match
// the queried path onto the document's base options, in declaration order so
// later entries win. Returns the merged options and the sorted set of keys an
// override supplied.
func flattenOverrides(doc Document, configDir, filePath string) (map[string]any, []string) {
	merged := make(map[string]any, len(doc.Options))
	for key, value := range doc.Options {
		merged[key] = value
	}

	overridden := map[string]struct{}{}
	for _, override := range doc.Overrides {
		if !overrideMatches(override, configDir, filePath) {
			continue
		}
		for key, value := range override.Options {
			merged[key] = value
			overridden[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(overridden))
	for key := range overridden {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return merged, keys
}

func overrideMatches(override Override, configDir, filePath string) bool {
	base := filepath.Base(filePath)
	rel := relativePath(configDir, filePath)
	for _, pattern := range override.Files {
		for _, expanded := range expandBraces(pattern) {
			if matchPattern(expanded, rel, base) {
				return true
			}
		}
	}
	return false
}

// matchPattern applies patterns containing a separator against the path
// relative to the config file, and bare patterns against the base name.
func matchPattern(pattern, rel, base string) bool {
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "/") {
		ok, err := path.Match(strings.TrimPrefix(pattern, "./"), rel)
		return err == nil && ok
	}
	ok, err := path.Match(pattern, base)
	return err == nil && ok
}

func relativePath(configDir, filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return filepath.ToSlash(filePath)
	}
	rel, err := filepath.Rel(configDir, abs)
	if err != nil {
		return filepath.ToSlash(filePath)
	}
	return filepath.ToSlash(rel)
}

// expandBraces handles one level of {a,b} alternation, the only brace form
// config files use in practice.
func expandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}
	end := strings.IndexByte(pattern[open:], '}')
	if end < 0 {
		return []string{pattern}
	}
	end += open

	prefix, suffix := pattern[:open], pattern[end+1:]
	parts := strings.Split(pattern[open+1:end], ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, prefix+part+suffix)
	}
	return out
}
