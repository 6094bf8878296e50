package main

import (
	"bufio"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// globEnumerator expands the positional patterns and filters paths against
// the ignore file's patterns.
type globEnumerator struct {
	ignorePatterns []string
}

func newGlobEnumerator(ignorePath string) *globEnumerator {
	return &globEnumerator{ignorePatterns: loadIgnorePatterns(ignorePath)}
}

// Expand resolves each pattern: directories walk recursively, everything
// else goes through filepath.Glob. Results are deduplicated and sorted.
func (e *globEnumerator) Expand(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	add := func(p string) {
		p = filepath.ToSlash(p)
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			err := filepath.WalkDir(pattern, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if e.Ignored(p) && p != pattern {
						return filepath.SkipDir
					}
					return nil
				}
				add(p)
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if matches == nil {
			// Keep the literal path so the batch can report it as missing.
			add(pattern)
			continue
		}
		for _, match := range matches {
			add(match)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Ignored reports whether path matches any ignore pattern, by base name for
// bare patterns and by slash path for patterns containing a separator.
func (e *globEnumerator) Ignored(p string) bool {
	slashed := filepath.ToSlash(p)
	base := filepath.Base(p)
	for _, pattern := range e.ignorePatterns {
		if strings.Contains(pattern, "/") {
			if ok, err := path.Match(strings.TrimSuffix(pattern, "/"), strings.TrimSuffix(slashed, "/")); err == nil && ok {
				return true
			}
			continue
		}
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

func loadIgnorePatterns(ignorePath string) []string {
	if ignorePath == "" {
		return nil
	}
	file, err := os.Open(ignorePath)
	if err != nil {
		return nil
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(line, "./"))
	}
	return patterns
}
