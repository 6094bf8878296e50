package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	fmtcli "github.com/goliatone/go-fmtcli"
)

// editorConfigFile is one parsed .editorconfig in the chain governing a path.
type editorConfigFile struct {
	dir      string
	root     bool
	sections []editorConfigSection
}

type editorConfigSection struct {
	pattern    string
	properties []editorConfigProperty
}

type editorConfigProperty struct {
	key   string
	value string
}

// editorConfigOptions collects every .editorconfig from the file's directory
// upward, stopping at the first one declaring root = true, and folds the
// matching sections onto API option names. Files closer to the input win per
// key, and within a file later sections win.
func editorConfigOptions(filePath string) (map[string]any, error) {
	chain, err := editorConfigChain(filePath)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}

	// Outermost first, so closer files overwrite as they apply.
	out := map[string]any{}
	for _, file := range chain {
		for _, section := range file.sections {
			if !sectionMatches(section.pattern, file.dir, abs) {
				continue
			}
			for _, property := range section.properties {
				applyEditorConfigProperty(out, property.key, property.value)
			}
		}
	}
	return out, nil
}

// editorConfigChain walks upward from the file's directory and returns the
// parsed files outermost first. The root-marked file still applies; only its
// ancestors are cut off.
func editorConfigChain(filePath string) ([]editorConfigFile, error) {
	dir, err := startDir(filePath)
	if err != nil {
		return nil, nil
	}

	var chain []editorConfigFile
	for {
		candidate := filepath.Join(dir, ".editorconfig")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			file, err := parseEditorConfig(candidate)
			if err != nil {
				return nil, &fmtcli.ConfigurationError{Path: candidate, Err: err}
			}
			chain = append(chain, file)
			if file.root {
				break
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func parseEditorConfig(path string) (editorConfigFile, error) {
	handle, err := os.Open(path)
	if err != nil {
		return editorConfigFile{}, err
	}
	defer handle.Close()

	file := editorConfigFile{dir: filepath.Dir(path)}
	section := -1

	scanner := bufio.NewScanner(handle)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			file.sections = append(file.sections, editorConfigSection{pattern: line[1 : len(line)-1]})
			section = len(file.sections) - 1
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if section < 0 {
			// Preamble, before any section header.
			if key == "root" && strings.EqualFold(value, "true") {
				file.root = true
			}
			continue
		}
		file.sections[section].properties = append(file.sections[section].properties, editorConfigProperty{
			key:   key,
			value: value,
		})
	}
	if err := scanner.Err(); err != nil {
		return editorConfigFile{}, err
	}
	return file, nil
}

// sectionMatches applies a section pattern: patterns containing a separator
// match against the path relative to the .editorconfig's directory, bare
// patterns against the base name.
func sectionMatches(pattern, ecDir, absPath string) bool {
	base := filepath.Base(absPath)
	rel := relativePath(ecDir, absPath)
	for _, expanded := range expandBraces(pattern) {
		if expanded == "*" || expanded == "**" {
			return true
		}
		candidate := filepath.ToSlash(expanded)
		target := base
		if strings.Contains(candidate, "/") {
			candidate = strings.TrimPrefix(candidate, "/")
			target = rel
		}
		if sectionGlobMatch(candidate, target) {
			return true
		}
	}
	return false
}

// sectionGlobMatch compiles the editorconfig glob subset onto a regexp: **
// crosses directory boundaries, * and ? stay within one path segment.
func sectionGlobMatch(pattern, value string) bool {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				sb.WriteString(".*")
				i++
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString("[^/]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
	}
	sb.WriteString("$")
	matched, err := regexp.MatchString(sb.String(), value)
	return err == nil && matched
}

func applyEditorConfigProperty(out map[string]any, key, value string) {
	switch key {
	case "indent_style":
		switch strings.ToLower(value) {
		case "tab":
			out["useTabs"] = true
		case "space":
			out["useTabs"] = false
		}
	case "indent_size", "tab_width":
		if strings.EqualFold(value, "tab") {
			return
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			out["tabWidth"] = n
		}
	case "end_of_line":
		switch strings.ToLower(value) {
		case "lf", "crlf", "cr":
			out["endOfLine"] = strings.ToLower(value)
		}
	case "max_line_length":
		if strings.EqualFold(value, "off") {
			return
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			out["printWidth"] = n
		}
	}
}
