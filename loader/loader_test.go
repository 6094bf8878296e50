package loader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	fmtcli "github.com/goliatone/go-fmtcli"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestResolveSearchesUpward(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, root, ".fmtclirc.json", `{"printWidth": 100, "semi": false}`)

	nested := filepath.Join(root, "src", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	lookup, err := New().Resolve(filepath.Join(nested, "app.js"), fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lookup.Found || lookup.Path != configPath {
		t.Fatalf("lookup = %+v", lookup)
	}
	if lookup.Options["printWidth"] != float64(100) || lookup.Options["semi"] != false {
		t.Fatalf("options = %v", lookup.Options)
	}
}

func TestResolveNearestConfigWins(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc", `printWidth: 100`)

	nested := filepath.Join(root, "packages", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	nearest := writeConfig(t, nested, ".fmtclirc", `printWidth: 72`)

	lookup, err := New().Resolve(filepath.Join(nested, "index.js"), fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.Path != nearest {
		t.Fatalf("nearest config must win, got %s", lookup.Path)
	}
	if lookup.Options["printWidth"] != float64(72) {
		t.Fatalf("options = %v", lookup.Options)
	}
}

func TestResolveExplicitConfigPath(t *testing.T) {
	root := t.TempDir()
	explicit := writeConfig(t, root, "shared.yaml", `tabWidth: 4`)

	lookup, err := New().Resolve("elsewhere/app.js", fmtcli.ResolveConfigOptions{ConfigPath: explicit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lookup.Found || lookup.Path != explicit {
		t.Fatalf("lookup = %+v", lookup)
	}
	if lookup.Options["tabWidth"] != float64(4) {
		t.Fatalf("options = %v", lookup.Options)
	}
}

func TestResolveYAMLPayload(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.yaml", "printWidth: 100\nplugins:\n  - markdown\n")

	lookup, err := New().Resolve(filepath.Join(root, "a.md"), fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(lookup.Plugins, []string{"markdown"}) {
		t.Fatalf("plugins = %v", lookup.Plugins)
	}
	if lookup.Options["printWidth"] != float64(100) {
		t.Fatalf("options = %v", lookup.Options)
	}
	if _, reserved := lookup.Options["plugins"]; reserved {
		t.Fatalf("reserved keys must not surface as options")
	}
}

func TestResolveWithoutConfig(t *testing.T) {
	lookup, err := New(WithSearchFilenames(".does-not-exist-rc")).
		Resolve(filepath.Join(t.TempDir(), "a.js"), fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.Found {
		t.Fatalf("lookup = %+v", lookup)
	}
}

func TestResolveMalformedConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc", "printWidth: [unclosed")

	_, err := New().Resolve(filepath.Join(root, "a.js"), fmtcli.ResolveConfigOptions{})
	var configErr *fmtcli.ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !fmtcli.IsFatal(err) {
		t.Fatalf("malformed config must be fatal")
	}
}

func TestResolveOverrideWithoutFiles(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{"overrides": [{"options": {"semi": false}}]}`)

	_, err := New().Resolve(filepath.Join(root, "a.js"), fmtcli.ResolveConfigOptions{})
	var configErr *fmtcli.ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestResolveAppliesOverrides(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{
  "printWidth": 100,
  "overrides": [
    {"files": ["*.md"], "options": {"printWidth": 70}},
    {"files": ["legacy/**"], "options": {"semi": false}},
    {"files": ["*.{md,markdown}"], "options": {"proseWrap": "always"}}
  ]
}`)

	cases := []struct {
		name      string
		file      string
		wantWidth float64
		wantKeys  []string
	}{
		{"markdown file", "README.md", 70, []string{"printWidth", "proseWrap"}},
		{"unmatched file", "app.js", 100, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lookup, err := New().Resolve(filepath.Join(root, tc.file), fmtcli.ResolveConfigOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lookup.Options["printWidth"] != tc.wantWidth {
				t.Fatalf("printWidth = %v, want %v", lookup.Options["printWidth"], tc.wantWidth)
			}
			if !reflect.DeepEqual(lookup.OverrideKeys, tc.wantKeys) {
				t.Fatalf("override keys = %v, want %v", lookup.OverrideKeys, tc.wantKeys)
			}
		})
	}
}

func TestResolveLaterOverrideWins(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{
  "overrides": [
    {"files": ["*.md"], "options": {"printWidth": 70}},
    {"files": ["*.md"], "options": {"printWidth": 60}}
  ]
}`)

	lookup, err := New().Resolve(filepath.Join(root, "a.md"), fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.Options["printWidth"] != float64(60) {
		t.Fatalf("later override must win, got %v", lookup.Options["printWidth"])
	}
}

func TestResolveFoldsEditorConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{"tabWidth": 2}`)
	writeConfig(t, root, ".editorconfig", "root = true\n\n[*]\nindent_style = tab\nindent_size = 8\nmax_line_length = 120\n")

	lookup, err := New().Resolve(filepath.Join(root, "a.js"), fmtcli.ResolveConfigOptions{EditorConfig: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.Options["useTabs"] != true {
		t.Fatalf("useTabs = %v", lookup.Options["useTabs"])
	}
	if lookup.Options["printWidth"] != float64(120) {
		t.Fatalf("printWidth = %v", lookup.Options["printWidth"])
	}
	// The config file's own settings stay stronger than editorconfig ones.
	if lookup.Options["tabWidth"] != float64(2) {
		t.Fatalf("tabWidth = %v", lookup.Options["tabWidth"])
	}
}

func TestResolveIgnoresEditorConfigByDefault(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{}`)
	writeConfig(t, root, ".editorconfig", "root = true\n\n[*]\nindent_style = tab\n")

	lookup, err := New().Resolve(filepath.Join(root, "a.js"), fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := lookup.Options["useTabs"]; ok {
		t.Fatalf("editorconfig must stay inert without the flag")
	}
}

func TestResolveEditorConfigUpwardChain(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{}`)
	writeConfig(t, root, ".editorconfig", "root = true\n\n[*]\nindent_size = 8\nmax_line_length = 120\n")

	nested := filepath.Join(root, "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, nested, ".editorconfig", "[*]\nindent_style = tab\nmax_line_length = 100\n")

	lookup, err := New().Resolve(filepath.Join(nested, "a.js"), fmtcli.ResolveConfigOptions{EditorConfig: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The parent file's settings apply even though a closer one exists.
	if lookup.Options["tabWidth"] != float64(8) {
		t.Fatalf("tabWidth = %v, want 8 from the parent file", lookup.Options["tabWidth"])
	}
	if lookup.Options["useTabs"] != true {
		t.Fatalf("useTabs = %v", lookup.Options["useTabs"])
	}
	// Both files set max_line_length; the closer one wins.
	if lookup.Options["printWidth"] != float64(100) {
		t.Fatalf("printWidth = %v, want the closer file's 100", lookup.Options["printWidth"])
	}
}

func TestResolveEditorConfigRootStopsChain(t *testing.T) {
	outer := t.TempDir()
	writeConfig(t, outer, ".editorconfig", "[*]\nmax_line_length = 120\n")

	project := filepath.Join(outer, "project")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, project, ".fmtclirc.json", `{}`)
	writeConfig(t, project, ".editorconfig", "root = true\n\n[*]\nindent_size = 4\n")

	lookup, err := New().Resolve(filepath.Join(project, "a.js"), fmtcli.ResolveConfigOptions{EditorConfig: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookup.Options["tabWidth"] != float64(4) {
		t.Fatalf("tabWidth = %v", lookup.Options["tabWidth"])
	}
	if _, ok := lookup.Options["printWidth"]; ok {
		t.Fatalf("files above a root marker must not apply: %v", lookup.Options)
	}
}

func TestResolveEditorConfigSlashSections(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{}`)
	writeConfig(t, root, ".editorconfig", "root = true\n\n[src/**.js]\nindent_size = 3\n")

	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	inside, err := New().Resolve(filepath.Join(nested, "a.js"), fmtcli.ResolveConfigOptions{EditorConfig: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inside.Options["tabWidth"] != float64(3) {
		t.Fatalf("slash section must match nested files, got %v", inside.Options["tabWidth"])
	}

	outside, err := New().Resolve(filepath.Join(root, "a.js"), fmtcli.ResolveConfigOptions{EditorConfig: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := outside.Options["tabWidth"]; ok {
		t.Fatalf("slash section matched a file outside its subtree: %v", outside.Options)
	}
}

func TestResolveMemoizesUntilClearCache(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, root, ".fmtclirc.json", `{"printWidth": 100}`)
	input := filepath.Join(root, "a.js")

	l := New()
	first, err := l.Resolve(input, fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Options["printWidth"] != float64(100) {
		t.Fatalf("options = %v", first.Options)
	}

	writeConfig(t, root, ".fmtclirc.json", `{"printWidth": 60}`)
	cached, err := l.Resolve(input, fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached.Options["printWidth"] != float64(100) {
		t.Fatalf("expected the memoized lookup, got %v", cached.Options["printWidth"])
	}

	l.ClearCache()
	fresh, err := l.Resolve(input, fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Options["printWidth"] != float64(60) {
		t.Fatalf("cache not cleared, got %v", fresh.Options["printWidth"])
	}
	if fresh.Path != configPath {
		t.Fatalf("path = %s", fresh.Path)
	}
}

func TestResolveCachedLookupDoesNotAlias(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, ".fmtclirc.json", `{"printWidth": 100}`)
	input := filepath.Join(root, "a.js")

	l := New()
	first, err := l.Resolve(input, fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Options["printWidth"] = float64(1)

	second, err := l.Resolve(input, fmtcli.ResolveConfigOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Options["printWidth"] != float64(100) {
		t.Fatalf("cache shares state with callers: %v", second.Options["printWidth"])
	}
}

func TestResolveConfigFile(t *testing.T) {
	root := t.TempDir()
	configPath := writeConfig(t, root, ".fmtclirc", `{}`)

	l := New()
	found, ok := l.ResolveConfigFile(filepath.Join(root, "a.js"))
	if !ok || found != configPath {
		t.Fatalf("ResolveConfigFile = %q, %t", found, ok)
	}
}
