package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func seedTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func relativeAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, filepath.FromSlash(p))
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestExpandWalksDirectories(t *testing.T) {
	root := seedTree(t, "a.js", "src/b.js", "src/deep/c.js")

	paths, err := newGlobEnumerator("").Expand([]string{root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := relativeAll(t, root, paths)
	want := []string{"a.js", "src/b.js", "src/deep/c.js"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expanded = %v, want %v", got, want)
	}
}

func TestExpandGlobPattern(t *testing.T) {
	root := seedTree(t, "a.js", "b.js", "c.md")

	paths, err := newGlobEnumerator("").Expand([]string{filepath.Join(root, "*.js")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := relativeAll(t, root, paths)
	if !reflect.DeepEqual(got, []string{"a.js", "b.js"}) {
		t.Fatalf("expanded = %v", got)
	}
}

func TestExpandKeepsMissingLiteral(t *testing.T) {
	paths, err := newGlobEnumerator("").Expand([]string{"no/such/file.js"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(paths, []string{"no/such/file.js"}) {
		t.Fatalf("expanded = %v", paths)
	}
}

func TestExpandDeduplicates(t *testing.T) {
	root := seedTree(t, "a.js")
	target := filepath.Join(root, "a.js")

	paths, err := newGlobEnumerator("").Expand([]string{target, target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expanded = %v", paths)
	}
}

func TestIgnoredPatterns(t *testing.T) {
	root := t.TempDir()
	ignoreFile := filepath.Join(root, ".fmtcliignore")
	content := strings.Join([]string{
		"# build output",
		"",
		"*.min.js",
		"./dist/*",
	}, "\n")
	if err := os.WriteFile(ignoreFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	e := newGlobEnumerator(ignoreFile)
	cases := []struct {
		path string
		want bool
	}{
		{"app.min.js", true},
		{"src/vendor/lib.min.js", true},
		{"dist/bundle.js", true},
		{"app.js", false},
		{"src/app.js", false},
	}
	for _, tc := range cases {
		if got := e.Ignored(tc.path); got != tc.want {
			t.Fatalf("Ignored(%q) = %t, want %t", tc.path, got, tc.want)
		}
	}
}

func TestIgnoredSkipsDirectoriesDuringWalk(t *testing.T) {
	root := seedTree(t, "keep.js", "node_modules/dep/index.js")
	ignoreFile := filepath.Join(root, ".fmtcliignore")
	if err := os.WriteFile(ignoreFile, []byte("node_modules\n"), 0o644); err != nil {
		t.Fatalf("write ignore file: %v", err)
	}

	paths, err := newGlobEnumerator(ignoreFile).Expand([]string{root})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range paths {
		if strings.Contains(p, "node_modules") {
			t.Fatalf("ignored directory was walked: %v", paths)
		}
	}
}

func TestMissingIgnoreFileIsInert(t *testing.T) {
	e := newGlobEnumerator("definitely-missing-ignore-file")
	if e.Ignored("a.js") {
		t.Fatalf("missing ignore file must ignore nothing")
	}
}
