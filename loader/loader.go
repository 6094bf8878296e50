// Package loader discovers, parses and caches the configuration file
// governing each input file: upward filesystem search, YAML/JSON payloads,
// per-file overrides and optional .editorconfig folding.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	fmtcli "github.com/goliatone/go-fmtcli"
	"github.com/goliatone/go-fmtcli/internal/hydrate"
)

// SearchFilenames are the config file names probed in order at each
// directory level.
var SearchFilenames = []string{
	".fmtclirc",
	".fmtclirc.json",
	".fmtclirc.yaml",
	".fmtclirc.yml",
	"fmtcli.config.yaml",
}

// Document is a parsed config file: reserved keys split out, everything else
// kept as raw option values.
type Document struct {
	Plugins   []string
	Overrides []Override
	Options   map[string]any
}

// Override scopes an option subset to files matching the given patterns.
type Override struct {
	Files   []string       `json:"files"`
	Options map[string]any `json:"options"`
}

// Option configures a Loader.
type Option func(*Loader)

// WithSearchFilenames replaces the probed config file names.
func WithSearchFilenames(names ...string) Option {
	return func(l *Loader) {
		if len(names) > 0 {
			l.filenames = append([]string(nil), names...)
		}
	}
}

// Loader implements the config resolver consumed by the resolution engine.
type Loader struct {
	filenames []string
	cache     *memoryCache
	decoder   *hydrate.Decoder[Document]
}

// New builds a Loader with the standard search names and an empty cache.
func New(opts ...Option) *Loader {
	l := &Loader{
		filenames: append([]string(nil), SearchFilenames...),
		cache:     newMemoryCache(),
	}
	l.decoder = hydrate.NewDecoder[Document](
		hydrate.WithPreHook[Document](dropEditorKeys),
		hydrate.WithCustomDecoder[Document](decodeDocument),
		hydrate.WithPostHook[Document](validateOverrides),
	)
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Resolve answers the config lookup for one input file. Results are memoized
// per file path and resolve options until ClearCache.
func (l *Loader) Resolve(path string, opts fmtcli.ResolveConfigOptions) (fmtcli.ConfigLookup, error) {
	key := cacheKey(path, opts)
	if lookup, ok := l.cache.get(key); ok {
		return lookup, nil
	}

	lookup, err := l.resolve(path, opts)
	if err != nil {
		return fmtcli.ConfigLookup{}, err
	}
	l.cache.set(key, lookup)
	return lookup, nil
}

// ClearCache drops every memoized lookup, forcing fresh discovery.
func (l *Loader) ClearCache() {
	l.cache.clear()
}

// ResolveConfigFile reports which config file governs path without parsing
// it.
func (l *Loader) ResolveConfigFile(path string) (string, bool) {
	start, err := startDir(path)
	if err != nil {
		return "", false
	}
	return searchUpward(start, l.filenames)
}

func (l *Loader) resolve(path string, opts fmtcli.ResolveConfigOptions) (fmtcli.ConfigLookup, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		start, err := startDir(path)
		if err != nil {
			return fmtcli.ConfigLookup{}, err
		}
		found, ok := searchUpward(start, l.filenames)
		if !ok {
			return fmtcli.ConfigLookup{Found: false}, nil
		}
		configPath = found
	}

	doc, err := l.load(configPath)
	if err != nil {
		return fmtcli.ConfigLookup{}, err
	}

	options, overrideKeys := flattenOverrides(doc, filepath.Dir(configPath), path)

	if opts.EditorConfig {
		derived, err := editorConfigOptions(path)
		if err != nil {
			return fmtcli.ConfigLookup{}, err
		}
		// Editorconfig settings are weaker than anything in the config file
		// itself.
		for key, value := range derived {
			if _, exists := options[key]; !exists {
				options[key] = value
			}
		}
	}

	return fmtcli.ConfigLookup{
		Found:        true,
		Path:         configPath,
		Options:      options,
		OverrideKeys: overrideKeys,
		Plugins:      append([]string(nil), doc.Plugins...),
	}, nil
}

func (l *Loader) load(configPath string) (Document, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return Document{}, &fmtcli.ConfigurationError{Path: configPath, Err: err}
	}

	// yaml.v3 parses JSON payloads too, so one decode path covers every
	// supported file name.
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return Document{}, &fmtcli.ConfigurationError{Path: configPath, Err: err}
	}
	if payload == nil {
		payload = map[string]any{}
	}

	doc, err := l.decoder.Decode(hydrate.Context{Path: configPath, Source: sourceOf(configPath)}, payload)
	if err != nil {
		return Document{}, &fmtcli.ConfigurationError{Path: configPath, Err: err}
	}
	return doc, nil
}

func sourceOf(configPath string) string {
	switch filepath.Ext(configPath) {
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

func startDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}

func searchUpward(start string, names []string) (string, bool) {
	dir := start
	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func cacheKey(path string, opts fmtcli.ResolveConfigOptions) string {
	return fmt.Sprintf("%s\x00%s\x00%t", path, opts.ConfigPath, opts.EditorConfig)
}

// dropEditorKeys removes non-option keys editors conventionally put into RC
// files.
func dropEditorKeys(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	delete(payload, "$schema")
	return payload, nil
}

// decodeDocument splits the reserved plugins/overrides keys out of the
// payload; every remaining key is an option value.
func decodeDocument(ctx hydrate.Context, payload map[string]any) (Document, error) {
	doc := Document{Options: map[string]any{}}
	for key, value := range payload {
		switch key {
		case "plugins":
			plugins, err := stringList(value)
			if err != nil {
				return Document{}, fmt.Errorf("plugins: %w", err)
			}
			doc.Plugins = plugins
		case "overrides":
			overrides, err := overrideList(value)
			if err != nil {
				return Document{}, fmt.Errorf("overrides: %w", err)
			}
			doc.Overrides = overrides
		default:
			doc.Options[key] = value
		}
	}
	return doc, nil
}

// validateOverrides rejects override entries that could never match.
func validateOverrides(_ hydrate.Context, doc *Document) error {
	for i, override := range doc.Overrides {
		if len(override.Files) == 0 {
			return fmt.Errorf("overrides[%d]: files patterns are required", i)
		}
	}
	return nil
}

func stringList(value any) ([]string, error) {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...), nil
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{typed}, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
}

func overrideList(value any) ([]Override, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
	out := make([]Override, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected a mapping, got %T", i, item)
		}
		override := Override{Options: map[string]any{}}
		if files, exists := entry["files"]; exists {
			patterns, err := stringList(files)
			if err != nil {
				return nil, fmt.Errorf("entry %d files: %w", i, err)
			}
			override.Files = patterns
		}
		if options, exists := entry["options"]; exists {
			mapped, ok := options.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d options: expected a mapping, got %T", i, options)
			}
			override.Options = mapped
		}
		out = append(out, override)
	}
	return out, nil
}
