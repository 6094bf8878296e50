package fmtcli

import (
	"fmt"

	"github.com/goliatone/go-fmtcli/layering"
	"github.com/goliatone/go-fmtcli/pkg/events"
)

// Strategy selects how CLI arguments and a discovered config file combine
// when both specify the same option.
type Strategy string

const (
	// StrategyCLIOverride lets explicit CLI flags win; config values become
	// the defaults parsing falls back to.
	StrategyCLIOverride Strategy = "cli-override"
	// StrategyFileOverride lets config values win outright over CLI flags.
	StrategyFileOverride Strategy = "file-override"
	// StrategyPreferFile uses a discovered config in full and ignores CLI
	// formatting flags entirely; CLI is the sole source only when no config
	// is found.
	StrategyPreferFile Strategy = "prefer-file"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyCLIOverride, StrategyFileOverride, StrategyPreferFile:
		return true
	default:
		return false
	}
}

// ParseStrategy converts a config-precedence value into a Strategy. The
// empty string maps to the default cli-override.
func ParseStrategy(value string) (Strategy, error) {
	if value == "" {
		return StrategyCLIOverride, nil
	}
	s := Strategy(value)
	if !s.Valid() {
		return "", &ValidationError{
			Option: optionConfigPrecedence,
			Value:  value,
			Reason: fmt.Sprintf("expected %q, %q or %q", StrategyCLIOverride, StrategyFileOverride, StrategyPreferFile),
		}
	}
	return s, nil
}

// ResolveConfigOptions tunes per-file config discovery.
type ResolveConfigOptions struct {
	// ConfigPath skips the upward search and loads the named file.
	ConfigPath string
	// EditorConfig folds .editorconfig settings into the discovered config.
	EditorConfig bool
}

// ConfigLookup is the loader's answer for one input file. Options carries
// raw API-keyed values with any matching overrides already flattened on top;
// OverrideKeys names the options an overrides entry supplied.
type ConfigLookup struct {
	Found        bool
	Path         string
	Options      map[string]any
	OverrideKeys []string
	Plugins      []string
}

// ConfigResolver discovers and parses the configuration governing a file.
type ConfigResolver interface {
	Resolve(path string, opts ResolveConfigOptions) (ConfigLookup, error)
	ClearCache()
}

// OptionsForFile produces the effective option set for one input file,
// combining parsed CLI arguments with the file's discovered config per the
// active precedence strategy. The result always contains "filepath".
func (c *Context) OptionsForFile(path string) (ResolvedOptions, error) {
	resolved, _, err := c.resolveForFile(path)
	return resolved, err
}

// OptionsForFileTraced is OptionsForFile plus per-option provenance.
func (c *Context) OptionsForFileTraced(path string) (ResolvedOptions, *Trace, error) {
	return c.resolveForFile(path)
}

func (c *Context) resolveForFile(path string) (ResolvedOptions, *Trace, error) {
	lookup := ConfigLookup{}
	if c.cfg.loader != nil {
		var err error
		lookup, err = c.cfg.loader.Resolve(path, c.resolveConfigOptions())
		if err != nil {
			return nil, nil, wrapConfigurationError(lookup.Path, err)
		}
	}
	if lookup.Found {
		c.emit(events.Event{Kind: events.KindConfigLoaded, Path: lookup.Path})
	}

	var resolved ResolvedOptions
	var trace *Trace
	run := func() error {
		var err error
		resolved, trace, err = c.resolveWithConfig(path, lookup)
		return err
	}

	var err error
	if lookup.Found && len(lookup.Plugins) > 0 {
		err = c.WithPluginScope(lookup.Plugins, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, nil, err
	}

	c.emit(events.Event{Kind: events.KindFileResolved, Path: path, SchemaID: c.stateID()})
	return resolved, trace, nil
}

func (c *Context) resolveWithConfig(path string, lookup ConfigLookup) (ResolvedOptions, *Trace, error) {
	schema := c.schema
	logger := c.warningLogger()

	var config map[string]any
	if lookup.Found {
		normalized, err := NormalizeAPIOptions(schema, lookup.Options, logger)
		if err != nil {
			return nil, nil, wrapConfigurationError(lookup.Path, err)
		}
		config = normalized
	}
	overrides, base := splitOverrides(schema, config, lookup.OverrideKeys)

	defaults := apiDefaults(schema)
	pluginDefaults := c.pluginDefaultLayer()

	strategy := c.Strategy()
	var merged map[string]any
	var provenance map[string]layering.SourceLevel

	switch strategy {
	case StrategyFileOverride:
		parsed, err := parseArguments(schema, c.rawArgs, cliView(schema, pluginDefaults), logger)
		if err != nil {
			return nil, nil, err
		}
		cli := apiView(schema, parsed.Options())
		explicit := apiView(schema, explicitValues(parsed))
		merged = layering.Overlay(config, cli)
		provenance = provenanceOf(
			sourcedLayer{layering.SourceOverride, overrides},
			sourcedLayer{layering.SourceConfig, base},
			sourcedLayer{layering.SourceCLI, explicit},
			sourcedLayer{layering.SourcePluginDefault, pluginDefaults},
			sourcedLayer{layering.SourceDefault, defaults},
		)

	case StrategyPreferFile:
		if lookup.Found {
			merged = layering.Overlay(config, pluginDefaults, defaults)
			provenance = provenanceOf(
				sourcedLayer{layering.SourceOverride, overrides},
				sourcedLayer{layering.SourceConfig, base},
				sourcedLayer{layering.SourcePluginDefault, pluginDefaults},
				sourcedLayer{layering.SourceDefault, defaults},
			)
			break
		}
		fallthrough

	default: // StrategyCLIOverride
		injected := layering.Overlay(cliView(schema, config), cliView(schema, pluginDefaults))
		parsed, err := parseArguments(schema, c.rawArgs, injected, logger)
		if err != nil {
			return nil, nil, err
		}
		merged = apiView(schema, parsed.Options())
		chain := layering.NewChain(
			layering.Layer{Level: layering.SourceCLI, Snapshot: apiView(schema, explicitValues(parsed))},
			layering.Layer{Level: layering.SourceOverride, Snapshot: overrides},
			layering.Layer{Level: layering.SourceConfig, Snapshot: base},
			layering.Layer{Level: layering.SourcePluginDefault, Snapshot: pluginDefaults},
			layering.Layer{Level: layering.SourceDefault, Snapshot: defaults},
		)
		provenance = chain.Provenance()
	}

	resolved := ResolvedOptions(merged)
	if resolved == nil {
		resolved = ResolvedOptions{}
	}

	ruleSources, err := c.applyDefaultRules(resolved, path)
	if err != nil {
		return nil, nil, err
	}
	for key, level := range ruleSources {
		provenance[key] = level
	}

	resolved["filepath"] = path
	provenance["filepath"] = layering.SourceCLI

	trace := newTrace(path, strategy, c.stateID(), resolved, provenance)
	return resolved, trace, nil
}

type sourcedLayer struct {
	level  layering.SourceLevel
	values map[string]any
}

// provenanceOf reports which layer supplied each key, layers ordered from
// strongest to weakest. Used for the strategies whose precedence order does
// not match the canonical source-level ranking.
func provenanceOf(layers ...sourcedLayer) map[string]layering.SourceLevel {
	out := map[string]layering.SourceLevel{}
	for i := len(layers) - 1; i >= 0; i-- {
		for key := range layers[i].values {
			out[key] = layers[i].level
		}
	}
	return out
}

// apiView maps a CLI-keyed snapshot onto engine API names, dropping options
// that do not forward.
func apiView(schema *Schema, options map[string]any) map[string]any {
	out := make(map[string]any, len(options))
	for key, value := range options {
		spec, ok := schema.Lookup(key)
		if !ok || spec.Deprecated || !spec.Forwards() {
			continue
		}
		out[spec.ForwardsTo] = value
	}
	return out
}

// cliView maps API-keyed values back onto primary CLI names so they can be
// injected as parse defaults.
func cliView(schema *Schema, options map[string]any) map[string]any {
	out := make(map[string]any, len(options))
	for key, value := range options {
		spec, ok := schema.LookupAPI(key)
		if !ok {
			continue
		}
		out[spec.Name] = value
	}
	return out
}

// apiDefaults collects the schema's static defaults under API names.
func apiDefaults(schema *Schema) map[string]any {
	out := map[string]any{}
	for _, spec := range schema.Specs() {
		if spec.IsNegation() || spec.Deprecated || !spec.Forwards() || spec.Default == nil {
			continue
		}
		out[spec.ForwardsTo] = spec.Default
	}
	return out
}

// explicitValues filters a parse result down to the options given on the
// command line.
func explicitValues(parsed *ParsedArguments) map[string]any {
	options := parsed.Options()
	out := make(map[string]any, len(options))
	for key, value := range options {
		if parsed.Explicit(key) {
			out[key] = value
		}
	}
	return out
}

// splitOverrides separates the override-supplied keys of a normalized config
// from its base keys. Override keys arrive under raw config names and are
// mapped through the schema where possible.
func splitOverrides(schema *Schema, config map[string]any, overrideKeys []string) (overrides, base map[string]any) {
	overrides = map[string]any{}
	base = map[string]any{}
	overridden := make(map[string]struct{}, len(overrideKeys))
	for _, key := range overrideKeys {
		if spec, ok := schema.LookupAPI(key); ok {
			key = spec.ForwardsTo
		} else if spec, ok := schema.Lookup(key); ok && spec.Forwards() {
			key = spec.ForwardsTo
		}
		overridden[key] = struct{}{}
	}
	for key, value := range config {
		if _, ok := overridden[key]; ok {
			overrides[key] = value
		} else {
			base[key] = value
		}
	}
	return overrides, base
}
