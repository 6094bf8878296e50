package fmtcli

import (
	"fmt"
	"sort"
)

// Plugin extends the option schema at runtime. Options are merged into the
// built-in table by BuildSchema; Defaults override built-in defaults (keyed
// by API names) and are reported as per-plugin defaults in usage text;
// Functions become callable from default-rule expressions.
type Plugin struct {
	Name      string
	Options   []OptionSpec
	Defaults  map[string]any
	Functions map[string]Function
}

func (p Plugin) clone() Plugin {
	out := Plugin{Name: p.Name}
	if len(p.Options) > 0 {
		out.Options = make([]OptionSpec, len(p.Options))
		for i, spec := range p.Options {
			out.Options[i] = spec.clone()
		}
	}
	if len(p.Defaults) > 0 {
		out.Defaults = make(map[string]any, len(p.Defaults))
		for key, value := range p.Defaults {
			out.Defaults[key] = value
		}
	}
	if len(p.Functions) > 0 {
		out.Functions = make(map[string]Function, len(p.Functions))
		for name, fn := range p.Functions {
			out.Functions[name] = fn
		}
	}
	return out
}

// WithPlugins registers plugins the Context can activate, either through the
// --plugin flag or through a config file's plugins list. Registration alone
// does not activate a plugin.
func WithPlugins(plugins ...Plugin) Option {
	return func(cfg *contextConfig) {
		if cfg.plugins == nil {
			cfg.plugins = make(map[string]Plugin, len(plugins))
		}
		for _, plugin := range plugins {
			if plugin.Name == "" {
				continue
			}
			cfg.plugins[plugin.Name] = plugin.clone()
		}
	}
}

// selectPlugins resolves requested plugin names against the registry,
// preserving request order and dropping duplicates.
func selectPlugins(registry map[string]Plugin, names []string) ([]Plugin, error) {
	out := make([]Plugin, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		plugin, ok := registry[name]
		if !ok {
			return nil, &ConfigurationError{
				Err: fmt.Errorf("%w: plugin %q is not registered", ErrUnknownPlugin, name),
			}
		}
		out = append(out, plugin.clone())
	}
	return out, nil
}

// pluginOptionSpecs flattens the option contributions of the given plugins,
// tagging each spec with its contributing plugin.
func pluginOptionSpecs(plugins []Plugin) []OptionSpec {
	var out []OptionSpec
	for _, plugin := range plugins {
		for _, spec := range plugin.Options {
			spec = spec.clone()
			spec.Plugin = plugin.Name
			out = append(out, spec)
		}
	}
	return out
}

// pluginNames returns the sorted names of the registered plugins.
func pluginNames(registry map[string]Plugin) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
