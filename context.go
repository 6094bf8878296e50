package fmtcli

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-fmtcli/pkg/events"
)

// Context holds the raw argument vector, the active schema with its parse
// result, and a save/restore stack of schema states so plugin scopes can
// extend the schema and reliably restore the outer state afterwards.
type Context struct {
	rawArgs []string
	cfg     contextConfig

	schema  *Schema
	parsed  *ParsedArguments
	plugins []Plugin

	id    string
	stack []schemaState
}

// schemaState is one saved snapshot on the restore stack.
type schemaState struct {
	id      string
	schema  *Schema
	parsed  *ParsedArguments
	plugins []Plugin
}

// NewContext builds a Context from the raw argument vector. Initialization
// runs in two passes: the core option table parses first so --plugin and
// --config can be discovered, then the full schema (built-ins plus activated
// plugin options) parses the same arguments for real. Warnings from the first
// pass are suppressed; most flags are unknown to the core table by design.
func NewContext(args []string, opts ...Option) (*Context, error) {
	cfg := applyOptions(opts)

	core, err := BuildSchema(CoreOptions(), nil)
	if err != nil {
		return nil, err
	}
	coreParsed, err := parseArguments(core, args, nil, noopWarningLogger{})
	if err != nil {
		return nil, err
	}

	plugins, err := selectPlugins(cfg.plugins, coreParsed.Strings(optionPlugin))
	if err != nil {
		return nil, err
	}

	schema, err := BuildSchema(BuiltinOptions(), pluginOptionSpecs(plugins))
	if err != nil {
		return nil, err
	}

	c := &Context{
		rawArgs: append([]string(nil), args...),
		cfg:     cfg,
		schema:  schema,
		plugins: plugins,
		id:      uuid.NewString(),
	}
	parsed, err := parseArguments(schema, args, nil, c.warningLogger())
	if err != nil {
		return nil, err
	}
	c.parsed = parsed
	return c, nil
}

// Schema returns the active schema.
func (c *Context) Schema() *Schema {
	return c.schema
}

// Parsed returns a copy of the active parse result.
func (c *Context) Parsed() *ParsedArguments {
	return c.parsed.clone()
}

// Patterns returns the positional file patterns from the argument vector.
func (c *Context) Patterns() []string {
	return c.parsed.Patterns()
}

// ActivePlugins returns the names of the currently activated plugins in
// activation order.
func (c *Context) ActivePlugins() []string {
	out := make([]string, len(c.plugins))
	for i, plugin := range c.plugins {
		out[i] = plugin.Name
	}
	return out
}

// Strategy returns the active precedence strategy. Parse-time choice
// validation guarantees the value is well formed.
func (c *Context) Strategy() Strategy {
	strategy, err := ParseStrategy(c.parsed.String(optionConfigPrecedence))
	if err != nil {
		return StrategyCLIOverride
	}
	return strategy
}

// WithPluginScope activates the named plugins on top of the current state,
// rebuilds the schema and re-parses the argument vector, runs fn, and
// restores the outer state afterwards, even when fn fails.
func (c *Context) WithPluginScope(names []string, fn func() error) error {
	extra, err := selectPlugins(c.cfg.plugins, names)
	if err != nil {
		return err
	}

	active := make([]Plugin, len(c.plugins), len(c.plugins)+len(extra))
	copy(active, c.plugins)
	known := make(map[string]struct{}, len(active))
	for _, plugin := range active {
		known[plugin.Name] = struct{}{}
	}
	for _, plugin := range extra {
		if _, dup := known[plugin.Name]; dup {
			continue
		}
		known[plugin.Name] = struct{}{}
		active = append(active, plugin)
	}

	schema, err := BuildSchema(BuiltinOptions(), pluginOptionSpecs(active))
	if err != nil {
		return err
	}
	// The outer parse already reported warnings for this argument vector.
	parsed, err := parseArguments(schema, c.rawArgs, nil, noopWarningLogger{})
	if err != nil {
		return err
	}

	c.stack = append(c.stack, schemaState{
		id:      c.id,
		schema:  c.schema,
		parsed:  c.parsed,
		plugins: c.plugins,
	})
	c.id = uuid.NewString()
	c.schema = schema
	c.parsed = parsed
	c.plugins = active
	c.emit(events.Event{Kind: events.KindSchemaPushed, SchemaID: c.id})

	defer func() {
		state := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		popped := c.id
		c.id = state.id
		c.schema = state.schema
		c.parsed = state.parsed
		c.plugins = state.plugins
		c.emit(events.Event{Kind: events.KindSchemaPopped, SchemaID: popped})
	}()

	return fn()
}

// Depth returns how many schema states are currently saved.
func (c *Context) Depth() int {
	return len(c.stack)
}

func (c *Context) stateID() string {
	return c.id
}

func (c *Context) resolveConfigOptions() ResolveConfigOptions {
	return ResolveConfigOptions{
		ConfigPath:   c.parsed.String(optionConfig),
		EditorConfig: c.parsed.Bool(optionEditorConfig),
	}
}

// pluginDefaultLayer flattens the active plugins' default overrides into one
// API-keyed snapshot. Later activations win.
func (c *Context) pluginDefaultLayer() map[string]any {
	out := map[string]any{}
	for _, plugin := range c.plugins {
		for key, value := range plugin.Defaults {
			out[key] = value
		}
	}
	return out
}

// warningLogger wraps the configured logger so every warning also fans out as
// an event.
func (c *Context) warningLogger() WarningLogger {
	base := c.cfg.warnings
	return WarningLoggerFunc(func(w Warning) {
		if base != nil {
			base.LogWarning(w)
		}
		c.emit(events.Event{
			Kind:   events.KindWarning,
			Option: w.Option,
			Metadata: map[string]any{
				"kind":   string(w.Kind),
				"source": w.Source,
			},
		})
	})
}

func (c *Context) ruleLogger() RuleLogger {
	if c.cfg.rules != nil {
		return c.cfg.rules
	}
	return noopRuleLogger{}
}

func (c *Context) emit(event events.Event) {
	if !c.cfg.hooks.Enabled() {
		return
	}
	if event.SchemaID == "" {
		event.SchemaID = c.id
	}
	// Hook failures are observability problems, not resolution failures.
	_ = c.cfg.hooks.Notify(context.Background(), event)
}
