package fmtcli

import (
	"time"

	"github.com/goliatone/go-fmtcli/pkg/events"
)

// ResolvedOptions is the final per-file option set handed to the formatting
// engine, keyed by API names plus the always-present "filepath" key.
type ResolvedOptions map[string]any

// Clone returns a shallow copy; values are scalars after normalisation.
func (o ResolvedOptions) Clone() ResolvedOptions {
	if o == nil {
		return nil
	}
	out := make(ResolvedOptions, len(o))
	for key, value := range o {
		out[key] = value
	}
	return out
}

// FileConfig is the configuration discovered for one specific input file,
// keyed by API option names. A nil FileConfig means no config file was found.
type FileConfig map[string]any

// RuleContext carries the inputs available to a computed-default rule.
type RuleContext struct {
	Snapshot map[string]any // partially resolved options, API names
	Filepath string
	Plugin   string // plugin that contributed the rule, "" for builtins
	Now      *time.Time
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) ruleLabel() string {
	if ctx.Plugin != "" {
		return ctx.Plugin
	}
	return "builtin"
}

// Evaluator executes default-rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Context at construction time.
type Option func(*contextConfig)

type contextConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	warnings     WarningLogger
	rules        RuleLogger
	hooks        events.Hooks
	loader       ConfigResolver
	engine       Engine
	enumerator   FileEnumerator
	plugins      map[string]Plugin
}

func applyOptions(opts []Option) contextConfig {
	cfg := contextConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator configures the engine used for computed-default rules.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *contextConfig) {
		cfg.evaluator = e
	}
}

// WithConfigResolver wires the config loader used for per-file resolution.
func WithConfigResolver(loader ConfigResolver) Option {
	return func(cfg *contextConfig) {
		cfg.loader = loader
	}
}

// WithEngine wires the formatting engine consumed by FormatFiles and friends.
func WithEngine(engine Engine) Option {
	return func(cfg *contextConfig) {
		cfg.engine = engine
	}
}

// WithFileEnumerator wires the glob expansion / ignore filter collaborator.
func WithFileEnumerator(enumerator FileEnumerator) Option {
	return func(cfg *contextConfig) {
		cfg.enumerator = enumerator
	}
}

// WithHooks attaches resolution event hooks to the Context.
func WithHooks(hooks events.Hooks) Option {
	return func(cfg *contextConfig) {
		cfg.hooks = hooks.Clone()
	}
}
