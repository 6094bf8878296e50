package fmtcli

// ProgramCache stores compiled rule programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache on the Context.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *contextConfig) {
		cfg.programCache = cache
	}
}
