package typeops

import (
	"typemirror/internal/config"
	"typemirror/internal/trace"
	"typemirror/internal/types"
)

// NewFromConfig applies cfg to u and returns an engine configured by it,
// with a tracer built from the [trace] table. Close releases the tracer.
func NewFromConfig(u *types.Universe, cfg config.Config) (*Types, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tc, err := cfg.TraceConfig()
	if err != nil {
		return nil, err
	}
	tr, err := trace.New(tc)
	if err != nil {
		return nil, err
	}
	u.SetAnnotationsInEquality(cfg.Equality.Annotations)
	return New(u, Options{
		DedupTypeVarClosure: cfg.Closure.DedupTypeVars,
		ClosureCacheSize:    cfg.Closure.CacheSize,
		Tracer:              tr,
	}), nil
}
