// Package trace records what the type-algebra engine does.
//
// It is the logging layer of the module: engine entry points open spans,
// the closure cache reports hits and misses, and recovered contract
// violations are emitted as fault events.
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: fault events only
//   - LevelPhase: public queries (closure, capture, warm-up)
//   - LevelDetail: queries plus cache traffic
//   - LevelDebug: everything, including recursive steps
//
// # Usage
//
//	tr, err := trace.New(trace.Config{Level: trace.LevelDetail, Mode: trace.ModeRing})
//	ctx = trace.WithTracer(ctx, tr)
//
//	span := trace.Begin(tr, trace.ScopeQuery, "closure", 0)
//	defer span.End("")
package trace
