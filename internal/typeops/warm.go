package typeops

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"typemirror/internal/trace"
	"typemirror/internal/types"
)

// Warm computes the closures of ids concurrently so later Closure calls
// are served from the cache. It stops at the first failure and returns it;
// contract and unsupported panics of a closure computation are returned as
// errors. A tracer stored in ctx takes precedence over the engine's.
func (t *Types) Warm(ctx context.Context, ids []types.TypeID) error {
	tr := trace.FromContext(ctx)
	if tr == nil || tr == trace.Nop {
		tr = t.tracer
	}
	span := trace.Begin(tr, trace.ScopeQuery, "warm", 0)
	defer span.WithExtra("types", strconv.Itoa(len(ids))).End("")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, id := range ids {
		g.Go(func() (err error) {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer types.Recover(&err)
			t.closure(id, make(map[types.TypeID]bool))
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		trace.Fault(tr, "warm", err)
	}
	return err
}
