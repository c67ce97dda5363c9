package typeops

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"typemirror/internal/trace"
	"typemirror/internal/types"
)

// closureCache maps a type to its closure. Entries are pure functions of
// their key, so eviction only costs recomputation. Concurrent misses on
// one key are collapsed into a single computation; a value that loses an
// insert race is discarded in favour of the stored one.
type closureCache struct {
	entries *lru.Cache[types.TypeID, []types.TypeID]
	flight  singleflight.Group
	tracer  trace.Tracer
}

func newClosureCache(size int, tr trace.Tracer) *closureCache {
	entries, err := lru.New[types.TypeID, []types.TypeID](size)
	if err != nil {
		types.Contractf("closure cache: %v", err)
	}
	return &closureCache{entries: entries, tracer: tr}
}

func (c *closureCache) get(id types.TypeID) ([]types.TypeID, bool) {
	cl, ok := c.entries.Get(id)
	if ok && c.tracer.Enabled() {
		trace.Point(c.tracer, trace.ScopeCache, "closure.hit", strconv.FormatUint(uint64(id), 10))
	}
	return cl, ok
}

// compute returns the cached closure of id, running fn to produce it when
// it is absent. fn must not mutate slices it has already returned.
func (c *closureCache) compute(id types.TypeID, fn func() []types.TypeID) []types.TypeID {
	key := strconv.FormatUint(uint64(id), 10)
	v, _, _ := c.flight.Do(key, func() (any, error) {
		if cl, ok := c.entries.Get(id); ok {
			return cl, nil
		}
		trace.Point(c.tracer, trace.ScopeCache, "closure.miss", key)
		cl := fn()
		if prev, found, _ := c.entries.PeekOrAdd(id, cl); found {
			trace.Point(c.tracer, trace.ScopeCache, "closure.race", key)
			return prev, nil
		}
		return cl, nil
	})
	return v.([]types.TypeID)
}

// Len returns the number of cached closures.
func (c *closureCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached closure.
func (c *closureCache) Purge() {
	c.entries.Purge()
}
