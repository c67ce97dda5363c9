package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // start of an operation
	KindSpanEnd                   // end of an operation
	KindPoint                     // instant event
	KindFault                     // recovered contract violation
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of an event.
type Scope uint8

const (
	ScopeQuery Scope = iota + 1 // public engine operations
	ScopeCache                  // closure cache traffic
	ScopeStep                   // recursive internals
)

func (s Scope) String() string {
	switch s {
	case ScopeQuery:
		return "query"
	case ScopeCache:
		return "cache"
	case ScopeStep:
		return "step"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // e.g. "closure", "capture", "cache.miss"
	Detail   string // usually a type label
	Extra    map[string]string
}
