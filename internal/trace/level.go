package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // faults only
	LevelPhase               // public queries
	LevelDetail              // queries and cache traffic
	LevelDebug               // everything
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
	}
}

// Allows reports whether an event passes this level.
func (l Level) Allows(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Kind == KindFault {
		return true
	}
	switch l {
	case LevelPhase:
		return ev.Scope == ScopeQuery
	case LevelDetail:
		return ev.Scope == ScopeQuery || ev.Scope == ScopeCache
	case LevelDebug:
		return true
	default:
		return false
	}
}

// allowsScope is the pre-check used before an event is built.
func (l Level) allowsScope(scope Scope) bool {
	return l.Allows(&Event{Scope: scope})
}
