package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // only dumped on panics
	LevelPhase        // driver + pass boundaries
	LevelDetail       // per-file events
	LevelDebug        // everything including node-level callbacks
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level. LevelError
// records nothing live; it only enables the ring for panic dumps.
func (l Level) ShouldEmit(scope Scope) bool {
	switch {
	case l >= LevelDebug:
		return true
	case l == LevelDetail:
		return scope <= ScopeFile
	case l == LevelPhase:
		return scope <= ScopePass
	}
	return false
}
