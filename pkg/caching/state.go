package caching

import (
	"fmt"
	"strings"
)

// State tells how the optimizer of a CachingOptimizer relates to its cache.
type State int

const (
	// NoOptimizer means there is only the cache.
	NoOptimizer State = iota
	// EmptyOptimizer means the optimizer holds nothing and the cache is
	// the only copy of the problem.
	EmptyOptimizer
	// AttachedOptimizer means the optimizer holds a copy of the cache and
	// every change is made to both.
	AttachedOptimizer
)

func (s State) String() string {
	switch s {
	case NoOptimizer:
		return "NoOptimizer"
	case EmptyOptimizer:
		return "EmptyOptimizer"
	case AttachedOptimizer:
		return "AttachedOptimizer"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Mode decides what happens when the optimizer refuses a change.
type Mode int

const (
	// Automatic drops the optimizer back to EmptyOptimizer when it refuses
	// a change, and attaches it again before optimizing.
	Automatic Mode = iota
	// Manual returns the refusal to the caller. Only ResetOptimizer,
	// Attach and DropOptimizer change the state.
	Manual
)

func (m Mode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case Manual:
		return "manual"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode reads a Mode from its String form, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "automatic":
		return Automatic, nil
	case "manual":
		return Manual, nil
	}
	return 0, fmt.Errorf("unknown mode %q, expected automatic or manual", s)
}
