// Package severity defines the outcome vocabulary shared by every validator in
// rebarplan.
//
// Both validation tiers (the ordered rule engine in package rules and the
// categorized constraint registry in package constraints) grade their results
// with the same [Level]. What a level *does* to the evaluation loop is not part
// of the level itself: each tier owns a [Policy] that decides whether a level
// stops further checks.
//
// # Levels
//
//   - [Pass]: the check found nothing to report.
//   - [Info]: informational only, recorded but never scored.
//   - [Warning]: legal but undesirable; carries a penalty.
//   - [Critical]: the candidate must be discarded.
//   - [Fatal]: the candidate must be discarded and the current category stops.
package severity

import (
	"fmt"
	"strings"
)

// Level grades the outcome of a single rule or constraint check.
type Level int

const (
	Pass Level = iota
	Info
	Warning
	Critical
	Fatal
)

var levelNames = [...]string{
	Pass:     "pass",
	Info:     "info",
	Warning:  "warning",
	Critical: "critical",
	Fatal:    "fatal",
}

// String returns the lower-case level name.
func (l Level) String() string {
	if l < Pass || l > Fatal {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Parse converts a level name (case-insensitive) back into a Level.
func Parse(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return Pass, fmt.Errorf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler so levels serialize by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// AtLeast reports whether l is as severe as other or more.
func (l Level) AtLeast(other Level) bool {
	return l >= other
}

// IsFailure reports whether the level excludes a candidate (Critical or Fatal).
func (l Level) IsFailure() bool {
	return l >= Critical
}

// Policy describes how one validation tier reacts to result levels.
type Policy struct {
	// Name identifies the tier in logs.
	Name string

	// HaltOn is the lowest level that stops the evaluation loop.
	HaltOn Level

	// Invalidate is the lowest level that marks the candidate invalid.
	Invalidate Level

	// Penalize is the only level whose penalty is accumulated.
	Penalize Level
}

// Halts reports whether a result at level l stops further checks.
func (p Policy) Halts(l Level) bool {
	return l >= p.HaltOn
}

// Invalidates reports whether a result at level l discards the candidate.
func (p Policy) Invalidates(l Level) bool {
	return l >= p.Invalidate
}

// Scores reports whether a result at level l contributes its penalty.
func (p Policy) Scores(l Level) bool {
	return l == p.Penalize
}

// RulePolicy is the policy of the ordered rule tier: the first Critical result
// invalidates the candidate and stops all remaining rules.
var RulePolicy = Policy{
	Name:       "rules",
	HaltOn:     Critical,
	Invalidate: Critical,
	Penalize:   Warning,
}

// ConstraintPolicy is the policy of the categorized constraint tier: Critical
// results are recorded and the loop continues; only Fatal stops the category.
var ConstraintPolicy = Policy{
	Name:       "constraints",
	HaltOn:     Fatal,
	Invalidate: Critical,
	Penalize:   Warning,
}
