package shards

import (
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

// State is the lifecycle position of a unit.
type State uint8

const (
	StateConstructed State = iota
	StateComposed
	StateWarming
	StateWarm
	StateCleaned
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateComposed:
		return "composed"
	case StateWarming:
		return "warming"
	case StateWarm:
		return "warm"
	case StateCleaned:
		return "cleaned"
	}
	return "unknown"
}

// Lifecycle tracks the state machine Constructed -> Composed -> Warm -> Cleaned.
// A cleaned unit may be warmed again. Illegal transitions panic with an
// InvariantViolation.
type Lifecycle struct {
	owner string
	state State
}

// NewLifecycle starts in StateConstructed.
func NewLifecycle(owner string) Lifecycle {
	return Lifecycle{owner: owner}
}

// State returns the current state.
func (l *Lifecycle) State() State { return l.state }

// Composed records a successful compose. Recomposing a warm unit is a violation.
func (l *Lifecycle) Composed() {
	if l.state == StateWarm || l.state == StateWarming {
		sdkErrors.Violate(l.owner, "compose", "cannot compose while %s", l.state)
	}
	l.state = StateComposed
}

// Reset returns a not-yet-warm unit to StateConstructed, invalidating its
// compose result.
func (l *Lifecycle) Reset() {
	if l.state == StateWarm || l.state == StateWarming {
		sdkErrors.Violate(l.owner, "modify", "cannot modify while %s", l.state)
	}
	l.state = StateConstructed
}

// BeginWarmup enters StateWarming. Warmup requires a composed or cleaned unit.
func (l *Lifecycle) BeginWarmup() {
	switch l.state {
	case StateComposed, StateCleaned:
		l.state = StateWarming
	case StateWarm, StateWarming:
		sdkErrors.Violate(l.owner, "warmup", "already %s", l.state)
	default:
		sdkErrors.Violate(l.owner, "warmup", "not composed")
	}
}

// Warm records a successful warmup.
func (l *Lifecycle) Warm() {
	l.state = StateWarm
}

// CheckActivate panics unless the unit is warm.
func (l *Lifecycle) CheckActivate() {
	if l.state != StateWarm {
		sdkErrors.Violate(l.owner, "activate", "not warm (%s)", l.state)
	}
}

// BeginCleanup reports whether cleanup has work to do and enters StateCleaned.
// Cleaning an already cleaned unit does nothing.
func (l *Lifecycle) BeginCleanup() bool {
	if l.state == StateCleaned {
		return false
	}
	l.state = StateCleaned
	return true
}
