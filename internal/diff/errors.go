package diff

import (
	"errors"
	"fmt"
)

// ParseFailureError wraps a malformed-input condition surfaced by the HTML
// parser adapter before it ever reaches the diff engine.
type ParseFailureError struct {
	Reason string
	Err    error
}

func (e *ParseFailureError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse failure: %s", e.Reason)
	}
	return fmt.Sprintf("parse failure: %s: %s", e.Reason, e.Err.Error())
}

func (e *ParseFailureError) Unwrap() error { return e.Err }

func (e *ParseFailureError) Is(target error) bool {
	var pf *ParseFailureError
	return errors.As(target, &pf)
}

// EngineInvariantViolationError marks a condition the engine itself treats
// as a bug (e.g. an atom run whose events don't reconstitute its input
// slice) rather than a malformed-input problem.
type EngineInvariantViolationError struct {
	Invariant string
}

func (e *EngineInvariantViolationError) Error() string {
	return fmt.Sprintf("engine invariant violated: %s", e.Invariant)
}

func (e *EngineInvariantViolationError) Is(target error) bool {
	var ev *EngineInvariantViolationError
	if errors.As(target, &ev) {
		return e.Invariant == ev.Invariant
	}
	return false
}

// UnmatchedTagError records a tag close with no corresponding open. Nothing
// in this module currently returns it: the emitter treats Leave on an
// unmatched tag as a silent no-op, and the parser adapter recovers from
// unbalanced input the way golang.org/x/net/html does.
type UnmatchedTagError struct {
	Tag string
}

func (e *UnmatchedTagError) Error() string {
	return fmt.Sprintf("unmatched tag: %s", e.Tag)
}

func (e *UnmatchedTagError) Is(target error) bool {
	var ut *UnmatchedTagError
	if errors.As(target, &ut) {
		return e.Tag == ut.Tag
	}
	return false
}
