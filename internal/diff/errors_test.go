package diff

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFailureError(t *testing.T) {
	inner := errors.New("boom")
	err := &ParseFailureError{Reason: "parse HTML fragment", Err: inner}
	assert.Equal(t, "parse failure: parse HTML fragment: boom", err.Error())
	assert.True(t, errors.Is(err, inner))

	var pf *ParseFailureError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &pf))
}

func TestEngineInvariantViolationError(t *testing.T) {
	err := &EngineInvariantViolationError{Invariant: "x"}
	assert.Equal(t, "engine invariant violated: x", err.Error())
}

func TestUnmatchedTagError(t *testing.T) {
	err := &UnmatchedTagError{Tag: "td"}
	assert.Equal(t, "unmatched tag: td", err.Error())
}

func TestCheckAtomizeInvariant(t *testing.T) {
	cfg := DefaultConfig()
	streams := [][]Event{
		{tx("Foo bar, baz")},
		{st("p"), tx("Hello"), en("p")},
		{st("table"), st("tr"), st("td"), tx("1"), en("td"), en("tr"), en("table")},
		{tx("a"), st("br"), en("br"), st("img", "src", "x"), en("img")},
		nil,
	}
	for _, events := range streams {
		require.NoError(t, CheckAtomizeInvariant(events, cfg))
	}
}
