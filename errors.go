package fsm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSyntax is returned for patterns that cannot be parsed.
	ErrSyntax = errors.New("syntax error")

	// ErrMalformedAlternation is returned when an alternation does not have two non-empty operands.
	ErrMalformedAlternation = errors.New("malformed alternation")

	// ErrSubexpressionOverflow is returned when parenthesized groups nest deeper than the compiler allows.
	ErrSubexpressionOverflow = errors.New("too many nested subexpressions")

	// ErrInconsistentMealyOutput is returned when a Mealy state is entered by transitions with different outputs.
	ErrInconsistentMealyOutput = errors.New("inconsistent mealy output")

	ErrMalformedTable = errors.New("malformed table")

	// ErrPatternTooLong is returned by a Pipeline for patterns over its length limit.
	ErrPatternTooLong = errors.New("pattern too long")

	ErrMalformedGrammar = errors.New("malformed grammar")

	// ErrMixedGrammar is returned when a grammar has both left- and right-linear rules.
	ErrMixedGrammar = errors.New("mixed left and right linear grammar")
)

// SyntaxError reports where in the pattern parsing failed.
type SyntaxError struct {
	Pattern string
	Pos     int
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at position %d in %q", e.Err, e.Pos, e.Pattern)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// InconsistentOutputError names the state and the conflicting outputs found
// while converting a Mealy machine to Moore form.
type InconsistentOutputError struct {
	State   string
	Outputs []string
}

func (e *InconsistentOutputError) Error() string {
	return fmt.Sprintf("state %q is entered with outputs %s", e.State, strings.Join(e.Outputs, ", "))
}

func (e *InconsistentOutputError) Unwrap() error {
	return ErrInconsistentMealyOutput
}
