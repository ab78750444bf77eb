package errors

import (
	"fmt"
	"strings"
)

// ParseError describes why a query expression was rejected. It records the
// parser state at the time of failure rather than an exact offset.
type ParseError struct {
	Kind       error  // ErrUnexpectedToken, ErrUnknownField or ErrUnterminatedExpression
	State      string // Parser state when the error was raised, e.g. "capturing key"
	Fragment   string // Tail of the input consumed so far
	Detail     string
	Key        string // Offending key, for ErrUnknownField
	Suggestion string // Closest known key, if any
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean '%s'?)", e.Suggestion)
	}
	fmt.Fprintf(&b, " while %s, near %q", e.State, e.Fragment)
	return b.String()
}

func (e *ParseError) Is(target error) bool {
	return target == e.Kind || target == ErrInvalidQuery
}

// NewUnexpectedTokenError creates a ParseError of kind ErrUnexpectedToken.
func NewUnexpectedTokenError(state, fragment, detail string) *ParseError {
	return &ParseError{Kind: ErrUnexpectedToken, State: state, Fragment: fragment, Detail: detail}
}

// NewUnknownFieldError creates a ParseError of kind ErrUnknownField.
func NewUnknownFieldError(state, fragment, key, suggestion string) *ParseError {
	return &ParseError{
		Kind:       ErrUnknownField,
		State:      state,
		Fragment:   fragment,
		Detail:     fmt.Sprintf("'%s'", key),
		Key:        key,
		Suggestion: suggestion,
	}
}

// NewUnterminatedExpressionError creates a ParseError of kind ErrUnterminatedExpression.
func NewUnterminatedExpressionError(state, fragment, detail string) *ParseError {
	return &ParseError{Kind: ErrUnterminatedExpression, State: state, Fragment: fragment, Detail: detail}
}

// KindName returns a stable snake_case name for the error kind, suitable for
// API responses and metric labels.
func (e *ParseError) KindName() string {
	switch e.Kind {
	case ErrUnexpectedToken:
		return "unexpected_token"
	case ErrUnknownField:
		return "unknown_field"
	case ErrUnterminatedExpression:
		return "unterminated_expression"
	default:
		return "invalid_query"
	}
}
