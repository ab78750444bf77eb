package lexer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Converter turns a raw token into a typed value. ok is false when the token
// cannot be converted.
type Converter[T any] func(raw string) (value T, ok bool)

// TypedListLexer is a DelimitedListLexer whose tokens are converted to T as
// soon as they are committed. Tokens that fail conversion are dropped.
type TypedListLexer[T any] struct {
	inner   *DelimitedListLexer
	convert Converter[T]
	seen    int
	values  []T
}

// NewTypedListLexer creates a typed lexer over the given delimiters.
func NewTypedListLexer[T any](separator, terminator string, convert Converter[T]) *TypedListLexer[T] {
	return &TypedListLexer[T]{
		inner:   NewDelimitedListLexer(separator, terminator),
		convert: convert,
	}
}

// Advance feeds one rune and reports whether the list is finished.
func (l *TypedListLexer[T]) Advance(c rune) bool {
	finished := l.inner.Advance(c)
	for ; l.seen < l.inner.Len(); l.seen++ {
		if v, ok := l.convert(l.inner.Token(l.seen)); ok {
			l.values = append(l.values, v)
		}
	}
	return finished
}

// Holding reports whether a delimiter match is in progress.
func (l *TypedListLexer[T]) Holding() bool {
	return l.inner.Holding()
}

// Values returns the converted values captured so far.
func (l *TypedListLexer[T]) Values() []T {
	out := make([]T, len(l.values))
	copy(out, l.values)
	return out
}

// Finished reports whether the terminator has been seen.
func (l *TypedListLexer[T]) Finished() bool {
	return l.inner.Finished()
}

// StringConverter passes tokens through unchanged.
func StringConverter(raw string) (string, bool) {
	return raw, true
}

// MatchMode selects how enum names are compared.
type MatchMode int

const (
	// Strict requires an exact, case-sensitive name.
	Strict MatchMode = iota
	// Loose ignores case and treats any run of whitespace as the enum's word
	// separator, so "one size" matches "ONE_SIZE".
	Loose
)

// EnumConverter builds a converter over a closed set of named values.
// wordSeparator is the separator used inside the names, usually "_".
func EnumConverter[T any](names map[string]T, mode MatchMode, wordSeparator string) Converter[T] {
	if mode == Strict {
		return func(raw string) (T, bool) {
			v, ok := names[raw]
			return v, ok
		}
	}

	folded := make(map[string]T, len(names))
	for name, v := range names {
		folded[looseKey(name, wordSeparator)] = v
	}
	return func(raw string) (T, bool) {
		v, ok := folded[looseKey(raw, wordSeparator)]
		return v, ok
	}
}

// BoolConverter maps the yes and no words, compared loosely, to true and false.
func BoolConverter(yes, no string) Converter[bool] {
	return EnumConverter(map[string]bool{yes: true, no: false}, Loose, " ")
}

// looseKey case-folds s and replaces every whitespace run with sep.
func looseKey(s, sep string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteString(sep)
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return cases.Fold().String(b.String())
}
