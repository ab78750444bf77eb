package parser

import (
	"github.com/gcbaptista/go-wardrobe-search/internal/lexer"
	"github.com/gcbaptista/go-wardrobe-search/model"
)

// State is one node of the query state machine. It is a closed set:
// *CapturingKey and *CapturingList[T] for T in string, model.Size and bool.
type State interface {
	// Name describes the state for diagnostics, e.g. "capturing key".
	Name() string
	sealed()
}

// CapturingKey accumulates key text until the equality token is seen.
type CapturingKey struct {
	equality *lexer.KeyRecognizer
	key      []rune
}

func newCapturingKey(equality string) *CapturingKey {
	return &CapturingKey{equality: lexer.NewKeyRecognizer(equality)}
}

func (s *CapturingKey) Name() string { return "capturing key" }
func (s *CapturingKey) sealed()      {}

// Key returns the key text accumulated so far, untrimmed.
func (s *CapturingKey) Key() string { return string(s.key) }

// CapturingList reads the value list of one field until its terminator.
type CapturingList[T any] struct {
	Dimension model.Dimension
	values    *lexer.TypedListLexer[T]
}

func newCapturingList[T any](d model.Dimension, g grammarTokens, convert lexer.Converter[T]) *CapturingList[T] {
	return &CapturingList[T]{
		Dimension: d,
		values:    lexer.NewTypedListLexer(g.separator, g.terminator, convert),
	}
}

func (s *CapturingList[T]) Name() string { return "capturing " + string(s.Dimension) + " list" }
func (s *CapturingList[T]) sealed()      {}

// Values returns the values converted so far.
func (s *CapturingList[T]) Values() []T { return s.values.Values() }

func (s *CapturingList[T]) holding() bool { return s.values.Holding() }
