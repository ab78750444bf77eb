package parser

import (
	"fmt"
	"strings"

	apperrors "github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/internal/lexer"
	"github.com/gcbaptista/go-wardrobe-search/internal/typoutil"
	"github.com/gcbaptista/go-wardrobe-search/model"
)

// fragmentSize is how many trailing runes a ParseError quotes.
const fragmentSize = 24

// maxSuggestionDistance bounds "did you mean" suggestions for unknown keys.
const maxSuggestionDistance = 2

// Machine consumes a query expression one rune at a time and fills a
// ClothingAddress. A Machine is single-use and not safe for concurrent use.
type Machine struct {
	parser  *Parser
	state   State
	address *model.ClothingAddress
	recent  []rune
	err     error
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Feed advances the machine by one rune. Once an error is returned the
// machine is stuck and returns the same error for every later rune.
func (m *Machine) Feed(c rune) error {
	if m.err != nil {
		return m.err
	}
	m.remember(c)

	next, err := m.transition(m.state, c)
	if err != nil {
		m.err = err
		return err
	}
	m.state = next
	return nil
}

// Finish checks that the input ended between clauses and returns the address.
func (m *Machine) Finish() (*model.ClothingAddress, error) {
	if m.err != nil {
		return nil, m.err
	}

	switch s := m.state.(type) {
	case *CapturingKey:
		if s.equality.Matching() {
			return nil, apperrors.NewUnexpectedTokenError(s.Name(), m.fragment(),
				fmt.Sprintf("input ends inside '%s'", m.parser.tokens.equality))
		}
		if strings.TrimSpace(string(s.key)) != "" {
			return nil, apperrors.NewUnterminatedExpressionError(s.Name(), m.fragment(),
				fmt.Sprintf("key '%s' has no '%s'", strings.TrimSpace(string(s.key)), m.parser.tokens.equality))
		}
		return m.address, nil
	default:
		detail := fmt.Sprintf("missing '%s'", m.parser.tokens.terminator)
		if l, ok := s.(interface{ holding() bool }); ok && l.holding() {
			detail = fmt.Sprintf("input ends inside a delimiter, missing '%s'", m.parser.tokens.terminator)
		}
		return nil, apperrors.NewUnterminatedExpressionError(s.Name(), m.fragment(), detail)
	}
}

func (m *Machine) transition(state State, c rune) (State, error) {
	switch s := state.(type) {
	case *CapturingKey:
		return m.captureKey(s, c)

	case *CapturingList[string]:
		if s.values.Advance(c) {
			m.address.AddValues(s.Dimension, s.values.Values()...)
			return m.keyState(), nil
		}
		return s, nil

	case *CapturingList[model.Size]:
		if s.values.Advance(c) {
			m.address.AddSizes(s.values.Values()...)
			return m.keyState(), nil
		}
		return s, nil

	case *CapturingList[bool]:
		if s.values.Advance(c) {
			if v := s.values.Values(); len(v) > 0 {
				m.address.SetDirty(v[len(v)-1])
			}
			return m.keyState(), nil
		}
		return s, nil

	default:
		return nil, fmt.Errorf("parser: unhandled state %T", state)
	}
}

func (m *Machine) captureKey(s *CapturingKey, c rune) (State, error) {
	status := s.equality.Advance(c)
	if status == lexer.Match {
		return m.dispatch(s)
	}
	if status.Broke() {
		s.key = append(s.key, []rune(s.equality.Reclaimable())...)
	}
	// A restarted match keeps c as the start of the next attempt.
	if status == lexer.NoMatch || status == lexer.MatchBroken {
		s.key = append(s.key, c)
	}
	return s, nil
}

// dispatch picks the list state for the accumulated key.
func (m *Machine) dispatch(s *CapturingKey) (State, error) {
	key := strings.ToLower(strings.TrimSpace(string(s.key)))
	if key == "" {
		return nil, apperrors.NewUnexpectedTokenError(s.Name(), m.fragment(),
			fmt.Sprintf("'%s' without a key", m.parser.tokens.equality))
	}

	d, ok := m.parser.keys[key]
	if !ok {
		suggestion, _ := typoutil.ClosestMatch(key, m.parser.keyNames, maxSuggestionDistance)
		return nil, apperrors.NewUnknownFieldError(s.Name(), m.fragment(), key, suggestion)
	}

	switch d {
	case model.DimensionSize:
		return newCapturingList(d, m.parser.tokens, m.parser.sizes), nil
	case model.DimensionDirty:
		return newCapturingList(d, m.parser.tokens, m.parser.dirty), nil
	default:
		return newCapturingList[string](d, m.parser.tokens, lexer.StringConverter), nil
	}
}

func (m *Machine) keyState() State {
	return newCapturingKey(m.parser.tokens.equality)
}

func (m *Machine) remember(c rune) {
	if len(m.recent) == fragmentSize {
		copy(m.recent, m.recent[1:])
		m.recent = m.recent[:fragmentSize-1]
	}
	m.recent = append(m.recent, c)
}

func (m *Machine) fragment() string {
	return string(m.recent)
}
