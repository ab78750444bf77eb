package lexer

import (
	"strings"
	"unicode"
)

// DelimitedListLexer splits a rune stream into tokens separated by a separator
// key and ended by a terminator key, e.g. "nike, adidas;".
//
// Both recognizers see every rune. Runes a recognizer is holding are not
// written to the pending token until the recognizer either completes (the runes
// are a delimiter and are dropped) or breaks (the runes are reclaimed). The
// lexer tracks how many input runes are already accounted for, so a rune held
// by both recognizers at once is reclaimed exactly once.
//
// The terminator must not be a prefix of the separator, and the two keys must
// differ. The separator may be a prefix of the terminator.
type DelimitedListLexer struct {
	sep *KeyRecognizer
	end *KeyRecognizer

	pos       int // index of the rune being processed
	accounted int // runes before this index are in pending, in tokens or were a delimiter
	pending   []rune
	tokens    []string
	finished  bool
}

// NewDelimitedListLexer creates a lexer for the given separator and terminator.
func NewDelimitedListLexer(separator, terminator string) *DelimitedListLexer {
	return &DelimitedListLexer{
		sep: NewKeyRecognizer(separator),
		end: NewKeyRecognizer(terminator),
	}
}

// Advance feeds one rune and reports whether the terminator has been seen.
// Runes fed after that are ignored.
func (l *DelimitedListLexer) Advance(c rune) bool {
	if l.finished {
		return true
	}

	sepStatus := l.sep.Advance(c)
	endStatus := l.end.Advance(c)

	switch sepStatus {
	case NoMatch:
		switch endStatus {
		case NoMatch:
			l.appendRune(c)
		case PartialMatch:
		case Match:
			l.finalize()
		case MatchBroken:
			l.reclaim(l.end, l.sep)
			l.appendRune(c)
		case MatchRestarted:
			l.reclaim(l.end, l.sep)
		}
	case PartialMatch:
		switch endStatus {
		case NoMatch, PartialMatch:
		case Match:
			l.finalize()
		case MatchBroken, MatchRestarted:
			l.reclaim(l.end, l.sep)
		}
	case Match:
		if endStatus == Match {
			// Only reachable when the separator is a suffix of the
			// terminator; the terminator wins.
			l.finalize()
		} else {
			l.separate()
		}
	case MatchBroken:
		switch endStatus {
		case NoMatch:
			l.reclaim(l.sep, l.end)
			l.appendRune(c)
		case PartialMatch:
			l.reclaim(l.sep, l.end)
		case Match:
			l.finalize()
		case MatchBroken:
			l.takeLonger()
			l.appendRune(c)
		case MatchRestarted:
			l.takeLonger()
		}
	case MatchRestarted:
		switch endStatus {
		case NoMatch, PartialMatch:
			l.reclaim(l.sep, l.end)
		case Match:
			l.finalize()
		case MatchBroken, MatchRestarted:
			l.takeLonger()
		}
	}

	l.pos++
	return l.finished
}

// Tokens returns the tokens committed so far.
func (l *DelimitedListLexer) Tokens() []string {
	out := make([]string, len(l.tokens))
	copy(out, l.tokens)
	return out
}

// Len returns the number of tokens committed so far.
func (l *DelimitedListLexer) Len() int {
	return len(l.tokens)
}

// Token returns the i-th committed token.
func (l *DelimitedListLexer) Token(i int) string {
	return l.tokens[i]
}

// Finished reports whether the terminator has been seen.
func (l *DelimitedListLexer) Finished() bool {
	return l.finished
}

// Holding reports whether either delimiter is in the middle of a match.
func (l *DelimitedListLexer) Holding() bool {
	return l.sep.Matching() || l.end.Matching()
}

// Reset prepares the lexer for a new list.
func (l *DelimitedListLexer) Reset() {
	l.sep.Reset()
	l.end.Reset()
	l.pos = 0
	l.accounted = 0
	l.pending = l.pending[:0]
	l.tokens = nil
	l.finished = false
}

// appendRune adds the current rune to the pending token. Leading whitespace is
// dropped.
func (l *DelimitedListLexer) appendRune(c rune) {
	l.accounted = l.pos + 1
	if len(l.pending) == 0 && unicode.IsSpace(c) {
		return
	}
	l.pending = append(l.pending, c)
}

// reclaim writes back the runes broken released, except those other is still
// holding: they will be reclaimed or dropped when other resolves.
func (l *DelimitedListLexer) reclaim(broken, other *KeyRecognizer) {
	limit := l.pos
	if start := l.heldStart(other); start < limit {
		limit = start
	}
	l.flushFrom(broken.released(), l.pos, limit)
}

// takeLonger resolves two simultaneous breaks. Both released buffers end just
// before the current rune, so the longer one covers the shorter.
func (l *DelimitedListLexer) takeLonger() {
	longer := l.sep.released()
	if other := l.end.released(); len(other) > len(longer) {
		longer = other
	}
	l.flushFrom(longer, l.pos, l.pos)
}

// separate handles a completed separator: whatever the terminator holds from
// before the separator started belongs to the token, then the token is
// committed.
func (l *DelimitedListLexer) separate() {
	l.flushRecognizer(l.end, l.heldStart(l.sep))
	l.commit()
	l.accounted = l.pos + 1
	l.sep.Reset()
}

// finalize handles a completed terminator and ends the list.
func (l *DelimitedListLexer) finalize() {
	l.flushRecognizer(l.sep, l.heldStart(l.end))
	l.commit()
	l.accounted = l.pos + 1
	l.finished = true
}

// commit moves the trimmed pending token to the output. Empty tokens are
// dropped.
func (l *DelimitedListLexer) commit() {
	token := strings.TrimSpace(string(l.pending))
	l.pending = l.pending[:0]
	if token != "" {
		l.tokens = append(l.tokens, token)
	}
}

// heldStart returns the input index of the first rune r is holding, or one
// past the current rune when it holds nothing.
func (l *DelimitedListLexer) heldStart(r *KeyRecognizer) int {
	return l.pos + 1 - len(r.held())
}

// flushRecognizer writes back unaccounted runes below limit from everything r
// has: runes it just released and runes it still holds.
func (l *DelimitedListLexer) flushRecognizer(r *KeyRecognizer, limit int) {
	l.flushFrom(r.released(), l.pos, limit)
	l.flushFrom(r.held(), l.pos+1, limit)
}

// flushFrom appends the runes of buf, which ends at input index bufEnd
// (exclusive), that are not yet accounted for and lie below limit.
func (l *DelimitedListLexer) flushFrom(buf []rune, bufEnd, limit int) {
	bufStart := bufEnd - len(buf)
	if limit > bufEnd {
		limit = bufEnd
	}
	for p := max(l.accounted, bufStart); p < limit; p++ {
		c := buf[p-bufStart]
		if len(l.pending) == 0 && unicode.IsSpace(c) {
			continue
		}
		l.pending = append(l.pending, c)
	}
	if limit > l.accounted {
		l.accounted = limit
	}
}
