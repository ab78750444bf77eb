// Package lexer provides the streaming building blocks of the closet query
// language: a single-token recognizer and the list lexers composed from it.
// Every type here consumes input one rune at a time and never re-reads a rune.
package lexer

// MatchStatus reports how one rune affected a KeyRecognizer.
type MatchStatus int

const (
	// NoMatch means no match was in progress and the rune does not start one.
	NoMatch MatchStatus = iota
	// PartialMatch means the rune extended a match that is not complete yet.
	PartialMatch
	// Match means the rune completed the key.
	Match
	// MatchBroken means a match was in progress, the rune broke it and does
	// not start a new one.
	MatchBroken
	// MatchRestarted means a match was in progress, the rune broke it and
	// immediately started a new match at the first key rune.
	MatchRestarted
)

func (s MatchStatus) String() string {
	switch s {
	case NoMatch:
		return "NoMatch"
	case PartialMatch:
		return "PartialMatch"
	case Match:
		return "Match"
	case MatchBroken:
		return "MatchBroken"
	case MatchRestarted:
		return "MatchRestarted"
	default:
		return "Unknown"
	}
}

// Broke reports whether the status discarded a partial match.
func (s MatchStatus) Broke() bool {
	return s == MatchBroken || s == MatchRestarted
}

const notMatching = -1

// KeyRecognizer matches a fixed key against a rune stream.
//
// The partial buffer always equals key[:cursor+1]. When a match breaks, the
// runes it was holding are moved to the reclaim buffer, where they stay
// readable until the next call to Advance.
//
// The key must not need backtracking into itself: a key such as "aab" will not
// be found in "aaab" because a restart only re-examines the breaking rune.
type KeyRecognizer struct {
	key     []rune
	cursor  int
	partial []rune
	reclaim []rune
}

// NewKeyRecognizer creates a recognizer for key. An empty key never matches.
func NewKeyRecognizer(key string) *KeyRecognizer {
	return &KeyRecognizer{
		key:    []rune(key),
		cursor: notMatching,
	}
}

// Advance feeds one rune to the recognizer.
func (r *KeyRecognizer) Advance(c rune) MatchStatus {
	r.reclaim = r.reclaim[:0]
	if len(r.key) == 0 {
		return NoMatch
	}
	if r.complete() {
		r.Reset()
	}

	if r.key[r.cursor+1] == c {
		r.cursor++
		r.partial = append(r.partial, c)
		if r.complete() {
			return Match
		}
		return PartialMatch
	}

	if r.cursor == notMatching {
		return NoMatch
	}

	r.reclaim = append(r.reclaim, r.partial...)
	r.partial = r.partial[:0]
	if r.key[0] == c {
		r.cursor = 0
		r.partial = append(r.partial, c)
		return MatchRestarted
	}
	r.cursor = notMatching
	return MatchBroken
}

// Reset forgets any match in progress.
func (r *KeyRecognizer) Reset() {
	r.cursor = notMatching
	r.partial = r.partial[:0]
	r.reclaim = r.reclaim[:0]
}

// Key returns the token this recognizer looks for.
func (r *KeyRecognizer) Key() string {
	return string(r.key)
}

// PartialBuffer returns the prefix of the key matched so far. After a Match it
// is the whole key until the next Advance.
func (r *KeyRecognizer) PartialBuffer() string {
	return string(r.partial)
}

// Reclaimable returns the runes released by the last MatchBroken or
// MatchRestarted. It is empty after any other status.
func (r *KeyRecognizer) Reclaimable() string {
	return string(r.reclaim)
}

// Matching reports whether a partial match is being held.
func (r *KeyRecognizer) Matching() bool {
	return r.cursor != notMatching && !r.complete()
}

func (r *KeyRecognizer) complete() bool {
	return r.cursor == len(r.key)-1
}

func (r *KeyRecognizer) held() []rune {
	return r.partial
}

func (r *KeyRecognizer) released() []rune {
	return r.reclaim
}
