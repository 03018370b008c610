// Package keyword turns free-text dish names into canonical cache keys.
package keyword

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical key length bounds, measured after normalization.
const (
	MinLength = 2
	MaxLength = 100
)

// ErrInvalid is the parent error for all normalization rejections.
// Callers that don't care about the specific reason match on this.
var ErrInvalid = errors.New("invalid keyword")

var (
	ErrEmpty    = fmt.Errorf("%w: empty after normalization", ErrInvalid)
	ErrTooShort = fmt.Errorf("%w: shorter than %d characters", ErrInvalid, MinLength)
	ErrTooLong  = fmt.Errorf("%w: longer than %d characters", ErrInvalid, MaxLength)
)

// substitutions handles letters whose single-letter decomposition would lose
// information. It must run before stripMarks: NFKD decomposes "ä" into
// "a" + combining diaeresis, so stripping first would leave a bare "a"
// instead of "ae".
var substitutions = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// stripMarks decomposes accented letters and removes the combining marks,
// e.g. "é" -> "e", "ô" -> "o".
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize converts a raw keyword into its canonical cache key: lowercase
// ASCII letters and single spaces only, trimmed, between MinLength and
// MaxLength characters. It is pure and deterministic; a raw keyword that
// cannot satisfy the invariants is rejected with an ErrInvalid-classed error.
func Normalize(raw string) (string, error) {
	s := strings.ToLower(raw)
	s = substitutions.Replace(s)

	s, _, err := transform.String(stripMarks, s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	// Keep lowercase ASCII letters. Everything else (whitespace, digits,
	// punctuation, non-ASCII) acts as a word separator, so "Müller-Königsberger"
	// keeps its word boundary. Separator runs collapse to a single space.
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}

	key := b.String()
	switch {
	case key == "":
		return "", ErrEmpty
	case len(key) < MinLength:
		return "", ErrTooShort
	case len(key) > MaxLength:
		return "", ErrTooLong
	}
	return key, nil
}
