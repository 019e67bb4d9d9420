package linebuf

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Classifier decides how many terminal columns a character occupies.
// Implementations must return 1 or 2.
type Classifier interface {
	Width(r rune) int
}

// Range treats every code point in [Lo, Hi] as wide and everything else as narrow.
type Range struct {
	Lo, Hi rune
}

// DefaultWide is the fixed wide block: CJK symbols and punctuation through
// the end of the unified ideographs.
var DefaultWide = Range{Lo: 0x3000, Hi: 0x9FFF}

func (rg Range) Width(r rune) int {
	if !utf8.ValidRune(r) || r == utf8.RuneError {
		return 1
	}
	if r >= rg.Lo && r <= rg.Hi {
		return 2
	}
	return 1
}

// EastAsian classifies through the East Asian Width tables of go-runewidth.
// Zero-width and control characters still take a full column so that every
// cell stays addressable.
type EastAsian struct {
	// Ambiguous makes East Asian ambiguous characters wide.
	Ambiguous bool
}

// conditions shared by every EastAsian value; they are only read after init
var (
	narrowAmbiguous = newCondition(false)
	wideAmbiguous   = newCondition(true)
)

func newCondition(ambiguousWide bool) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = ambiguousWide
	return cond
}

func (ea EastAsian) Width(r rune) int {
	if !utf8.ValidRune(r) || r == utf8.RuneError {
		return 1
	}
	cond := narrowAmbiguous
	if ea.Ambiguous {
		cond = wideAmbiguous
	}
	switch w := cond.RuneWidth(r); {
	case w <= 1:
		return 1
	default:
		return 2
	}
}
