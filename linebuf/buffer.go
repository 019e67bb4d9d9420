// Package linebuf holds the contents of a single edited line: the entered
// characters, the display width of each one, and the logical cursor.
//
// The buffer knows nothing about the terminal. Column arithmetic is done by
// callers through WidthBefore and WidthOf.
package linebuf

import (
	"slices"
	"strings"
)

// Cell is one entered character together with the number of columns it
// occupies on screen. Width is fixed when the cell is created.
type Cell struct {
	Char  rune
	Width int
}

// Buffer is an ordered sequence of cells and a cursor index into it.
// The cursor always satisfies 0 <= Pos() <= Len().
type Buffer struct {
	cells []Cell
	pos   int
	class Classifier
}

// New returns an empty buffer. A nil classifier means DefaultWide.
func New(c Classifier) *Buffer {
	if c == nil {
		c = DefaultWide
	}
	return &Buffer{class: c}
}

func (b *Buffer) newCell(r rune) Cell {
	return Cell{Char: r, Width: b.class.Width(r)}
}

// Pos returns the logical cursor index.
func (b *Buffer) Pos() int { return b.pos }

// Len returns the number of cells.
func (b *Buffer) Len() int { return len(b.cells) }

// Cell returns the cell at i.
func (b *Buffer) Cell(i int) Cell { return b.cells[i] }

// Insert puts ch at the cursor and moves the cursor past it.
func (b *Buffer) Insert(ch rune) {
	b.cells = slices.Insert(b.cells, b.pos, b.newCell(ch))
	b.pos++
}

// RemoveBefore deletes the cell left of the cursor.
// It reports false, leaving the buffer untouched, when the cursor is at the start.
func (b *Buffer) RemoveBefore() bool {
	if b.pos == 0 {
		return false
	}
	b.cells = slices.Delete(b.cells, b.pos-1, b.pos)
	b.pos--
	return true
}

// RemoveAt deletes the cell under the cursor. The cursor does not move.
func (b *Buffer) RemoveAt() bool {
	if b.pos == len(b.cells) {
		return false
	}
	b.cells = slices.Delete(b.cells, b.pos, b.pos+1)
	return true
}

// RemoveToEnd deletes every cell from the cursor to the end of the line.
func (b *Buffer) RemoveToEnd() bool {
	if b.pos == len(b.cells) {
		return false
	}
	b.cells = slices.Delete(b.cells, b.pos, len(b.cells))
	return true
}

func (b *Buffer) MoveLeft() bool {
	if b.pos == 0 {
		return false
	}
	b.pos--
	return true
}

func (b *Buffer) MoveRight() bool {
	if b.pos == len(b.cells) {
		return false
	}
	b.pos++
	return true
}

// WidthBefore sums the widths of cells 0..i-1. i is clamped to [0, Len()].
func (b *Buffer) WidthBefore(i int) int {
	i = min(max(i, 0), len(b.cells))
	w := 0
	for _, c := range b.cells[:i] {
		w += c.Width
	}
	return w
}

// WidthOf returns the width of cell i, or 0 if there is no such cell.
func (b *Buffer) WidthOf(i int) int {
	if i < 0 || i >= len(b.cells) {
		return 0
	}
	return b.cells[i].Width
}

// Width returns the total width of the line.
func (b *Buffer) Width() int {
	return b.WidthBefore(len(b.cells))
}

// Snapshot copies the characters out in order.
func (b *Buffer) Snapshot() []rune {
	rs := make([]rune, len(b.cells))
	for i, c := range b.cells {
		rs[i] = c.Char
	}
	return rs
}

func (b *Buffer) String() string {
	sb := strings.Builder{}
	for _, c := range b.cells {
		sb.WriteRune(c.Char)
	}
	return sb.String()
}
