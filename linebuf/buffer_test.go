package linebuf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(b *Buffer, s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

func TestInsert(t *testing.T) {
	b := New(nil)
	fill(b, "hi")
	assert.Equal(t, "hi", b.String())
	assert.Equal(t, 2, b.Pos())
	assert.Equal(t, 2, b.Len())
}

func TestInsertMiddle(t *testing.T) {
	b := New(nil)
	fill(b, "hllo")
	for b.Pos() > 1 {
		b.MoveLeft()
	}
	b.Insert('e')
	assert.Equal(t, "hello", b.String())
	assert.Equal(t, 2, b.Pos())
}

func TestWidthIsFixedAtInsertion(t *testing.T) {
	b := New(nil)
	fill(b, "a中b")
	assert.Equal(t, Cell{Char: 'a', Width: 1}, b.Cell(0))
	assert.Equal(t, Cell{Char: '中', Width: 2}, b.Cell(1))
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 0, b.WidthBefore(0))
	assert.Equal(t, 1, b.WidthBefore(1))
	assert.Equal(t, 3, b.WidthBefore(2))
	assert.Equal(t, 4, b.WidthBefore(3))
	assert.Equal(t, 4, b.WidthBefore(99))
	assert.Equal(t, 0, b.WidthBefore(-3))
	assert.Equal(t, 2, b.WidthOf(1))
	assert.Equal(t, 0, b.WidthOf(3))
	assert.Equal(t, 0, b.WidthOf(-1))
}

func TestRemoveBefore(t *testing.T) {
	b := New(nil)
	fill(b, "hello")
	require.True(t, b.RemoveBefore())
	assert.Equal(t, "hell", b.String())
	assert.Equal(t, 4, b.Pos())

	for b.MoveLeft() {
	}
	assert.False(t, b.RemoveBefore(), "nothing left of the cursor")
	assert.Equal(t, "hell", b.String())
	assert.Equal(t, 0, b.Pos())
}

func TestRemoveAt(t *testing.T) {
	b := New(nil)
	fill(b, "hello")
	assert.False(t, b.RemoveAt(), "cursor at end")

	b.MoveLeft()
	b.MoveLeft()
	require.True(t, b.RemoveAt())
	assert.Equal(t, "helo", b.String())
	assert.Equal(t, 3, b.Pos())
}

func TestRemoveToEnd(t *testing.T) {
	b := New(nil)
	fill(b, "hello")
	assert.False(t, b.RemoveToEnd())

	for b.Pos() > 2 {
		b.MoveLeft()
	}
	require.True(t, b.RemoveToEnd())
	assert.Equal(t, "he", b.String())
	assert.Equal(t, 2, b.Pos())
	assert.Equal(t, b.Len(), b.Pos())
}

func TestMovementBoundaries(t *testing.T) {
	b := New(nil)
	assert.False(t, b.MoveLeft())
	assert.False(t, b.MoveRight())

	fill(b, "ab")
	assert.False(t, b.MoveRight())
	assert.True(t, b.MoveLeft())
	assert.True(t, b.MoveLeft())
	assert.False(t, b.MoveLeft())
	assert.Equal(t, 0, b.Pos())
	assert.True(t, b.MoveRight())
	assert.Equal(t, 1, b.Pos())
}

func TestInsertThenRemoveBeforeRestores(t *testing.T) {
	b := New(nil)
	fill(b, "x中yz")
	b.MoveLeft()
	b.MoveLeft()
	before, pos := b.String(), b.Pos()

	for _, r := range []rune{'q', '字', ' '} {
		b.Insert(r)
		require.True(t, b.RemoveBefore())
		assert.Equal(t, before, b.String())
		assert.Equal(t, pos, b.Pos())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := New(nil)
	fill(b, "ab")
	snap := b.Snapshot()
	snap[0] = 'z'
	assert.Equal(t, "ab", b.String())
	assert.Equal(t, []rune{'a', 'b'}, b.Snapshot())
}

func TestCursorStaysInBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	chars := []rune("ab中文x")
	b := New(nil)
	for i := 0; i < 2000; i++ {
		switch rnd.Intn(6) {
		case 0:
			b.Insert(chars[rnd.Intn(len(chars))])
		case 1:
			b.RemoveBefore()
		case 2:
			b.RemoveAt()
		case 3:
			if rnd.Intn(4) == 0 {
				b.RemoveToEnd()
			}
		case 4:
			b.MoveLeft()
		case 5:
			b.MoveRight()
		}
		require.GreaterOrEqual(t, b.Pos(), 0)
		require.LessOrEqual(t, b.Pos(), b.Len())
		require.Equal(t, b.Len(), len(b.Snapshot()))
	}
}

func TestEastAsianBuffer(t *testing.T) {
	b := New(EastAsian{})
	fill(b, "가a")
	assert.Equal(t, 2, b.WidthOf(0))
	assert.Equal(t, 3, b.Width())
}
