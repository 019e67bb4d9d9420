package readline

import (
	"fmt"
	"strings"

	"github.com/hidetatz/cjkline/linebuf"
)

// Action is an editing command a key can be bound to.
type Action int

const (
	ActionMoveLeft Action = iota + 1
	ActionMoveRight
	ActionDeleteBefore
	ActionDeleteAt
	ActionDeleteToEnd
	ActionInsertChar
)

func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "move-left"
	case ActionMoveRight:
		return "move-right"
	case ActionDeleteBefore:
		return "delete-before"
	case ActionDeleteAt:
		return "delete-at"
	case ActionDeleteToEnd:
		return "delete-to-end"
	case ActionInsertChar:
		return "insert-char"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// DefaultBindings returns a fresh emacs-style table. Printable keys that are
// not listed here insert themselves.
func DefaultBindings() map[Binding]Action {
	return map[Binding]Action{
		{Key: KeyLeft}:          ActionMoveLeft,
		{Key: KeyB, Ctrl: true}: ActionMoveLeft,
		{Key: KeyRight}:         ActionMoveRight,
		{Key: KeyF, Ctrl: true}: ActionMoveRight,
		{Key: KeyBackspace}:     ActionDeleteBefore,
		{Key: KeyH, Ctrl: true}: ActionDeleteBefore,
		{Key: KeyD, Ctrl: true}: ActionDeleteAt,
		{Key: KeyDelete}:        ActionDeleteAt,
		{Key: KeyK, Ctrl: true}: ActionDeleteToEnd,
	}
}

// apply runs a against buf and brings the screen up to date on out.
// It reports false when the action hit a boundary; in that case nothing
// changed except for a single bell.
func apply(a Action, ev KeyEvent, buf *linebuf.Buffer, out Output) bool {
	pos := buf.Pos()

	switch a {
	case ActionMoveLeft:
		w := buf.WidthOf(pos - 1)
		if !buf.MoveLeft() {
			out.Bell()
			return false
		}
		moveBy(out, -w)

	case ActionMoveRight:
		w := buf.WidthOf(pos)
		if !buf.MoveRight() {
			out.Bell()
			return false
		}
		moveBy(out, w)

	case ActionDeleteBefore:
		if pos == 0 {
			out.Bell()
			return false
		}
		moveBy(out, -buf.WidthOf(pos-1))
		clearTail(buf, out, pos-1)
		buf.RemoveBefore()
		printTail(buf, out, buf.Pos())

	case ActionDeleteAt:
		if pos == buf.Len() {
			out.Bell()
			return false
		}
		clearTail(buf, out, pos)
		buf.RemoveAt()
		printTail(buf, out, pos)

	case ActionDeleteToEnd:
		if pos == buf.Len() {
			out.Bell()
			return false
		}
		clearTail(buf, out, pos)
		buf.RemoveToEnd()

	case ActionInsertChar:
		appending := pos == buf.Len()
		col, row := out.CursorPosition()
		buf.Insert(ev.Char)
		out.WriteRune(ev.Char)
		// the terminal may disagree with the classifier; the buffer wins
		out.MoveCursorTo(col+buf.WidthOf(pos), row)
		if !appending {
			printTail(buf, out, buf.Pos())
		}

	default:
		// not produced by Lookup
		return false
	}
	return true
}

func moveBy(out Output, cols int) {
	col, row := out.CursorPosition()
	out.MoveCursorTo(col+cols, row)
}

// clearTail blanks the columns of cells k..Len()-1, starting at the cursor,
// and puts the cursor back.
func clearTail(buf *linebuf.Buffer, out Output, k int) {
	col, row := out.CursorPosition()
	for i := k; i < buf.Len(); i++ {
		out.WriteString(strings.Repeat(" ", buf.WidthOf(i)))
	}
	out.MoveCursorTo(col, row)
}

// printTail writes cells k..Len()-1 starting at the cursor and puts the cursor back.
func printTail(buf *linebuf.Buffer, out Output, k int) {
	col, row := out.CursorPosition()
	for i := k; i < buf.Len(); i++ {
		out.WriteRune(buf.Cell(i).Char)
	}
	out.MoveCursorTo(col, row)
}
