package readline

import (
	"io"
	"strings"

	"github.com/hidetatz/cjkline/linebuf"
)

/*
 * test utilities
 */

// cont marks the right half of a two-column glyph.
const cont = -1

// virtual terminal on memory. Glyph widths follow the same classifier as the
// buffer, the way a terminal that agrees with the editor would render them.
type virtterm struct {
	lines      [][]rune
	curX, curY int
	class      linebuf.Classifier

	bells    int
	flushes  int
	flushErr error
}

func newvirtterm() *virtterm {
	return &virtterm{lines: [][]rune{{}}, class: linebuf.DefaultWide}
}

func (t *virtterm) cell(x int) rune {
	line := t.lines[t.curY]
	if x < 0 || x >= len(line) {
		return 0
	}
	return line[x]
}

func (t *virtterm) set(x int, r rune) {
	for len(t.lines[t.curY]) <= x {
		t.lines[t.curY] = append(t.lines[t.curY], ' ')
	}
	t.lines[t.curY][x] = r
}

// put places a glyph at the cursor, breaking any wide glyph it overlaps.
func (t *virtterm) put(r rune, w int) {
	for x := t.curX; x < t.curX+w; x++ {
		if t.cell(x) == cont {
			t.set(x-1, ' ')
		}
		if t.cell(x+1) == cont {
			t.set(x+1, ' ')
		}
	}
	t.set(t.curX, r)
	if w == 2 {
		t.set(t.curX+1, cont)
	}
	t.curX += w
}

func (t *virtterm) WriteRune(r rune) {
	switch r {
	case '\r':
		t.curX = 0
	case '\n':
		t.curY++
		for len(t.lines) <= t.curY {
			t.lines = append(t.lines, []rune{})
		}
	default:
		t.put(r, t.class.Width(r))
	}
}

func (t *virtterm) WriteString(s string) {
	for _, r := range s {
		t.WriteRune(r)
	}
}

func (t *virtterm) MoveCursorTo(x, y int) {
	t.curX = x
	t.curY = y
}

func (t *virtterm) CursorPosition() (int, int) {
	return t.curX, t.curY
}

func (t *virtterm) Bell() {
	t.bells++
}

func (t *virtterm) Flush() error {
	t.flushes++
	return t.flushErr
}

// row returns what is visible on row y, without trailing blanks.
func (t *virtterm) row(y int) string {
	sb := strings.Builder{}
	for _, r := range t.lines[y] {
		if r == cont {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// virtual keyboard on memory
type virtkeys struct {
	events []KeyEvent
	err    error
}

func (k *virtkeys) ReadKey() (KeyEvent, error) {
	if len(k.events) == 0 {
		if k.err != nil {
			return KeyEvent{}, k.err
		}
		return KeyEvent{}, io.EOF
	}
	ev := k.events[0]
	k.events = k.events[1:]
	return ev, nil
}

func (k *virtkeys) typeText(s string) *virtkeys {
	for _, r := range s {
		k.events = append(k.events, CharEvent(r))
	}
	return k
}

func (k *virtkeys) press(evs ...KeyEvent) *virtkeys {
	k.events = append(k.events, evs...)
	return k
}

var (
	left      = KeyEvent{Key: KeyLeft}
	right     = KeyEvent{Key: KeyRight}
	backspace = KeyEvent{Key: KeyBackspace, Char: 0x7f}
	del       = KeyEvent{Key: KeyDelete}
	enter     = KeyEvent{Key: KeyEnter, Char: '\r'}
)

func ctrl(r rune) KeyEvent {
	k, _ := LetterKey(r)
	return KeyEvent{Key: k, Char: r & 0x1f, Ctrl: true}
}
