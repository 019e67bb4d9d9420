// Package ansiterm drives an ANSI/VT100 compatible terminal over a byte
// stream. It decodes keystrokes into readline key events and draws with
// escape sequences, tracking the cursor itself instead of asking the
// terminal after every write.
package ansiterm

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/hidetatz/cjkline/linebuf"
)

var ErrNotTerminal = errors.New("ansiterm: not a terminal")

// Terminal implements readline.Input and readline.Output.
type Terminal struct {
	r       *bufio.Reader
	pending []byte // bytes read ahead while waiting for a cursor report

	w   *bufio.Writer
	err error

	fd    int
	outFd int
	class linebuf.Classifier

	// x is the column of the cursor and y the row relative to where the
	// terminal was when drawing started.
	x, y int
}

type Option func(*Terminal)

// WithFd names the file descriptor of the controlling terminal. Without it
// raw mode, size and cursor queries are unavailable.
func WithFd(fd int) Option {
	return func(t *Terminal) { t.fd = fd }
}

// WithOutFd names the file descriptor output goes to. Cursor queries need
// both ends on a terminal.
func WithOutFd(fd int) Option {
	return func(t *Terminal) { t.outFd = fd }
}

// WithClassifier sets the widths used to advance the tracked cursor. It
// should match the classifier of the session drawing on the terminal.
func WithClassifier(c linebuf.Classifier) Option {
	return func(t *Terminal) { t.class = c }
}

func New(in io.Reader, out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		r:     bufio.NewReader(in),
		w:     bufio.NewWriter(out),
		fd:    -1,
		outFd: -1,
		class: linebuf.DefaultWide,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) IsTerminal() bool {
	return t.fd >= 0 && term.IsTerminal(t.fd)
}

// MakeRaw switches the terminal to raw mode: no echo, no line buffering, no
// signal keys. The returned func restores the previous mode. When the input
// is not a terminal both are no-ops.
func (t *Terminal) MakeRaw() (restore func() error, err error) {
	if !t.IsTerminal() {
		return func() error { return nil }, nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	return func() error { return term.Restore(t.fd, state) }, nil
}

// Size returns the terminal's width and height in cells.
func (t *Terminal) Size() (cols, rows int, err error) {
	if !t.IsTerminal() {
		return 0, 0, ErrNotTerminal
	}
	return term.GetSize(t.fd)
}

/*
 * output
 */

func (t *Terminal) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.WriteString(s)
}

func (t *Terminal) advance(r rune) {
	switch r {
	case '\r':
		t.x = 0
	case '\n':
		t.y++
	case '\a':
	default:
		t.x += t.class.Width(r)
	}
}

func (t *Terminal) WriteString(s string) {
	for _, r := range s {
		t.advance(r)
	}
	t.write(s)
}

func (t *Terminal) WriteRune(r rune) {
	t.advance(r)
	t.write(string(r))
}

// MoveCursorTo moves to column col of row row. Rows are relative to the row
// the terminal was on when the Terminal was created.
func (t *Terminal) MoveCursorTo(col, row int) {
	switch {
	case row < t.y:
		t.write(fmt.Sprintf("\x1b[%dA", t.y-row))
	case row > t.y:
		t.write(fmt.Sprintf("\x1b[%dB", row-t.y))
	}
	t.write(fmt.Sprintf("\x1b[%dG", col+1))
	t.x, t.y = col, row
}

func (t *Terminal) CursorPosition() (col, row int) {
	return t.x, t.y
}

func (t *Terminal) Bell() {
	t.write("\a")
}

// Flush writes buffered output. Write errors are sticky: once one happens
// every later Flush reports it.
func (t *Terminal) Flush() error {
	if t.err == nil {
		t.err = t.w.Flush()
	}
	return t.err
}

// SyncCursor asks the terminal where the cursor is and continues tracking
// from that column. Keys typed before the answer arrives are kept for
// ReadKey. It does nothing unless both input and output are a terminal,
// since nothing would answer the query.
func (t *Terminal) SyncCursor() error {
	if !t.canQuery() {
		return nil
	}
	return t.syncCursor()
}

func (t *Terminal) canQuery() bool {
	return t.IsTerminal() && t.outFd >= 0 && term.IsTerminal(t.outFd)
}

func (t *Terminal) syncCursor() error {
	t.write("\x1b[6n")
	if err := t.Flush(); err != nil {
		return fmt.Errorf("query cursor: %w", err)
	}
	_, col, err := t.readCursorReport()
	if err != nil {
		return fmt.Errorf("read cursor report: %w", err)
	}
	t.x = col - 1
	return nil
}

// readCursorReport reads up to a "ESC [ row ; col R" reply. Anything else
// read on the way is queued on pending.
func (t *Terminal) readCursorReport() (row, col int, err error) {
	var stray, seq []byte
	defer func() { t.pending = append(t.pending, stray...) }()

	for {
		b, err := t.r.ReadByte()
		if err != nil {
			stray = append(stray, seq...)
			return 0, 0, err
		}

		switch {
		case b == esc:
			stray = append(stray, seq...)
			seq = []byte{b}
		case len(seq) == 0:
			stray = append(stray, b)
		case len(seq) == 1 && b == '[', len(seq) > 1 && (b == ';' || isDigit(b)):
			seq = append(seq, b)
		case len(seq) > 2 && b == 'R':
			if _, err := fmt.Sscanf(string(seq[2:]), "%d;%d", &row, &col); err == nil {
				return row, col, nil
			}
			fallthrough
		default:
			stray = append(stray, append(seq, b)...)
			seq = nil
		}
	}
}
