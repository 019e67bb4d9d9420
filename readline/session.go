// Package readline reads one line of text from a terminal, one keystroke at
// a time, keeping the on-screen cursor in step with the logical cursor when
// the line mixes one- and two-column characters.
package readline

import (
	"errors"
	"fmt"
	"log"

	"github.com/hidetatz/cjkline/linebuf"
)

// ErrSessionDone is returned when ReadLine is called on a session that
// already produced its line.
var ErrSessionDone = errors.New("readline: session already finished")

// Input delivers key events. ReadKey blocks until a key is pressed and must
// not echo it.
type Input interface {
	ReadKey() (KeyEvent, error)
}

// Output is a terminal row the session draws on. Columns and rows are 0-based.
type Output interface {
	WriteString(s string)
	WriteRune(r rune)
	MoveCursorTo(col, row int)
	CursorPosition() (col, row int)
	// Bell signals a rejected edit.
	Bell()
	// Flush pushes pending output to the device and reports the first
	// error seen since the last Flush.
	Flush() error
}

// Session edits a single line. It is not reusable.
type Session struct {
	in       Input
	out      Output
	buf      *linebuf.Buffer
	bindings map[Binding]Action
	log      *log.Logger
	done     bool
}

type Option func(*Session)

// WithClassifier sets how character widths are decided.
func WithClassifier(c linebuf.Classifier) Option {
	return func(s *Session) { s.buf = linebuf.New(c) }
}

// WithLogger sends the session's debug log to l instead of the package log.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

func NewSession(in Input, out Output, opts ...Option) *Session {
	s := &Session{
		in:       in,
		out:      out,
		buf:      linebuf.New(nil),
		bindings: DefaultBindings(),
		log:      debugLog,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadLine writes prompt, then edits until Enter is pressed and returns the
// line. Rejected edits ring the bell and are never reported as errors; the
// error is non-nil only when in or out fails.
func ReadLine(in Input, out Output, prompt string, opts ...Option) (string, error) {
	return NewSession(in, out, opts...).ReadLine(prompt)
}

func (s *Session) ReadLine(prompt string) (string, error) {
	if s.done {
		return "", ErrSessionDone
	}
	s.done = true

	s.out.WriteString(prompt)
	if err := s.out.Flush(); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	for {
		ev, err := s.in.ReadKey()
		if err != nil {
			return "", fmt.Errorf("read key: %w", err)
		}

		if ev.Key == KeyEnter {
			s.log.Printf("readline: %v: done, %d cells", ev, s.buf.Len())
			s.out.WriteString("\r\n")
			if err := s.out.Flush(); err != nil {
				return "", fmt.Errorf("finish line: %w", err)
			}
			return s.buf.String(), nil
		}

		s.handle(ev)
		if err := s.out.Flush(); err != nil {
			return "", fmt.Errorf("redraw: %w", err)
		}
	}
}

// Lookup resolves ev to the action it triggers. It reports false for keys
// that are neither bound nor printable.
func (s *Session) Lookup(ev KeyEvent) (Action, bool) {
	if a, ok := s.bindings[ev.Binding()]; ok {
		return a, true
	}
	if ev.Printable() {
		return ActionInsertChar, true
	}
	return 0, false
}

func (s *Session) handle(ev KeyEvent) {
	a, ok := s.Lookup(ev)
	if !ok {
		s.log.Printf("readline: %v: unbound, ignored", ev)
		return
	}
	if !apply(a, ev, s.buf, s.out) {
		s.log.Printf("readline: %v: %v at boundary (pos=%d len=%d)", ev, a, s.buf.Pos(), s.buf.Len())
		return
	}
	s.log.Printf("readline: %v: %v (pos=%d len=%d)", ev, a, s.buf.Pos(), s.buf.Len())
}
