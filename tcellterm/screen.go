// Package tcellterm runs a readline session on a tcell screen.
package tcellterm

import (
	"io"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/hidetatz/cjkline/linebuf"
	"github.com/hidetatz/cjkline/readline"
)

// Screen adapts a tcell.Screen to readline.Input and readline.Output.
// The cursor is tracked here; tcell only shows it.
type Screen struct {
	screen tcell.Screen
	style  tcell.Style
	class  linebuf.Classifier
	x, y   int
}

type Option func(*Screen)

func WithStyle(style tcell.Style) Option {
	return func(s *Screen) { s.style = style }
}

// WithClassifier sets the widths used to advance the cursor. It should match
// the classifier of the session.
func WithClassifier(c linebuf.Classifier) Option {
	return func(s *Screen) { s.class = c }
}

// WithOrigin sets where drawing starts.
func WithOrigin(col, row int) Option {
	return func(s *Screen) { s.x, s.y = col, row }
}

// New wraps an initialized screen.
func New(screen tcell.Screen, opts ...Option) *Screen {
	s := &Screen{
		screen: screen,
		style:  tcell.StyleDefault,
		class:  linebuf.DefaultWide,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadKey waits for the next key event. Other events are dropped. It returns
// io.EOF once the screen has been finalized.
func (s *Screen) ReadKey() (readline.KeyEvent, error) {
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return readline.KeyEvent{}, io.EOF
		case *tcell.EventKey:
			return convert(ev), nil
		}
	}
}

func convert(ev *tcell.EventKey) readline.KeyEvent {
	mods := ev.Modifiers()
	out := readline.KeyEvent{
		Shift: mods&tcell.ModShift != 0,
		Alt:   mods&(tcell.ModAlt|tcell.ModMeta) != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
	}

	k := ev.Key()
	switch k {
	case tcell.KeyRune:
		r := ev.Rune()
		c := readline.CharEvent(r)
		out.Key, out.Char = c.Key, r
		out.Shift = out.Shift || c.Shift
		if lr := unicode.ToLower(r); out.Ctrl && lr >= 'a' && lr <= 'z' {
			out.Char = lr & 0x1f
		}
		return out
	case tcell.KeyEnter:
		out.Key, out.Char = readline.KeyEnter, '\r'
		return out
	case tcell.KeyLF:
		out.Key, out.Char = readline.KeyEnter, '\n'
		return out
	case tcell.KeyTab:
		out.Key, out.Char = readline.KeyTab, '\t'
		return out
	case tcell.KeyBackspace2:
		out.Key, out.Char = readline.KeyBackspace, 0x7f
		return out
	case tcell.KeyEscape:
		out.Key, out.Char = readline.KeyEscape, 0x1b
		return out
	case tcell.KeyDelete:
		out.Key = readline.KeyDelete
		return out
	case tcell.KeyLeft:
		out.Key = readline.KeyLeft
		return out
	case tcell.KeyRight:
		out.Key = readline.KeyRight
		return out
	case tcell.KeyUp:
		out.Key = readline.KeyUp
		return out
	case tcell.KeyDown:
		out.Key = readline.KeyDown
		return out
	case tcell.KeyHome:
		out.Key = readline.KeyHome
		return out
	case tcell.KeyEnd:
		out.Key = readline.KeyEnd
		return out
	}

	// KeyBackspace shares its code with Ctrl+H and lands here too. Ctrl+J is
	// KeyLF and was taken as Enter above.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		out.Key = readline.KeyA + readline.Key(k-tcell.KeyCtrlA)
		out.Char = rune(k)
		out.Ctrl = true
		return out
	}
	out.Key = readline.KeyNone
	return out
}

func (s *Screen) WriteRune(r rune) {
	switch r {
	case '\r':
		s.x = 0
	case '\n':
		s.y++
	default:
		s.screen.SetContent(s.x, s.y, r, nil, s.style)
		s.x += s.class.Width(r)
	}
}

func (s *Screen) WriteString(str string) {
	for _, r := range str {
		s.WriteRune(r)
	}
}

func (s *Screen) MoveCursorTo(col, row int) {
	s.x, s.y = col, row
}

func (s *Screen) CursorPosition() (col, row int) {
	return s.x, s.y
}

func (s *Screen) Bell() {
	_ = s.screen.Beep()
}

// Flush shows the cursor and pushes the cell buffer to the display.
func (s *Screen) Flush() error {
	s.screen.ShowCursor(s.x, s.y)
	s.screen.Show()
	return nil
}
