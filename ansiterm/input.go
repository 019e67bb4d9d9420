package ansiterm

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hidetatz/cjkline/readline"
)

const esc = 0x1b

// longest CSI sequence we are willing to read before giving up on it
const maxCSI = 32

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (t *Terminal) readByte() (byte, error) {
	if len(t.pending) > 0 {
		b := t.pending[0]
		t.pending = t.pending[1:]
		return b, nil
	}
	return t.r.ReadByte()
}

func (t *Terminal) unreadByte(b byte) {
	t.pending = append([]byte{b}, t.pending...)
}

// buffered reports whether a byte can be read without blocking. An escape
// sequence arrives in one read, so a lone ESC with nothing behind it is the
// Escape key.
func (t *Terminal) buffered() bool {
	return len(t.pending) > 0 || t.r.Buffered() > 0
}

// ReadKey blocks for the next keystroke.
func (t *Terminal) ReadKey() (readline.KeyEvent, error) {
	b, err := t.readByte()
	if err != nil {
		return readline.KeyEvent{}, err
	}

	switch {
	case b == '\r' || b == '\n':
		return readline.KeyEvent{Key: readline.KeyEnter, Char: rune(b)}, nil
	case b == '\t':
		return readline.KeyEvent{Key: readline.KeyTab, Char: '\t'}, nil
	case b == 0x7f:
		return readline.KeyEvent{Key: readline.KeyBackspace, Char: 0x7f}, nil
	case b == esc:
		return t.readEscape()
	case b >= 0x01 && b <= 0x1a:
		return readline.KeyEvent{Key: readline.KeyA + readline.Key(b-1), Char: rune(b), Ctrl: true}, nil
	case b < 0x20:
		return readline.KeyEvent{Key: readline.KeyNone, Char: rune(b), Ctrl: true}, nil
	}
	return readline.CharEvent(t.decodeRune(b)), nil
}

// decodeRune completes the UTF-8 sequence started by lead. Malformed input
// decodes to utf8.RuneError.
func (t *Terminal) decodeRune(lead byte) rune {
	var n int
	switch {
	case lead < 0x80:
		return rune(lead)
	case lead&0xe0 == 0xc0:
		n = 2
	case lead&0xf0 == 0xe0:
		n = 3
	case lead&0xf8 == 0xf0:
		n = 4
	default:
		return utf8.RuneError
	}

	p := []byte{lead}
	for len(p) < n {
		b, err := t.readByte()
		if err != nil {
			return utf8.RuneError
		}
		if !utf8.RuneStart(b) {
			p = append(p, b)
			continue
		}
		t.unreadByte(b)
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(p)
	return r
}

func (t *Terminal) readEscape() (readline.KeyEvent, error) {
	if !t.buffered() {
		return readline.KeyEvent{Key: readline.KeyEscape, Char: esc}, nil
	}
	b, err := t.readByte()
	if err != nil {
		return readline.KeyEvent{}, err
	}

	switch b {
	case '[':
		return t.readCSI()
	case 'O':
		c, err := t.readByte()
		if err != nil {
			return readline.KeyEvent{}, err
		}
		return readline.KeyEvent{Key: finalKey(c, nil)}, nil
	}

	// ESC followed by a key is how terminals send Alt+key.
	t.unreadByte(b)
	ev, err := t.ReadKey()
	ev.Alt = true
	return ev, err
}

// readCSI reads the rest of "ESC [ params final".
func (t *Terminal) readCSI() (readline.KeyEvent, error) {
	var params strings.Builder
	for i := 0; i < maxCSI; i++ {
		b, err := t.readByte()
		if err != nil {
			return readline.KeyEvent{}, err
		}
		switch {
		case b >= 0x30 && b <= 0x3f:
			params.WriteByte(b)
		case b >= 0x20 && b <= 0x2f:
			// intermediate bytes carry nothing we use
		default:
			fields := strings.Split(params.String(), ";")
			ev := readline.KeyEvent{Key: finalKey(b, fields)}
			if len(fields) > 1 {
				applyModifiers(&ev, fields[1])
			}
			return ev, nil
		}
	}
	return readline.KeyEvent{}, nil
}

func finalKey(final byte, params []string) readline.Key {
	switch final {
	case 'A':
		return readline.KeyUp
	case 'B':
		return readline.KeyDown
	case 'C':
		return readline.KeyRight
	case 'D':
		return readline.KeyLeft
	case 'H':
		return readline.KeyHome
	case 'F':
		return readline.KeyEnd
	case '~':
		if len(params) == 0 {
			return readline.KeyNone
		}
		switch params[0] {
		case "1", "7":
			return readline.KeyHome
		case "3":
			return readline.KeyDelete
		case "4", "8":
			return readline.KeyEnd
		}
	}
	return readline.KeyNone
}

// applyModifiers decodes an xterm modifier parameter: 1 + bitmask of
// shift(1), alt(2), ctrl(4), meta(8).
func applyModifiers(ev *readline.KeyEvent, param string) {
	m, err := strconv.Atoi(param)
	if err != nil || m < 1 {
		return
	}
	bits := m - 1
	ev.Shift = bits&1 != 0
	ev.Alt = bits&2 != 0 || bits&8 != 0
	ev.Ctrl = bits&4 != 0
}
