package readline

import (
	"fmt"
	"unicode"
)

// Key identifies a physical key, independent of the character it produces.
type Key int

const (
	KeyNone Key = iota
	// KeyRune is any character key that is not a Latin letter.
	KeyRune
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyTab:       "tab",
	KeyEscape:    "esc",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyHome:      "home",
	KeyEnd:       "end",
}

func (k Key) String() string {
	if k >= KeyA && k <= KeyZ {
		return string(rune('a' + int(k-KeyA)))
	}
	if s, ok := keyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// LetterKey returns the letter key for an ASCII letter of either case.
func LetterKey(r rune) (Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A'), true
	}
	return KeyNone, false
}

// KeyEvent is one keystroke as delivered by an Input.
type KeyEvent struct {
	Key  Key
	Char rune // printable character, or 0 / a control code when there is none

	Shift, Alt, Ctrl bool
}

// CharEvent builds the event a plain character key produces.
func CharEvent(r rune) KeyEvent {
	if k, ok := LetterKey(r); ok {
		return KeyEvent{Key: k, Char: r, Shift: unicode.IsUpper(r)}
	}
	return KeyEvent{Key: KeyRune, Char: r}
}

// Printable reports whether the event carries a character that can be
// inserted. Space separators such as U+3000 count; Ctrl chords never do.
func (ev KeyEvent) Printable() bool {
	return ev.Char != 0 && !ev.Ctrl && unicode.IsGraphic(ev.Char)
}

// Binding returns the lookup key for ev.
func (ev KeyEvent) Binding() Binding {
	return Binding{Key: ev.Key, Shift: ev.Shift, Alt: ev.Alt, Ctrl: ev.Ctrl}
}

func (ev KeyEvent) String() string {
	s := ev.Binding().String()
	if ev.Char != 0 {
		s += fmt.Sprintf(" char=%U", ev.Char)
	}
	return s
}

// Binding is a key plus modifier state. It is comparable and used as a map key.
type Binding struct {
	Key   Key
	Shift bool
	Alt   bool
	Ctrl  bool
}

func (b Binding) String() string {
	s := ""
	if b.Ctrl {
		s += "ctrl+"
	}
	if b.Alt {
		s += "alt+"
	}
	if b.Shift {
		s += "shift+"
	}
	return s + b.Key.String()
}
