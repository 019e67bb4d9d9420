package readline

import (
	"io"
	"log"
)

var debugLog = log.New(io.Discard, "", log.LstdFlags|log.Lmicroseconds)

// SetDebugOutput sends the debug log of sessions created without WithLogger
// to w. Pass nil to discard it again.
func SetDebugOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	debugLog.SetOutput(w)
}
