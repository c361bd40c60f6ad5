package log

import (
	"io"
	"log"
	"os"
)

var (
	DebugLogger   *log.Logger
	InfoLogger    *log.Logger
	WarningLogger *log.Logger
	ErrorLogger   *log.Logger
	FatalLogger   *log.Logger
)

var debug bool

func init() {
	debug = os.Getenv("FONTCREATOR_DEBUG") != ""
	SetOutput(os.Stderr)
}

// SetOutput redirects every logger to w. Debug output stays discarded
// unless FONTCREATOR_DEBUG is set.
func SetOutput(w io.Writer) {
	dw := w
	if !debug {
		dw = io.Discard
	}

	DebugLogger = log.New(dw, "DEBUG: ", log.Lmsgprefix)
	InfoLogger = log.New(w, "INFO:  ", log.Lmsgprefix)
	WarningLogger = log.New(w, "WARN:  ", log.Lmsgprefix)
	ErrorLogger = log.New(w, "ERROR: ", log.Lmsgprefix)
	FatalLogger = log.New(w, "FATAL: ", log.Lmsgprefix)
}
