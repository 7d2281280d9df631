package ui

import (
	"fmt"
	"io"
	"os"
)

// OutputSink abstracts where user-facing messages go.
type OutputSink interface {
	Print(text string)
	Printf(format string, args ...any)
}

// StdoutSink writes directly to standard output.
type StdoutSink struct{}

func (StdoutSink) Print(text string)                 { fmt.Print(text) }
func (StdoutSink) Printf(format string, args ...any) { fmt.Printf(format, args...) }

// WriterSink writes to an arbitrary writer. Tests use it to capture output.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Print(text string)                 { fmt.Fprint(s.W, text) }
func (s WriterSink) Printf(format string, args ...any) { fmt.Fprintf(s.W, format, args...) }

// Default sink selection
var defaultSink OutputSink = StdoutSink{}

// SetDefaultSink sets the global default OutputSink.
func SetDefaultSink(s OutputSink) { defaultSink = s }

// Out returns the current default output sink.
func Out() OutputSink { return defaultSink }

// UseStdoutSink switches default output back to stdout.
func UseStdoutSink() { defaultSink = StdoutSink{} }

// Quiet reports whether console chatter should be suppressed.
func Quiet() bool {
	return os.Getenv("IDEKIT_QUIET") == "1" || os.Getenv("IDEKIT_QUIET") == "true"
}
