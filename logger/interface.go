// Package logger defines the structured logging contract used throughout
// the module and provides a zerolog-backed implementation.
package logger

import "time"

// Logger creates log events at the usual severity levels and derives
// loggers with extra context attached.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a structured log event built up from typed fields and sent
// with Msg.
type LogEvent interface {
	Msg(msg string)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Dur(key string, d time.Duration) LogEvent
}
