package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var LoggerEnabled = true

type DefaultLogger struct {
	name string
	zl   zerolog.Logger
}

func NewDefaultLogger(name string) *DefaultLogger {
	return NewWithWriter(name, zerolog.ConsoleWriter{Out: os.Stderr})
}

// NewWithWriter builds a logger that writes to w, mostly useful in tests.
func NewWithWriter(name string, w io.Writer) *DefaultLogger {
	zl := zerolog.New(w).With().Timestamp().Str("component", name).Logger()
	return &DefaultLogger{name: name, zl: zl}
}

func (d *DefaultLogger) Debug(msg string, args ...any) {
	d.emit(d.zl.Debug(), msg, args)
}

func (d *DefaultLogger) Info(msg string, args ...any) {
	d.emit(d.zl.Info(), msg, args)
}

func (d *DefaultLogger) Warn(msg string, args ...any) {
	d.emit(d.zl.Warn(), msg, args)
}

func (d *DefaultLogger) Error(msg string, args ...any) {
	d.emit(d.zl.Error(), msg, args)
}

func (d *DefaultLogger) emit(evt *zerolog.Event, msg string, args []any) {
	if !LoggerEnabled || evt == nil {
		return
	}
	if len(args) > 0 {
		evt = evt.Fields(args)
	}
	evt.Msg(msg)
}

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nop{}
}
