package equeue

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// stumpyLogger adapts a logiface.Logger[*stumpy.Event] — structured JSON
// logging backed by the stumpy encoder — to this package's Logger
// interface, the pairing the logiface test suite itself exercises
// (logiface.New[*stumpy.Event](stumpy.WithStumpy(...))).
type stumpyLogger struct {
	l *logiface.Logger[*stumpy.Event]
}

// NewStumpyLogger returns a Logger that writes structured JSON log lines to
// w via logiface/stumpy. This is the logging backend a hosted deployment is
// expected to plug in via WithLogger; embedded/no-dependency deployments
// should stick with NoOpLogger or WriterLogger.
func NewStumpyLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &stumpyLogger{
		l: logiface.New[*stumpy.Event](stumpy.WithStumpy(stumpy.WithWriter(w))),
	}
}

func toStumpyLevel(l LogLevel) logiface.Level {
	switch l {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

func (s *stumpyLogger) IsEnabled(level LogLevel) bool {
	b := s.l.Build(toStumpyLevel(level))
	enabled := b.Enabled()
	b.Release()
	return enabled
}

func (s *stumpyLogger) Log(entry LogEntry) {
	b := s.l.Build(toStumpyLevel(entry.Level))
	if entry.EventID != 0 {
		b = b.Uint64("event_id", uint64(entry.EventID))
	}
	for k, v := range entry.Context {
		b = b.Interface(k, v)
	}
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	b.Log(entry.Message)
}
