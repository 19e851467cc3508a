package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Zerolog adapts a zerolog.Logger to Logger.
type Zerolog struct {
	zl zerolog.Logger
}

// NewZerolog wraps zl.
func NewZerolog(zl zerolog.Logger) *Zerolog {
	return &Zerolog{zl: zl}
}

// NewConsole returns a Zerolog writing human-readable lines to w at the
// given level.
func NewConsole(w io.Writer, level zerolog.Level) *Zerolog {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return &Zerolog{zl: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

func (z *Zerolog) Debug(msg string, fields ...Field) { emit(z.zl.Debug(), msg, fields) }
func (z *Zerolog) Info(msg string, fields ...Field)  { emit(z.zl.Info(), msg, fields) }
func (z *Zerolog) Warn(msg string, fields ...Field)  { emit(z.zl.Warn(), msg, fields) }
func (z *Zerolog) Error(msg string, fields ...Field) { emit(z.zl.Error(), msg, fields) }

// Zerolog returns the wrapped logger.
func (z *Zerolog) Zerolog() zerolog.Logger {
	return z.zl
}

func emit(event *zerolog.Event, msg string, fields []Field) {
	// Disabled levels hand back a nil event.
	if event == nil {
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	event.Msg(msg)
}
