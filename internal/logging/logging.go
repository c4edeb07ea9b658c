// Package logging configures zerolog for drm and hands out component
// loggers behind a small interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is what the rest of drm logs through. Args are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options controls Setup.
type Options struct {
	// Verbosity is the -v count: 0 warn, 1 info, 2 debug, 3+ trace.
	Verbosity int
	// Level, when set, overrides Verbosity ("debug", "info", ...).
	Level string
	// File additionally receives JSON logs when set.
	File string
	// Console is where human readable logs go. Defaults to stderr.
	Console io.Writer
}

// current is the logger component loggers derive from. Setup may run
// again while jobs are logging, so it is swapped atomically.
var current atomic.Pointer[zerolog.Logger]

// Setup configures the global logger. The returned closer releases the
// log file, if any. On error the previous logger stays in place.
func Setup(opts Options) (io.Closer, error) {
	level := verbosityLevel(opts.Verbosity)
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nopCloser{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			return nopCloser{}, err
		}
		writers = append(writers, f)
		closer = f
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	zerolog.SetGlobalLevel(level)
	current.Store(&l)
	log.Logger = l

	log.Debug().Int("verbosity", opts.Verbosity).Str("level", level.String()).Str("logFile", opts.File).Msg("Logger initialized")
	return closer, nil
}

func verbosityLevel(v int) zerolog.Level {
	switch v {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a Logger tagged with component. It follows later changes to
// the global logger.
func New(component string) Logger {
	return &zlog{component: component}
}

// From wraps an explicit zerolog logger, mostly for tests.
func From(l zerolog.Logger) Logger {
	return &zlog{fixed: &l}
}

// Nop discards everything.
func Nop() Logger {
	return From(zerolog.Nop())
}

type zlog struct {
	component string
	fixed     *zerolog.Logger
	fields    []any
}

func (z *zlog) logger() *zerolog.Logger {
	if z.fixed != nil {
		return z.fixed
	}
	base := current.Load()
	if base == nil {
		base = &log.Logger
	}
	l := base.With().Str("component", z.component).Logger()
	return &l
}

func (z *zlog) Debug(msg string, args ...any) { z.emit(z.logger().Debug(), msg, args) }
func (z *zlog) Info(msg string, args ...any)  { z.emit(z.logger().Info(), msg, args) }
func (z *zlog) Warn(msg string, args ...any)  { z.emit(z.logger().Warn(), msg, args) }
func (z *zlog) Error(msg string, args ...any) { z.emit(z.logger().Error(), msg, args) }

// With returns a logger that adds args to every event.
func With(l Logger, args ...any) Logger {
	z, ok := l.(*zlog)
	if !ok {
		return l
	}
	return &zlog{
		component: z.component,
		fixed:     z.fixed,
		fields:    append(append([]any(nil), z.fields...), args...),
	}
}

func (z *zlog) emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	addFields(ev, z.fields)
	addFields(ev, args)
	ev.Msg(msg)
}

// addFields attaches key/value pairs. A trailing key without a value and
// non-string keys are kept under "!BADKEY" rather than dropped.
func addFields(ev *zerolog.Event, args []any) {
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			ev.Interface("!BADKEY", args[i])
			i--
			continue
		}
		switch v := args[i+1].(type) {
		case error:
			ev.AnErr(key, v)
		case time.Duration:
			ev.Dur(key, v)
		default:
			ev.Interface(key, v)
		}
	}
}
