package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Interface -.
type Interface interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Logger -.
type Logger struct {
	logger *zerolog.Logger
}

var _ Interface = (*Logger)(nil)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type options struct {
	format string
	out    io.Writer
}

// Option -.
type Option func(*options)

// WithFormat - console (по умолчанию) или json.
func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = strings.ToLower(format)
		}
	}
}

// WithOutput -.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// New -.
func New(level string, opts ...Option) *Logger {
	o := &options{
		format: FormatConsole,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	l := parseLevel(level)

	var output io.Writer = o.out
	if o.format != FormatJSON {
		output = zerolog.ConsoleWriter{
			Out:        o.out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(output).
		Level(l).
		With().
		Timestamp().
		Caller().
		Logger()

	return &Logger{
		logger: &logger,
	}
}

// NewNop - логгер, который ничего не пишет. Для тестов.
func NewNop() *Logger {
	logger := zerolog.Nop()
	return &Logger{logger: &logger}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "debug":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug -.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(l.logger.Debug(), msg, args...)
}

// Info -.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(l.logger.Info(), msg, args...)
}

// Warn -.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(l.logger.Warn(), msg, args...)
}

// Error -.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(l.logger.Error(), msg, args...)
}

// Fatal -.
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log(l.logger.WithLevel(zerolog.FatalLevel), msg, args...)

	os.Exit(1)
}

func (l *Logger) log(event *zerolog.Event, msg string, args ...interface{}) {
	// пары ключ-значение; нечётный хвост отбрасывается
	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if err, ok := args[i+1].(error); ok {
			event = event.AnErr(key, err)
			continue
		}
		event = event.Interface(key, args[i+1])
	}

	event.Msg(msg)
}

// WithField - добавить одно поле к логгеру
func (l *Logger) WithField(key string, value interface{}) *Logger {
	newLogger := l.logger.With().Interface(key, value).Logger()
	return &Logger{logger: &newLogger}
}

// WithFields - добавить несколько полей к логгеру
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	newLogger := ctx.Logger()
	return &Logger{logger: &newLogger}
}

// GetZerolog - получить нативный zerolog.Logger для продвинутого использования
func (l *Logger) GetZerolog() *zerolog.Logger {
	return l.logger
}
