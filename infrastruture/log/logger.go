// Package logger provides the prefixed, colored leveled logger used across the service.
package logger

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/sirupsen/logrus"
)

var ErrNoWriter = errors.New("logger needs a writer")

// Logger writes "[PREFIX] [LEVEL] message" lines, with the prefix in its own color.
type Logger struct {
	entry *logrus.Logger
}

// prefixFormatter renders an entry as a single colored line.
type prefixFormatter struct {
	prefix string
	color  string
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	levelColor := config.LogInfoColor
	switch e.Level {
	case logrus.WarnLevel:
		levelColor = config.LogWarningColor
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = config.LogErrorColor
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s[%s]%s %s[%s]%s %s\n",
		e.Time.Format("2006/01/02 15:04:05"),
		f.color, f.prefix, config.ColorReset,
		levelColor, strings.ToUpper(e.Level.String()), config.LogColorReset,
		e.Message,
	)
	return []byte(b.String()), nil
}

// New creates a logger writing to w.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNoWriter
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&prefixFormatter{prefix: prefix, color: color})
	return &Logger{entry: l}, nil
}

// Info logs at info level.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Warning logs at warning level.
func (l *Logger) Warning(msg string) {
	l.entry.Warn(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

// SetDebug switches between info and debug verbosity.
func (l *Logger) SetDebug(on bool) {
	if on {
		l.entry.SetLevel(logrus.DebugLevel)
		return
	}
	l.entry.SetLevel(logrus.InfoLevel)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string) {
	l.entry.Debug(msg)
}
