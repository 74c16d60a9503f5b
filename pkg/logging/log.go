package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// stdout carries the bandwidth table, so memperf logs to stderr.
var defaultLog = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	return l
}

// SetDebug - Switch to DEBUG level
func SetDebug() {
	defaultLog.SetLevel(logrus.DebugLevel)
}

// SetError - Only report errors, used when stdout carries JSON
func SetError() {
	defaultLog.SetLevel(logrus.ErrorLevel)
}

// SetOutput - Redirect the default logger
func SetOutput(w io.Writer) {
	defaultLog.SetOutput(w)
}

// WithFields - Structured entry, used for per cell progress and faults
func WithFields(fields logrus.Fields) *logrus.Entry {
	return defaultLog.WithFields(fields)
}

func Debug(args ...interface{}) { defaultLog.Debug(args...) }

func Debugf(format string, args ...interface{}) { defaultLog.Debugf(format, args...) }

func Info(args ...interface{}) { defaultLog.Info(args...) }

func Infof(format string, args ...interface{}) { defaultLog.Infof(format, args...) }

func Warn(args ...interface{}) { defaultLog.Warn(args...) }

func Warnf(format string, args ...interface{}) { defaultLog.Warnf(format, args...) }

func Error(args ...interface{}) { defaultLog.Error(args...) }

func Errorf(format string, args ...interface{}) { defaultLog.Errorf(format, args...) }
