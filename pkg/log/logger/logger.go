package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ranorsolutions/pg-common-go/pkg/log/formatter"
	"github.com/ranorsolutions/pg-common-go/pkg/pguri"
)

type Logger struct {
	Entry *logrus.Entry
}

// New -- Sets the application-wide logger
func New(name, version string, forceColors bool) (*Logger, error) {
	// Create a new logrus instance
	log := &logrus.Logger{
		Out:   os.Stderr,
		Level: logrus.TraceLevel,
		Formatter: &formatter.Formatter{
			ForceColors:     forceColors,
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		},
	}

	// Return the new Logrus Instance for this service
	logger := &Logger{
		Entry: log.WithFields(logrus.Fields{
			"service": name,
			"version": version,
		}),
	}

	return logger, nil
}

// WithConnection -- Attaches parsed connection parameters to the log output.
// Credentials are never logged.
func (l *Logger) WithConnection(params *pguri.Params) {
	fields := logrus.Fields{}
	for _, key := range []string{"hostname", "socket_dir", "port", "database"} {
		if value, ok := params.Get(key); ok {
			fields[key] = value
		}
	}

	l.Entry = l.Entry.WithFields(fields)
}

/**
 * Begin logging functions
 */
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Entry.Info(fmt.Sprintf(msg, args...))
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.Entry.Error(fmt.Sprintf(msg, args...))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Entry.Warn(fmt.Sprintf(msg, args...))
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.Entry.Fatal(fmt.Sprintf(msg, args...))
}

func (l *Logger) Trace(msg string, args ...interface{}) {
	l.Entry.Trace(fmt.Sprintf(msg, args...))
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Entry.Debug(fmt.Sprintf(msg, args...))
}
