/*
© Copyright IBM Corporation 2026

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logger configures logging for the WebSphere modules.  Log output
// never goes to stdout, which is reserved for module results.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// timestampFormat matches the format used by the IBM product logs (includes milliseconds)
const timestampFormat string = "2006-01-02T15:04:05.000Z07:00"

// A Logger is a logrus entry carrying the process name and pid
type Logger struct {
	*logrus.Entry
}

type simpleTextFormatter struct {
}

func (f *simpleTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	msg := entry.Message
	if entry.Level == logrus.DebugLevel {
		msg = "DEBUG: " + msg
	}
	return []byte(formatSimple(entry.Time.Format(timestampFormat), msg)), nil
}

func formatSimple(datetime string, message string) string {
	return fmt.Sprintf("%v %v\n", datetime, message)
}

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg:   "message",
			logrus.FieldKeyLevel: "ibm_level",
			logrus.FieldKeyTime:  "ibm_datetime",
		},
		TimestampFormat: timestampFormat,
	}
}

// NewLogger creates a new logger writing to the given writer
func NewLogger(writer io.Writer, debug bool, json bool, processName string) (*Logger, error) {
	l := logrus.New()
	l.SetOutput(writer)
	if json {
		l.SetFormatter(jsonFormatter())
	} else {
		l.SetFormatter(new(simpleTextFormatter))
	}
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return &Logger{
		Entry: l.WithFields(logrus.Fields{
			"ibm_processName": processName,
			"ibm_processId":   os.Getpid(),
		}),
	}, nil
}

// FromEnv creates a logger configured by the LOG_FORMAT and DEBUG
// environment variables
func FromEnv(writer io.Writer, processName string) (*Logger, error) {
	json := false
	switch f := os.Getenv("LOG_FORMAT"); f {
	case "json":
		json = true
	case "", "simple":
	default:
		return nil, fmt.Errorf("invalid value for LOG_FORMAT: %v", f)
	}
	return NewLogger(writer, DebugEnabled(), json, processName)
}

// DebugEnabled reports whether the DEBUG environment variable is set to true
func DebugEnabled() bool {
	debugEnv, ok := os.LookupEnv("DEBUG")
	return ok && (strings.EqualFold(debugEnv, "true") || debugEnv == "1")
}

// SetDebug switches debug logging on or off
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.Logger.SetLevel(logrus.InfoLevel)
	}
}

// Discard returns a logger that drops everything, for use in tests
func Discard() *Logger {
	l, _ := NewLogger(io.Discard, false, false, "test")
	return l
}
