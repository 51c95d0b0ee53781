// Package diag collects the diagnostics of one conversion. Every
// correction the converter makes to a malformed score ends up here.
package diag

import (
	"fmt"
	"io"
	"log"
	"os"
)

type Log struct {
	logger   *log.Logger
	warnings []string
}

func New(w io.Writer) *Log {
	if w == nil {
		w = io.Discard
	}
	return &Log{logger: log.New(w, "", 0)}
}

func Stderr() *Log {
	return New(os.Stderr)
}

func (l *Log) Warnf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.warnings = append(l.warnings, msg)
	l.logger.Print("-- " + msg)
}

// Infof logs without recording a warning.
func (l *Log) Infof(format string, v ...interface{}) {
	l.logger.Printf(format, v...)
}

func (l *Log) Warnings() []string {
	return l.warnings
}
