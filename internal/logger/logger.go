// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package logger provides the leveled logger used by the job and its steps.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// TimeFormat is UTC with constant width and microsecond resolution.
const TimeFormat = "2006-01-02T15:04:05.000000Z07:00"

// Logger is the logging interface shared by every package.
type Logger interface {
	Printf(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	// WithPrefix returns a Logger with the same configuration whose
	// messages carry the given prefix.
	WithPrefix(prefix string) Logger
}

// Levels, from least to most verbose.
const (
	LevelError = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelPrefixes = [...]string{"ERROR: ", "WARN:  ", "INFO:  ", "DEBUG: "}

// LevelPrefix returns the tag written in front of messages at level.
func LevelPrefix(level int) string {
	return levelPrefixes[level]
}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any)       {}
func (nopLogger) Debugf(string, ...any)       {}
func (nopLogger) Infof(string, ...any)        {}
func (nopLogger) Warnf(string, ...any)        {}
func (nopLogger) Errorf(string, ...any)       {}
func (n nopLogger) WithPrefix(string) Logger { return n }

type timestampWriter struct {
	w io.Writer
}

func (tw timestampWriter) Write(p []byte) (int, error) {
	return fmt.Fprintf(tw.w, "%s %s", time.Now().UTC().Format(TimeFormat), p)
}

type standardLogger struct {
	logger    *log.Logger
	verbosity int
	prefix    string
	w         io.Writer
}

func newStandardLogger(w io.Writer, verbosity int, prefix string) *standardLogger {
	return &standardLogger{
		logger:    log.New(timestampWriter{w: w}, prefix, 0),
		verbosity: verbosity,
		prefix:    prefix,
		w:         w,
	}
}

// NewStandardLogger returns a Logger writing info and above to w.
func NewStandardLogger(w io.Writer) Logger {
	return newStandardLogger(w, LevelInfo, "")
}

// NewVerboseLogger returns a Logger that also writes debug messages.
func NewVerboseLogger(w io.Writer) Logger {
	return newStandardLogger(w, LevelDebug, "")
}

func (s *standardLogger) printf(level int, format string, v ...any) {
	if level > s.verbosity {
		return
	}
	s.logger.Printf(LevelPrefix(level)+format, v...)
}

func (s *standardLogger) Printf(format string, v ...any) { s.printf(LevelInfo, format, v...) }
func (s *standardLogger) Debugf(format string, v ...any) { s.printf(LevelDebug, format, v...) }
func (s *standardLogger) Infof(format string, v ...any)  { s.printf(LevelInfo, format, v...) }
func (s *standardLogger) Warnf(format string, v ...any)  { s.printf(LevelWarn, format, v...) }
func (s *standardLogger) Errorf(format string, v ...any) { s.printf(LevelError, format, v...) }

func (s *standardLogger) WithPrefix(prefix string) Logger {
	return newStandardLogger(s.w, s.verbosity, s.prefix+prefix)
}

// BufferLogger keeps messages in memory so tests can inspect them.
type BufferLogger struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	prefix string
	parent *BufferLogger
}

// NewBufferLogger returns an empty BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (b *BufferLogger) root() *BufferLogger {
	if b.parent != nil {
		return b.parent
	}
	return b
}

func (b *BufferLogger) write(level int, format string, v ...any) {
	r := b.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.WriteString(LevelPrefix(level) + b.prefix + fmt.Sprintf(format, v...) + "\n")
}

func (b *BufferLogger) Printf(format string, v ...any) { b.write(LevelInfo, format, v...) }
func (b *BufferLogger) Debugf(format string, v ...any) { b.write(LevelDebug, format, v...) }
func (b *BufferLogger) Infof(format string, v ...any)  { b.write(LevelInfo, format, v...) }
func (b *BufferLogger) Warnf(format string, v ...any)  { b.write(LevelWarn, format, v...) }
func (b *BufferLogger) Errorf(format string, v ...any) { b.write(LevelError, format, v...) }

// WithPrefix returns a child that writes into the same buffer.
func (b *BufferLogger) WithPrefix(prefix string) Logger {
	return &BufferLogger{prefix: b.prefix + prefix, parent: b.root()}
}

// String returns everything logged so far.
func (b *BufferLogger) String() string {
	r := b.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}
