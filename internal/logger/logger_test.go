// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf)

	l.Debugf("hidden %d", 1)
	l.Infof("reading %s", "input")
	l.Warnf("careful")
	l.Errorf("boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO:  reading input")
	assert.Contains(t, out, "WARN:  careful")
	assert.Contains(t, out, "ERROR: boom")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestStandardLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	NewVerboseLogger(&buf).Debugf("visible")
	assert.Contains(t, buf.String(), "DEBUG: visible")
}

func TestStandardLogger_WithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf).WithPrefix("[load] ")
	l.Infof("ok")
	assert.Contains(t, buf.String(), "[load] INFO:  ok")
}

func TestBufferLogger(t *testing.T) {
	b := NewBufferLogger()
	b.Infof("one")
	b.WithPrefix("child: ").Warnf("two")

	assert.Equal(t, "INFO:  one\nWARN:  child: two\n", b.String())
}
