// Package iotest provides IO helpers for tests.
package iotest

import (
	"bytes"
	"io"
	"log"
	"testing"

	"go.abhg.dev/codefence/internal/linebuf"
)

var _newline = []byte("\n")

// Writer builds an io.Writer that logs each line written to it
// to the given testing.TB.
// A trailing partial line is logged when the test finishes.
func Writer(t testing.TB) io.Writer {
	w, done := linebuf.Writer(func(line []byte) {
		t.Logf("%s", bytes.TrimSuffix(line, _newline))
	})
	t.Cleanup(done)
	return w
}

// Logger builds a logger that writes to the given testing.TB.
func Logger(t testing.TB) *log.Logger {
	return log.New(Writer(t), "", 0)
}
