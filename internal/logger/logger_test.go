package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithLevel(WARN), WithColors(false))

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn %d", 1)
	l.Error("error")

	out := buf.String()
	assert.NotContains(t, out, "debug")
	assert.NotContains(t, out, "info")
	assert.Contains(t, out, "WARN  ")
	assert.Contains(t, out, "warn 1")
	assert.Contains(t, out, "ERROR")
}

func TestLogger_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithColors(false), withClock(fixedClock)).
		WithPrefix("session").
		WithFields(map[string]any{"visitor": "v1", "quiz": "HTML"})

	l.Info("quiz %s started", "HTML")

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "2026-03-14 09:26:53.000 INFO  [session] [logger_test.go:"), line)
	assert.True(t, strings.HasSuffix(line, "quiz HTML started quiz=HTML visitor=v1"), line)
}

func TestLogger_WithFieldDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := New(WithOutput(&buf), WithColors(false))
	child := base.WithField("request_id", "abc")

	base.Info("base")
	child.Info("child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "request_id")
	assert.Contains(t, lines[1], "request_id=abc")
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithColors(false))

	assert.Same(t, l, l.WithError(nil))
	l.WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestLogger_Colors(t *testing.T) {
	var buf bytes.Buffer
	New(WithOutput(&buf), WithColors(true)).Error("x")
	assert.Contains(t, buf.String(), "\033[31m")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel("Error"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
	assert.Equal(t, DEBUG, ParseLevel(" debug "))
	assert.Equal(t, "UNKNOWN", Level(9).String())
}

func TestContext(t *testing.T) {
	l := New(WithPrefix("req"))
	ctx := NewContext(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, Default(), FromContext(context.Background()))
}

func TestLogger_RotatingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "quizflash.log")
	l := New(WithOutput(&buf), WithColors(true), WithRotatingFile(path))

	l.Warn("written twice")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARN  ")
	assert.Contains(t, string(data), "written twice")
	assert.NotContains(t, string(data), "\033[")
	assert.Equal(t, buf.String(), string(data))
}
