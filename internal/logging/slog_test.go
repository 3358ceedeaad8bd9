package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		level string
		emit  func(l *SlogLogger, msg string, args ...any)
	}{
		{"DEBUG", func(l *SlogLogger, msg string, args ...any) { l.Debug(ctx, msg, args...) }},
		{"INFO", func(l *SlogLogger, msg string, args ...any) { l.Info(ctx, msg, args...) }},
		{"WARN", func(l *SlogLogger, msg string, args ...any) { l.Warn(ctx, msg, args...) }},
		{"ERROR", func(l *SlogLogger, msg string, args ...any) { l.Error(ctx, msg, args...) }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, buf := newBufferLogger()
			tt.emit(log, "something happened", "port", 9876)

			out := buf.String()
			assert.Contains(t, out, "level="+tt.level)
			assert.Contains(t, out, "msg=")
			assert.Contains(t, out, "port=9876")
		})
	}
}

func TestSlogLogger_WithCarriesAttributes(t *testing.T) {
	log, buf := newBufferLogger()

	child := log.With("request_id", "abc123")
	child.Info(context.Background(), "request")

	out := buf.String()
	assert.Contains(t, out, "request_id=abc123")
	assert.Contains(t, out, "msg=request")

	// the parent logger is unaffected
	buf.Reset()
	log.Info(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "request_id")
}
