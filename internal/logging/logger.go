// Package logging defines the structured logger the rest of the code depends
// on, so components never import a concrete logging backend directly.
package logging

import "context"

// Logger logs leveled messages with key-value attributes:
//
//	log.Info(ctx, "listening", "addr", addr)
//
// With derives a child logger whose records always carry the given
// attributes; handlers use it to tag every record of one request.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
