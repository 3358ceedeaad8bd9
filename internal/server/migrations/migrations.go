// Package migrations embeds the SQL schema applied by goose on startup for
// the sqlite and postgres storage backends. The DDL is kept portable across
// both dialects.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
