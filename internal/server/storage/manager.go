// Package storage wires a persistence backend for the account and mailbox
// stores. The backend is chosen from the configured DSN: an empty DSN means
// the file backend (one directory per user, compatible with the original
// deployment layout), a postgres:// DSN means pgx, and anything else is
// treated as a sqlite database path.
package storage

import (
	"github.com/dmitrijs2005/udpmail/internal/filex"
	"github.com/dmitrijs2005/udpmail/internal/server/accounts"
	"github.com/dmitrijs2005/udpmail/internal/server/mailbox"
)

type Manager interface {
	Accounts() accounts.Repository
	Mailbox() mailbox.Repository
	Close() error
}

// Config carries the storage-relevant part of the server configuration.
type Config struct {
	DatabaseDSN string
	DataDir     string
}

func NewManager(cfg Config) (Manager, error) {
	switch {
	case cfg.DatabaseDSN == "":
		dir, err := filex.EnsureDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewFileManager(dir), nil
	case isPostgresDSN(cfg.DatabaseDSN):
		return NewPostgresManager(cfg.DatabaseDSN)
	default:
		return NewSQLiteManager(cfg.DatabaseDSN)
	}
}
