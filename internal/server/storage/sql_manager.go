package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/udpmail/internal/server/accounts"
	"github.com/dmitrijs2005/udpmail/internal/server/mailbox"
	"github.com/dmitrijs2005/udpmail/internal/server/migrations"
)

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// SQLManager holds a database/sql handle and the repositories bound to it.
type SQLManager struct {
	db       *sql.DB
	accounts accounts.Repository
	mailbox  mailbox.Repository
}

func (m *SQLManager) Accounts() accounts.Repository { return m.accounts }
func (m *SQLManager) Mailbox() mailbox.Repository   { return m.mailbox }
func (m *SQLManager) Close() error                  { return m.db.Close() }

func runMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// NewSQLiteManager opens (creating if needed) a sqlite database at the given
// path or DSN and applies the schema migrations.
func NewSQLiteManager(dsn string) (*SQLManager, error) {
	dsn = strings.TrimPrefix(dsn, "sqlite://")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(context.Background(), db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLManager{
		db:       db,
		accounts: accounts.NewSQLiteRepository(db),
		mailbox:  mailbox.NewSQLiteRepository(db),
	}, nil
}

// NewPostgresManager connects to PostgreSQL through the pgx stdlib driver and
// applies the schema migrations.
func NewPostgresManager(dsn string) (*SQLManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(context.Background(), db, "postgres"); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
		mailbox:  mailbox.NewPostgresRepository(db),
	}, nil
}
