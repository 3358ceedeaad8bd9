package mailbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/udpmail/internal/common"
	"github.com/dmitrijs2005/udpmail/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func sqliteAccountExists(ctx context.Context, db dbx.DBTX, username string) error {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE username = ?`, username).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Put checks the recipient and stores the record inside one transaction. The
// upsert keeps identifier collisions last-writer-wins, same as the file
// backend overwriting an existing message file.
func (r *SQLiteRepository) Put(ctx context.Context, recipient, id, content string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := sqliteAccountExists(ctx, tx, recipient); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (username, id, content) VALUES (?, ?, ?)
			ON CONFLICT(username, id) DO UPDATE SET content = excluded.content
		`, recipient, id, content)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) List(ctx context.Context, username string) ([]string, error) {
	if err := sqliteAccountExists(ctx, r.db, username); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM messages WHERE username = ?`, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, username, id string) (string, error) {
	var content string
	err := r.db.QueryRowContext(ctx,
		`SELECT content FROM messages WHERE username = ? AND id = ?`,
		username, id).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return content, nil
}
