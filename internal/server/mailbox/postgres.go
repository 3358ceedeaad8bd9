package mailbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/udpmail/internal/common"
	"github.com/dmitrijs2005/udpmail/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func pgAccountExists(ctx context.Context, db dbx.DBTX, username string) error {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE username = $1`, username).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Put checks the recipient and stores the record inside one transaction.
func (r *PostgresRepository) Put(ctx context.Context, recipient, id, content string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := pgAccountExists(ctx, tx, recipient); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (username, id, content) VALUES ($1, $2, $3)
			ON CONFLICT (username, id) DO UPDATE SET content = EXCLUDED.content
		`, recipient, id, content)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) List(ctx context.Context, username string) ([]string, error) {
	if err := pgAccountExists(ctx, r.db, username); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM messages WHERE username = $1`, username)
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

func (r *PostgresRepository) Get(ctx context.Context, username, id string) (string, error) {
	var content string
	err := r.db.QueryRowContext(ctx,
		`SELECT content FROM messages WHERE username = $1 AND id = $2`,
		username, id).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return content, nil
}
