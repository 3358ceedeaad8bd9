package accounts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/udpmail/internal/common"
)

// credentialsFile is the per-user credential record inside the account
// directory. The message files of the same user live next to it.
const credentialsFile = "credentials"

// FileRepository stores one directory per username under baseDir, matching
// the on-disk layout of the original deployment.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

// validName rejects names that are empty, contain the protocol delimiter, or
// could escape the base directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, ":/\\")
}

func (r *FileRepository) userDir(username string) (string, error) {
	if !validName(username) {
		return "", fmt.Errorf("invalid username %q: %w", username, common.ErrorMalformedRequest)
	}
	return filepath.Join(r.baseDir, username), nil
}

func (r *FileRepository) Create(ctx context.Context, account *Account) error {
	dir, err := r.userDir(account.Username)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(r.baseDir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", r.baseDir, err)
	}

	// Mkdir fails when the directory exists, which doubles as the
	// duplicate-registration check.
	if err := os.Mkdir(dir, 0o770); err != nil {
		if errors.Is(err, os.ErrExist) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	record := account.Password + "\n" + account.CreatedAt.UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(filepath.Join(dir, credentialsFile), []byte(record), 0o660); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}

	return nil
}

func (r *FileRepository) Get(ctx context.Context, username string) (*Account, error) {
	dir, err := r.userDir(username)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	account := &Account{Username: username}
	lines := strings.SplitN(string(data), "\n", 3)
	account.Password = lines[0]
	if len(lines) > 1 {
		if created, err := time.Parse(time.RFC3339, strings.TrimSpace(lines[1])); err == nil {
			account.CreatedAt = created
		}
	}

	return account, nil
}

func (r *FileRepository) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.baseDir, err)
	}

	usernames := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			usernames = append(usernames, e.Name())
		}
	}
	return usernames, nil
}
