package mailbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/udpmail/internal/common"
)

// credentialsFile is owned by the accounts store; it shares the per-user
// directory with message files and must never be listed or served as mail.
const credentialsFile = "credentials"

// FileRepository stores each message as one file inside the recipient's
// account directory, named by its message identifier.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." || name == credentialsFile {
		return false
	}
	return !strings.ContainsAny(name, ":/\\")
}

func (r *FileRepository) userDir(username string) (string, error) {
	if username == "" || strings.ContainsAny(username, ":/\\") || username == "." || username == ".." {
		return "", fmt.Errorf("invalid username %q: %w", username, common.ErrorMalformedRequest)
	}
	dir := filepath.Join(r.baseDir, username)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", common.ErrorNotFound
	}
	return dir, nil
}

func (r *FileRepository) Put(ctx context.Context, recipient, id, content string) error {
	dir, err := r.userDir(recipient)
	if err != nil {
		return err
	}
	if !validName(id) {
		return fmt.Errorf("invalid message id %q: %w", id, common.ErrorMalformedRequest)
	}

	// WriteFile truncates an existing file, which is exactly the
	// last-writer-wins behavior on identifier collisions.
	if err := os.WriteFile(filepath.Join(dir, id), []byte(content), 0o660); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (r *FileRepository) List(ctx context.Context, username string) ([]string, error) {
	dir, err := r.userDir(username)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == credentialsFile {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

func (r *FileRepository) Get(ctx context.Context, username, id string) (string, error) {
	dir, err := r.userDir(username)
	if err != nil {
		return "", err
	}
	if !validName(id) {
		return "", common.ErrorNotFound
	}

	data, err := os.ReadFile(filepath.Join(dir, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("read message: %w", err)
	}
	return string(data), nil
}
