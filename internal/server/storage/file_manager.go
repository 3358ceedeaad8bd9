package storage

import (
	"github.com/dmitrijs2005/udpmail/internal/server/accounts"
	"github.com/dmitrijs2005/udpmail/internal/server/mailbox"
)

// FileManager serves both stores from the same per-user directory tree.
type FileManager struct {
	accounts *accounts.FileRepository
	mailbox  *mailbox.FileRepository
}

func NewFileManager(dataDir string) *FileManager {
	return &FileManager{
		accounts: accounts.NewFileRepository(dataDir),
		mailbox:  mailbox.NewFileRepository(dataDir),
	}
}

func (m *FileManager) Accounts() accounts.Repository { return m.accounts }
func (m *FileManager) Mailbox() mailbox.Repository   { return m.mailbox }
func (m *FileManager) Close() error                  { return nil }
