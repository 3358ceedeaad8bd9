// Package mailbox implements the durable per-user message store: deposit,
// enumeration and retrieval. Mailboxes grow monotonically; no update or
// delete operation is exposed.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/udpmail/internal/common"
)

// nowFunc is a test seam for time.Now.
var nowFunc = time.Now

// Delivery describes a successful deposit: the generated message identifier
// and the display timestamp embedded in the record.
type Delivery struct {
	ID          string
	DisplayTime string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Deposit stores a message in the recipient's mailbox and returns the
// generated identifier. The sender field is taken on trust; nothing verifies
// it names an existing account or an authenticated session.
//
// Returns common.ErrorNotFound when the recipient has no account. Two
// deposits from the same sender to the same recipient within one second
// collide on the identifier and the later one overwrites the earlier.
func (s *Service) Deposit(ctx context.Context, recipient, sender, senderAddr, subject, body string) (*Delivery, error) {
	now := nowFunc()
	id := MessageID(sender, now)
	content := FormatMessage(sender, senderAddr, subject, body, now)

	if err := s.repo.Put(ctx, recipient, id, content); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error storing message: %w", err)
	}

	return &Delivery{ID: id, DisplayTime: DisplayTime(now)}, nil
}

// List returns the identifiers of every message in the user's mailbox.
func (s *Service) List(ctx context.Context, username string) ([]string, error) {
	ids, err := s.repo.List(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error listing mailbox: %w", err)
	}
	return ids, nil
}

// Fetch returns the full stored record as a single text blob.
func (s *Service) Fetch(ctx context.Context, username, id string) (string, error) {
	content, err := s.repo.Get(ctx, username, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error reading message: %w", err)
	}
	return content, nil
}

// SeedWelcome drops the greeting message into a freshly registered mailbox.
func (s *Service) SeedWelcome(ctx context.Context, username string) error {
	content := fmt.Sprintf("Welcome %s to the mail server!", username)
	if err := s.repo.Put(ctx, username, WelcomeID, content); err != nil {
		return fmt.Errorf("error seeding welcome message: %w", err)
	}
	return nil
}
