// Package accounts implements the account store: registration,
// authentication and account enumeration.
//
// Passwords are kept in cleartext and compared byte-for-byte because the
// deployed protocol requires it (Authenticate must match exactly what
// Register stored). There is no rate limiting and no lockout.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/udpmail/internal/common"
)

// nowFunc is a test seam for time.Now.
var nowFunc = time.Now

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. It returns created=false without an error
// when the username is already taken; the existing record is never
// overwritten.
func (s *Service) Register(ctx context.Context, username, password string) (created bool, err error) {
	account := &Account{
		Username:  username,
		Password:  password,
		CreatedAt: nowFunc(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("error creating account: %w", err)
	}

	return true, nil
}

// Authenticate reports whether the account exists and the supplied password
// matches the stored one exactly. A missing account and a wrong password are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	account, err := s.repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading account: %w", err)
	}

	return subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) == 1, nil
}

// ListUsernames enumerates every registered account. The order is whatever
// the backing store yields; callers must not rely on it.
func (s *Service) ListUsernames(ctx context.Context) ([]string, error) {
	usernames, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	return usernames, nil
}
