// Package secrets stores the Google OAuth refresh token in the OS keyring,
// with a file backend on headless Linux.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/99designs/keyring"

	"github.com/Vaibhavkaremgar/automation-dash-sub000/internal/config"
)

// ErrNotFound is returned when no token is stored for an account.
var ErrNotFound = errors.New("secrets: token not found")

const envKeyringPassword = "INSYNC_KEYRING_PASSWORD" //nolint:gosec // env var name

// Store wraps the OS keyring.
type Store struct {
	ring keyring.Keyring
}

// Open opens the default keyring for the application.
func Open() (*Store, error) {
	dir, err := config.EnsureDir()
	if err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName: config.AppName,
		FileDir:     filepath.Join(dir, "keyring"),
		FilePasswordFunc: func(string) (string, error) {
			if pw := os.Getenv(envKeyringPassword); pw != "" {
				return pw, nil
			}
			return "", fmt.Errorf("set %s for the file keyring backend", envKeyringPassword)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	return &Store{ring: ring}, nil
}

func tokenKey(account string) string {
	return "token:" + account
}

// ParseTokenKey extracts the account from a stored key name.
func ParseTokenKey(key string) (string, bool) {
	account, ok := strings.CutPrefix(key, "token:")
	return account, ok
}

// Token returns the stored refresh token for an account.
func (s *Store) Token(account string) (string, error) {
	item, err := s.ring.Get(tokenKey(account))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(item.Data), nil
}

// SetToken stores the refresh token for an account.
func (s *Store) SetToken(account, refreshToken string) error {
	err := s.ring.Set(keyring.Item{
		Key:  tokenKey(account),
		Data: []byte(refreshToken),
	})
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Accounts lists the accounts with a stored token.
func (s *Store) Accounts() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keyring keys: %w", err)
	}

	var accounts []string
	for _, key := range keys {
		if account, ok := ParseTokenKey(key); ok {
			accounts = append(accounts, account)
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}
