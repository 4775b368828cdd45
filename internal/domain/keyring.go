package domain

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name Linear tokens are stored under in
// the OS keychain.
const KeyringService = "linear-mcp-server"

// ErrNoStoredToken is returned when the keychain holds no token for an account.
var ErrNoStoredToken = errors.New("no Linear token stored in keychain")

// LoadKeyringToken reads the token stored for account.
func LoadKeyringToken(account string) (string, error) {
	if account == "" {
		return "", fmt.Errorf("keyring account is required")
	}
	token, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w for account %s", ErrNoStoredToken, account)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keychain: %w", err)
	}
	return token, nil
}

// StoreKeyringToken saves token for account, replacing any previous one.
func StoreKeyringToken(account, token string) error {
	if account == "" {
		return fmt.Errorf("keyring account is required")
	}
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	if err := keyring.Set(KeyringService, account, token); err != nil {
		return fmt.Errorf("failed to write keychain: %w", err)
	}
	return nil
}

// DeleteKeyringToken removes the token stored for account.
func DeleteKeyringToken(account string) error {
	if account == "" {
		return fmt.Errorf("keyring account is required")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w for account %s", ErrNoStoredToken, account)
	}
	if err != nil {
		return fmt.Errorf("failed to update keychain: %w", err)
	}
	return nil
}
