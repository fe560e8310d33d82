package credential

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/99designs/keyring"
)

const serviceName = "portfolio"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/portfolio/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("portfolio-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Settings keeps boolean settings in a keyring. The paid-unlock flag
// lives here when the settings backend is "keyring", out of reach of
// anyone editing the database file.
type Settings struct {
	ring keyring.Keyring
}

// NewSettings opens the system keyring.
func NewSettings() (*Settings, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}
	return &Settings{ring: ring}, nil
}

// NewSettingsWithKeyring wraps an already opened keyring.
func NewSettingsWithKeyring(ring keyring.Keyring) *Settings {
	return &Settings{ring: ring}
}

// Bool reads a boolean setting; missing keys are false.
func (s *Settings) Bool(key string) (bool, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting setting %q: %w", key, err)
	}

	b, err := strconv.ParseBool(string(item.Data))
	if err != nil {
		return false, fmt.Errorf("parsing setting %q: %w", key, err)
	}
	return b, nil
}

// SetBool writes a boolean setting.
func (s *Settings) SetBool(key string, value bool) error {
	err := s.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(strconv.FormatBool(value)),
	})
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Delete removes a setting.
func (s *Settings) Delete(key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}
	return nil
}
