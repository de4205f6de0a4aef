package credentials

import (
	"errors"
	"strings"
)

var (
	ErrNotFound    = errors.New("credentials: not found")
	ErrEmptyValue  = errors.New("credentials: empty value")
	ErrInvalidKey  = errors.New("credentials: invalid key")
	ErrUnsupported = errors.New("credentials: unsupported operation")
)

// ValidateKey performs basic checks on the identifying fields of a credential.
func ValidateKey(userID, keyName string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(keyName) == "" {
		return ErrInvalidKey
	}
	return nil
}
