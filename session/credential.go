package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blogwire/blogwire/api"
)

// TokenFile persists the bearer token across process restarts. One
// token lives under one well-known path; it is written on login and
// removed on logout or a failed bootstrap.
type TokenFile struct {
	path string
}

// NewTokenFile creates a token store at the given path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Path returns the file path backing the store.
func (t *TokenFile) Path() string { return t.path }

// Load reads the persisted credential. A missing file is not an error:
// it returns the zero credential.
func (t *TokenFile) Load() (api.Credential, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return api.Credential(strings.TrimSpace(string(data))), nil
}

// Save writes the credential, creating parent directories as needed.
// The file is readable only by the owner.
func (t *TokenFile) Save(cred api.Credential) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(t.path, []byte(string(cred)+"\n"), 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the persisted credential. Removing an already-absent
// token is not an error.
func (t *TokenFile) Clear() error {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
