package cryptox

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadOrCreateFile returns the contents of path. When the file does not exist
// it is created with mode 0600 from the output of generate, so secrets such
// as the password pepper and the session signing key survive restarts.
func LoadOrCreateFile(path string, generate func() ([]byte, error)) ([]byte, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err == nil {
		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			return nil, fmt.Errorf("cryptox: secret file %s is empty", path)
		}
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cryptox: read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("cryptox: create dir for %s: %w", path, err)
	}
	data, err = generate()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("cryptox: write %s: %w", path, err)
	}
	return data, nil
}

// LoadOrCreatePepper returns the pepper stored at path, generating a 256-bit
// one on first start.
func LoadOrCreatePepper(path string) (string, error) {
	data, err := LoadOrCreateFile(path, func() ([]byte, error) {
		tok, err := GenerateToken(TokenSize256)
		return []byte(tok), err
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
