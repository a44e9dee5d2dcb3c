package token

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// filename is the fixed name of the token file within the File directory.
const filename = "vitalis_access_token"

// NewFile creates a File instance that persists the token within dir on fs.
func NewFile(fs afero.Fs, dir string) *File {
	return &File{fs: fs, path: filepath.Join(dir, filename)}
}

// File is a Store persisting the token to a file readable only by the
// current user.
type File struct {
	fs   afero.Fs
	path string
}

// Path is the location of the token file.
func (f File) Path() string {
	return f.path
}

// Load implements Store.
func (f File) Load(_ context.Context) (string, error) {
	b, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrTokenDNE
	}
	if err != nil {
		return "", fmt.Errorf("read token file; path: %s, error: %w", f.path, err)
	}

	var rec record
	if err := decode(b, &rec); err != nil {
		return "", fmt.Errorf("decode token file; path: %s, error: %w", f.path, err)
	}
	if rec.Token == "" {
		return "", ErrTokenDNE
	}

	return rec.Token, nil
}

// Save implements Store.
func (f File) Save(_ context.Context, token string) error {
	b, err := encode(record{Token: token, StoredAt: time.Now()})
	if err != nil {
		return fmt.Errorf("encode token; error: %w", err)
	}

	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir; path: %s, error: %w", f.path, err)
	}

	if err := afero.WriteFile(f.fs, f.path, b, 0o600); err != nil {
		return fmt.Errorf("write token file; path: %s, error: %w", f.path, err)
	}

	return nil
}

// Delete implements Store.
func (f File) Delete(_ context.Context) error {
	err := f.fs.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove token file; path: %s, error: %w", f.path, err)
	}
	return nil
}
