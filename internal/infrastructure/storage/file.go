// Package storage provides durable client storage for the session slots:
// the bearer token and the serialized identity. Both slots are always
// written and cleared together.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/investbank/pipeline-client/internal/core/domain"
)

// credentialsFile is the on-disk layout: the two named slots in one JSON
// document, so a partially written pair can never be observed.
type credentialsFile struct {
	Token    string           `json:"auth_token,omitempty"`
	Identity *domain.Identity `json:"current_user,omitempty"`
}

// FileStorage persists the session slots in a JSON credentials file,
// created with 0600 permissions.
type FileStorage struct {
	path string
}

// NewFileStorage returns a FileStorage writing to path. The parent
// directory is created on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Save(_ context.Context, token string, identity *domain.Identity) error {
	data, err := json.MarshalIndent(credentialsFile{Token: token, Identity: identity}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	// Write-then-rename so a crash mid-write leaves the old file intact.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

func (f *FileStorage) Load(_ context.Context) (string, *domain.Identity, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("read credentials: %w", err)
	}

	var cf credentialsFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return "", nil, fmt.Errorf("decode credentials: %w", err)
	}

	// Identity must never outlive the token.
	if cf.Token == "" {
		return "", nil, nil
	}
	return cf.Token, cf.Identity, nil
}

func (f *FileStorage) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
