package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFileName = "telegram.token"
	tokenFileMode = 0600
)

// FileStore keeps the secret in a file readable only by the owner.
type FileStore struct {
	configDir string
}

var (
	fileReadFile = os.ReadFile
	fileRemove   = os.Remove
	fileRename   = os.Rename
	fileMkdirAll = os.MkdirAll
	fileTempFile = os.CreateTemp
)

// NewFileStore creates a FileStore inside configDir.
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

// Path returns the location of the token file.
func (f *FileStore) Path() string {
	return filepath.Join(f.configDir, tokenFileName)
}

// Set writes the secret atomically (temp file then rename).
func (f *FileStore) Set(secret string) error {
	if err := fileMkdirAll(f.configDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := fileTempFile(f.configDir, ".telegram.token.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(secret); err != nil {
		tmp.Close()
		fileRemove(tmpPath)
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, tokenFileMode); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := fileRename(tmpPath, f.Path()); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}

func (f *FileStore) Get() (string, error) {
	data, err := fileReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return "", ErrNotFound
	}
	return s, nil
}

func (f *FileStore) Delete() error {
	err := fileRemove(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

var _ Store = (*FileStore)(nil)
