package sink

import (
	"context"
	"os"
	"path/filepath"

	"stem-session/src/lib/werror"
)

var _ FileStore = LocalFileStore{}

// LocalFileStore writes stems into user-chosen directories on disk.
type LocalFileStore struct{}

func NewLocalFileStore() LocalFileStore {
	return LocalFileStore{}
}

func (l LocalFileStore) GetFile(_ context.Context, path string) ([]byte, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, werror.WrapError("Failed to read local file", err)
	}

	return contents, nil
}

func (l LocalFileStore) WriteFile(_ context.Context, path string, fileContent []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return werror.WrapError("Failed to create destination directory", err)
	}

	if err := os.WriteFile(path, fileContent, 0o644); err != nil {
		return werror.WrapError("Failed to write local file", err)
	}

	return nil
}
