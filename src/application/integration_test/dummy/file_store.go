package dummy

import (
	"context"

	"stem-session/src/application/export/sink"
)

var _ sink.FileStore = &FileStore{}

func NewDummyFileStore() *FileStore {
	return &FileStore{
		State:     make(map[string][]byte),
		FailPaths: make(map[string]bool),
	}
}

type FileStore struct {
	Unavailable bool

	// FailPaths makes writes to specific paths fail, for exercising
	// partial export failures.
	FailPaths map[string]bool

	State map[string][]byte
}

func (t *FileStore) GetFile(_ context.Context, path string) ([]byte, error) {
	if t.Unavailable {
		return nil, NetworkFailure
	}

	content, ok := t.State[path]
	if !ok {
		return nil, NotFound
	}

	return content, nil
}

func (t *FileStore) WriteFile(_ context.Context, path string, fileContent []byte) error {
	if t.Unavailable || t.FailPaths[path] {
		return NetworkFailure
	}

	t.State[path] = append([]byte{}, fileContent...)

	return nil
}
