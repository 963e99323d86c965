package sink

import (
	"context"
	"strings"
)

var _ FileStore = SelectFileStore{}

// SelectFileStore routes each path to the cloud store when it is a
// storage URL and to the local disk otherwise.
func NewSelectFileStore(local FileStore, cloud FileStore) SelectFileStore {
	return SelectFileStore{
		local: local,
		cloud: cloud,
	}
}

type SelectFileStore struct {
	local FileStore
	cloud FileStore
}

func (s SelectFileStore) GetFile(ctx context.Context, path string) ([]byte, error) {
	return s.storeFor(path).GetFile(ctx, path)
}

func (s SelectFileStore) WriteFile(ctx context.Context, path string, fileContent []byte) error {
	return s.storeFor(path).WriteFile(ctx, path, fileContent)
}

func (s SelectFileStore) storeFor(path string) FileStore {
	if s.cloud != nil && strings.HasPrefix(path, GOOGLE_STORAGE_HOST+"/") {
		return s.cloud
	}

	return s.local
}
