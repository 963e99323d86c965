package sink

import "context"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// FileStore is an export destination for finished stem files.
//
//counterfeiter:generate . FileStore
type FileStore interface {
	GetFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, fileContent []byte) error
}
