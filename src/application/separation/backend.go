package separation

import (
	"context"
	"errors"

	"stem-session/src/application/stems/entity"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Backend is the source separation model boundary. It is synchronous
// and potentially very slow - callers are expected to supply the
// worker thread.
//
//counterfeiter:generate . Backend
type Backend interface {
	// Extract splits the audio file into decoded stems in the model's
	// output order. The input file is never modified.
	Extract(ctx context.Context, audioPath string) ([]entity.StemBuffer, error)
}

// Every backend failure wraps one of these so that callers can report
// a recognizable reason without knowing the model internals.
var (
	FileUnreadable    = errors.New("The audio file could not be read")
	UnsupportedFormat = errors.New("The audio file format is not supported")
	ModelError        = errors.New("The separation model failed")
)
