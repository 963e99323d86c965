package dummy

import (
	"context"

	"stem-session/src/application/separation"
	"stem-session/src/application/stems/entity"
)

var _ separation.Backend = &Backend{}

func NewDummyBackend(stems []entity.StemBuffer) *Backend {
	return &Backend{
		Stems: stems,
	}
}

type Backend struct {
	// Stems is what a successful extraction returns, in output order.
	Stems []entity.StemBuffer

	// FailWith, when set, makes every extraction fail with it.
	FailWith error

	// Gate, when set, blocks Extract until the channel is closed,
	// simulating a slow or hung model.
	Gate chan struct{}

	ExtractedPaths []string
}

func (b *Backend) Extract(_ context.Context, audioPath string) ([]entity.StemBuffer, error) {
	if b.Gate != nil {
		<-b.Gate
	}

	b.ExtractedPaths = append(b.ExtractedPaths, audioPath)

	if b.FailWith != nil {
		return nil, b.FailWith
	}

	stems := make([]entity.StemBuffer, len(b.Stems))
	copy(stems, b.Stems)
	return stems, nil
}
