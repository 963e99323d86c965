package extraction

import (
	"context"
	"errors"
	"sync"
	"time"

	"stem-session/src/application/separation"
	"stem-session/src/application/stems/entity"
	"stem-session/src/application/stems/store"

	"github.com/apex/log"
)

// AlreadyRunning is the admission policy, not a transient condition:
// a new extraction is rejected while one is in flight, never queued
// or preempted.
var AlreadyRunning = errors.New("An extraction is already in progress")

const progressTickInterval = 30 * time.Millisecond

// Manager runs at most one extraction at a time on its own goroutine.
// There is no mid-run cancellation - a hung model call occupies the
// worker goroutine only, and Start keeps rejecting until it resolves.
type Manager struct {
	backend separation.Backend

	mu      sync.Mutex
	running bool
}

func NewManager(backend separation.Backend) *Manager {
	return &Manager{
		backend: backend,
	}
}

// Start schedules the extraction and returns immediately. onProgress
// fires on a short interval while the model runs; onDone fires exactly
// once with either the named stem entries in model output order, or
// the failure. The job slot frees up only after onDone has returned.
func (m *Manager) Start(audioPath string, onProgress func(elapsed time.Duration), onDone func(entries []store.Entry, err error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return AlreadyRunning
	}

	m.running = true
	go m.work(audioPath, onProgress, onDone)

	return nil
}

func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) work(audioPath string, onProgress func(elapsed time.Duration), onDone func(entries []store.Entry, err error)) {
	logger := log.WithField("audio_path", audioPath)
	logger.Info("Starting stem extraction")

	stopTicks := startProgressTicks(onProgress)
	stems, err := m.backend.Extract(context.Background(), audioPath)
	stopTicks()

	if err != nil {
		logger.Error("Stem extraction failed")
		onDone(nil, err)
	} else {
		logger.Info("Stem extraction succeeded")
		onDone(nameStems(audioPath, stems), nil)
	}

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

func nameStems(audioPath string, stems []entity.StemBuffer) []store.Entry {
	basename := entity.BasenameFromPath(audioPath)

	entries := make([]store.Entry, 0, len(stems))
	for i, stem := range stems {
		entries = append(entries, store.Entry{
			Name:   entity.StemName(basename, i+1),
			Buffer: stem,
		})
	}

	return entries
}

func startProgressTicks(onProgress func(elapsed time.Duration)) func() {
	startedAt := time.Now()
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(progressTickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				onProgress(time.Since(startedAt))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
