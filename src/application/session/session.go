package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"stem-session/src/application/events"
	"stem-session/src/application/export"
	"stem-session/src/application/extraction"
	"stem-session/src/application/playback"
	"stem-session/src/application/stems/store"
	"stem-session/src/lib/cerr"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// Session owns one stem store, at most one in-flight extraction, and
// one playback controller, for the lifetime of the program. Every
// command goes through one mutex so that e.g. an export can never read
// a half-replaced store, and a finishing extraction forces playback to
// Idle strictly after the store swap, never interleaved with another
// command.
type Session struct {
	id         uuid.UUID
	mu         sync.Mutex
	stemStore  *store.Store
	manager    *extraction.Manager
	controller *playback.Controller
	exporter   export.Exporter
	publisher  events.Publisher
}

func NewSession(
	stemStore *store.Store,
	manager *extraction.Manager,
	controller *playback.Controller,
	exporter export.Exporter,
	publisher events.Publisher,
) *Session {
	return &Session{
		id:         uuid.New(),
		stemStore:  stemStore,
		manager:    manager,
		controller: controller,
		exporter:   exporter,
		publisher:  publisher,
	}
}

func (s *Session) ID() string {
	return s.id.String()
}

// Extract kicks off separation of the audio file on a worker
// goroutine and returns immediately. While one is in flight, further
// calls fail with extraction.AlreadyRunning.
func (s *Session) Extract(audioPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.manager.Start(audioPath, s.onExtractionProgress, s.onExtractionDone)
	if err != nil {
		return cerr.Field("audio_path", audioPath).
			Wrap(err).Error("Failed to start extraction")
	}

	s.publish(events.ExtractionStarted{
		SessionID: s.ID(),
		AudioPath: audioPath,
	})

	return nil
}

// SelectStem drives the play/pause state machine for the named stem.
func (s *Session) SelectStem(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.controller.Select(name)
	if err != nil {
		// a device failure downgraded the state, surface that too
		if errors.Is(err, playback.DeviceError) {
			s.publishPlayback(status)
		}
		return err
	}

	s.publishPlayback(status)
	return nil
}

// TogglePlayPause reselects whichever stem is current, the behavior of
// a single play/pause control.
func (s *Session) TogglePlayPause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.controller.Toggle()
	if err != nil {
		return err
	}

	s.publishPlayback(status)
	return nil
}

func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.controller.Stop()
	s.publishPlayback(status)
	return err
}

// Export writes the named stems into the destination directory, one
// result per requested name. A failed entry never aborts the batch.
func (s *Session) Export(ctx context.Context, names []string, destDir string) []export.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.exporter.Export(ctx, names, destDir)

	s.publish(events.ExportCompleted{
		SessionID: s.ID(),
		Results:   summarizeResults(results),
	})

	return results
}

func (s *Session) StemNames() []string {
	return s.stemStore.Names()
}

func (s *Session) PlaybackStatus() playback.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Status()
}

func (s *Session) onExtractionProgress(elapsed time.Duration) {
	s.publish(events.ExtractionProgress{
		SessionID: s.ID(),
		Elapsed:   elapsed,
	})
}

func (s *Session) onExtractionDone(entries []store.Entry, extractionErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if extractionErr != nil {
		// the previous generation stays intact and playable
		s.publish(events.ExtractionFailed{
			SessionID: s.ID(),
			Reason:    extractionErr.Error(),
		})
		return
	}

	if err := s.stemStore.Replace(entries); err != nil {
		s.publish(events.ExtractionFailed{
			SessionID: s.ID(),
			Reason:    err.Error(),
		})
		return
	}

	// the old generation is gone, any held clip reference with it
	status := s.controller.Reset()
	s.publishPlayback(status)

	s.publish(events.ExtractionSucceeded{
		SessionID: s.ID(),
		StemNames: s.stemStore.Names(),
	})
}

// publish failures are reported in the log, never to the command
// path - notifications are advisory.
func (s *Session) publish(event events.Event) {
	if err := s.publisher.Publish(event); err != nil {
		cerr.Log(cerr.Field("event_type", event.EventType()).
			Wrap(err).Error("Failed to publish session event"))
	}
}

func (s *Session) publishPlayback(status playback.Status) {
	s.publish(events.PlaybackChanged{
		SessionID: s.ID(),
		State:     string(status.State),
		StemName:  status.StemName,
	})
}

func summarizeResults(results []export.Result) []events.ExportResult {
	summaries := make([]events.ExportResult, 0, len(results))

	for _, result := range results {
		summary := events.ExportResult{
			StemName: result.StemName,
			Path:     result.Path,
		}

		if result.Err != nil {
			summary.Error = result.Err.Error()
			log.WithFields(log.Fields{
				"stem_name": result.StemName,
				"error":     result.Err.Error(),
			}).Error("Stem export failed")
		}

		summaries = append(summaries, summary)
	}

	return summaries
}
