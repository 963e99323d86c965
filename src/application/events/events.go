package events

import "time"

// Events are the notifications the session pushes to the interactive
// surface. The worker thread publishes them directly instead of the
// surface polling shared flags.
const (
	ExtractionStartedType   string = "extraction_started"
	ExtractionProgressType  string = "extraction_progress"
	ExtractionSucceededType string = "extraction_succeeded"
	ExtractionFailedType    string = "extraction_failed"
	PlaybackChangedType     string = "playback_state_changed"
	ExportCompletedType     string = "export_completed"
)

type Event interface {
	EventType() string
}

var _ Event = ExtractionStarted{}
var _ Event = ExtractionProgress{}
var _ Event = ExtractionSucceeded{}
var _ Event = ExtractionFailed{}
var _ Event = PlaybackChanged{}
var _ Event = ExportCompleted{}

type ExtractionStarted struct {
	SessionID string `json:"session_id"`
	AudioPath string `json:"audio_path"`
}

func (ExtractionStarted) EventType() string { return ExtractionStartedType }

// ExtractionProgress is a liveness tick, not a completion percentage -
// the model reports none through the CLI boundary.
type ExtractionProgress struct {
	SessionID string        `json:"session_id"`
	Elapsed   time.Duration `json:"elapsed"`
}

func (ExtractionProgress) EventType() string { return ExtractionProgressType }

type ExtractionSucceeded struct {
	SessionID string   `json:"session_id"`
	StemNames []string `json:"stem_names"`
}

func (ExtractionSucceeded) EventType() string { return ExtractionSucceededType }

type ExtractionFailed struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

func (ExtractionFailed) EventType() string { return ExtractionFailedType }

type PlaybackChanged struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	StemName  string `json:"stem_name,omitempty"`
}

func (PlaybackChanged) EventType() string { return PlaybackChangedType }

type ExportResult struct {
	StemName string `json:"stem_name"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ExportCompleted struct {
	SessionID string         `json:"session_id"`
	Results   []ExportResult `json:"results"`
}

func (ExportCompleted) EventType() string { return ExportCompletedType }
