package device

import (
	"stem-session/src/application/stems/entity"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Device is the one shared audio output. Exactly one clip is audible
// at a time - Start implies stopping whatever was playing before.
// Calls are expected to return quickly; anything long-running belongs
// on the device's own playback thread.
//
//counterfeiter:generate . Device
type Device interface {
	// Start begins output of the clip from sample 0.
	Start(clip entity.StemBuffer) error
	// Pause halts output, retaining the playback position.
	Pause() error
	// Resume continues output from the retained position.
	Resume() error
	// Stop halts output and drops the clip reference.
	Stop() error
}
