package device

import (
	"time"

	"stem-session/src/application/stems/entity"
	"stem-session/src/lib/werror"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

var _ Device = &SpeakerDevice{}

const DefaultSampleRate beep.SampleRate = 44100

// SpeakerDevice drives the process-wide beep speaker. The speaker is
// initialized once at a fixed rate; clips recorded at another rate get
// resampled per stream instead of reopening the device.
type SpeakerDevice struct {
	sampleRate beep.SampleRate
	ctrl       *beep.Ctrl
}

func NewSpeakerDevice(sampleRate beep.SampleRate) (*SpeakerDevice, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(40*time.Millisecond)); err != nil {
		return nil, werror.WrapError("Failed to initialize the speaker", err)
	}

	return &SpeakerDevice{
		sampleRate: sampleRate,
	}, nil
}

func (d *SpeakerDevice) Start(clip entity.StemBuffer) error {
	speaker.Clear()

	var stream beep.Streamer = clip.Streamer()

	clipRate := clip.Format().SampleRate
	if clipRate != d.sampleRate {
		stream = beep.Resample(4, clipRate, d.sampleRate, stream)
	}

	ctrl := &beep.Ctrl{Streamer: stream}
	d.ctrl = ctrl

	speaker.Play(ctrl)
	return nil
}

func (d *SpeakerDevice) Pause() error {
	return d.setPaused(true)
}

func (d *SpeakerDevice) Resume() error {
	return d.setPaused(false)
}

func (d *SpeakerDevice) Stop() error {
	speaker.Clear()
	d.ctrl = nil
	return nil
}

func (d *SpeakerDevice) setPaused(paused bool) error {
	if d.ctrl == nil {
		return werror.WrapError("No stream is loaded on the speaker", nil)
	}

	speaker.Lock()
	d.ctrl.Paused = paused
	speaker.Unlock()

	return nil
}
