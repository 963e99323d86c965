package dummy

import (
	"stem-session/src/application/playback/device"
	"stem-session/src/application/stems/entity"
)

var _ device.Device = &Device{}

func NewDummyDevice() *Device {
	return &Device{}
}

// Device records the call sequence so tests can assert that pausing
// retains position (Pause/Resume) and switching restarts (Start).
type Device struct {
	Unavailable bool

	Calls        []string
	StartedClips []entity.StemBuffer
}

func (d *Device) Start(clip entity.StemBuffer) error {
	if d.Unavailable {
		return DeviceBroken
	}

	d.Calls = append(d.Calls, "start")
	d.StartedClips = append(d.StartedClips, clip)
	return nil
}

func (d *Device) Pause() error {
	if d.Unavailable {
		return DeviceBroken
	}

	d.Calls = append(d.Calls, "pause")
	return nil
}

func (d *Device) Resume() error {
	if d.Unavailable {
		return DeviceBroken
	}

	d.Calls = append(d.Calls, "resume")
	return nil
}

func (d *Device) Stop() error {
	d.Calls = append(d.Calls, "stop")

	if d.Unavailable {
		return DeviceBroken
	}

	return nil
}
