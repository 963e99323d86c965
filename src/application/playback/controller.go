package playback

import (
	"errors"

	"stem-session/src/application/playback/device"
	"stem-session/src/application/stems/store"
	"stem-session/src/lib/cerr"

	"github.com/apex/log"
)

var (
	// DeviceError wraps any audio output failure. The controller
	// downgrades itself to Idle rather than staying in a phantom
	// Playing state.
	DeviceError = errors.New("The audio output device failed")

	// NoStemSelected is returned by a play/pause toggle when nothing
	// has been selected yet.
	NoStemSelected = errors.New("No stem is currently selected")
)

type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

type Status struct {
	State    State
	StemName string
}

// Controller arbitrates the single audio output over the stems in the
// store. It is a plain state machine - callers are expected to
// serialize access, which the session does with its command lock.
type Controller struct {
	stemStore *store.Store
	device    device.Device

	state    State
	stemName string
}

func NewController(stemStore *store.Store, device device.Device) *Controller {
	return &Controller{
		stemStore: stemStore,
		device:    device,
		state:     StateIdle,
	}
}

func (c *Controller) Status() Status {
	return Status{
		State:    c.state,
		StemName: c.stemName,
	}
}

// Select moves the machine for a user picking the named stem:
// reselecting the playing stem toggles pause, reselecting a paused
// stem resumes from the retained position, and any other stem stops
// the current clip and starts the new one from sample 0.
func (c *Controller) Select(name string) (Status, error) {
	if c.state != StateIdle && c.stemName == name {
		return c.toggle()
	}

	return c.startClip(name)
}

// Toggle replays the select of whichever stem is current, which is
// the single play/pause button behavior.
func (c *Controller) Toggle() (Status, error) {
	if c.state == StateIdle {
		return c.Status(), NoStemSelected
	}

	return c.Select(c.stemName)
}

// Stop forces the machine back to Idle and releases the clip.
func (c *Controller) Stop() (Status, error) {
	err := c.device.Stop()

	c.state = StateIdle
	c.stemName = ""

	if err != nil {
		return c.Status(), cerr.Field("device_error", err.Error()).
			Wrap(DeviceError).Error("Failed to stop the audio device")
	}

	return c.Status(), nil
}

// Reset is the forced stop on a store generation change: the previous
// selection's buffer may no longer exist. Device failures here are
// logged, since there is no user command to report them to.
func (c *Controller) Reset() Status {
	status, err := c.Stop()
	if err != nil {
		log.WithField("error", err.Error()).Error("Failed to stop device during reset")
	}

	return status
}

func (c *Controller) toggle() (Status, error) {
	var err error
	if c.state == StatePlaying {
		err = c.device.Pause()
	} else {
		err = c.device.Resume()
	}

	if err != nil {
		return c.downgrade(err)
	}

	if c.state == StatePlaying {
		c.state = StatePaused
	} else {
		c.state = StatePlaying
	}

	return c.Status(), nil
}

func (c *Controller) startClip(name string) (Status, error) {
	clip, err := c.stemStore.Get(name)
	if err != nil {
		// state unchanged, the current clip keeps going
		return c.Status(), err
	}

	if err := c.device.Start(clip); err != nil {
		return c.downgrade(err)
	}

	c.state = StatePlaying
	c.stemName = name

	return c.Status(), nil
}

func (c *Controller) downgrade(deviceErr error) (Status, error) {
	_ = c.device.Stop()

	c.state = StateIdle
	c.stemName = ""

	return c.Status(), cerr.Field("device_error", deviceErr.Error()).
		Wrap(DeviceError).Error("Playback was stopped after an audio device failure")
}
