// Package mute toggles the monitored player's output stream in the
// system mixer.
package mute

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Mixer resolves and mutes per-application output streams. It never
// touches the overall device volume.
type Mixer interface {
	// FindStream resolves the stream identifier for the given
	// application name tag.
	FindStream(app string) (int, error)
	// SetMute sets the mute state of a single stream.
	SetMute(stream int, muted bool) error
}

// Controller issues mute/unmute commands for one application's output
// stream. The stream identifier is resolved on every call because the
// mixer assigns a fresh identifier each time the player opens its output.
type Controller struct {
	mixer Mixer
	app   string
}

// NewController creates a controller for the given application name tag.
func NewController(mixer Mixer, app string) *Controller {
	return &Controller{mixer: mixer, app: app}
}

// Mute mutes the application's output stream.
func (c *Controller) Mute() error {
	return c.set(true)
}

// Unmute unmutes the application's output stream.
func (c *Controller) Unmute() error {
	return c.set(false)
}

func (c *Controller) set(muted bool) error {
	stream, err := c.mixer.FindStream(c.app)
	if err != nil {
		// Recoverable: the player may have no active output stream
		// right now. Skip this invocation.
		log.Debug().Err(err).Str("app", c.app).Msg("Output stream not resolved, skipping mute change")
		return fmt.Errorf("resolve output stream for %q: %w", c.app, err)
	}

	if err := c.mixer.SetMute(stream, muted); err != nil {
		log.Debug().Err(err).Int("stream", stream).Bool("muted", muted).Msg("Mixer command failed")
		return fmt.Errorf("set mute %v on stream %d: %w", muted, stream, err)
	}

	log.Debug().Int("stream", stream).Bool("muted", muted).Msg("Mute state changed")
	return nil
}
