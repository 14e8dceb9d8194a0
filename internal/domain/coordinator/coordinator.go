// Package coordinator dispatches metadata events to the configured ad
// response: muting the player or masking the ad with filler audio.
package coordinator

import (
	"github.com/rs/zerolog/log"

	"adsilencer/internal/domain/detect"
)

// Mode selects the ad response. It is fixed at startup.
type Mode int

const (
	// ModeSimple mutes the player for the duration of the ad.
	ModeSimple Mode = iota
	// ModeFiller mutes the player and plays local audio until the ad ends.
	ModeFiller
)

// String returns the mode name used in logs and status output.
func (m Mode) String() string {
	if m == ModeFiller {
		return "filler"
	}
	return "simple"
}

// Muter toggles the monitored player's output stream.
type Muter interface {
	Mute() error
	Unmute() error
}

// FillerStarter launches guarded filler playback jobs.
type FillerStarter interface {
	// TryStart begins a job unless one is already in flight.
	TryStart() bool
	// Active reports whether a job is in flight.
	Active() bool
}

// Coordinator is the top-level handler for metadata events. All events
// arrive on a single goroutine in delivery order; the coordinator itself
// never blocks.
type Coordinator struct {
	tracker *detect.Tracker
	mode    Mode
	muter   Muter
	filler  FillerStarter
}

// New creates a coordinator. filler may be nil when mode is ModeSimple.
func New(tracker *detect.Tracker, mode Mode, muter Muter, filler FillerStarter) *Coordinator {
	return &Coordinator{
		tracker: tracker,
		mode:    mode,
		muter:   muter,
		filler:  filler,
	}
}

// Mode returns the configured response mode.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// OnMetadata handles one metadata event from the subscription. Duplicate
// events are dropped by the tracker; only genuine state transitions
// trigger side effects.
func (c *Coordinator) OnMetadata(artist, title string) {
	changed, current, previous := c.tracker.Observe(artist, title)
	if !changed {
		return
	}

	log.Debug().
		Str("artist", current.Artist).
		Str("title", current.Title).
		Bool("ad", current.IsAd).
		Msg("Track changed")

	switch {
	case current.IsAd:
		c.onAdStart(current)
	case previous.IsAd:
		c.onAdEnd(current)
	}
}

func (c *Coordinator) onAdStart(state detect.TrackState) {
	if c.mode == ModeFiller {
		if c.filler.TryStart() {
			log.Info().Str("title", state.Title).Msg("Ad detected, starting filler playback")
		} else {
			log.Debug().Str("title", state.Title).Msg("Ad detected, filler job already running")
		}
		return
	}

	log.Info().Str("title", state.Title).Msg("Ad detected, muting player")
	if err := c.muter.Mute(); err != nil {
		log.Debug().Err(err).Msg("Mute skipped")
	}
}

func (c *Coordinator) onAdEnd(state detect.TrackState) {
	if c.mode == ModeFiller {
		// The filler job unmutes and resumes on its own once the
		// file finishes; nothing extra to do here.
		return
	}

	log.Info().Str("artist", state.Artist).Str("title", state.Title).Msg("Ad ended, unmuting player")
	if err := c.muter.Unmute(); err != nil {
		log.Debug().Err(err).Msg("Unmute skipped")
	}
}

// Status is a read-only snapshot for the status endpoint.
type Status struct {
	Mode         string            `json:"mode"`
	Current      detect.TrackState `json:"current"`
	Previous     detect.TrackState `json:"previous"`
	FillerActive bool              `json:"fillerActive"`
}

// StatusSnapshot reports the coordinator's current view of the player.
func (c *Coordinator) StatusSnapshot() Status {
	s := Status{
		Mode:     c.mode.String(),
		Current:  c.tracker.Current(),
		Previous: c.tracker.Previous(),
	}
	if c.filler != nil {
		s.FillerActive = c.filler.Active()
	}
	return s
}
