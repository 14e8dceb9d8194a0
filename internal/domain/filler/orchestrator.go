package filler

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Player plays one local audio file for the duration of an ad.
type Player interface {
	// Start begins playback of the given file and returns immediately.
	Start(path string) error
	// Duration reports the total length of the current file. Some
	// backends report zero until the stream is primed, so callers must
	// allow a settle delay after Start before querying.
	Duration() (time.Duration, error)
	// Stop halts playback and releases the file.
	Stop() error
}

// Muter toggles the monitored player's output stream.
type Muter interface {
	Mute() error
	Unmute() error
}

// DefaultSettleDelay is how long the job waits after starting playback
// before sampling the file duration.
const DefaultSettleDelay = time.Second

// Orchestrator runs filler playback jobs. At most one job is in flight at
// any instant; detections that arrive while a job runs are dropped, not
// queued. Every job, on every path, ends with the monitored player
// unmuted and the guard released.
type Orchestrator struct {
	muter   Muter
	player  Player
	library *Library
	resume  func() error
	settle  time.Duration
	sleep   func(time.Duration)

	running atomic.Bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSettleDelay overrides the delay between starting playback and
// sampling the duration.
func WithSettleDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.settle = d
		}
	}
}

// WithSleep overrides the blocking wait. Tests use this to run jobs
// without real delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Orchestrator) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// NewOrchestrator creates an orchestrator. resume is invoked once the
// filler file has finished, to restart the monitored player's own
// playback; it may be nil.
func NewOrchestrator(muter Muter, player Player, library *Library, resume func() error, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		muter:   muter,
		player:  player,
		library: library,
		resume:  resume,
		settle:  DefaultSettleDelay,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TryStart launches a filler job on its own goroutine. It returns false
// without doing anything if a job is already in flight, so the caller's
// event loop is never blocked and detections never queue up.
func (o *Orchestrator) TryStart() bool {
	if !o.running.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer o.running.Store(false)
		o.run()
	}()
	return true
}

// Active reports whether a filler job is currently in flight.
func (o *Orchestrator) Active() bool {
	return o.running.Load()
}

func (o *Orchestrator) run() {
	if err := o.muter.Mute(); err != nil {
		log.Debug().Err(err).Msg("Mute skipped at filler start")
	}
	// The player must never be left muted, whatever happens below.
	defer func() {
		if err := o.muter.Unmute(); err != nil {
			log.Debug().Err(err).Msg("Unmute skipped at filler end")
		}
	}()

	path, err := o.library.Pick()
	if err != nil {
		log.Warn().Err(err).Str("dir", o.library.Dir()).Msg("No filler audio available")
		return
	}

	log.Info().Str("file", path).Msg("Playing filler audio")
	if err := o.player.Start(path); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Filler playback failed to start")
		return
	}

	o.sleep(o.settle)

	length, err := o.player.Duration()
	if err != nil || length <= 0 {
		log.Warn().Err(err).Dur("length", length).Msg("Filler duration unavailable, stopping")
		if err := o.player.Stop(); err != nil {
			log.Debug().Err(err).Msg("Filler stop failed")
		}
		return
	}

	if length > o.settle {
		o.sleep(length - o.settle)
	}

	if err := o.player.Stop(); err != nil {
		log.Debug().Err(err).Msg("Filler stop failed")
	}

	// The player may have vanished mid-job; a failed resume is logged
	// and otherwise ignored.
	if o.resume != nil {
		if err := o.resume(); err != nil {
			log.Debug().Err(err).Msg("Resume after filler failed")
		}
	}

	log.Info().Msg("Filler playback finished")
}
