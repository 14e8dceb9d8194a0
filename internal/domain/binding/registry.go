// Package binding tracks whether the monitored player is currently
// reachable and owns the attach/detach lifecycle of its metadata
// subscription.
package binding

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Attacher creates the metadata subscription for the tracked player.
// It is called at most once per appearance.
type Attacher interface {
	Attach(name string) error
}

// Registry tracks the presence of a single named player. At most one
// subscription is live at a time; a new attach is only attempted while
// the player is unbound.
type Registry struct {
	mu     sync.Mutex
	target string
	bound  bool
	attach Attacher
}

// NewRegistry creates a registry for the given player name. The registry
// starts unbound; the player may not be running at startup.
func NewRegistry(target string, attach Attacher) *Registry {
	return &Registry{target: target, attach: attach}
}

// OnAppear handles a player appearing on the bus. Non-matching names are
// ignored. A matching name is subscribed to unless already bound.
func (r *Registry) OnAppear(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name != r.target || r.bound {
		return
	}

	if err := r.attach.Attach(name); err != nil {
		log.Warn().Err(err).Str("player", name).Msg("Failed to attach metadata subscription")
		return
	}

	r.bound = true
	log.Info().Str("player", name).Msg("Player appeared, subscription attached")
}

// OnVanish handles a player disappearing from the bus. Idempotent: a
// vanish for an already-unbound player is a no-op. The registry re-arms
// so the next appearance attaches a fresh subscription.
func (r *Registry) OnVanish(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name != r.target || !r.bound {
		return
	}

	r.bound = false
	log.Info().Str("player", name).Msg("Player vanished, subscription cleared")
}

// Bound reports whether a subscription is currently attached.
func (r *Registry) Bound() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bound
}
