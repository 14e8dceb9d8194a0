// Package playback provides the audio backends used for filler playback.
package playback

import (
	"fmt"
	"time"
)

// Player is the backend contract consumed by the filler orchestrator.
type Player interface {
	Start(path string) error
	Duration() (time.Duration, error)
	Stop() error
}

// New creates the backend selected by name.
func New(backend, mpdHost string, mpdPort int, mpdPassword string) (Player, error) {
	switch backend {
	case "", "beep":
		return NewBeepPlayer(), nil
	case "mpd":
		return NewMPDPlayer(mpdHost, mpdPort, mpdPassword), nil
	default:
		return nil, fmt.Errorf("unknown playback backend %q", backend)
	}
}
