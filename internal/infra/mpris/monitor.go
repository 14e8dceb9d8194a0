// Package mpris watches one MPRIS media player over the D-Bus session
// bus: presence of the player's bus name, metadata change notifications,
// and playback commands.
package mpris

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

const (
	busNamePrefix   = "org.mpris.MediaPlayer2."
	objectPath      = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	playerInterface = "org.mpris.MediaPlayer2.Player"

	propertiesInterface = "org.freedesktop.DBus.Properties"
	propertiesChanged   = propertiesInterface + ".PropertiesChanged"
	nameOwnerChanged    = "org.freedesktop.DBus.NameOwnerChanged"
)

// Handler receives metadata events. Calls arrive on the monitor's event
// goroutine in bus delivery order.
type Handler interface {
	OnMetadata(artist, title string)
}

// Presence tracks whether the target player is bound. Implemented by the
// binding registry.
type Presence interface {
	OnAppear(name string)
	OnVanish(name string)
	Bound() bool
}

// Monitor owns the D-Bus connection and the signal loop.
type Monitor struct {
	conn   *dbus.Conn
	target string
}

// Connect opens the session bus and creates a monitor for the given
// player name (the short MPRIS name, e.g. "spotify").
func Connect(target string) (*Monitor, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	log.Info().Str("player", target).Msg("Connected to session bus")
	return &Monitor{conn: conn, target: target}, nil
}

// Close tears down the bus connection.
func (m *Monitor) Close() error {
	return m.conn.Close()
}

// Attach subscribes to the player's PropertiesChanged signals. Implements
// the binding registry's Attacher.
func (m *Monitor) Attach(name string) error {
	err := m.conn.AddMatchSignal(
		dbus.WithMatchSender(busNamePrefix+name),
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember("PropertiesChanged"),
	)
	if err != nil {
		return fmt.Errorf("add match for %s: %w", name, err)
	}
	return nil
}

func (m *Monitor) detach(name string) {
	err := m.conn.RemoveMatchSignal(
		dbus.WithMatchSender(busNamePrefix+name),
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember("PropertiesChanged"),
	)
	if err != nil {
		log.Debug().Err(err).Str("player", name).Msg("Remove match failed")
	}
}

// Play resumes the player. Fails softly when the player is gone.
func (m *Monitor) Play() error {
	return m.call("Play")
}

// Pause pauses the player.
func (m *Monitor) Pause() error {
	return m.call("Pause")
}

func (m *Monitor) call(method string) error {
	obj := m.conn.Object(busNamePrefix+m.target, objectPath)
	if call := obj.Call(playerInterface+"."+method, 0); call.Err != nil {
		return fmt.Errorf("%s %s: %w", method, m.target, call.Err)
	}
	return nil
}

// Run drives the signal loop until ctx is cancelled. All presence and
// metadata callbacks are made from this goroutine, preserving the bus's
// per-subscription delivery order.
func (m *Monitor) Run(ctx context.Context, presence Presence, handler Handler) error {
	err := m.conn.AddMatchSignal(
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	)
	if err != nil {
		return fmt.Errorf("add NameOwnerChanged match: %w", err)
	}

	// The player may already be running.
	var names []string
	if err := m.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return fmt.Errorf("list bus names: %w", err)
	}
	for _, name := range names {
		if short, ok := strings.CutPrefix(name, busNamePrefix); ok {
			presence.OnAppear(short)
		}
	}

	signals := make(chan *dbus.Signal, 64)
	m.conn.Signal(signals)
	defer m.conn.RemoveSignal(signals)

	log.Info().Str("player", m.target).Msg("Player monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Player monitor stopped")
			return ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				log.Warn().Msg("Signal channel closed")
				return nil
			}
			m.dispatch(sig, presence, handler)
		}
	}
}

func (m *Monitor) dispatch(sig *dbus.Signal, presence Presence, handler Handler) {
	switch sig.Name {
	case nameOwnerChanged:
		m.onNameOwnerChanged(sig, presence)
	case propertiesChanged:
		m.onPropertiesChanged(sig, presence, handler)
	}
}

func (m *Monitor) onNameOwnerChanged(sig *dbus.Signal, presence Presence) {
	if len(sig.Body) < 3 {
		return
	}
	name, _ := sig.Body[0].(string)
	newOwner, _ := sig.Body[2].(string)

	short, ok := strings.CutPrefix(name, busNamePrefix)
	if !ok {
		return
	}

	if newOwner != "" {
		presence.OnAppear(short)
		return
	}

	if short == m.target {
		m.detach(short)
	}
	presence.OnVanish(short)
}

func (m *Monitor) onPropertiesChanged(sig *dbus.Signal, presence Presence, handler Handler) {
	if !presence.Bound() || len(sig.Body) < 2 {
		return
	}

	iface, _ := sig.Body[0].(string)
	if iface != playerInterface {
		return
	}

	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}
	metaVariant, ok := changed["Metadata"]
	if !ok {
		return
	}
	meta, ok := metaVariant.Value().(map[string]dbus.Variant)
	if !ok {
		return
	}

	artist, title := metadataFields(meta)
	handler.OnMetadata(artist, title)
}

// metadataFields extracts the artist and title from an MPRIS metadata
// map. xesam:artist is a string list on most players but a few report a
// plain string.
func metadataFields(meta map[string]dbus.Variant) (artist, title string) {
	if v, ok := meta["xesam:title"]; ok {
		title = firstString(v.Value())
	}
	if v, ok := meta["xesam:artist"]; ok {
		artist = firstString(v.Value())
	}
	return artist, title
}

func firstString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
