// Package pulse controls per-application output streams through the
// PulseAudio pactl tool.
package pulse

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrStreamNotFound is returned when no sink input carries the requested
// application name tag.
var ErrStreamNotFound = errors.New("sink input not found")

// Mixer shells out to pactl. Sink-input indexes are transient: PulseAudio
// assigns a new one whenever the application reopens its stream, so
// callers resolve the index before every command.
type Mixer struct {
	run func(args ...string) (string, error)
}

// NewMixer creates a pactl-backed mixer.
func NewMixer() *Mixer {
	return &Mixer{run: runPactl}
}

func runPactl(args ...string) (string, error) {
	out, err := exec.Command("pactl", args...).Output()
	if err != nil {
		return "", fmt.Errorf("pactl %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// FindStream resolves the sink-input index whose application.name matches
// app (case-insensitive).
func (m *Mixer) FindStream(app string) (int, error) {
	out, err := m.run("list", "sink-inputs")
	if err != nil {
		return 0, err
	}
	return parseSinkInputs(out, app)
}

// SetMute mutes or unmutes a single sink input.
func (m *Mixer) SetMute(stream int, muted bool) error {
	value := "0"
	if muted {
		value = "1"
	}

	if _, err := m.run("set-sink-input-mute", strconv.Itoa(stream), value); err != nil {
		return err
	}

	log.Debug().Int("sink_input", stream).Bool("muted", muted).Msg("Sink input mute set")
	return nil
}

// parseSinkInputs scans `pactl list sink-inputs` output for the sink input
// whose application.name property matches app. Blocks look like:
//
//	Sink Input #42
//	        ...
//	        Properties:
//	                application.name = "Spotify"
func parseSinkInputs(out, app string) (int, error) {
	index := -1
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		if rest, ok := strings.CutPrefix(line, "Sink Input #"); ok {
			idx, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				index = -1
				continue
			}
			index = idx
			continue
		}

		if rest, ok := strings.CutPrefix(line, "application.name = "); ok && index >= 0 {
			name := strings.Trim(rest, `"`)
			if strings.EqualFold(name, app) {
				return index, nil
			}
		}
	}

	return 0, fmt.Errorf("%w for application %q", ErrStreamNotFound, app)
}
