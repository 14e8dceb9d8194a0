package pulse

import (
	"errors"
	"testing"
)

const sampleOutput = `Sink Input #12
	Driver: protocol-native.c
	Owner Module: 9
	Client: 34
	Sink: 0
	Properties:
		application.name = "Firefox"
		application.process.binary = "firefox"

Sink Input #57
	Driver: protocol-native.c
	Owner Module: 9
	Client: 41
	Sink: 0
	Properties:
		media.name = "Playback"
		application.name = "Spotify"
		application.process.binary = "spotify"
`

func TestParseSinkInputs(t *testing.T) {
	tests := []struct {
		name    string
		app     string
		want    int
		wantErr bool
	}{
		{"exact match", "Spotify", 57, false},
		{"case insensitive", "spotify", 57, false},
		{"first block", "Firefox", 12, false},
		{"missing app", "vlc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSinkInputs(sampleOutput, tt.app)
			if tt.wantErr {
				if !errors.Is(err, ErrStreamNotFound) {
					t.Fatalf("expected ErrStreamNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected sink input %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseSinkInputsEmptyOutput(t *testing.T) {
	if _, err := parseSinkInputs("", "spotify"); !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound, got %v", err)
	}
}

func TestMixerSetMuteArguments(t *testing.T) {
	var got [][]string
	m := &Mixer{run: func(args ...string) (string, error) {
		got = append(got, args)
		return "", nil
	}}

	if err := m.SetMute(57, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetMute(57, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{
		{"set-sink-input-mute", "57", "1"},
		{"set-sink-input-mute", "57", "0"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(got))
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("command %d: expected %v, got %v", i, want[i], got[i])
			}
		}
	}
}
