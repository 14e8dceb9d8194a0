package mute_test

import (
	"errors"
	"testing"

	"adsilencer/internal/domain/mute"
)

type fakeMixer struct {
	stream    int
	findErr   error
	setErr    error
	setCalls  []bool
	findCalls int
}

func (f *fakeMixer) FindStream(app string) (int, error) {
	f.findCalls++
	if f.findErr != nil {
		return 0, f.findErr
	}
	return f.stream, nil
}

func (f *fakeMixer) SetMute(stream int, muted bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, muted)
	return nil
}

func TestControllerMuteUnmute(t *testing.T) {
	mixer := &fakeMixer{stream: 42}
	c := mute.NewController(mixer, "spotify")

	if err := c.Mute(); err != nil {
		t.Fatalf("unexpected mute error: %v", err)
	}
	if err := c.Unmute(); err != nil {
		t.Fatalf("unexpected unmute error: %v", err)
	}

	if len(mixer.setCalls) != 2 || mixer.setCalls[0] != true || mixer.setCalls[1] != false {
		t.Errorf("expected set calls [true false], got %v", mixer.setCalls)
	}
}

func TestControllerResolvesStreamEveryCall(t *testing.T) {
	mixer := &fakeMixer{stream: 7}
	c := mute.NewController(mixer, "spotify")

	c.Mute()
	c.Unmute()

	if mixer.findCalls != 2 {
		t.Errorf("expected stream resolution on every call, got %d resolutions", mixer.findCalls)
	}
}

func TestControllerSkipsWhenStreamNotFound(t *testing.T) {
	mixer := &fakeMixer{findErr: errors.New("no sink input")}
	c := mute.NewController(mixer, "spotify")

	if err := c.Mute(); err == nil {
		t.Error("expected a recoverable error when the stream cannot be resolved")
	}
	if len(mixer.setCalls) != 0 {
		t.Errorf("expected no mute command, got %d", len(mixer.setCalls))
	}
}
