package coordinator_test

import (
	"testing"

	"adsilencer/internal/domain/coordinator"
	"adsilencer/internal/domain/detect"
)

type fakeMuter struct {
	calls []string
}

func (f *fakeMuter) Mute() error {
	f.calls = append(f.calls, "mute")
	return nil
}

func (f *fakeMuter) Unmute() error {
	f.calls = append(f.calls, "unmute")
	return nil
}

type fakeFiller struct {
	active bool
	starts int
}

func (f *fakeFiller) TryStart() bool {
	if f.active {
		return false
	}
	f.active = true
	f.starts++
	return true
}

func (f *fakeFiller) Active() bool { return f.active }

func TestSimpleModeAdSequence(t *testing.T) {
	muter := &fakeMuter{}
	c := coordinator.New(detect.NewTracker(nil), coordinator.ModeSimple, muter, nil)

	// Duplicate ad events then a real track.
	c.OnMetadata("", "Advertisement")
	c.OnMetadata("", "Advertisement")
	c.OnMetadata("Real Artist", "Real Song")

	want := []string{"mute", "unmute"}
	if len(muter.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, muter.calls)
	}
	for i := range want {
		if muter.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, muter.calls)
		}
	}
}

func TestSimpleModeNoActionBetweenTracks(t *testing.T) {
	muter := &fakeMuter{}
	c := coordinator.New(detect.NewTracker(nil), coordinator.ModeSimple, muter, nil)

	c.OnMetadata("Artist A", "Song A")
	c.OnMetadata("Artist B", "Song B")

	if len(muter.calls) != 0 {
		t.Errorf("expected no mute calls for track-to-track changes, got %v", muter.calls)
	}
}

func TestSimpleModeAdToAdMutesAgain(t *testing.T) {
	muter := &fakeMuter{}
	c := coordinator.New(detect.NewTracker(nil), coordinator.ModeSimple, muter, nil)

	c.OnMetadata("", "Advertisement")
	c.OnMetadata("", "Spotify")

	if len(muter.calls) != 2 || muter.calls[1] != "mute" {
		t.Errorf("expected a mute per distinct ad state, got %v", muter.calls)
	}
}

func TestFillerModeStartsOneJob(t *testing.T) {
	muter := &fakeMuter{}
	job := &fakeFiller{}
	c := coordinator.New(detect.NewTracker(nil), coordinator.ModeFiller, muter, job)

	c.OnMetadata("", "Advertisement")
	c.OnMetadata("", "Advertisement")
	c.OnMetadata("Real Artist", "Real Song")

	if job.starts != 1 {
		t.Errorf("expected exactly 1 filler job, got %d", job.starts)
	}
	// Resume and unmute happen inside the job; the coordinator must not
	// touch the muter in filler mode.
	if len(muter.calls) != 0 {
		t.Errorf("expected no direct muter calls in filler mode, got %v", muter.calls)
	}
}

func TestFillerModeDropsDetectionWhileJobRuns(t *testing.T) {
	job := &fakeFiller{}
	c := coordinator.New(detect.NewTracker(nil), coordinator.ModeFiller, &fakeMuter{}, job)

	c.OnMetadata("", "Advertisement")
	// A distinct ad state while the job is still running.
	c.OnMetadata("", "Spotify")

	if job.starts != 1 {
		t.Errorf("expected the second detection to be dropped, got %d starts", job.starts)
	}
}

func TestStatusSnapshot(t *testing.T) {
	job := &fakeFiller{}
	c := coordinator.New(detect.NewTracker(nil), coordinator.ModeFiller, &fakeMuter{}, job)

	c.OnMetadata("", "Advertisement")

	s := c.StatusSnapshot()
	if s.Mode != "filler" {
		t.Errorf("expected mode filler, got %q", s.Mode)
	}
	if !s.Current.IsAd {
		t.Error("expected current state to be an ad")
	}
	if !s.FillerActive {
		t.Error("expected filler job to be reported active")
	}
}
