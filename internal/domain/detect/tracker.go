package detect

import "sync"

// TrackState is one observed metadata snapshot. States are compared and
// replaced wholesale, never mutated in place.
type TrackState struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	IsAd   bool   `json:"isAd"`
}

// Tracker holds the last two distinct track states and dedupes the
// notification stream. The underlying transport fires the same logical
// change several times per real track change; only the first occurrence
// of a distinct state reports changed=true.
type Tracker struct {
	mu       sync.Mutex
	classify Classifier
	current  TrackState
	previous TrackState
}

// NewTracker creates a tracker using the given classifier.
// A nil classifier falls back to the default signature classifier.
func NewTracker(classify Classifier) *Tracker {
	if classify == nil {
		classify = SignatureClassifier{}
	}
	return &Tracker{classify: classify}
}

// Observe records a metadata event. If the event differs from the current
// state it becomes the new current state, the old current state becomes the
// previous state, and changed is true. Identical consecutive events leave
// both states untouched and report changed=false.
func (t *Tracker) Observe(artist, title string) (changed bool, current, previous TrackState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	candidate := TrackState{
		Artist: artist,
		Title:  title,
		IsAd:   t.classify.IsAd(artist, title),
	}

	if candidate == t.current {
		return false, t.current, t.previous
	}

	t.previous = t.current
	t.current = candidate
	return true, t.current, t.previous
}

// Current returns the most recent distinct state.
func (t *Tracker) Current() TrackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Previous returns the distinct state before the current one.
func (t *Tracker) Previous() TrackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.previous
}
