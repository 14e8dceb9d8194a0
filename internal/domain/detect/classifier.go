// Package detect provides ad classification and track state tracking
// for the monitored player's metadata stream.
package detect

// Classifier decides whether a metadata snapshot is an advertisement.
type Classifier interface {
	IsAd(artist, title string) bool
}

// SignatureClassifier matches the empirically observed ad signature:
// an empty artist combined with a title of "Advertisement" or "Spotify".
// This is not a documented protocol contract; the signature may need
// refinement if the player changes how it reports interstitials.
type SignatureClassifier struct{}

// IsAd reports whether the given metadata matches the ad signature.
func (SignatureClassifier) IsAd(artist, title string) bool {
	return artist == "" && (title == "Advertisement" || title == "Spotify")
}
