package detect_test

import (
	"testing"

	"adsilencer/internal/domain/detect"
)

func TestSignatureClassifier(t *testing.T) {
	tests := []struct {
		name   string
		artist string
		title  string
		want   bool
	}{
		{"advertisement title", "", "Advertisement", true},
		{"spotify title", "", "Spotify", true},
		{"advertisement with artist", "Some Artist", "Advertisement", false},
		{"spotify with artist", "Spotify", "Spotify", false},
		{"regular track", "Real Artist", "Real Song", false},
		{"short ad-like title", "", "Ad", false},
		{"empty both", "", "", false},
		{"lowercase advertisement", "", "advertisement", false},
	}

	c := detect.SignatureClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsAd(tt.artist, tt.title); got != tt.want {
				t.Errorf("IsAd(%q, %q) = %v, want %v", tt.artist, tt.title, got, tt.want)
			}
		})
	}
}
