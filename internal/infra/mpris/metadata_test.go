package mpris

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestMetadataFields(t *testing.T) {
	tests := []struct {
		name       string
		meta       map[string]dbus.Variant
		wantArtist string
		wantTitle  string
	}{
		{
			name: "artist list",
			meta: map[string]dbus.Variant{
				"xesam:artist": dbus.MakeVariant([]string{"Real Artist", "Feature"}),
				"xesam:title":  dbus.MakeVariant("Real Song"),
			},
			wantArtist: "Real Artist",
			wantTitle:  "Real Song",
		},
		{
			name: "artist plain string",
			meta: map[string]dbus.Variant{
				"xesam:artist": dbus.MakeVariant("Solo"),
				"xesam:title":  dbus.MakeVariant("Track"),
			},
			wantArtist: "Solo",
			wantTitle:  "Track",
		},
		{
			name: "ad signature",
			meta: map[string]dbus.Variant{
				"xesam:artist": dbus.MakeVariant([]string{}),
				"xesam:title":  dbus.MakeVariant("Advertisement"),
			},
			wantArtist: "",
			wantTitle:  "Advertisement",
		},
		{
			name:       "missing fields",
			meta:       map[string]dbus.Variant{},
			wantArtist: "",
			wantTitle:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, title := metadataFields(tt.meta)
			if artist != tt.wantArtist {
				t.Errorf("expected artist %q, got %q", tt.wantArtist, artist)
			}
			if title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, title)
			}
		})
	}
}
