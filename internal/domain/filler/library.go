// Package filler masks detected ads by playing local audio while the
// monitored player is muted.
package filler

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyLibrary is returned when the filler directory contains no
// playable audio files.
var ErrEmptyLibrary = errors.New("no audio files in filler directory")

// audioExtensions lists the formats the playback backends can decode.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".flac": {},
	".ogg":  {},
	".oga":  {},
}

// Library selects filler audio files from a directory.
type Library struct {
	dir string
}

// NewLibrary creates a library over the given directory. The directory is
// read on every pick so files can be added or removed while running.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Dir returns the configured directory.
func (l *Library) Dir() string {
	return l.dir
}

// Pick returns the absolute path of one audio file chosen uniformly at
// random. Non-audio entries and subdirectories are ignored.
func (l *Library) Pick() (string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", fmt.Errorf("read filler directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := audioExtensions[ext]; ok {
			files = append(files, entry.Name())
		}
	}

	if len(files) == 0 {
		return "", ErrEmptyLibrary
	}

	name := files[rand.Intn(len(files))]
	return filepath.Join(l.dir, name), nil
}
