package playback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// The speaker is a process-wide resource and can only be initialized
// once; later files at other sample rates are resampled to match.
var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// BeepPlayer decodes and plays audio files in-process.
type BeepPlayer struct {
	mu       sync.Mutex
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
}

// NewBeepPlayer creates an in-process playback backend.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{}
}

// Start decodes the file and begins playback on the default output.
func (p *BeepPlayer) Start(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLocked()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	streamer, format, err := decode(f, path)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	speakerMu.Lock()
	if !speakerInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond)); err != nil {
			speakerMu.Unlock()
			streamer.Close()
			f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		speakerInitialized = true
		speakerSampleRate = format.SampleRate
	}
	rate := speakerSampleRate
	speakerMu.Unlock()

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	p.file = f
	p.streamer = streamer
	p.format = format

	speaker.Play(out)
	return nil
}

// Duration returns the total length of the current file.
func (p *BeepPlayer) Duration() (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0, fmt.Errorf("no file playing")
	}
	return p.format.SampleRate.D(p.streamer.Len()), nil
}

// Stop halts playback and releases the current file.
func (p *BeepPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	speakerMu.Lock()
	if speakerInitialized {
		speaker.Clear()
	}
	speakerMu.Unlock()

	p.closeLocked()
	return nil
}

func (p *BeepPlayer) closeLocked() {
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
}

func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
}
