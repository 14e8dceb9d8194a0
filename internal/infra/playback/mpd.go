package playback

import (
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog/log"
)

// MPDPlayer drives a local MPD instance for filler playback. Useful on
// headless boxes that already run MPD for the system's own audio.
// MPD reports a zero duration until its decoder has primed the stream,
// which is why the orchestrator waits a settle delay before asking.
type MPDPlayer struct {
	mu       sync.Mutex
	client   *mpd.Client
	host     string
	port     int
	password string
}

// NewMPDPlayer creates an MPD-backed playback client. The connection is
// established lazily and re-established when lost.
func NewMPDPlayer(host string, port int, password string) *MPDPlayer {
	return &MPDPlayer{host: host, port: port, password: password}
}

func (p *MPDPlayer) connectLocked() error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	log.Info().Str("addr", addr).Msg("Connecting to MPD")

	client, err := mpd.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to MPD: %w", err)
	}

	if p.password != "" {
		if err := client.Command("password %s", p.password).OK(); err != nil {
			client.Close()
			return fmt.Errorf("MPD authentication failed: %w", err)
		}
	}

	p.client = client
	return nil
}

func (p *MPDPlayer) ensureConnectedLocked() error {
	if p.client == nil {
		return p.connectLocked()
	}

	if err := p.client.Ping(); err != nil {
		log.Warn().Err(err).Msg("MPD connection lost, reconnecting")
		p.client.Close()
		p.client = nil
		return p.connectLocked()
	}

	return nil
}

// Start replaces the MPD queue with the given file and plays it.
func (p *MPDPlayer) Start(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnectedLocked(); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	if err := p.client.Clear(); err != nil {
		return fmt.Errorf("clear MPD queue: %w", err)
	}
	if err := p.client.Add("file://" + abs); err != nil {
		return fmt.Errorf("add %s to MPD queue: %w", abs, err)
	}
	if err := p.client.Play(-1); err != nil {
		return fmt.Errorf("start MPD playback: %w", err)
	}

	return nil
}

// Duration reports the total length of the current song from MPD status.
func (p *MPDPlayer) Duration() (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnectedLocked(); err != nil {
		return 0, err
	}

	status, err := p.client.Status()
	if err != nil {
		return 0, fmt.Errorf("MPD status: %w", err)
	}

	seconds, err := strconv.ParseFloat(status["duration"], 64)
	if err != nil {
		return 0, nil
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Stop halts playback and clears the queue.
func (p *MPDPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnectedLocked(); err != nil {
		return err
	}

	if err := p.client.Stop(); err != nil {
		return fmt.Errorf("stop MPD playback: %w", err)
	}
	if err := p.client.Clear(); err != nil {
		return fmt.Errorf("clear MPD queue: %w", err)
	}
	return nil
}

// Close shuts down the MPD connection.
func (p *MPDPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		err := p.client.Close()
		p.client = nil
		return err
	}
	return nil
}
