// Package main is the entry point for the adsilencer daemon.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"adsilencer/internal/config"
	"adsilencer/internal/domain/binding"
	"adsilencer/internal/domain/coordinator"
	"adsilencer/internal/domain/detect"
	"adsilencer/internal/domain/filler"
	"adsilencer/internal/domain/mute"
	"adsilencer/internal/infra/mpris"
	"adsilencer/internal/infra/playback"
	"adsilencer/internal/infra/pulse"
	"adsilencer/internal/lock"
	"adsilencer/internal/version"
)

func main() {
	// Command line flags
	cfgPath := flag.String("config", "", "Path to TOML config file (optional)")
	player := flag.String("player", "", "MPRIS name of the player to monitor (default spotify)")
	mixerApp := flag.String("mixer-app", "", "Mixer application.name tag of the player's output stream")
	fillerDir := flag.String("filler", "", "Directory with filler audio (enables filler mode)")
	backend := flag.String("backend", "", "Filler playback backend: beep or mpd")
	mpdHost := flag.String("mpd-host", "", "MPD host for the mpd backend")
	mpdPort := flag.Int("mpd-port", 0, "MPD port for the mpd backend")
	mpdPassword := flag.String("mpd-password", "", "MPD password for the mpd backend")
	statusAddr := flag.String("status-addr", "", "Address for the read-only status endpoint (optional)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load config file, then overlay flags on top.
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *cfgPath).Msg("Failed to load config")
	}
	if *player != "" {
		cfg.Player = *player
	}
	if *mixerApp != "" {
		cfg.MixerApp = *mixerApp
	}
	if *fillerDir != "" {
		cfg.FillerDir = *fillerDir
	}
	// The filler directory is also accepted as the single positional argument.
	if cfg.FillerDir == "" && flag.Arg(0) != "" {
		cfg.FillerDir = flag.Arg(0)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *mpdHost != "" {
		cfg.MPDHost = *mpdHost
	}
	if *mpdPort != 0 {
		cfg.MPDPort = *mpdPort
	}
	if *mpdPassword != "" {
		cfg.MPDPassword = *mpdPassword
	}
	if *statusAddr != "" {
		cfg.StatusAddr = *statusAddr
	}
	if *debug || os.Getenv("ADSILENCER_DEBUG") != "" {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	fillerMode := cfg.FillerMode()
	if cfg.FillerDir != "" && !fillerMode {
		log.Warn().Str("dir", cfg.FillerDir).Msg("Filler directory not usable, falling back to mute-only mode")
	}
	mode := coordinator.ModeSimple
	if fillerMode {
		mode = coordinator.ModeFiller
	}

	versionInfo := version.GetInfo()
	log.Info().Msgf("%s", versionInfo.String())
	log.Info().
		Str("player", cfg.Player).
		Str("mixer_app", cfg.MixerApp).
		Str("mode", mode.String()).
		Str("filler_dir", cfg.FillerDir).
		Str("backend", cfg.Backend).
		Bool("debug", cfg.Debug).
		Msg("Configuration")

	// Only one instance may manage the player's mute state.
	lockHandle, ok, err := lock.Acquire(lock.DefaultPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to acquire instance lock")
	}
	if !ok {
		log.Info().Msg("Another adsilencer instance is already running")
		return
	}
	defer lockHandle.Release()

	monitor, err := mpris.Connect(cfg.Player)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to session bus")
	}
	defer monitor.Close()

	mixer := pulse.NewMixer()
	muter := mute.NewController(mixer, cfg.MixerApp)
	tracker := detect.NewTracker(detect.SignatureClassifier{})

	var job coordinator.FillerStarter
	if fillerMode {
		fillerPlayer, err := playback.New(cfg.Backend, cfg.MPDHost, cfg.MPDPort, cfg.MPDPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create playback backend")
		}
		job = filler.NewOrchestrator(
			muter,
			fillerPlayer,
			filler.NewLibrary(cfg.FillerDir),
			monitor.Play,
			filler.WithSettleDelay(cfg.SettleDelay()),
		)
	}

	coord := coordinator.New(tracker, mode, muter, job)
	registry := binding.NewRegistry(cfg.Player, monitor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	if cfg.StatusAddr != "" {
		startStatusServer(ctx, cfg.StatusAddr, coord, registry)
	}

	if err := monitor.Run(ctx, registry, coord); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Player monitor failed")
	}

	log.Info().Msg("Stopped")
}

// startStatusServer serves the read-only observability endpoints.
func startStatusServer(ctx context.Context, addr string, coord *coordinator.Coordinator, registry *binding.Registry) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/api/v1/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(version.GetInfo())
	})

	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		status := struct {
			coordinator.Status
			Bound bool `json:"bound"`
		}{
			Status: coord.StatusSnapshot(),
			Bound:  registry.Bound(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Status endpoint listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Status endpoint error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Status endpoint shutdown error")
		}
	}()
}
