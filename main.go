package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/touch-recorder/internal/config"
	"github.com/iburimskiy/touch-recorder/internal/feedback"
	"github.com/iburimskiy/touch-recorder/internal/game"
	"github.com/iburimskiy/touch-recorder/internal/metrics"
	"github.com/iburimskiy/touch-recorder/internal/recorder"
	"github.com/iburimskiy/touch-recorder/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	prefs, err := config.LoadPreferences(cfg.Preferences)
	if err != nil {
		log.Fatal(ctx, "failed to load preferences", logger.String("path", cfg.Preferences), logger.Error(err))
	}
	if err := prefs.Watch(ctx, log.Named("preferences"), nil); err != nil {
		log.Warn(ctx, "preferences will not be reloaded", logger.Error(err))
	}
	defer prefs.Close()

	m := metrics.NewManager()
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(ctx, cfg.MetricsAddr, m, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
			}
		}()
	}

	var fb recorder.Feedback
	if cfg.Feedback {
		clicker, err := feedback.Start(cfg.FeedbackSound, log.Named("feedback"))
		if err != nil {
			log.Warn(ctx, "touch feedback disabled", logger.String("sound", cfg.FeedbackSound), logger.Error(err))
		} else {
			fb = clicker
		}
	}

	density := float32(ebiten.Monitor().DeviceScaleFactor())
	g := game.New(ctx, game.Options{
		Config:   cfg,
		Settings: prefs,
		Metrics:  m,
		Feedback: fb,
		Logger:   log,
		Density:  density,
	})

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Touch Recorder - H: help, hold Esc: quit")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error(ctx, "game loop failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "session ended",
		logger.String("session", g.Session().ID().String()),
		logger.Int("events", g.Session().Len()))
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Manager, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "starting metrics server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return srv
}
