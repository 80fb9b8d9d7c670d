// Package bootstrap provides dependency initialization for the player.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/maauso/asciiplay/internal/config"
	"github.com/maauso/asciiplay/internal/frames"
	"github.com/maauso/asciiplay/internal/input"
	"github.com/maauso/asciiplay/internal/player"
	"github.com/maauso/asciiplay/internal/storage"
	"github.com/maauso/asciiplay/internal/terminal"
)

// Dependencies holds the initialized components shared by the commands.
type Dependencies struct {
	Source storage.Source
	Store  *frames.Store
	Keymap input.Keymap

	cfg    *config.Config
	logger *slog.Logger
}

// Options are per-invocation overrides of the configuration.
type Options struct {
	// FPS overrides the container frame rate when positive.
	FPS float64
	// NoClear disables the clear before the first frame.
	NoClear bool
	// Refresh downloads S3 objects even when they are cached.
	Refresh bool
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger, opts Options) (*Dependencies, error) {
	if logger == nil {
		logger = slog.Default()
	}

	source, err := initStorage(cfg, opts.Refresh, logger)
	if err != nil {
		return nil, err
	}

	keymap := input.DefaultKeymap()
	if err := keymap.Validate(); err != nil {
		return nil, err
	}

	return &Dependencies{
		Source: source,
		Store:  frames.NewStore(source, logger),
		Keymap: keymap,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// NewPlayer creates a player drawing on screen with controls from keys.
// extra options are applied after the configured ones.
func (d *Dependencies) NewPlayer(screen terminal.Screen, keys input.KeyState, opts Options, extra ...player.Option) *player.Player {
	popts := []player.Option{
		player.WithLogger(d.logger),
		player.WithKeymap(d.Keymap),
		player.WithRateOffset(d.cfg.FPSOffset),
		player.WithFrameRate(opts.FPS),
		player.WithClearBefore(d.cfg.ClearBefore && !opts.NoClear),
	}
	return player.New(screen, keys, append(popts, extra...)...)
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, refresh bool, logger *slog.Logger) (storage.Source, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Refresh:         refresh,
		}
		s3Store, err := storage.NewS3Storage(cfg.CacheDir, s3Cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("region", cfg.S3Region),
			slog.String("endpoint", cfg.S3Endpoint),
			slog.String("cache_dir", cfg.CacheDir),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("cache_dir", cfg.CacheDir),
	)
	return localStore, nil
}
