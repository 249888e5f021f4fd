package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/config"
	"github.com/five82/swarmwatch/internal/live"
	"github.com/five82/swarmwatch/internal/logging"
	"github.com/five82/swarmwatch/internal/prefs"
	"github.com/five82/swarmwatch/internal/ui"
	"github.com/five82/swarmwatch/internal/version"
)

const probeTimeout = 3 * time.Second

// Options configure the swarmwatch application. Non-empty fields override
// the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/swarmwatch/prefs.toml
	APIURL     string
	LogLevel   string
}

// Run boots swarmwatch until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	client, err := api.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New(level, logFile)
	logger.Info().
		Str("version", version.Version).
		Str("api", client.BaseURL()).
		Msg("swarmwatch starting")

	probe(ctx, client, logger)

	engine := live.New(client, live.Options{Intervals: cfg.Intervals(), Logger: &logger})
	engine.Start(ctx)
	defer engine.Stop()

	err = ui.Run(ctx, ui.Options{
		Stores:    engine.Stores(),
		Peers:     engine,
		Prefs:     prefs.Load(opts.PrefsPath),
		PrefsPath: opts.PrefsPath,
		APIURL:    client.BaseURL(),
		Logger:    &logger,
	})
	logger.Info().Err(err).Msg("swarmwatch stopped")
	return err
}

func resolveConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg, nil
}

// probe logs whether the API answers before the UI takes over the terminal.
// An unreachable API is not fatal: the engine keeps polling and the UI shows
// the error banner.
func probe(ctx context.Context, f api.Fetcher, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	stats, err := f.SessionStats(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("api not reachable yet")
		return
	}
	log.Info().Dur("uptime", stats.Uptime()).Msg("api reachable")
}
