package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/live"
)

// Config holds everything swarmwatch reads from config.toml.
type Config struct {
	APIURL   string
	LogFile  string
	LogLevel string

	// Polling cadence in milliseconds; zero keeps the built-in default.
	TorrentListMS  int64
	StatsFastMS    int64
	StatsSlowMS    int64
	StatsErrorMS   int64
	DetailsRetryMS int64
	PeersMS        int64
	SessionMS      int64
	SessionErrorMS int64
}

const (
	defaultConfigPath = "~/.config/swarmwatch/config.toml"
	defaultLogFile    = "~/.local/state/swarmwatch/swarmwatch.log"
	defaultLogLevel   = "info"
)

type rawConfig struct {
	APIURL         string `toml:"api_url"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	TorrentListMS  int64  `toml:"torrent_list_ms"`
	StatsFastMS    int64  `toml:"stats_fast_ms"`
	StatsSlowMS    int64  `toml:"stats_slow_ms"`
	StatsErrorMS   int64  `toml:"stats_error_ms"`
	DetailsRetryMS int64  `toml:"details_retry_ms"`
	PeersMS        int64  `toml:"peers_ms"`
	SessionMS      int64  `toml:"session_ms"`
	SessionErrorMS int64  `toml:"session_error_ms"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:   api.DefaultAPIURL,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
	}
}

// DefaultPath returns the config file consulted when no path is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}

	intervals := []struct {
		key string
		in  int64
		out *int64
	}{
		{"torrent_list_ms", raw.TorrentListMS, &cfg.TorrentListMS},
		{"stats_fast_ms", raw.StatsFastMS, &cfg.StatsFastMS},
		{"stats_slow_ms", raw.StatsSlowMS, &cfg.StatsSlowMS},
		{"stats_error_ms", raw.StatsErrorMS, &cfg.StatsErrorMS},
		{"details_retry_ms", raw.DetailsRetryMS, &cfg.DetailsRetryMS},
		{"peers_ms", raw.PeersMS, &cfg.PeersMS},
		{"session_ms", raw.SessionMS, &cfg.SessionMS},
		{"session_error_ms", raw.SessionErrorMS, &cfg.SessionErrorMS},
	}
	for _, iv := range intervals {
		if iv.in < 0 {
			return Config{}, fmt.Errorf("parse config: %s must not be negative", iv.key)
		}
		*iv.out = iv.in
	}

	return cfg, nil
}

// Intervals converts the configured cadence into engine intervals. Unset
// values are left zero so the engine applies its defaults.
func (c Config) Intervals() live.Intervals {
	ms := func(v int64) time.Duration { return time.Duration(v) * time.Millisecond }
	return live.Intervals{
		TorrentList:  ms(c.TorrentListMS),
		StatsFast:    ms(c.StatsFastMS),
		StatsSlow:    ms(c.StatsSlowMS),
		StatsError:   ms(c.StatsErrorMS),
		DetailsRetry: ms(c.DetailsRetryMS),
		Peers:        ms(c.PeersMS),
		Session:      ms(c.SessionMS),
		SessionError: ms(c.SessionErrorMS),
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
