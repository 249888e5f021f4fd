package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/swarmwatch/internal/app"
	"github.com/five82/swarmwatch/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default ~/.config/swarmwatch/config.toml)")
	apiURL := flag.String("api", "", "torrent engine API URL (overrides api_url)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides log_level)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("swarmwatch", version.Version)
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		APIURL:     *apiURL,
		LogLevel:   *logLevel,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "swarmwatch: %v\n", err)
		return 1
	}
	return 0
}
