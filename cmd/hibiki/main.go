package main

import (
	"fmt"
	"os"

	"github.com/hibiki-app/hibiki/internal/config"
	"github.com/hibiki-app/hibiki/internal/log"
	"github.com/hibiki-app/hibiki/internal/ui/tui"
	"github.com/hibiki-app/hibiki/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version.GetVersionInfo())
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// It is unrecoverable if we cannot produce an application config
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialise logger
	logger, err := log.New(log.Config{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Set the default global logger
	log.SetDefaultLogger(logger)

	log.Info("Starting up Hibiki", "version", version.GetVersion(), "build_time", version.GetBuildTime())

	if err := tui.Run(cfg); err != nil {
		log.Error("Unhandled error while running TUI", "error", err)
		os.Exit(1)
	}

	log.Info("Hibiki shutting down.  Goodbye!")
}
