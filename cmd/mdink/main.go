// Package main is the entry point for the mdink markdown viewer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/mdink/internal/app"
	"github.com/dshills/mdink/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	opts.Logger = logger

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown. SIGINT arrives as Ctrl+C
	// through the terminal while the screen is active; this covers
	// SIGTERM and pre-init interrupts.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Quit()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, error) {
	var (
		configPath  string
		themePath   string
		noImages    bool
		noReload    bool
		logLevel    string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&themePath, "theme", "", "Path to theme file")
	flag.BoolVar(&noImages, "no-images", false, "Disable inline images")
	flag.BoolVar(&noReload, "no-reload", false, "Disable reload on file change")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mdink - terminal markdown viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mdink [options] <file.md>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("mdink %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if configPath == "" {
		configPath = config.Path()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return app.Options{}, err
	}
	if themePath != "" {
		cfg.Theme = themePath
	}
	if noImages {
		cfg.ShowImages = false
	}
	if noReload {
		cfg.Reload = false
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return app.Options{}, err
		}
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return app.Options{}, errors.New("exactly one markdown file expected")
	}

	return app.Options{Path: flag.Arg(0), Config: cfg}, nil
}

// newLogger opens the configured log sink. Logs never go to stderr
// while the terminal UI is active, so no file means no logs.
func newLogger(cfg config.Config) (*app.Logger, func(), error) {
	if cfg.LogFile == "" {
		return app.NewLogger(io.Discard, app.ParseLogLevel(cfg.LogLevel)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
	}
	return app.NewLogger(f, app.ParseLogLevel(cfg.LogLevel)), func() { _ = f.Close() }, nil
}
