// Package main is the entry point for the normkeys input monitor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/normkeys/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var threshold time.Duration
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.DefsPath, "defs", "", "Path to sequence definition file (yaml, toml, or json)")
	flag.StringVar(&opts.DefsPath, "f", "", "Path to sequence definition file (shorthand)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the definition file when it changes")
	flag.StringVar(&opts.Source, "source", app.SourceTerminal, "Capture source (terminal, evdev)")
	flag.StringVar(&opts.Device, "device", "", "Explicit evdev device path (evdev source only)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogPath, "log", "", "Write logs to a file instead of stderr")
	flag.DurationVar(&threshold, "tap-hold", 0, "Tap/hold classification threshold (default 200ms)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "normkeys - keyboard normalization and sequence monitor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: normkeys [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  normkeys                          Monitor with no sequences\n")
		fmt.Fprintf(os.Stderr, "  normkeys -f sequences.yaml        Load sequence definitions\n")
		fmt.Fprintf(os.Stderr, "  normkeys -f seq.yaml -watch       Hot-reload definitions\n")
		fmt.Fprintf(os.Stderr, "  normkeys -source evdev            Read a raw keyboard device\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("normkeys %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.TapHoldThreshold = threshold
	return opts
}
