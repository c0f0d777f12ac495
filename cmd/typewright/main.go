// Package main is the entry point for the typewright editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/typewright/internal/app"
	"github.com/dshills/typewright/internal/renderer/backend"
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
	opts, scriptPath := parseFlags()
	if scriptPath != "" {
		if len(opts.Files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: -script needs a file argument")
			return 1
		}
		opts.NoSession = true
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	// Batch mode: transform the file with the script and exit without
	// ever owning the terminal.
	if scriptPath != "" {
		printed, err := application.RunBatch(scriptPath)
		for _, line := range printed {
			fmt.Println(line)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	application.SetBackend(term)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.RequestQuit()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		application.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, string) {
	var opts app.Options
	var scriptPath string
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogLevel, "l", "", "Log level (shorthand)")
	flag.StringVar(&scriptPath, "script", "", "Run a Lua script over the file and exit")
	flag.StringVar(&scriptPath, "s", "", "Run a Lua script over the file and exit (shorthand)")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file read-only")
	flag.BoolVar(&opts.ReadOnly, "ro", false, "Open the file read-only (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "typewright - a plain text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: typewright [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  typewright                       Reopen the last file\n")
		fmt.Fprintf(os.Stderr, "  typewright notes.txt             Open a file\n")
		fmt.Fprintf(os.Stderr, "  typewright -s fix.lua notes.txt  Transform a file and exit\n")
		fmt.Fprintf(os.Stderr, "  typewright -ro notes.txt         Open read-only\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("typewright %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.Files = flag.Args()
	return opts, scriptPath
}
