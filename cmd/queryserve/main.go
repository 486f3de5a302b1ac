// Copyright 2026 The QueryServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the search suggestion server and CLI application.

QueryServe completes partially typed search queries for a team chat
client: stream names, topics, people, group conversations and the
fixed message filters (is, has, streams), with negation supported
throughout. It runs either as a MessagePack IPC server for embedding
in a client process, or as an interactive CLI for testing queries by
hand.

The server holds a directory snapshot of users, subscribed streams,
topic history and recent group conversations. The embedding client
seeds it from a TOML snapshot file and keeps it current over the same
IPC stream it queries on.

# Usage

Start the server with a directory snapshot:

	queryserve -data directory.toml

Run in CLI mode for interactive testing:

	queryserve -data directory.toml -c -limit 10

Enable debug logging:

	queryserve -data directory.toml -d

# Configuration

Runtime configuration is a TOML file with search limits and server
settings:

	[search]
	max_results = 50
	person_limit = 15
	topic_candidate_limit = 300
	topic_suggestion_limit = 10

	[server]
	log_level = "info"
	request_log = false

Missing sections fall back to defaults. In server mode the file is
watched and reloaded on change without a restart.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. A
suggestion request carries the committed part of the query separately
from the fragment being typed:

	{"id": 1, "action": "suggest", "base_query": "stream:devel", "query": "topic:"}

The response pairs the ordered completion strings with a lookup table
of descriptions and person metadata:

	{"id": 1, "status": "ok", "result": {"strings": [...], "lookup": {...}}}

Directory updates share the stream, so the client can push state as it
changes:

	{"id": 2, "action": "add_user", "user": {"user_id": 7, "email": "x@y.z", "full_name": "X"}}
	{"id": 3, "action": "set_narrow", "narrow": "devel"}

# Directory Snapshot

The -data flag points at a TOML file describing the client state to
start from:

	current_stream = "office"

	[self]
	user_id = 41
	email = "me@example.com"
	full_name = "Me"

	[[users]]
	user_id = 42
	email = "bob@example.com"
	full_name = "Bob"

	[[streams]]
	stream_id = 77
	name = "office"

Topic history and recent group conversations follow the same layout.

# Command Line Flags

	-data string
	    Path to the TOML directory snapshot
	-config string
	    Path to the TOML config file (default "queryserve.toml")
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return (overrides config)
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/aloha-chat/queryserve/internal/cli"
	"github.com/aloha-chat/queryserve/internal/logger"
	"github.com/aloha-chat/queryserve/pkg/config"
	"github.com/aloha-chat/queryserve/pkg/directory"
	"github.com/aloha-chat/queryserve/pkg/server"
	"github.com/aloha-chat/queryserve/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "queryserve"
	gh      = "https://github.com/aloha-chat/queryserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the packages together and manages the flow; the actual
// behavior lives in suggest, directory, server and cli.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "", "Path to the TOML directory snapshot")
	configPath := flag.String("config", "queryserve.toml", "Path to the TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to return (overrides config)")
	spectator := flag.Bool("spectator", false, "Serve the reduced spectator suggestion set")

	flag.Parse()

	if *showVersion {
		banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		banner.SetStyles(styles)

		banner.Print("")
		banner.Print("[ QueryServe ] Search suggestions for chat clients")
		banner.Print("", "version", Version)
		banner.Print("")
		banner.Print("use -h or --help to see available options")
		banner.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *limit > 0 {
		cfg.Search.MaxResults = *limit
	}
	applyLogLevel(cfg, *debugMode)

	snapshotPath := *dataPath
	if snapshotPath == "" {
		snapshotPath = cfg.Data.SnapshotPath
	}

	var snap *directory.Snapshot
	if snapshotPath != "" {
		snap, err = directory.LoadSnapshot(snapshotPath, nil)
		if err != nil {
			log.Fatalf("Failed to load directory snapshot: %v", err)
		}
		log.Debugf("Loaded snapshot from: %s", snapshotPath)
	} else {
		log.Warn("No directory snapshot specified, starting empty...")
		snap = directory.NewSnapshot(directory.User{})
	}
	if *spectator {
		snap.Spectator = true
	}

	engine := suggest.NewEngine(cfg.EngineOptions())

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", cfg.Search.MaxResults)

		inputHandler := cli.NewInputHandler(engine, snap)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.New(engine, snap, os.Stdin, os.Stdout)
	srv.SetRequestLog(cfg.Server.RequestLog)

	watcher, err := config.WatchFile(*configPath, func(fresh *config.Config) {
		if *limit > 0 {
			fresh.Search.MaxResults = *limit
		}
		srv.SetEngine(suggest.NewEngine(fresh.EngineOptions()))
		srv.SetRequestLog(fresh.Server.RequestLog)
		applyLogLevel(fresh, *debugMode)
	})
	if err != nil {
		log.Warnf("Config watch disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	showStartupInfo(snapshotPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// applyLogLevel maps the config level onto the global logger. Debug
// mode from the flag always wins.
func applyLogLevel(cfg *config.Config, debugMode bool) {
	if debugMode {
		log.SetLevel(log.DebugLevel)
		return
	}
	switch cfg.Server.LogLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" QueryServe ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	if dataPath != "" {
		log.Infof("snapshot: ( %s )", dataPath)
	}
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
