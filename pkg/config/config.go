// Package config loads queryserve settings from a TOML file, filling
// anything missing with defaults so a partial or absent file works.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/aloha-chat/queryserve/internal/logger"
	"github.com/aloha-chat/queryserve/pkg/suggest"
)

var log = logger.New("config")

type Config struct {
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
}

// SearchConfig tunes the suggestion engine. Zero values defer to the
// engine's own defaults.
type SearchConfig struct {
	MaxResults           int `toml:"max_results"`
	PersonLimit          int `toml:"person_limit"`
	TopicCandidateLimit  int `toml:"topic_candidate_limit"`
	TopicSuggestionLimit int `toml:"topic_suggestion_limit"`
}

type ServerConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// RequestLog echoes every query and its result count to the log.
	RequestLog bool `toml:"request_log"`
}

type DataConfig struct {
	// SnapshotPath points at a TOML directory snapshot to load at
	// startup. The -data flag overrides it.
	SnapshotPath string `toml:"snapshot_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResults:           suggest.DefaultMaxResults,
			PersonLimit:          suggest.DefaultPersonLimit,
			TopicCandidateLimit:  suggest.DefaultTopicCandidateLimit,
			TopicSuggestionLimit: suggest.DefaultTopicSuggestionLimit,
		},
		Server: ServerConfig{LogLevel: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error,
// just the default configuration; a file that exists but does not
// parse is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug("no config file, using defaults", "path", path)
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	s := c.Search
	if s.MaxResults < 0 || s.PersonLimit < 0 ||
		s.TopicCandidateLimit < 0 || s.TopicSuggestionLimit < 0 {
		return fmt.Errorf("search limits must not be negative")
	}
	switch c.Server.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.Server.LogLevel)
	}
	return nil
}

// EngineOptions maps the search section onto engine options.
func (c *Config) EngineOptions() suggest.Options {
	return suggest.Options{
		MaxResults:           c.Search.MaxResults,
		PersonLimit:          c.Search.PersonLimit,
		TopicCandidateLimit:  c.Search.TopicCandidateLimit,
		TopicSuggestionLimit: c.Search.TopicSuggestionLimit,
	}
}
