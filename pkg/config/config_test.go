package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloha-chat/queryserve/pkg/suggest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queryserve.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, suggest.DefaultMaxResults, cfg.Search.MaxResults)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.False(t, cfg.Server.RequestLog)
}

func TestLoadPartialFile(t *testing.T) {
	path := writeConfig(t, "[search]\nmax_results = 20\n\n[server]\nlog_level = \"debug\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	// Untouched keys keep their defaults.
	assert.Equal(t, suggest.DefaultPersonLimit, cfg.Search.PersonLimit)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"negative limit", "[search]\nmax_results = -1\n", "must not be negative"},
		{"bad level", "[server]\nlog_level = \"loud\"\n", "unknown log_level"},
		{"bad toml", "[search\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "err = %v", err)
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.MaxResults = 7
	opts := cfg.EngineOptions()
	assert.Equal(t, 7, opts.MaxResults)
	assert.Equal(t, suggest.DefaultTopicCandidateLimit, opts.TopicCandidateLimit)
}
