package directory

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// snapshotFile mirrors the TOML layout of a directory fixture. The
// interactive shell and the daemon both seed startup state from one.
type snapshotFile struct {
	Self          User         `toml:"self"`
	CurrentStream string       `toml:"current_stream"`
	Spectator     bool         `toml:"spectator"`
	Users         []User       `toml:"users"`
	Streams       []Stream     `toml:"streams"`
	Topics        []topicTOML  `toml:"topics"`
	Huddles       []huddleTOML `toml:"huddles"`
}

type topicTOML struct {
	Stream  string       `toml:"stream"`
	Entries []TopicEntry `toml:"entries"`
}

type huddleTOML struct {
	UserIDs   []int `toml:"user_ids"`
	Timestamp int64 `toml:"timestamp"`
}

// LoadSnapshot reads a TOML directory fixture. Self is always present
// in the user directory even when the users table omits it. Topic
// tables naming an unknown stream are an error so a typo in a fixture
// fails loudly instead of silently dropping history.
func LoadSnapshot(path string, fetcher TopicFetcher) (*Snapshot, error) {
	var file snapshotFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	if file.Self.Email == "" {
		return nil, fmt.Errorf("snapshot %s: missing [self] email", path)
	}

	snap := NewSnapshotWithFetcher(file.Self, fetcher)
	snap.CurrentStream = file.CurrentStream
	snap.Spectator = file.Spectator

	for _, u := range file.Users {
		if u.Email == file.Self.Email {
			continue
		}
		snap.Users.Add(u)
	}
	for _, s := range file.Streams {
		snap.Streams.Add(s)
	}
	for _, t := range file.Topics {
		id, ok := snap.Streams.StreamID(t.Stream)
		if !ok {
			return nil, fmt.Errorf("snapshot %s: topics for unknown stream %q", path, t.Stream)
		}
		for _, e := range t.Entries {
			snap.Topics.Add(id, e.Name, e.MaxID)
		}
	}
	for _, h := range file.Huddles {
		snap.Huddles.Record(h.UserIDs, h.Timestamp)
	}
	return snap, nil
}
