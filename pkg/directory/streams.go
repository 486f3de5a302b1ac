package directory

import (
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/aloha-chat/queryserve/internal/utils"
)

// Stream is one channel the client is subscribed to.
type Stream struct {
	StreamID int    `toml:"stream_id"`
	Name     string `toml:"name"`
}

// StreamDirectory indexes subscribed streams by lowercased name.
type StreamDirectory struct {
	streams []Stream
	byName  map[string]Stream
	names   *patricia.Trie
}

func NewStreamDirectory() *StreamDirectory {
	return &StreamDirectory{
		byName: make(map[string]Stream),
		names:  patricia.NewTrie(),
	}
}

// Add registers a subscription. Re-adding a name replaces the entry.
func (d *StreamDirectory) Add(s Stream) {
	key := strings.ToLower(s.Name)
	if _, ok := d.byName[key]; ok {
		d.byName[key] = s
		for i := range d.streams {
			if strings.EqualFold(d.streams[i].Name, s.Name) {
				d.streams[i] = s
				break
			}
		}
		return
	}
	d.streams = append(d.streams, s)
	d.byName[key] = s
	d.names.Insert(patricia.Prefix(key), s.Name)
}

// StreamID resolves a stream name case-insensitively.
func (d *StreamDirectory) StreamID(name string) (int, bool) {
	s, ok := d.byName[strings.ToLower(name)]
	return s.StreamID, ok
}

// Subscribed returns all stream names sorted alphabetically.
func (d *StreamDirectory) Subscribed() []string {
	out := make([]string, 0, len(d.streams))
	for _, s := range d.streams {
		out = append(out, s.Name)
	}
	sort.Strings(out)
	return out
}

// Matching returns subscribed stream names matching the typed fragment,
// sorted alphabetically. A stream matches when its name has the query
// as a prefix, or when the query matches at a word boundary inside the
// name, so "of" finds "office" and "web" finds "web public stream".
func (d *StreamDirectory) Matching(query string) []string {
	if query == "" {
		return d.Subscribed()
	}

	picked := make(map[string]bool)
	_ = d.names.VisitSubtree(patricia.Prefix(strings.ToLower(query)), func(_ patricia.Prefix, item patricia.Item) error {
		picked[item.(string)] = true
		return nil
	})
	for _, s := range d.streams {
		if !picked[s.Name] && utils.PhraseMatch(query, s.Name) {
			picked[s.Name] = true
		}
	}

	out := make([]string, 0, len(picked))
	for name := range picked {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
