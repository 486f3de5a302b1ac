package directory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureTOML = `
current_stream = "office"
spectator = false

[self]
user_id = 41
email = "myself@aloha.com"
full_name = "Myself"

[[users]]
user_id = 42
email = "bob@aloha.com"
full_name = "Bob Roberts"

[[streams]]
stream_id = 77
name = "office"

[[topics]]
stream = "office"
entries = [
  { name = "team", max_id = 3 },
  { name = "test", max_id = 9 },
]

[[huddles]]
user_ids = [42, 101]
timestamp = 100
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSnapshot(t *testing.T) {
	snap, err := LoadSnapshot(writeFixture(t, fixtureTOML), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer snap.Topics.Stop()

	if snap.Self.Email != "myself@aloha.com" || snap.CurrentStream != "office" {
		t.Fatalf("snapshot header = %+v", snap.Self)
	}
	if _, ok := snap.Users.ByEmail("bob@aloha.com"); !ok {
		t.Fatal("bob not loaded")
	}
	if _, ok := snap.Users.ByEmail("myself@aloha.com"); !ok {
		t.Fatal("self not in user directory")
	}
	if id, ok := snap.Streams.StreamID("office"); !ok || id != 77 {
		t.Fatalf("StreamID(office) = %d, %v", id, ok)
	}
	if got := snap.Topics.Recent(77); len(got) != 2 || got[0] != "test" {
		t.Fatalf("Recent = %v", got)
	}
	if snap.Huddles.Len() != 1 {
		t.Fatalf("Huddles.Len = %d", snap.Huddles.Len())
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing self", `current_stream = "x"`, "missing [self] email"},
		{
			"unknown topic stream",
			"[self]\nemail = \"me@aloha.com\"\n[[topics]]\nstream = \"ghost\"\n",
			`unknown stream "ghost"`,
		},
		{"bad toml", "[self\n", "decoding snapshot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSnapshot(writeFixture(t, tt.body), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
