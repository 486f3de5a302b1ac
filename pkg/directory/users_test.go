package directory

import (
	"reflect"
	"testing"
)

func testUsers() *UserDirectory {
	d := NewUserDirectory()
	d.Add(User{UserID: 41, Email: "myself@aloha.com", FullName: "Me Myself"})
	d.Add(User{UserID: 42, Email: "bob@aloha.com", FullName: "Bob Roberts"})
	d.Add(User{UserID: 101, Email: "ted@aloha.com", FullName: "Ted Smith"})
	d.Add(User{UserID: 102, Email: "alice@aloha.com", FullName: "Alice Ignore"})
	return d
}

func emails(users []User) []string {
	if len(users) == 0 {
		return nil
	}
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Email
	}
	return out
}

func TestMatching(t *testing.T) {
	d := testUsers()
	d.Add(User{UserID: 202, Email: "cecile@aloha.com", FullName: "Cécile Térry"})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty matches everyone", "", []string{
			"alice@aloha.com", "bob@aloha.com", "cecile@aloha.com",
			"myself@aloha.com", "ted@aloha.com",
		}},
		{"email prefix", "ted@", []string{"ted@aloha.com"}},
		{"name word prefix", "smith", []string{"ted@aloha.com"}},
		{"every termlet must land", "ted sm", []string{"ted@aloha.com"}},
		{"termlet miss rejects", "ted x", nil},
		{"case folds", "TED", []string{"ted@aloha.com"}},
		{"ascii query crosses accents", "terry", []string{"cecile@aloha.com"}},
		{"accented query demands accents", "té", []string{"cecile@aloha.com"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emails(d.Matching(tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Matching(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestByEmail(t *testing.T) {
	d := testUsers()

	u, ok := d.ByEmail("TED@aloha.com")
	if !ok || u.UserID != 101 {
		t.Fatalf("ByEmail(TED@aloha.com) = %v, %v", u, ok)
	}

	// Re-adding an email: newest wins resolution.
	d.Add(User{UserID: 201, Email: "ted@aloha.com", FullName: "Ted Smith"})
	u, _ = d.ByEmail("ted@aloha.com")
	if u.UserID != 201 {
		t.Errorf("ByEmail after re-add = %d, want 201", u.UserID)
	}

	if _, ok := d.ByEmail("nobody@aloha.com"); ok {
		t.Error("ByEmail(nobody) should miss")
	}
}

func TestResolveAll(t *testing.T) {
	d := testUsers()

	tests := []struct {
		operand string
		want    bool
	}{
		{"ted@aloha.com", true},
		{"ted@aloha.com,bob@aloha.com", true},
		{"ted@aloha.com,stranger@aloha.com", false},
		{"ted", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := d.ResolveAll(tt.operand); got != tt.want {
			t.Errorf("ResolveAll(%q) = %v, want %v", tt.operand, got, tt.want)
		}
	}
}

func TestRemoveDiacritics(t *testing.T) {
	if got := RemoveDiacritics("Térry"); got != "Terry" {
		t.Errorf("RemoveDiacritics = %q, want Terry", got)
	}
	if got := RemoveDiacritics("plain"); got != "plain" {
		t.Errorf("RemoveDiacritics(plain) = %q", got)
	}
}
