package utils

import "testing"

func TestPhraseMatch(t *testing.T) {
	tests := []struct {
		query  string
		phrase string
		want   bool
	}{
		{"tes", "test", true},
		{"tes", "stream test", true},
		{"tes", "hostess", false},
		{"TES", "Test", true},
		{"", "anything", true},
		{"web public", "web public stream", true},
		{"public web", "web public stream", false},
	}
	for _, tt := range tests {
		if got := PhraseMatch(tt.query, tt.phrase); got != tt.want {
			t.Errorf("PhraseMatch(%q, %q) = %v", tt.query, tt.phrase, got)
		}
	}
}

func TestIsASCIILower(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abc", true},
		{"", false},
		{"aBc", false},
		{"abc1", false},
		{"té", false},
	}
	for _, tt := range tests {
		if got := IsASCIILower(tt.in); got != tt.want {
			t.Errorf("IsASCIILower(%q) = %v", tt.in, got)
		}
	}
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sent by me", "Sent by me"},
		{"Already", "Already"},
		{"", ""},
		{"über", "Über"},
	}
	for _, tt := range tests {
		if got := CapitalizeFirst(tt.in); got != tt.want {
			t.Errorf("CapitalizeFirst(%q) = %q", tt.in, got)
		}
	}
}

func TestHasPrefixIgnoreCase(t *testing.T) {
	if !HasPrefixIgnoreCase("Stream:Office", "stream:") {
		t.Error("prefix not matched")
	}
	if HasPrefixIgnoreCase("topic:x", "stream:") {
		t.Error("false prefix matched")
	}
}
