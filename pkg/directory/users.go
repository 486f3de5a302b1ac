/*
Package directory holds the read-only state the suggestion engine
completes against: active users, subscribed streams, per-stream topic
history and group-conversation recency. A Snapshot of these is passed
into every suggestion call; the engine itself keeps no directory state.
*/
package directory

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/aloha-chat/queryserve/internal/utils"
)

// User is one active account in the realm.
type User struct {
	UserID    int    `toml:"user_id"`
	Email     string `toml:"email"`
	FullName  string `toml:"full_name"`
	AvatarURL string `toml:"avatar_url"`
}

// UserDirectory indexes active users for prefix and name-word matching.
// Emails sit in a patricia trie for the prefix half; name-word matching
// scans, since any word of a full name can match.
type UserDirectory struct {
	users   []User
	byEmail map[string]User
	emails  *patricia.Trie
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		byEmail: make(map[string]User),
		emails:  patricia.NewTrie(),
	}
}

// Add registers an active user. Re-adding an email keeps both entries
// for matching but the newest wins exact-email resolution.
func (d *UserDirectory) Add(u User) {
	idx := len(d.users)
	d.users = append(d.users, u)

	key := strings.ToLower(u.Email)
	d.byEmail[key] = u

	prefix := patricia.Prefix(key)
	if item := d.emails.Get(prefix); item != nil {
		d.emails.Set(prefix, append(item.([]int), idx))
	} else {
		d.emails.Insert(prefix, []int{idx})
	}
}

// ByEmail resolves a canonical identity, case-insensitively.
func (d *UserDirectory) ByEmail(email string) (User, bool) {
	u, ok := d.byEmail[strings.ToLower(email)]
	return u, ok
}

// ResolveAll reports whether every comma-separated part of operand is
// the email of a known user. An empty operand does not resolve.
func (d *UserDirectory) ResolveAll(operand string) bool {
	if operand == "" {
		return false
	}
	for _, part := range strings.Split(operand, ",") {
		if _, ok := d.ByEmail(strings.TrimSpace(part)); !ok {
			return false
		}
	}
	return true
}

// Matching returns the users matching the typed fragment, ordered by
// email. A user matches when their email starts with the query, or when
// every whitespace-separated piece of the query is a prefix of some
// word of their full name. ASCII queries match accented names.
func (d *UserDirectory) Matching(query string) []User {
	query = strings.ToLower(strings.TrimSpace(query))

	picked := make(map[int]bool)

	if query != "" {
		_ = d.emails.VisitSubtree(patricia.Prefix(query), func(_ patricia.Prefix, item patricia.Item) error {
			for _, idx := range item.([]int) {
				picked[idx] = true
			}
			return nil
		})
	}

	termlets := strings.Fields(query)
	for idx, u := range d.users {
		if picked[idx] {
			continue
		}
		if matchesName(u.FullName, termlets) {
			picked[idx] = true
		}
	}

	out := make([]User, 0, len(picked))
	for idx := range picked {
		out = append(out, d.users[idx])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Email != out[j].Email {
			return out[i].Email < out[j].Email
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// matchesName checks that each termlet is a prefix of some word of the
// full name. Every termlet must land somewhere, so "ted sm" matches
// "Ted Smith" but "ted x" does not.
func matchesName(fullName string, termlets []string) bool {
	if len(termlets) == 0 {
		return true
	}
	for _, termlet := range termlets {
		name := fullName
		// Only fold diacritics for plain ascii queries, so accented
		// queries still demand an exact accent match.
		if utils.IsASCIILower(termlet) {
			name = RemoveDiacritics(name)
		}
		found := false
		for _, word := range strings.Split(strings.ToLower(name), " ") {
			if strings.HasPrefix(word, termlet) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoveDiacritics folds accented characters to their base form, so
// "Térry" matches a plain "te" query.
func RemoveDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}
