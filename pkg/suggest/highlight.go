package suggest

import (
	"html"
	"strings"

	"github.com/aloha-chat/queryserve/internal/utils"
	"github.com/aloha-chat/queryserve/pkg/directory"
)

// highlightQuery marks why a name matched the typed fragment: each
// word of the name that starts with a piece of the query gets that
// prefix wrapped in <strong>. Everything is HTML escaped on the way
// out, so the result is safe to drop into a menu row.
func highlightQuery(query, name string) string {
	termlets := strings.Fields(strings.ToLower(query))
	words := strings.Split(name, " ")

	out := make([]string, len(words))
	for i, word := range words {
		out[i] = highlightWord(word, termlets)
	}
	return strings.Join(out, " ")
}

func highlightWord(word string, termlets []string) string {
	best := 0
	for _, termlet := range termlets {
		folded := word
		if utils.IsASCIILower(termlet) {
			folded = directory.RemoveDiacritics(folded)
		}
		if n := len([]rune(termlet)); n > best &&
			strings.HasPrefix(strings.ToLower(folded), termlet) {
			best = n
		}
	}
	if best == 0 {
		return html.EscapeString(word)
	}
	runes := []rune(word)
	if best > len(runes) {
		best = len(runes)
	}
	return "<strong>" + html.EscapeString(string(runes[:best])) + "</strong>" +
		html.EscapeString(string(runes[best:]))
}
