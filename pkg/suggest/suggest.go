/*
Package suggest turns a partially typed search query into a ranked list
of completions. Callers hand GetSuggestions the query text plus a
directory.Snapshot of client state; every completion comes back as both
the literal query string to fill in and a display description.

The last term of the query drives everything. Each registered generator
looks at that term, decides whether it applies, and emits candidate
suggestions; earlier terms only veto generators that would contradict
them. Results are deduplicated in generator order and capped.
*/
package suggest

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/aloha-chat/queryserve/internal/logger"
	"github.com/aloha-chat/queryserve/internal/utils"
	"github.com/aloha-chat/queryserve/pkg/directory"
)

// Defaults for Options fields left at zero.
const (
	DefaultMaxResults           = 50
	DefaultPersonLimit          = 15
	DefaultTopicCandidateLimit  = 300
	DefaultTopicSuggestionLimit = 10
)

// UserPillContext carries rendering hints for a person suggestion: the
// name with the matched part wrapped in <strong>, and the avatar.
type UserPillContext struct {
	DisplayValue string `json:"display_value" msgpack:"display_value"`
	HasImage     bool   `json:"has_image" msgpack:"has_image"`
	ImgSrc       string `json:"img_src" msgpack:"img_src"`
}

// Suggestion is one completion. SearchString is the literal query text
// to fill into the search box; Description is HTML for the menu row.
type Suggestion struct {
	SearchString string           `json:"search_string" msgpack:"search_string"`
	Description  string           `json:"description_html" msgpack:"description_html"`
	IsPerson     bool             `json:"is_person,omitempty" msgpack:"is_person,omitempty"`
	UserPill     *UserPillContext `json:"user_pill_context,omitempty" msgpack:"user_pill_context,omitempty"`
}

// Result pairs the ordered completion strings with a lookup table for
// the rest of each suggestion's payload.
type Result struct {
	Strings []string              `json:"strings" msgpack:"strings"`
	Lookup  map[string]Suggestion `json:"lookup" msgpack:"lookup"`
}

// Options tunes an Engine. Zero fields fall back to the defaults above.
type Options struct {
	// MaxResults caps the total number of suggestions per query.
	MaxResults int
	// PersonLimit caps person and group-conversation suggestions.
	PersonLimit int
	// TopicCandidateLimit bounds how deep into a stream's topic
	// history a single query will look.
	TopicCandidateLimit int
	// TopicSuggestionLimit caps topic suggestions per query.
	TopicSuggestionLimit int
}

// Engine produces search suggestions. It is stateless apart from its
// limits, so one Engine can serve concurrent callers.
type Engine struct {
	maxResults           int
	personLimit          int
	topicCandidateLimit  int
	topicSuggestionLimit int
	log                  *log.Logger
}

func NewEngine(opts Options) *Engine {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.PersonLimit <= 0 {
		opts.PersonLimit = DefaultPersonLimit
	}
	if opts.TopicCandidateLimit <= 0 {
		opts.TopicCandidateLimit = DefaultTopicCandidateLimit
	}
	if opts.TopicSuggestionLimit <= 0 {
		opts.TopicSuggestionLimit = DefaultTopicSuggestionLimit
	}
	return &Engine{
		maxResults:           opts.MaxResults,
		personLimit:          opts.PersonLimit,
		topicCandidateLimit:  opts.TopicCandidateLimit,
		topicSuggestionLimit: opts.TopicSuggestionLimit,
		log:                  logger.New("suggest"),
	}
}

// GetSuggestions completes a query. baseQuery holds the already
// committed part of the search (pills in the UI); query is the text
// still being edited. Suggestions complete query, but committed terms
// still scope which generators apply.
func (e *Engine) GetSuggestions(snap *directory.Snapshot, baseQuery, query string) Result {
	suggestions := e.searchResult(snap, baseQuery, query)
	result := finalize(suggestions)
	e.log.Debug("suggestions built", "query", query, "count", len(result.Strings))
	return result
}

var personOperators = map[string]bool{
	"sender": true, "pm-with": true, "from": true, "group-pm-with": true,
}

func (e *Engine) searchResult(snap *directory.Snapshot, baseQuery, query string) []Suggestion {
	searchTerms := ParseTerms(query)
	allTerms := ParseTerms(strings.TrimSpace(baseQuery + " " + query))

	last := Term{}
	if len(searchTerms) > 0 {
		last = searchTerms[len(searchTerms)-1]
	}

	// "sender:ted sm" reads as one half-typed person query, not a
	// person term plus free text, unless the typed operand is already
	// a fully resolved email list.
	if len(searchTerms) > 1 && last.Operator == "search" {
		prev := searchTerms[len(searchTerms)-2]
		if personOperators[prev.Operator] && !snap.Users.ResolveAll(prev.Operand) {
			last = Term{
				Operator: prev.Operator,
				Operand:  prev.Operand + " " + last.Operand,
				Negated:  prev.Negated,
			}
			searchTerms = append(searchTerms[:len(searchTerms)-2], last)
			allTerms = append(allTerms[:len(allTerms)-2], last)
		}
	}

	base := ""
	if len(searchTerms) > 1 {
		base = Unparse(searchTerms[:len(searchTerms)-1])
	}
	var baseContext []Term
	if len(allTerms) > 1 {
		baseContext = allTerms[:len(allTerms)-1]
	}

	att := &attacher{seen: make(map[string]bool), base: base}

	// has and is complete from fixed catalogs, so echoing the raw
	// query back as a default suggestion would be noise there.
	if last.Operator != "has" && last.Operator != "is" {
		att.push(defaultSuggestion(searchTerms))
	}

	ctx := &searchContext{
		snap:                 snap,
		personLimit:          e.personLimit,
		topicCandidateLimit:  e.topicCandidateLimit,
		topicSuggestionLimit: e.topicSuggestionLimit,
	}
	ctx.persons = personsGetter(snap, last)

	for _, gen := range generatorsFor(snap.Spectator) {
		if len(att.result) >= e.maxResults {
			break
		}
		att.attachMany(gen(ctx, last, baseContext))
	}
	if len(att.result) < e.maxResults {
		att.pushMany(subsetSuggestions(allTerms))
	}
	if len(att.result) > e.maxResults {
		att.result = att.result[:e.maxResults]
	}
	return att.result
}

// searchContext is the per-query state shared by the generators. The
// persons getter is computed lazily and cached since up to four person
// flavors can ask for the same match set.
type searchContext struct {
	snap                 *directory.Snapshot
	persons              func() []directory.User
	personLimit          int
	topicCandidateLimit  int
	topicSuggestionLimit int
}

func personsGetter(snap *directory.Snapshot, last Term) func() []directory.User {
	var cached []directory.User
	done := false
	return func() []directory.User {
		if done {
			return cached
		}
		query := last.Operand
		if last.Operator == "is" && last.Operand == "private" {
			query = ""
		}
		cached = snap.Users.Matching(query)
		done = true
		return cached
	}
}

type generator func(ctx *searchContext, last Term, base []Term) []Suggestion

func generatorsFor(spectator bool) []generator {
	if spectator {
		return []generator{
			streamSuggestions,
			topicSuggestions,
			hasFilterSuggestions,
		}
	}
	return []generator{
		streamsFilterSuggestions,
		isFilterSuggestions,
		sentByMeSuggestions,
		streamSuggestions,
		personSuggestions("sender"),
		personSuggestions("pm-with"),
		personSuggestions("from"),
		personSuggestions("group-pm-with"),
		groupSuggestions,
		topicSuggestions,
		operatorSuggestions,
		hasFilterSuggestions,
	}
}

// attacher accumulates suggestions, deduplicating by search string so
// the first generator to produce a string wins. attachMany glues the
// committed base query onto generator output; pushMany does not, which
// is what the trailing subset suggestions need.
type attacher struct {
	result []Suggestion
	seen   map[string]bool
	base   string
}

func (a *attacher) push(s Suggestion) {
	if a.seen[s.SearchString] {
		return
	}
	a.seen[s.SearchString] = true
	a.result = append(a.result, s)
}

func (a *attacher) pushMany(suggestions []Suggestion) {
	for _, s := range suggestions {
		a.push(s)
	}
}

func (a *attacher) attachMany(suggestions []Suggestion) {
	for _, s := range suggestions {
		if a.base != "" {
			s.SearchString = a.base + " " + s.SearchString
		}
		a.push(s)
	}
}

func formatAsSuggestion(terms []Term) Suggestion {
	return Suggestion{SearchString: Unparse(terms), Description: Describe(terms)}
}

// defaultSuggestion echoes the typed query back as its own completion.
func defaultSuggestion(terms []Term) Suggestion {
	if len(terms) == 0 {
		return Suggestion{}
	}
	return formatAsSuggestion(terms)
}

// criterion matches terms by canonical operator, and operand too when
// one is given. Generators list criteria that make them inapplicable
// against the committed part of the query.
type criterion struct {
	operator   string
	operand    string
	hasOperand bool
}

func crit(operator string) criterion {
	return criterion{operator: operator}
}

func critOperand(operator, operand string) criterion {
	return criterion{operator: operator, operand: operand, hasOperand: true}
}

func matchCriteria(terms []Term, criteria []criterion) bool {
	for _, t := range terms {
		operator := canonicalizeOperator(t.Operator)
		for _, c := range criteria {
			if canonicalizeOperator(c.operator) != operator {
				continue
			}
			if !c.hasOperand || c.operand == t.Operand {
				return true
			}
		}
	}
	return false
}

// checkValidity gates a generator: the term being completed must carry
// one of the valid operators, and no committed term may hit an invalid
// criterion.
func checkValidity(last Term, base []Term, valid []string, invalid []criterion) bool {
	ok := false
	for _, v := range valid {
		if last.Operator == v {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	return !matchCriteria(base, invalid)
}

// subsetSuggestions offers progressively shorter prefixes of the full
// query, so a user can back out of an over-narrowed search.
func subsetSuggestions(terms []Term) []Suggestion {
	var out []Suggestion
	for i := len(terms) - 1; i >= 1; i-- {
		out = append(out, formatAsSuggestion(terms[:i]))
	}
	return out
}

func finalize(suggestions []Suggestion) Result {
	result := Result{
		Strings: make([]string, 0, len(suggestions)),
		Lookup:  make(map[string]Suggestion, len(suggestions)),
	}
	for _, s := range suggestions {
		s.Description = utils.CapitalizeFirst(s.Description)
		result.Strings = append(result.Strings, s.SearchString)
		result.Lookup[s.SearchString] = s
	}
	return result
}
