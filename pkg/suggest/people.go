package suggest

import (
	"sort"
	"strings"

	"github.com/aloha-chat/queryserve/pkg/directory"
)

// personSuggestions builds the generator for one person-flavored
// operator. All four flavors share the cached person match set; what
// differs is which last operators they respond to and how the
// resulting term is spelled.
func personSuggestions(flavor string) generator {
	return func(ctx *searchContext, last Term, base []Term) []Suggestion {
		// A bare is:private reads as the start of a private-message
		// search, so complete it like an empty pm-with.
		if last.Operator == "is" && last.Operand == "private" {
			last = Term{Operator: "pm-with"}
		}

		// from is rare; only complete it once the user commits to it.
		if flavor == "from" && last.Operator != "from" {
			return nil
		}

		valid := []string{"search", flavor}
		invalid := []criterion{crit(flavor), crit("stream")}
		if !checkValidity(last, base, valid, invalid) {
			return nil
		}

		persons := ctx.persons()
		if len(persons) > ctx.personLimit {
			persons = persons[:ctx.personLimit]
		}

		prefix := operatorToPrefix(flavor, last.Negated)
		out := make([]Suggestion, 0, len(persons))
		for _, person := range persons {
			term := Term{Operator: flavor, Operand: person.Email, Negated: last.Negated}
			terms := []Term{term}
			if flavor == "pm-with" && last.Negated {
				// Excluding one person still means searching private
				// messages, so scope the negation to them.
				terms = []Term{{Operator: "is", Operand: "private"}, term}
			}
			out = append(out, Suggestion{
				SearchString: Unparse(terms),
				Description:  prefix,
				IsPerson:     true,
				UserPill:     pillContext(last.Operand, person),
			})
		}
		return out
	}
}

// groupSuggestions extends a comma-separated pm-with operand with the
// next participant. Matching runs only on the fragment after the last
// comma; people already named, and the client's own account, are
// skipped. Candidates completing a conversation that actually happened
// sort before merely alphabetical ones.
func groupSuggestions(ctx *searchContext, last Term, base []Term) []Suggestion {
	if !checkValidity(last, base, []string{"pm-with"}, []criterion{crit("stream")}) {
		return nil
	}
	idx := strings.LastIndex(last.Operand, ",")
	if idx < 0 {
		return nil
	}
	allButLast := last.Operand[:idx]
	lastPart := last.Operand[idx+1:]

	excluded := map[string]bool{ctx.snap.Self.Email: true}
	var fixedIDs []int
	for _, email := range strings.Split(allButLast, ",") {
		excluded[email] = true
		if u, ok := ctx.snap.Users.ByEmail(email); ok {
			fixedIDs = append(fixedIDs, u.UserID)
		}
	}

	var persons []directory.User
	for _, p := range ctx.snap.Users.Matching(lastPart) {
		if !excluded[p.Email] {
			persons = append(persons, p)
		}
	}

	ranks := ctx.snap.Huddles.Ranks()
	unranked := ctx.snap.Huddles.Len() + 1
	rank := func(p directory.User) int {
		ids := append(append([]int(nil), fixedIDs...), p.UserID)
		if r, ok := ranks[directory.HuddleKey(ids)]; ok {
			return r
		}
		return unranked
	}
	sort.SliceStable(persons, func(i, j int) bool {
		return rank(persons[i]) < rank(persons[j])
	})

	if len(persons) > ctx.personLimit {
		persons = persons[:ctx.personLimit]
	}

	prefix := operatorToPrefix("pm-with", last.Negated)
	out := make([]Suggestion, 0, len(persons))
	for _, person := range persons {
		operand := allButLast + "," + person.Email
		term := Term{Operator: "pm-with", Operand: operand, Negated: last.Negated}
		terms := []Term{term}
		if last.Negated {
			terms = []Term{{Operator: "is", Operand: "private"}, term}
		}
		out = append(out, Suggestion{
			SearchString: Unparse(terms),
			Description:  prefix + " " + operand,
			IsPerson:     true,
			UserPill:     pillContext(lastPart, person),
		})
	}
	return out
}

func pillContext(query string, person directory.User) *UserPillContext {
	pill := &UserPillContext{DisplayValue: highlightQuery(query, person.FullName)}
	if person.AvatarURL != "" {
		pill.HasImage = true
		pill.ImgSrc = person.AvatarURL + "?s=50"
	}
	return pill
}
