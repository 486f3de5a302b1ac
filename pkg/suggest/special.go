package suggest

import (
	"strings"

	"github.com/aloha-chat/queryserve/internal/utils"
)

// specialFilter is a fixed catalog entry like streams:public or
// is:starred, with the criteria that make it redundant for a query.
type specialFilter struct {
	searchString string
	description  string
	invalid      []criterion
}

// specialFilterSuggestions filters a catalog against the query. The
// typed fragment can match the suggestion's search string, its operand
// alone, or its description, so "att", "has:att" and "messages with"
// all find has:attachment. A negated fragment flips the catalog to its
// excluding form first.
func specialFilterSuggestions(last Term, base []Term, filters []specialFilter) []Suggestion {
	negatedSearch := last.Operator == "search" && strings.HasPrefix(last.Operand, "-")
	if last.Negated || negatedSearch {
		flipped := make([]specialFilter, len(filters))
		for i, f := range filters {
			flipped[i] = specialFilter{
				searchString: "-" + f.searchString,
				description:  "exclude " + f.description,
				invalid:      f.invalid,
			}
		}
		filters = flipped
	}

	lastString := strings.ToLower(Unparse([]Term{last}))

	var out []Suggestion
	for _, f := range filters {
		if matchCriteria(base, f.invalid) {
			continue
		}
		if lastString != "" {
			operand := f.searchString[strings.Index(f.searchString, ":")+1:]
			operandMatch := last.Operator == "search" &&
				utils.HasPrefixIgnoreCase(operand, lastString)
			if !utils.HasPrefixIgnoreCase(f.searchString, lastString) &&
				!operandMatch &&
				!utils.HasPrefixIgnoreCase(f.description, lastString) {
				continue
			}
		}
		out = append(out, Suggestion{SearchString: f.searchString, Description: f.description})
	}
	return out
}

func streamsFilterSuggestions(_ *searchContext, last Term, base []Term) []Suggestion {
	filters := []specialFilter{
		{
			searchString: "streams:public",
			description:  "all public streams in organization",
			invalid: []criterion{
				critOperand("is", "private"),
				crit("stream"),
				crit("group-pm-with"),
				crit("pm-with"),
				crit("in"),
				crit("streams"),
			},
		},
	}
	return specialFilterSuggestions(last, base, filters)
}

func isFilterSuggestions(_ *searchContext, last Term, base []Term) []Suggestion {
	filters := []specialFilter{
		{
			searchString: "is:private",
			description:  "private messages",
			invalid: []criterion{
				critOperand("is", "private"),
				crit("stream"),
				crit("pm-with"),
				crit("in"),
			},
		},
		{
			searchString: "is:starred",
			description:  "starred messages",
			invalid:      []criterion{critOperand("is", "starred")},
		},
		{
			searchString: "is:mentioned",
			description:  "@-mentions",
			invalid:      []criterion{critOperand("is", "mentioned")},
		},
		{
			searchString: "is:alerted",
			description:  "alerted messages",
			invalid:      []criterion{critOperand("is", "alerted")},
		},
		{
			searchString: "is:unread",
			description:  "unread messages",
			invalid:      []criterion{critOperand("is", "unread")},
		},
		{
			searchString: "is:resolved",
			description:  "topics marked as resolved",
			invalid:      []criterion{critOperand("is", "resolved")},
		},
	}
	return specialFilterSuggestions(last, base, filters)
}

func hasFilterSuggestions(_ *searchContext, last Term, base []Term) []Suggestion {
	filters := []specialFilter{
		{
			searchString: "has:link",
			description:  "messages with one or more link",
			invalid:      []criterion{critOperand("has", "link")},
		},
		{
			searchString: "has:image",
			description:  "messages with one or more image",
			invalid:      []criterion{critOperand("has", "image")},
		},
		{
			searchString: "has:attachment",
			description:  "messages with one or more attachment",
			invalid:      []criterion{critOperand("has", "attachment")},
		},
	}
	return specialFilterSuggestions(last, base, filters)
}

// sentByMeSuggestions completes fragments of "sent", "sender:" and
// "from:" to the client's own address. With both sender and from in
// play, whichever family the fragment leans toward wins.
func sentByMeSuggestions(ctx *searchContext, last Term, base []Term) []Suggestion {
	lastString := strings.ToLower(Unparse([]Term{last}))
	negated := last.Negated || strings.HasPrefix(lastString, "-")

	sign, verb := "", ""
	if negated {
		sign, verb = "-", "exclude "
	}

	senderQuery := sign + "sender:" + ctx.snap.Self.Email
	fromQuery := sign + "from:" + ctx.snap.Self.Email
	senderMeQuery := sign + "sender:me"
	fromMeQuery := sign + "from:me"
	sentString := sign + "sent"
	description := verb + "sent by me"

	if matchCriteria(base, []criterion{crit("sender"), crit("from")}) {
		return nil
	}

	switch {
	case last.Operator == "",
		strings.HasPrefix(senderQuery, lastString),
		strings.HasPrefix(senderMeQuery, lastString),
		strings.HasPrefix(sentString, lastString):
		return []Suggestion{{SearchString: senderQuery, Description: description}}
	case strings.HasPrefix(fromQuery, lastString),
		strings.HasPrefix(fromMeQuery, lastString):
		return []Suggestion{{SearchString: fromQuery, Description: description}}
	}
	return nil
}

// operatorSuggestions completes a bare fragment to an operator stub
// like "stream:". Only free text gets these; a typed operator is
// already past the point of choosing one.
func operatorSuggestions(_ *searchContext, last Term, _ []Term) []Suggestion {
	if last.Operator != "search" {
		return nil
	}
	operand := last.Operand
	negated := false
	if strings.HasPrefix(operand, "-") {
		negated = true
		operand = operand[1:]
	}

	choices := []string{"stream", "topic", "pm-with", "sender", "near", "from", "group-pm-with"}
	var out []Suggestion
	for _, choice := range choices {
		if !utils.PhraseMatch(operand, choice) {
			continue
		}
		out = append(out, formatAsSuggestion([]Term{{Operator: choice, Negated: negated}}))
	}
	return out
}
