package suggest

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// Term is one parsed piece of a search query, like `stream:devel` or
// `-is:starred`. Free text collapses into a single term with the
// "search" operator.
type Term struct {
	Operator string
	Operand  string
	Negated  bool
}

// termPattern tokenizes a raw query. A token is an optional
// `operator:` head (a space after the colon is tolerated) followed by
// either a quoted phrase or a bare word.
var termPattern = regexp.MustCompile(`([^\s:]+: ?)?("[^"]+"?|\S+)`)

// ParseTerms splits a raw query into terms. Tokens with no colon,
// quoted tokens, and tokens with an unrecognized operator are all
// plain search text; every piece of search text in the query is glued
// into one trailing "search" term.
func ParseTerms(query string) []Term {
	var terms []Term
	var searchText []string

	for _, token := range termPattern.FindAllString(query, -1) {
		// A leading colon has no operator before it, so the token is
		// plain text.
		idx := strings.Index(token, ":")
		if token[0] == '"' || idx <= 0 {
			searchText = append(searchText, token)
			continue
		}

		operator := token[:idx]
		negated := false
		if operator[0] == '-' {
			negated = true
			operator = operator[1:]
		}
		if operatorToPrefix(operator, negated) == "" {
			// Not an operator we know, so the whole token is search
			// text, colon included.
			searchText = append(searchText, token)
			continue
		}
		terms = append(terms, Term{
			Operator: operator,
			Operand:  decodeOperand(token[idx+1:], operator),
			Negated:  negated,
		})
	}

	if len(searchText) > 0 {
		terms = append(terms, Term{Operator: "search", Operand: strings.Join(searchText, " ")})
	}
	return terms
}

// Unparse renders terms back into query text. Search terms pass
// through verbatim; everything else gets its sign, operator and an
// encoded operand.
func Unparse(terms []Term) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		if t.Operator == "search" || t.Operator == "" {
			parts[i] = t.Operand
			continue
		}
		sign := ""
		if t.Negated {
			sign = "-"
		}
		parts[i] = sign + t.Operator + ":" + encodeOperand(t.Operand)
	}
	return strings.Join(parts, " ")
}

// canonicalizeOperator folds operator aliases. "from" means "sender".
func canonicalizeOperator(operator string) string {
	operator = strings.ToLower(operator)
	if operator == "from" {
		return "sender"
	}
	return operator
}

// encodeOperand makes an operand safe to embed in query text, with
// spaces encoded as "+".
func encodeOperand(operand string) string {
	operand = strings.ReplaceAll(operand, "%", "%25")
	operand = strings.ReplaceAll(operand, "+", "%2B")
	operand = strings.ReplaceAll(operand, " ", "+")
	return strings.ReplaceAll(operand, `"`, "%22")
}

// decodeOperand reverses encodeOperand. Operands of the person
// operators keep "+" literal since it can appear in an email.
func decodeOperand(encoded, operator string) string {
	encoded = strings.ReplaceAll(encoded, `"`, "")
	switch operator {
	case "group-pm-with", "pm-with", "sender", "from":
	default:
		encoded = strings.ReplaceAll(encoded, "+", " ")
	}
	return strings.TrimSpace(robustURIDecode(encoded))
}

// robustURIDecode percent-decodes as much of the string as parses,
// dropping trailing characters of a truncated escape rather than
// failing on text the user is still typing.
func robustURIDecode(s string) string {
	for end := len(s); end > 0; end-- {
		if decoded, err := url.PathUnescape(s[:end]); err == nil {
			return decoded
		}
	}
	return ""
}

// operatorToPrefix gives the human lead-in for an operator's
// description, or "" when the operator is unknown.
func operatorToPrefix(operator string, negated bool) string {
	operator = canonicalizeOperator(operator)
	if operator == "search" {
		if negated {
			return "exclude"
		}
		return "search for"
	}
	verb := ""
	if negated {
		verb = "exclude "
	}
	switch operator {
	case "stream":
		return verb + "stream"
	case "streams":
		return verb + "streams"
	case "near":
		return verb + "messages around"
	case "has":
		return verb + "messages with one or more"
	case "id":
		return verb + "message ID"
	case "topic":
		return verb + "topic"
	case "sender":
		return verb + "sent by"
	case "pm-with":
		return verb + "private messages with"
	case "group-pm-with":
		return verb + "group private messages including"
	case "in":
		return verb + "messages in"
	case "is":
		return verb + "messages that are"
	}
	return ""
}

func describeIsOperand(operand string) string {
	switch operand {
	case "private":
		return "private messages"
	case "starred":
		return "starred messages"
	case "mentioned":
		return "@-mentions"
	case "alerted":
		return "alerted messages"
	case "unread":
		return "unread messages"
	case "resolved":
		return "topics marked as resolved"
	}
	return "invalid " + operand + " operand for is operator"
}

var validHasOperands = map[string]bool{
	"image": true, "images": true,
	"link": true, "links": true,
	"attachment": true, "attachments": true,
}

func describeUnescaped(terms []Term) string {
	if len(terms) == 0 {
		return "all messages"
	}
	var parts []string
	if len(terms) >= 2 &&
		terms[0].Operator == "stream" && !terms[0].Negated &&
		terms[1].Operator == "topic" && !terms[1].Negated {
		parts = append(parts, "stream "+terms[0].Operand+" > "+terms[1].Operand)
		terms = terms[2:]
	}
	for _, t := range terms {
		operator := canonicalizeOperator(t.Operator)
		switch {
		case operator == "is":
			verb := ""
			if t.Negated {
				verb = "exclude "
			}
			parts = append(parts, verb+describeIsOperand(t.Operand))
			continue
		case operator == "has" && !validHasOperands[t.Operand]:
			parts = append(parts, "invalid "+t.Operand+" operand for has operator")
			continue
		}
		if prefix := operatorToPrefix(operator, t.Negated); prefix != "" {
			parts = append(parts, prefix+" "+t.Operand)
		} else {
			parts = append(parts, "unknown operator")
		}
	}
	return strings.Join(parts, ", ")
}

// Describe renders terms as display text, HTML escaped since the
// client drops it into a menu row as markup.
func Describe(terms []Term) string {
	return html.EscapeString(describeUnescaped(terms))
}
