package suggest

import (
	"github.com/aloha-chat/queryserve/internal/utils"
)

// streamSuggestions completes a stream name from the subscription
// list, for a stream: fragment or bare text matching a name.
func streamSuggestions(ctx *searchContext, last Term, base []Term) []Suggestion {
	valid := []string{"stream", "search", ""}
	invalid := []criterion{
		crit("stream"),
		crit("streams"),
		critOperand("is", "private"),
		crit("pm-with"),
	}
	if !checkValidity(last, base, valid, invalid) {
		return nil
	}

	verb := ""
	if last.Negated {
		verb = "exclude "
	}
	var out []Suggestion
	for _, name := range ctx.snap.Streams.Matching(last.Operand) {
		term := Term{Operator: "stream", Operand: name, Negated: last.Negated}
		out = append(out, Suggestion{
			SearchString: Unparse([]Term{term}),
			Description:  verb + "stream " + highlightQuery(last.Operand, name),
		})
	}
	return out
}

// topicSuggestions completes a topic from one stream's history. The
// stream comes from the fragment itself, from an earlier stream term,
// or from the stream the client is currently narrowed to. Reading the
// history also queues a server backfill so a repeat of the query sees
// topics beyond what the client has scrolled past.
func topicSuggestions(ctx *searchContext, last Term, base []Term) []Suggestion {
	invalid := []criterion{
		crit("pm-with"),
		critOperand("is", "private"),
		crit("topic"),
	}
	if !checkValidity(last, base, []string{"stream", "topic", "search"}, invalid) {
		return nil
	}

	operator := canonicalizeOperator(last.Operator)
	negated := operator == "topic" && last.Negated

	guess := ""
	streamName := ""
	var scopeTerms []Term

	switch operator {
	case "stream":
		streamName = last.Operand
		scopeTerms = append(scopeTerms, last)
	default:
		guess = last.Operand
		if name, ok := firstOperand(base, "stream"); ok {
			streamName = name
		} else {
			streamName = ctx.snap.CurrentStream
			scopeTerms = append(scopeTerms, Term{Operator: "stream", Operand: streamName})
		}
	}
	if streamName == "" {
		return nil
	}
	streamID, ok := ctx.snap.Streams.StreamID(streamName)
	if !ok {
		return nil
	}

	ctx.snap.Topics.RequestServerHistory(streamID)

	candidates := ctx.snap.Topics.Recent(streamID)
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > ctx.topicCandidateLimit {
		candidates = candidates[:ctx.topicCandidateLimit]
	}

	topics := topicsFromCandidates(candidates, guess, ctx.topicSuggestionLimit)
	out := make([]Suggestion, 0, len(topics))
	for _, topic := range topics {
		terms := append(append([]Term(nil), scopeTerms...), Term{
			Operator: "topic",
			Operand:  topic,
			Negated:  negated,
		})
		out = append(out, formatAsSuggestion(terms))
	}
	return out
}

// TopicSuggestionsFromCandidates narrows recency-ordered topic names
// by a typed fragment. An empty fragment passes the most recent ones
// through; either way the cut-off keeps the list menu-sized.
func TopicSuggestionsFromCandidates(candidates []string, guess string) []string {
	return topicsFromCandidates(candidates, guess, DefaultTopicSuggestionLimit)
}

func topicsFromCandidates(candidates []string, guess string, limit int) []string {
	if guess == "" {
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		return candidates
	}
	var out []string
	for _, topic := range candidates {
		if !utils.PhraseMatch(guess, topic) {
			continue
		}
		out = append(out, topic)
		if len(out) == limit {
			break
		}
	}
	return out
}

// firstOperand finds the first non-negated term with the canonical
// operator and returns its operand.
func firstOperand(terms []Term, operator string) (string, bool) {
	for _, t := range terms {
		if !t.Negated && canonicalizeOperator(t.Operator) == operator {
			return t.Operand, true
		}
	}
	return "", false
}
