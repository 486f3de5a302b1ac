package suggest

import (
	"reflect"
	"testing"
)

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []Term
	}{
		{
			name:  "plain text",
			query: "fred",
			want:  []Term{{Operator: "search", Operand: "fred"}},
		},
		{
			name:  "operator with operand",
			query: "stream:devel",
			want:  []Term{{Operator: "stream", Operand: "devel"}},
		},
		{
			name:  "negated operator",
			query: "-is:starred",
			want:  []Term{{Operator: "is", Operand: "starred", Negated: true}},
		},
		{
			name:  "text from everywhere glues into one trailing term",
			query: "foo stream:devel bar",
			want: []Term{
				{Operator: "stream", Operand: "devel"},
				{Operator: "search", Operand: "foo bar"},
			},
		},
		{
			name:  "unknown operator is text",
			query: "bogus:thing",
			want:  []Term{{Operator: "search", Operand: "bogus:thing"}},
		},
		{
			name:  "quoted operand keeps spaces",
			query: `topic:"this is"`,
			want:  []Term{{Operator: "topic", Operand: "this is"}},
		},
		{
			name:  "unterminated quote still parses",
			query: `topic:"this is`,
			want:  []Term{{Operator: "topic", Operand: "this is"}},
		},
		{
			name:  "space after colon tolerated",
			query: "stream: devel",
			want:  []Term{{Operator: "stream", Operand: "devel"}},
		},
		{
			name:  "plus decodes to space outside person operators",
			query: "topic:a+b",
			want:  []Term{{Operator: "topic", Operand: "a b"}},
		},
		{
			name:  "plus survives in person operands",
			query: "sender:a+b@example.com",
			want:  []Term{{Operator: "sender", Operand: "a+b@example.com"}},
		},
		{
			name:  "from is kept literal",
			query: "from:ted@aloha.com",
			want:  []Term{{Operator: "from", Operand: "ted@aloha.com"}},
		},
		{
			name:  "lone colon is text",
			query: ":",
			want:  []Term{{Operator: "search", Operand: ":"}},
		},
		{
			name:  "leading colon is text",
			query: ":foo",
			want:  []Term{{Operator: "search", Operand: ":foo"}},
		},
		{
			name:  "stray colon after a term",
			query: "is:starred :",
			want: []Term{
				{Operator: "is", Operand: "starred"},
				{Operator: "search", Operand: ":"},
			},
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTerms(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTerms(%q) = %#v, want %#v", tt.query, got, tt.want)
			}
		})
	}
}

func TestUnparse(t *testing.T) {
	tests := []struct {
		name  string
		terms []Term
		want  string
	}{
		{
			name:  "search passes through verbatim",
			terms: []Term{{Operator: "search", Operand: "hello world"}},
			want:  "hello world",
		},
		{
			name:  "operand spaces encode as plus",
			terms: []Term{{Operator: "stream", Operand: "dev help"}},
			want:  "stream:dev+help",
		},
		{
			name:  "negation sign",
			terms: []Term{{Operator: "topic", Operand: "x", Negated: true}},
			want:  "-topic:x",
		},
		{
			name: "literal plus and percent escape",
			terms: []Term{
				{Operator: "topic", Operand: "a+b"},
				{Operator: "topic", Operand: "50%"},
			},
			want: "topic:a%2Bb topic:50%25",
		},
		{
			name:  "empty operator passes operand through",
			terms: []Term{{Operand: "raw"}},
			want:  "raw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unparse(tt.terms); got != tt.want {
				t.Errorf("Unparse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseUnparseRoundTrip(t *testing.T) {
	queries := []string{
		"stream:devel topic:compilers llvm",
		"-pm-with:ted@aloha.com",
		"is:starred has:link",
	}
	for _, q := range queries {
		if got := Unparse(ParseTerms(q)); got != q {
			t.Errorf("round trip of %q = %q", q, got)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		terms []Term
		want  string
	}{
		{
			name: "stream and topic collapse",
			terms: []Term{
				{Operator: "stream", Operand: "office"},
				{Operator: "topic", Operand: "team"},
			},
			want: "stream office &gt; team",
		},
		{
			name: "stream topic and more",
			terms: []Term{
				{Operator: "stream", Operand: "office"},
				{Operator: "topic", Operand: "team"},
				{Operator: "search", Operand: "ok"},
			},
			want: "stream office &gt; team, search for ok",
		},
		{
			name:  "negated stream does not collapse",
			terms: []Term{{Operator: "stream", Operand: "office", Negated: true}, {Operator: "topic", Operand: "team"}},
			want:  "exclude stream office, topic team",
		},
		{
			name:  "search term",
			terms: []Term{{Operator: "search", Operand: "fred"}},
			want:  "search for fred",
		},
		{
			name:  "is operand",
			terms: []Term{{Operator: "is", Operand: "starred"}},
			want:  "starred messages",
		},
		{
			name:  "negated is operand",
			terms: []Term{{Operator: "is", Operand: "private", Negated: true}},
			want:  "exclude private messages",
		},
		{
			name:  "invalid is operand",
			terms: []Term{{Operator: "is", Operand: "bogus"}},
			want:  "invalid bogus operand for is operator",
		},
		{
			name:  "has operand",
			terms: []Term{{Operator: "has", Operand: "link"}},
			want:  "messages with one or more link",
		},
		{
			name:  "invalid has operand",
			terms: []Term{{Operator: "has", Operand: "bogus"}},
			want:  "invalid bogus operand for has operator",
		},
		{
			name:  "from reads as sent by",
			terms: []Term{{Operator: "from", Operand: "ted@aloha.com"}},
			want:  "sent by ted@aloha.com",
		},
		{
			name:  "escapes markup",
			terms: []Term{{Operator: "topic", Operand: "<b>"}},
			want:  "topic &lt;b&gt;",
		},
		{
			name:  "no terms",
			terms: nil,
			want:  "all messages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.terms); got != tt.want {
				t.Errorf("Describe(%v) = %q, want %q", tt.terms, got, tt.want)
			}
		})
	}
}

func TestOperatorToPrefix(t *testing.T) {
	if got := operatorToPrefix("from", false); got != "sent by" {
		t.Errorf("operatorToPrefix(from) = %q", got)
	}
	if got := operatorToPrefix("nonsense", false); got != "" {
		t.Errorf("operatorToPrefix(nonsense) = %q, want empty", got)
	}
	if got := operatorToPrefix("near", true); got != "exclude messages around" {
		t.Errorf("operatorToPrefix(-near) = %q", got)
	}
}

func TestHighlightQuery(t *testing.T) {
	tests := []struct {
		query string
		name  string
		want  string
	}{
		{"te", "Ted Smith", "<strong>Te</strong>d Smith"},
		{"te", "Bob Térry", "Bob <strong>Té</strong>rry"},
		{"ted sm", "Ted Smith", "<strong>Ted</strong> <strong>Sm</strong>ith"},
		{"", "Ted Smith", "Ted Smith"},
		{"x", "Ted Smith", "Ted Smith"},
		{"a", "A<b>", "<strong>A</strong>&lt;b&gt;"},
	}
	for _, tt := range tests {
		if got := highlightQuery(tt.query, tt.name); got != tt.want {
			t.Errorf("highlightQuery(%q, %q) = %q, want %q", tt.query, tt.name, got, tt.want)
		}
	}
}
