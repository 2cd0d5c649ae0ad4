// Package protocol extracts [ACTION:KIND:CATEGORY:CONTENT] directives from
// assistant replies.
//
// KIND and CATEGORY are runs of letters, digits or underscores. CONTENT runs
// up to the first closing bracket and must not be empty. Text that starts
// like a directive but does not complete the grammar is left as literal text.
package protocol

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const directiveOpen = "[ACTION:"

// Token is one span of a reply: either Literal text or a Directive.
type Token interface {
	// Raw returns the exact source text of the span.
	Raw() string
}

type Literal struct {
	Text string
}

func (l Literal) Raw() string { return l.Text }

// Directive is a span matched by the grammar. Kind is upper-cased, Category
// lower-cased and Content trimmed.
type Directive struct {
	Source   string
	Kind     string
	Category string
	Content  string
}

func (d Directive) Raw() string { return d.Source }

// Action returns the action the directive requests. Directives with an
// unrecognized kind report false.
func (d Directive) Action() (Action, bool) {
	kind := ParseKind(d.Kind)
	if kind == KindUnknown {
		return Action{}, false
	}
	return Action{Kind: kind, Category: d.Category, Content: d.Content}, true
}

// Result is a parsed reply.
type Result struct {
	Tokens  []Token
	Display string
	Actions []Action
}

// Tokenize splits text into literal and directive spans. Concatenating the
// Raw text of every token reproduces the input.
func Tokenize(text string) []Token {
	var tokens []Token
	lit := 0
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], directiveOpen)
		if j < 0 {
			break
		}
		start := i + j
		d, end, ok := matchDirective(text, start)
		if !ok {
			i = start + 1
			continue
		}
		if lit < start {
			tokens = append(tokens, Literal{Text: text[lit:start]})
		}
		tokens = append(tokens, d)
		lit, i = end, end
	}
	if lit < len(text) {
		tokens = append(tokens, Literal{Text: text[lit:]})
	}
	return tokens
}

// matchDirective tries the grammar at text[start:], which begins with
// directiveOpen. It returns the directive and the offset just past it.
func matchDirective(text string, start int) (Directive, int, bool) {
	pos := start + len(directiveOpen)

	kind, pos, ok := wordField(text, pos)
	if !ok {
		return Directive{}, 0, false
	}
	category, pos, ok := wordField(text, pos)
	if !ok {
		return Directive{}, 0, false
	}

	closing := strings.IndexByte(text[pos:], ']')
	if closing <= 0 {
		return Directive{}, 0, false
	}
	end := pos + closing + 1
	return Directive{
		Source:   text[start:end],
		Kind:     strings.ToUpper(kind),
		Category: strings.ToLower(category),
		Content:  strings.TrimSpace(text[pos : pos+closing]),
	}, end, true
}

// wordField reads a non-empty run of word characters followed by ':'.
func wordField(text string, pos int) (string, int, bool) {
	begin := pos
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !isWord(r) {
			break
		}
		pos += size
	}
	if pos == begin || pos >= len(text) || text[pos] != ':' {
		return "", 0, false
	}
	return text[begin:pos], pos + 1, true
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Parse tokenizes text and returns the display text with every directive
// removed, plus the requested actions in order. When at least one directive
// was removed the display text is trimmed; text without directives is
// returned unchanged.
func Parse(text string) Result {
	res := Result{Tokens: Tokenize(text)}

	var b strings.Builder
	removed := false
	for _, tok := range res.Tokens {
		switch t := tok.(type) {
		case Literal:
			b.WriteString(t.Text)
		case Directive:
			removed = true
			if a, ok := t.Action(); ok {
				res.Actions = append(res.Actions, a)
			}
		}
	}

	res.Display = b.String()
	if removed {
		res.Display = strings.TrimSpace(res.Display)
	}
	return res
}
