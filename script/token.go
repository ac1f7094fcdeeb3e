package script

//go:generate go tool stringer --linecomment --type Class --output class_string.go

import "strings"

// Class identifies the lexical kind of a [Token].
//
// A separator is ";". Regexes are m// and a bare /.../ where an operand is
// expected; substitutions are s///; transliterations are tr/// and y///.
// Lists are the bracketed groups (...), [...], and {...}.
type Class uint8

// Token classes.
const (
	ClassWhitespace Class = iota // whitespace
	ClassComment                 // comment
	ClassSeparator               // separator
	ClassOperator                // operator
	ClassWord                    // word
	ClassNumber                  // number
	ClassString                  // string
	ClassVariable                // variable
	ClassRegex                   // regex
	ClassSubst                   // substitution
	ClassTranslit                // transliteration
	ClassList                    // list
)

// Token is one node of the generic expression tree.
//
// Leaf tokens have no children and Content holds their exact source text.
// A [ClassList] token holds its opening delimiter in Content and the
// enclosed tokens, in order, in Children.
type Token struct {
	Class    Class
	Content  string
	Children []Token
	Pos, End int // byte offsets into the source

	Quote *Quote // strings, regexes, substitutions, transliterations
	Var   *Var   // variables
}

// Quote holds the parts of a quote-like token.
type Quote struct {
	Op    string // "", "q", "qq", "qw", "m", "s", "tr", or "y"
	Open  string
	Close string
	Body  string // raw, escapes left intact
	Repl  string // replacement part of s/// and tr///
	Flags string
}

// Interpolates reports whether the quoted body is subject to variable
// interpolation.
func (q *Quote) Interpolates() bool {
	switch q.Op {
	case "q", "qw", "tr", "y":
		return false
	case "":
		return q.Open == `"`
	}

	return q.Open != "'"
}

// Var holds the parts of a variable token such as `$val[0]`,
// `$$self{Make}`, or `@val`.
type Var struct {
	Sigil string // "$", "@", "%", or "$#"
	Name  string
	Deref bool // $$name{...} or $name->{...}
	Subs  []Sub
}

// Sub is one subscript of a variable.
type Sub struct {
	Open byte   // '[' or '{'
	Key  string // trimmed subscript text
}

// Text renders the variable in canonical form. Arrow dereferences are
// written in the $$name form.
func (v *Var) Text() string {
	var sb strings.Builder

	sb.WriteString(v.Sigil)

	if v.Deref {
		sb.WriteByte('$')
	}

	sb.WriteString(v.Name)

	for _, s := range v.Subs {
		sb.WriteByte(s.Open)
		sb.WriteString(s.Key)
		sb.WriteByte(closer(s.Open))
	}

	return sb.String()
}

// IsSpace reports whether t carries no meaning: whitespace or a comment.
func (t Token) IsSpace() bool {
	return t.Class == ClassWhitespace || t.Class == ClassComment
}

// Is reports whether t is an operator or separator with the given content.
func (t Token) Is(op string) bool {
	return (t.Class == ClassOperator || t.Class == ClassSeparator) && t.Content == op
}

// IsList reports whether t is a bracketed group opened by open.
func (t Token) IsList(open string) bool {
	return t.Class == ClassList && t.Content == open
}

// Close returns the closing delimiter of a list token.
func (t Token) Close() string {
	if t.Class != ClassList || t.Content == "" {
		return ""
	}

	return string(closer(t.Content[0]))
}

// Text reconstructs t from its tokens with whitespace collapsed: a single
// space wherever the source had whitespace or a comment, nothing where
// tokens touched.
func (t Token) Text() string {
	if t.Class != ClassList {
		return t.Content
	}

	return t.Content + join(t.Children, true) + t.Close()
}

// Join renders a run of tokens the way [Token.Text] renders a list body,
// without leading or trailing space.
func Join(toks []Token) string { return join(toks, false) }

func join(toks []Token, edges bool) string {
	var sb strings.Builder

	gap := false

	for _, t := range toks {
		if t.IsSpace() {
			gap = true

			continue
		}

		if gap && (edges || sb.Len() > 0) {
			sb.WriteByte(' ')
		}

		sb.WriteString(t.Text())

		gap = false
	}

	if gap && edges && sb.Len() > 0 {
		sb.WriteByte(' ')
	}

	return sb.String()
}

// Significant returns toks without whitespace and comment tokens.
func Significant(toks []Token) []Token {
	out := make([]Token, 0, len(toks))

	for _, t := range toks {
		if !t.IsSpace() {
			out = append(out, t)
		}
	}

	return out
}

func closer(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}

	return open
}
