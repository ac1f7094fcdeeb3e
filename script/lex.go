package script

import (
	"log/slog"
	"strings"

	"github.com/ardnew/metaconv/pkg"
)

// Tokenize splits src into a token tree.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{input: src}

	return l.run(0)
}

// lexer holds the tokenizer state.
type lexer struct {
	input string
	pos   int
}

// operators lists operator symbols, longest first so that the first prefix
// match wins.
var operators = []string{
	"<=>", "**=", "||=", "&&=", "//=", "...", "<<=", ">>=",
	"**", "=~", "!~", "==", "!=", "<=", ">=", "&&", "||", "//", "..",
	"->", "=>", "++", "--", "+=", "-=", "*=", "/=", ".=", "%=", "x=",
	"|=", "&=", "^=", "<<", ">>",
	"+", "-", "*", "/", "%", ".", "<", ">", "=", "!", "~", "?", ":", ",",
	"&", "|", "^", "\\",
}

// wordOperators are barewords lexed as operators.
var wordOperators = map[string]bool{
	"eq": true, "ne": true, "lt": true, "gt": true, "le": true, "ge": true,
	"cmp": true, "and": true, "or": true, "xor": true, "not": true, "x": true,
}

// quoteOps are the quote-like operator prefixes.
var quoteOps = map[string]Class{
	"q": ClassString, "qq": ClassString, "qw": ClassString,
	"m": ClassRegex, "s": ClassSubst, "tr": ClassTranslit, "y": ClassTranslit,
}

// termWords are barewords after which an operand is expected, so that a
// following '/' starts a pattern instead of a division.
var termWords = map[string]bool{
	"split": true, "grep": true, "map": true, "join": true, "return": true,
	"if": true, "unless": true, "push": true, "unshift": true,
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}

	return l.input[l.pos]
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

func (l *lexer) errorf(e *pkg.Error, pos int) error {
	return e.With(slog.Int("pos", pos), slog.String("input", l.input))
}

// run scans tokens until close (or EOF when close is 0).
func (l *lexer) run(close byte) ([]Token, error) {
	var toks []Token

	for !l.eof() {
		start := l.pos
		c := l.peek()

		switch {
		case c == close:
			return toks, nil

		case c == ')' || c == ']' || c == '}':
			return nil, l.errorf(ErrUnbalanced, start)

		case isSpace(c):
			for !l.eof() && isSpace(l.peek()) {
				l.pos++
			}

			toks = append(toks, l.leaf(ClassWhitespace, start))

		case c == '#':
			for !l.eof() && l.peek() != '\n' {
				l.pos++
			}

			toks = append(toks, l.leaf(ClassComment, start))

		case c == ';':
			l.pos++
			toks = append(toks, l.leaf(ClassSeparator, start))

		case c == '(' || c == '[' || c == '{':
			l.pos++

			children, err := l.run(closer(c))
			if err != nil {
				return nil, err
			}

			if l.eof() {
				return nil, l.errorf(ErrUnbalanced, start)
			}

			l.pos++

			toks = append(toks, Token{
				Class:    ClassList,
				Content:  string(c),
				Children: children,
				Pos:      start,
				End:      l.pos,
			})

		case c == '$' || c == '@' || (c == '%' && expectsOperand(toks) && isIdentStart(l.peekAt(1))):
			t, err := l.variable()
			if err != nil {
				return nil, err
			}

			toks = append(toks, t)

		case c == '\'' || c == '"':
			t, err := l.quoted("", ClassString, start)
			if err != nil {
				return nil, err
			}

			toks = append(toks, t)

		case c == '/' && expectsOperand(toks):
			t, err := l.quoted("m", ClassRegex, start)
			if err != nil {
				return nil, err
			}

			toks = append(toks, t)

		case isDigit(c) || (c == '.' && isDigit(l.peekAt(1)) && expectsOperand(toks)):
			l.number()
			toks = append(toks, l.leaf(ClassNumber, start))

		case isIdentStart(c):
			t, err := l.word(toks)
			if err != nil {
				return nil, err
			}

			toks = append(toks, t)

		default:
			op := l.operator()
			if op == "" {
				return nil, l.errorf(ErrUnexpected, start)
			}

			toks = append(toks, l.leaf(ClassOperator, start))
		}
	}

	if close != 0 {
		return nil, l.errorf(ErrUnbalanced, len(l.input))
	}

	return toks, nil
}

func (l *lexer) leaf(class Class, start int) Token {
	return Token{
		Class:   class,
		Content: l.input[start:l.pos],
		Pos:     start,
		End:     l.pos,
	}
}

// expectsOperand reports whether the next token must begin an operand,
// judged from the last significant token scanned at this depth.
func expectsOperand(toks []Token) bool {
	for i := len(toks) - 1; i >= 0; i-- {
		t := toks[i]
		if t.IsSpace() {
			continue
		}

		switch t.Class {
		case ClassOperator:
			return t.Content != "++" && t.Content != "--"
		case ClassSeparator:
			return true
		case ClassWord:
			return termWords[t.Content]
		default:
			return false
		}
	}

	return true
}

func (l *lexer) operator() string {
	rest := l.input[l.pos:]

	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)

			return op
		}
	}

	return ""
}

func (l *lexer) number() {
	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.pos += 2
		for !l.eof() && (isHex(l.peek()) || l.peek() == '_') {
			l.pos++
		}

		return
	}

	l.digits()

	// A '.' followed by another '.' is the range operator.
	if l.peek() == '.' && l.peekAt(1) != '.' {
		l.pos++
		l.digits()
	}

	if e := l.peek(); e == 'e' || e == 'E' {
		n := 1
		if s := l.peekAt(1); s == '+' || s == '-' {
			n = 2
		}

		if isDigit(l.peekAt(n)) {
			l.pos += n
			l.digits()
		}
	}
}

func (l *lexer) digits() {
	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.pos++
	}
}

func (l *lexer) ident() string {
	start := l.pos

	for !l.eof() {
		switch {
		case isIdentChar(l.peek()):
			l.pos++
		case l.peek() == ':' && l.peekAt(1) == ':' && isIdentStart(l.peekAt(2)):
			l.pos += 2
		default:
			return l.input[start:l.pos]
		}
	}

	return l.input[start:l.pos]
}

func (l *lexer) word(toks []Token) (Token, error) {
	start := l.pos
	name := l.ident()

	if class, ok := quoteOps[name]; ok && isQuoteDelim(l.peek()) {
		return l.quoted(name, class, start)
	}

	if wordOperators[name] && (name != "x" || !expectsOperand(toks)) {
		return l.leaf(ClassOperator, start), nil
	}

	return l.leaf(ClassWord, start), nil
}

// variable scans a sigil, a name, and any directly attached subscripts.
func (l *lexer) variable() (Token, error) {
	start := l.pos
	v := &Var{Sigil: string(l.peek())}
	l.pos++

	switch {
	case v.Sigil == "$" && l.peek() == '#' && (isIdentStart(l.peekAt(1)) || l.peekAt(1) == '$'):
		v.Sigil = "$#"
		l.pos++
	case v.Sigil == "$" && l.peek() == '$' && isIdentStart(l.peekAt(1)):
		v.Deref = true
		l.pos++
	}

	switch c := l.peek(); {
	case isIdentStart(c):
		v.Name = l.ident()
	case isDigit(c):
		l.digits()
		v.Name = l.input[start+len(v.Sigil) : l.pos]
	case c == '&' || c == '!' || c == '@' || (c == '$' && !v.Deref):
		l.pos++
		v.Name = string(c)
	default:
		return Token{}, l.errorf(ErrUnexpected, l.pos)
	}

	if err := l.subscripts(v); err != nil {
		return Token{}, err
	}

	return Token{
		Class:   ClassVariable,
		Content: l.input[start:l.pos],
		Pos:     start,
		End:     l.pos,
		Var:     v,
	}, nil
}

func (l *lexer) subscripts(v *Var) error {
	for {
		open := l.peek()
		arrow := false

		if open == '-' && l.peekAt(1) == '>' &&
			(l.peekAt(2) == '[' || l.peekAt(2) == '{') {
			arrow, open = true, l.peekAt(2)
		}

		if open != '[' && open != '{' {
			return nil
		}

		if arrow {
			if len(v.Subs) == 0 {
				v.Deref = true
			}

			l.pos += 2
		}

		start := l.pos
		l.pos++

		if _, err := l.run(closer(open)); err != nil {
			return err
		}

		if l.eof() {
			return l.errorf(ErrUnbalanced, start)
		}

		l.pos++

		v.Subs = append(v.Subs, Sub{
			Open: open,
			Key:  compact(l.input[start+1 : l.pos-1]),
		})
	}
}

// quoted scans a quote-like construct whose opening delimiter is at l.pos.
func (l *lexer) quoted(op string, class Class, start int) (Token, error) {
	q := &Quote{Op: op}

	body, open, err := l.delimited()
	if err != nil {
		return Token{}, err
	}

	q.Open, q.Close, q.Body = string(open), string(closer(open)), body

	if class == ClassSubst || class == ClassTranslit {
		if open != closer(open) {
			// Bracketed forms take a second bracketed part: s{a}{b}.
			for !l.eof() && isSpace(l.peek()) {
				l.pos++
			}

			if q.Repl, _, err = l.delimited(); err != nil {
				return Token{}, err
			}
		} else if q.Repl, err = l.until(open); err != nil {
			return Token{}, err
		}
	}

	if class != ClassString {
		flags := l.pos
		for !l.eof() && isAlpha(l.peek()) {
			l.pos++
		}

		q.Flags = l.input[flags:l.pos]
	}

	return Token{
		Class:   class,
		Content: l.input[start:l.pos],
		Pos:     start,
		End:     l.pos,
		Quote:   q,
	}, nil
}

// delimited reads an opening delimiter and the body up to its closer.
func (l *lexer) delimited() (string, byte, error) {
	if l.eof() {
		return "", 0, l.errorf(ErrUnterminated, l.pos)
	}

	open := l.peek()
	l.pos++

	body, err := l.until(open)

	return body, open, err
}

// until reads up to the closer of open, honoring backslash escapes and
// nesting of bracketing delimiters, and consumes the closer.
func (l *lexer) until(open byte) (string, error) {
	start := l.pos
	close := closer(open)
	depth := 0

	for !l.eof() {
		c := l.peek()

		switch {
		case c == '\\':
			l.pos += 2

			continue
		case c == close && depth == 0:
			body := l.input[start:l.pos]
			l.pos++

			return body, nil
		case c == close:
			depth--
		case c == open && open != close:
			depth++
		}

		l.pos++
	}

	return "", l.errorf(ErrUnterminated, start)
}

// compact removes all whitespace outside quotes from a subscript.
func compact(s string) string {
	var sb strings.Builder

	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case isSpace(c):
			continue
		}

		sb.WriteByte(c)
	}

	return sb.String()
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool { return isAlpha(c) || c == '_' }
func isIdentChar(c byte) bool  { return isIdentStart(c) || isDigit(c) }

func isQuoteDelim(c byte) bool {
	return c != 0 && strings.IndexByte(`/{([<|!#~^'"@%+`, c) >= 0
}
