package normalize

import (
	"strings"

	"github.com/ardnew/metaconv/pkg"
	"github.com/ardnew/metaconv/script"
)

// Parse tokenizes and normalizes src. Input that does not tokenize is
// returned as a [*Statement] holding the trimmed source text.
func Parse(src string) Node {
	toks, err := script.Tokenize(src)
	if err != nil {
		return &Statement{Raw: strings.Join(strings.Fields(src), " ")}
	}

	return Tokens(toks)
}

// Text returns the canonical text form of src.
func Text(src string) string { return Parse(src).String() }

// Tokens normalizes a token run holding one or more ';'-separated
// statements into a single node.
func Tokens(toks []script.Token) Node {
	var stmts []Node

	for _, seg := range split(toks, isSemicolon, false) {
		stmts = append(stmts, expr(seg))
	}

	switch len(stmts) {
	case 0:
		return &Statement{}
	case 1:
		return stmts[0]
	}

	return &Sequence{Stmts: stmts}
}

// errors used internally to abandon a run; callers degrade to a Statement.
var (
	errEnd        = pkg.NewError("unexpected end of expression")
	errToken      = pkg.NewError("unexpected token")
	errTrailing   = pkg.NewError("trailing tokens")
	errColon      = pkg.NewError("ternary without matching ':'")
	errEmptyRange = pkg.NewError("empty sub-expression")
)

// expr normalizes one statement or argument. A run containing a top-level
// comma becomes a [*List] of its separately normalized items; a run that
// cannot be folded is returned unmodified.
func expr(toks []script.Token) Node {
	segs := split(toks, isComma, true)

	switch len(segs) {
	case 0:
		return &Statement{Tokens: toks}
	case 1:
	default:
		items := make([]Node, len(segs))
		for i, seg := range segs {
			items[i] = expr(seg)
		}

		return &List{Items: items}
	}

	n, err := run(segs[0])
	if err != nil {
		return &Statement{Tokens: toks}
	}

	return n
}

// strict is expr without the fallback, for sub-expressions whose failure
// must abandon the enclosing run.
func strict(toks []script.Token) (Node, error) {
	segs := split(toks, isComma, true)

	switch len(segs) {
	case 0:
		return nil, errEmptyRange
	case 1:
		return run(segs[0])
	}

	items := make([]Node, len(segs))

	for i, seg := range segs {
		n, err := strict(seg)
		if err != nil {
			return nil, err
		}

		items[i] = n
	}

	return &List{Items: items}, nil
}

// run folds a comma-free token run into a single node.
func run(toks []script.Token) (Node, error) {
	switch ClassifyShape(toks) {
	case ShapeEmpty:
		return nil, errEmptyRange
	case ShapeUnterminatedTernary:
		return nil, errColon
	}

	p := &parser{toks: toks}

	n, err := p.climb(PrecOr)
	if err != nil {
		return nil, err
	}

	if !p.done() {
		return nil, errTrailing
	}

	return n, nil
}

// parser is a cursor over a raw token run. Whitespace and comments are
// skipped by every accessor.
type parser struct {
	toks []script.Token
	pos  int
}

func (p *parser) skip() {
	for p.pos < len(p.toks) && p.toks[p.pos].IsSpace() {
		p.pos++
	}
}

func (p *parser) done() bool {
	p.skip()

	return p.pos >= len(p.toks)
}

func (p *parser) peek() (script.Token, bool) {
	if p.done() {
		return script.Token{}, false
	}

	return p.toks[p.pos], true
}

func (p *parser) next() (script.Token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}

	return t, ok
}

// climb parses operators binding at least as tight as min.
func (p *parser) climb(min int) (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		t, ok := p.peek()
		if !ok || t.Class != script.ClassOperator {
			return left, nil
		}

		op, ok := LookupOperator(t.Content)
		if !ok || op.Prec < min {
			return left, nil
		}

		p.next()

		if t.Content == "?" {
			if left, err = p.ternary(left); err != nil {
				return nil, err
			}

			continue
		}

		next := op.Prec + 1
		if op.Assoc == Right {
			next = op.Prec
		}

		right, err := p.climb(next)
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: t.Content, L: left, R: right}
	}
}

// ternary parses the branches of a conditional whose '?' has just been
// consumed. The true branch runs to the ':' that balances this '?', so
// nested conditionals in the true branch group with their own colons.
func (p *parser) ternary(cond Node) (Node, error) {
	start := p.pos

	end := matchColon(p.toks, start)
	if end < 0 {
		return nil, errColon
	}

	if len(script.Significant(p.toks[start:end])) == 0 {
		return nil, errEmptyRange
	}

	then := expr(p.toks[start:end])
	p.pos = end + 1

	els, err := p.climb(PrecTernary)
	if err != nil {
		return nil, err
	}

	if divides(then) || divides(els) {
		return &GuardedDivision{Cond: cond, Then: then, Else: els}, nil
	}

	return &Ternary{Cond: cond, Then: then, Else: els}, nil
}

// matchColon returns the index of the ':' balancing a '?' that precedes
// toks[start], or -1.
func matchColon(toks []script.Token, start int) int {
	depth := 0

	for i := start; i < len(toks); i++ {
		switch {
		case toks[i].Is("?"):
			depth++
		case toks[i].Is(":"):
			if depth == 0 {
				return i
			}

			depth--
		}
	}

	return -1
}

func divides(n Node) bool {
	return Contains(n, func(x Node) bool {
		b, ok := x.(*Binary)

		return ok && (b.Op == "/" || b.Op == "%")
	})
}

// unary parses prefix operators and then a term.
func (p *parser) unary() (Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, errEnd
	}

	if t.Class != script.ClassOperator {
		return p.term()
	}

	switch t.Content {
	case "-", "+":
		// Emitted directly as a Binary node so that the operand binds
		// tighter than any operator that follows.
		p.next()

		x, err := p.climb(PrecPow)
		if err != nil {
			return nil, err
		}

		return &Binary{Op: t.Content, L: &Number{Text: "0"}, R: x}, nil

	case "!", "~", "\\":
		p.next()

		x, err := p.climb(PrecPow)
		if err != nil {
			return nil, err
		}

		return &Unary{Op: t.Content, X: x}, nil

	case "not":
		p.next()

		x, err := p.climb(PrecNot + 1)
		if err != nil {
			return nil, err
		}

		return &Unary{Op: t.Content, X: x}, nil
	}

	return nil, errToken.With(tokenAttr(t))
}

// term parses a primary expression and any list slice applied to it.
func (p *parser) term() (Node, error) {
	t, _ := p.next()

	switch t.Class {
	case script.ClassNumber:
		return &Number{Text: t.Content}, nil

	case script.ClassString:
		return &String{Quote: *t.Quote}, nil

	case script.ClassVariable:
		return &Variable{Var: *t.Var}, nil

	case script.ClassRegex, script.ClassSubst, script.ClassTranslit:
		return &Pattern{Quote: *t.Quote}, nil

	case script.ClassWord:
		return p.word(t)

	case script.ClassList:
		if !t.IsList("(") {
			break
		}

		var (
			x   Node = &List{}
			err error
		)

		if len(script.Significant(t.Children)) > 0 {
			if x, err = strict(t.Children); err != nil {
				return nil, err
			}
		}

		if s, ok := p.peek(); ok && s.IsList("[") {
			p.next()

			i, err := strict(s.Children)
			if err != nil {
				return nil, err
			}

			return &Index{X: x, I: i}, nil
		}

		// (LIST) x N repeats the list; the parentheses are significant.
		if s, ok := p.peek(); ok && s.Class == script.ClassOperator && s.Content == "x" {
			if _, isList := x.(*List); !isList {
				x = &List{Items: []Node{x}}
			}
		}

		return x, nil
	}

	return nil, errToken.With(tokenAttr(t))
}

// word parses a bareword: a function call with or without parentheses, or
// a plain word.
func (p *parser) word(t script.Token) (Node, error) {
	name := t.Content

	if s, ok := p.peek(); ok && s.IsList("(") {
		p.next()

		var args []Node
		if len(script.Significant(s.Children)) > 0 {
			args = Args(expr(s.Children))
		}

		return &Call{Name: name, Args: args}, nil
	}

	switch {
	case listOperators[name]:
		// A bare list operator takes everything up to the next low
		// precedence logical operator.
		start := p.pos
		end := start

		for end < len(p.toks) && !isLowLogical(p.toks[end]) {
			end++
		}

		p.pos = end

		var args []Node
		for _, seg := range split(p.toks[start:end], isComma, true) {
			args = append(args, expr(seg))
		}

		return &Call{Name: name, Args: args}, nil

	case namedUnary[name]:
		if s, ok := p.peek(); !ok || !startsOperand(s) {
			return &Call{Name: name}, nil
		}

		x, err := p.climb(PrecNamed)
		if err != nil {
			return nil, err
		}

		return &Call{Name: name, Args: []Node{x}}, nil
	}

	return &Word{Name: name}, nil
}

// startsOperand reports whether t can begin a term.
func startsOperand(t script.Token) bool {
	switch t.Class {
	case script.ClassOperator:
		switch t.Content {
		case "-", "+", "!", "~", "\\", "not":
			return true
		}

		return false
	case script.ClassSeparator, script.ClassWhitespace, script.ClassComment:
		return false
	}

	return true
}

func isLowLogical(t script.Token) bool {
	return t.Is("and") || t.Is("or") || t.Is("xor")
}

func isSemicolon(t script.Token) bool { return t.Class == script.ClassSeparator }

func isComma(t script.Token) bool { return t.Is(",") || t.Is("=>") }

// isBareListOp reports whether toks[i] names a list operator written
// without parentheses.
func isBareListOp(toks []script.Token, i int) bool {
	if toks[i].Class != script.ClassWord || !listOperators[toks[i].Content] {
		return false
	}

	for _, t := range toks[i+1:] {
		if !t.IsSpace() {
			return !t.IsList("(")
		}
	}

	return true
}

// split cuts toks at separators, dropping segments with no significant
// tokens. When stopAtListOp is set, separators after the first bare list
// operator belong to that operator's arguments and do not split.
func split(
	toks []script.Token,
	sep func(script.Token) bool,
	stopAtListOp bool,
) [][]script.Token {
	var segs [][]script.Token

	start := 0

	for i := 0; i < len(toks); i++ {
		if stopAtListOp && isBareListOp(toks, i) {
			break
		}

		if sep(toks[i]) {
			segs = appendSegment(segs, toks[start:i])
			start = i + 1
		}
	}

	return appendSegment(segs, toks[start:])
}

func appendSegment(segs [][]script.Token, seg []script.Token) [][]script.Token {
	if len(script.Significant(seg)) == 0 {
		return segs
	}

	return append(segs, seg)
}
