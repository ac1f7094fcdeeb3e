package normalize

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import "github.com/ardnew/metaconv/script"

// Kind identifies the variant of a [Node].
type Kind uint8

// Node kinds.
const (
	KindStatement Kind = iota // Statement
	KindSequence              // Sequence
	KindList                  // ExprList
	KindBinary                // BinaryOperation
	KindTernary               // TernaryOperation
	KindGuardedDivision       // GuardedDivision
	KindUnary                 // UnaryOperation
	KindCall                  // FunctionCall
	KindIndex                 // Index
	KindVariable              // Variable
	KindNumber                // Number
	KindString                // String
	KindWord                  // Word
	KindPattern               // Pattern
)

// Node is a canonical expression tree node. The concrete types are the
// pointer types declared in this package; switch on them directly.
//
// String renders the node in canonical text form. Rendering a tree and
// normalizing the result yields the same tree.
type Node interface {
	Kind() Kind
	Children() []Node
	String() string
}

type (
	// Statement is a token run left as-is because it could not be
	// normalized.
	Statement struct {
		Tokens []script.Token
		Raw    string // source text, when tokenizing failed
	}

	// Sequence is a series of ';'-separated statements. The value of the
	// sequence is the value of its last statement.
	Sequence struct {
		Stmts []Node
	}

	// List is a comma-separated expression list.
	List struct {
		Items []Node
	}

	// Binary is a binary operation. Unary prefix minus and plus are
	// rewritten as Binary nodes against a zero literal.
	Binary struct {
		Op   string
		L, R Node
	}

	// Ternary is a conditional expression.
	Ternary struct {
		Cond, Then, Else Node
	}

	// GuardedDivision is a conditional whose branches divide; evaluating it
	// yields Else rather than failing when the division has a zero divisor.
	GuardedDivision struct {
		Cond, Then, Else Node
	}

	// Unary is a prefix operation other than numeric negation: ! ~ \ not.
	Unary struct {
		Op string
		X  Node
	}

	// Call is a function call. Calls written without parentheses are
	// represented the same way as parenthesized calls.
	Call struct {
		Name string
		Args []Node
	}

	// Index is a list slice such as (split / /, $val)[1].
	Index struct {
		X, I Node
	}

	// Variable is a scalar, array, or hash variable with optional
	// subscripts.
	Variable struct {
		script.Var
	}

	// Number is a numeric literal, kept in its source spelling.
	Number struct {
		Text string
	}

	// String is a quoted string literal.
	String struct {
		script.Quote
	}

	// Word is a bareword, such as undef or a constant name.
	Word struct {
		Name string
	}

	// Pattern is a match, substitution, or transliteration.
	Pattern struct {
		script.Quote
	}
)

func (*Statement) Kind() Kind       { return KindStatement }
func (*Sequence) Kind() Kind        { return KindSequence }
func (*List) Kind() Kind            { return KindList }
func (*Binary) Kind() Kind          { return KindBinary }
func (*Ternary) Kind() Kind         { return KindTernary }
func (*GuardedDivision) Kind() Kind { return KindGuardedDivision }
func (*Unary) Kind() Kind           { return KindUnary }
func (*Call) Kind() Kind            { return KindCall }
func (*Index) Kind() Kind           { return KindIndex }
func (*Variable) Kind() Kind        { return KindVariable }
func (*Number) Kind() Kind          { return KindNumber }
func (*String) Kind() Kind          { return KindString }
func (*Word) Kind() Kind            { return KindWord }
func (*Pattern) Kind() Kind         { return KindPattern }

func (*Statement) Children() []Node         { return nil }
func (n *Sequence) Children() []Node        { return n.Stmts }
func (n *List) Children() []Node            { return n.Items }
func (n *Binary) Children() []Node          { return []Node{n.L, n.R} }
func (n *Ternary) Children() []Node         { return []Node{n.Cond, n.Then, n.Else} }
func (n *GuardedDivision) Children() []Node { return []Node{n.Cond, n.Then, n.Else} }
func (n *Unary) Children() []Node           { return []Node{n.X} }
func (n *Call) Children() []Node            { return n.Args }
func (n *Index) Children() []Node           { return []Node{n.X, n.I} }
func (*Variable) Children() []Node          { return nil }
func (*Number) Children() []Node            { return nil }
func (*String) Children() []Node            { return nil }
func (*Word) Children() []Node              { return nil }
func (*Pattern) Children() []Node           { return nil }

// Inspect traverses n depth-first, calling f for each node. Children are
// skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	for _, c := range n.Children() {
		Inspect(c, f)
	}
}

// Contains reports whether any node in n satisfies pred.
func Contains(n Node, pred func(Node) bool) bool {
	found := false

	Inspect(n, func(x Node) bool {
		if found {
			return false
		}

		found = pred(x)

		return !found
	})

	return found
}

// Args returns the discrete arguments of a normalized argument expression:
// the items of a top-level List, or n itself.
func Args(n Node) []Node {
	switch t := n.(type) {
	case nil:
		return nil
	case *List:
		return t.Items
	}

	return []Node{n}
}
