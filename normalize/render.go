package normalize

import (
	"strings"

	"github.com/ardnew/metaconv/script"
)

// prec returns the binding strength of n when it appears as an operand.
func prec(n Node) int {
	switch t := n.(type) {
	case *List:
		return 0
	case *Statement, *Sequence:
		return PrecOr
	case *Binary:
		if op, ok := LookupOperator(t.Op); ok {
			return op.Prec
		}

		return 0
	case *Ternary, *GuardedDivision:
		return PrecTernary
	case *Unary:
		if t.Op == "not" {
			return PrecNot
		}

		return PrecUnary
	}

	return PrecAtom
}

// operand renders n, parenthesized when it binds looser than min.
func operand(n Node, min int) string {
	if prec(n) < min {
		return "(" + n.String() + ")"
	}

	return n.String()
}

func (n *Statement) String() string {
	if n.Raw != "" {
		return n.Raw
	}

	return script.Join(n.Tokens)
}

func (n *Sequence) String() string { return joinNodes(n.Stmts, "; ", 0) }

func (n *List) String() string { return joinNodes(n.Items, ", ", 1) }

func (n *Binary) String() string {
	op, _ := LookupOperator(n.Op)

	lmin, rmin := op.Prec, op.Prec+1
	if op.Assoc == Right {
		lmin, rmin = op.Prec+1, op.Prec
	}

	return operand(n.L, lmin) + " " + n.Op + " " + operand(n.R, rmin)
}

func (n *Ternary) String() string { return ternary(n.Cond, n.Then, n.Else) }

func (n *GuardedDivision) String() string { return ternary(n.Cond, n.Then, n.Else) }

func ternary(cond, then, els Node) string {
	return operand(cond, PrecTernary+1) + " ? " + operand(then, 1) + " : " +
		operand(els, PrecTernary)
}

func (n *Unary) String() string {
	if n.Op == "not" {
		return "not " + operand(n.X, PrecNot+1)
	}

	return n.Op + operand(n.X, PrecUnary)
}

func (n *Call) String() string {
	return n.Name + "(" + joinNodes(n.Args, ", ", 1) + ")"
}

func (n *Index) String() string {
	return "(" + n.X.String() + ")[" + n.I.String() + "]"
}

func (n *Variable) String() string { return n.Var.Text() }

func (n *Number) String() string { return n.Text }

func (n *String) String() string {
	return n.Op + n.Open + n.Body + n.Close
}

func (n *Word) String() string { return n.Name }

func (n *Pattern) String() string {
	var sb strings.Builder

	if n.Op != "m" || n.Open != "/" {
		sb.WriteString(n.Op)
	}

	sb.WriteString(n.Open)
	sb.WriteString(n.Body)
	sb.WriteString(n.Close)

	if n.Op == "s" || n.Op == "tr" || n.Op == "y" {
		if n.Open != n.Close {
			sb.WriteString(n.Open)
		}

		sb.WriteString(n.Repl)
		sb.WriteString(n.Close)
	}

	sb.WriteString(n.Flags)

	return sb.String()
}

func joinNodes(nodes []Node, sep string, min int) string {
	part := make([]string, len(nodes))
	for i, n := range nodes {
		part[i] = operand(n, min)
	}

	return strings.Join(part, sep)
}

// Tree renders n fully parenthesized, exposing its structure.
func Tree(n Node) string {
	switch t := n.(type) {
	case *Binary:
		return "(" + Tree(t.L) + " " + t.Op + " " + Tree(t.R) + ")"
	case *Ternary:
		return "(" + Tree(t.Cond) + " ? " + Tree(t.Then) + " : " + Tree(t.Else) + ")"
	case *GuardedDivision:
		return "guard(" + Tree(t.Cond) + " ? " + Tree(t.Then) + " : " + Tree(t.Else) + ")"
	case *Unary:
		return "(" + t.Op + " " + Tree(t.X) + ")"
	case *Call:
		return t.Name + "(" + treeList(t.Args, ", ") + ")"
	case *List:
		return "[" + treeList(t.Items, ", ") + "]"
	case *Sequence:
		return "{" + treeList(t.Stmts, "; ") + "}"
	case *Index:
		return "(" + Tree(t.X) + ")[" + Tree(t.I) + "]"
	case *Statement:
		return "<" + t.String() + ">"
	case nil:
		return ""
	}

	return n.String()
}

func treeList(nodes []Node, sep string) string {
	part := make([]string, len(nodes))
	for i, n := range nodes {
		part[i] = Tree(n)
	}

	return strings.Join(part, sep)
}
