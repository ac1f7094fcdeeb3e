package registry

import (
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/metaconv/normalize"
	"github.com/ardnew/metaconv/value"
)

// inlineVar is the expr-lang name bound to $val.
const inlineVar = "val"

// inlineOps are the operators the inline grammar admits.
var inlineOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "**": true}

// InlineSource reports whether n is pure arithmetic on $val and, if so,
// returns its fully parenthesized expr-lang form.
func InlineSource(n normalize.Node) (string, bool) {
	switch n := n.(type) {
	case *normalize.Number:
		if !value.IsDecimal(n.Text) {
			return "", false
		}

		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return "", false
		}

		// expr-lang rejects forms such as ".5" and "5." that Perl accepts.
		return strconv.FormatFloat(f, 'f', -1, 64), true

	case *normalize.Variable:
		if n.Sigil != "$" || n.Name != "val" || n.Deref || len(n.Subs) > 0 {
			return "", false
		}

		return inlineVar, true

	case *normalize.Binary:
		if !inlineOps[n.Op] {
			return "", false
		}

		l, ok := InlineSource(n.L)
		if !ok {
			return "", false
		}

		r, ok := InlineSource(n.R)
		if !ok {
			return "", false
		}

		return "(" + l + " " + n.Op + " " + r + ")", true
	}

	return "", false
}

// compileInline compiles an inline source with a float64 $val.
func compileInline(src string) (*vm.Program, error) {
	return expr.Compile(src,
		expr.Env(map[string]any{inlineVar: 0.0}),
		expr.AsFloat64(),
	)
}
