package normalize

//go:generate go tool stringer --linecomment --type Shape --output shape_string.go

import (
	"log/slog"

	"github.com/ardnew/metaconv/script"
)

// Shape is the coarse form of a token run, decided before folding.
type Shape uint8

// Token run shapes, in detection order.
const (
	ShapeEmpty Shape = iota  // empty
	ShapeCall                // call
	ShapeComposition         // composition
	ShapeGuardedDivision     // guarded-division
	ShapeTernary             // ternary
	ShapeBinary              // binary
	ShapeTerm                // term
	ShapeUnterminatedTernary // unterminated-ternary
)

// ClassifyShape reports the shape of a token run.
//
// Function calls are detected first: a known function at the start of the
// run followed by a parenthesized argument list spanning the rest, or by a
// bare argument sequence. A bare call whose arguments contain a second bare
// list operator is a composition. Only then are conditionals and operators
// considered, so that a ternary or division inside call arguments is left
// to the argument processing.
func ClassifyShape(toks []script.Token) Shape {
	sig := script.Significant(toks)
	if len(sig) == 0 {
		return ShapeEmpty
	}

	if first := sig[0]; first.Class == script.ClassWord {
		switch {
		case isBareListOp(sig, 0):
			for i := 1; i < len(sig); i++ {
				if isLowLogical(sig[i]) {
					break
				}

				if isBareListOp(sig, i) {
					return ShapeComposition
				}
			}

			if !containsLowLogical(sig) {
				return ShapeCall
			}

		case len(sig) == 2 && sig[1].IsList("("):
			return ShapeCall
		}
	}

	for i, t := range sig {
		if !t.Is("?") {
			continue
		}

		if matchColon(sig, i+1) < 0 {
			return ShapeUnterminatedTernary
		}

		if hasDivision(sig[i+1:]) {
			return ShapeGuardedDivision
		}

		return ShapeTernary
	}

	for _, t := range sig {
		if t.Class != script.ClassOperator {
			continue
		}

		if _, ok := LookupOperator(t.Content); ok {
			return ShapeBinary
		}

		switch t.Content {
		case "-", "+", "!", "~", "\\", "not":
			return ShapeBinary
		}
	}

	return ShapeTerm
}

func containsLowLogical(toks []script.Token) bool {
	for _, t := range toks {
		if isLowLogical(t) {
			return true
		}
	}

	return false
}

// hasDivision reports whether a division operator appears anywhere in
// toks, including inside bracketed groups.
func hasDivision(toks []script.Token) bool {
	for _, t := range toks {
		if t.Is("/") || t.Is("%") {
			return true
		}

		if t.Class == script.ClassList && hasDivision(t.Children) {
			return true
		}
	}

	return false
}

func tokenAttr(t script.Token) slog.Attr {
	return slog.Group("token",
		slog.String("class", t.Class.String()),
		slog.String("content", t.Content),
		slog.Int("pos", t.Pos))
}
