package normalize

// Assoc is operator associativity.
type Assoc uint8

// Associativity values.
const (
	Left Assoc = iota
	Right
)

// Operator describes a binary operator's binding.
type Operator struct {
	Prec  int
	Assoc Assoc
}

// Precedence levels, loosest first. Unary prefix operators bind between
// PrecMatch and PrecPow.
const (
	PrecOr      = 1 // or xor
	PrecAnd     = 2 // and
	PrecNot     = 3 // not (prefix)
	PrecAssign  = 4 // = += -= ...
	PrecTernary = 5 // ?:
	PrecRange   = 6 // .. ...
	PrecLogOr   = 7 // || //
	PrecLogAnd  = 8 // &&
	PrecBitOr   = 9 // | ^
	PrecBitAnd  = 10
	PrecEq      = 11 // == != <=> eq ne cmp
	PrecRel     = 12 // < > <= >= lt gt le ge
	PrecNamed   = 13 // operand of a named unary function without parens
	PrecShift   = 14 // << >>
	PrecAdd     = 15 // + - .
	PrecMul     = 16 // * / % x
	PrecMatch   = 17 // =~ !~
	PrecUnary   = 18 // ! ~ \ and prefix - +
	PrecPow     = 19 // **
	PrecAtom    = 20
)

// operatorTable is the fixed precedence table of binary operators. The
// ternary is parsed separately but shares the table for rendering.
var operatorTable = map[string]Operator{
	"or":  {PrecOr, Left},
	"xor": {PrecOr, Left},
	"and": {PrecAnd, Left},

	"=":   {PrecAssign, Right},
	"+=":  {PrecAssign, Right},
	"-=":  {PrecAssign, Right},
	"*=":  {PrecAssign, Right},
	"/=":  {PrecAssign, Right},
	".=":  {PrecAssign, Right},
	"%=":  {PrecAssign, Right},
	"x=":  {PrecAssign, Right},
	"**=": {PrecAssign, Right},
	"||=": {PrecAssign, Right},
	"&&=": {PrecAssign, Right},
	"//=": {PrecAssign, Right},
	"|=":  {PrecAssign, Right},
	"&=":  {PrecAssign, Right},
	"^=":  {PrecAssign, Right},
	"<<=": {PrecAssign, Right},
	">>=": {PrecAssign, Right},

	"?": {PrecTernary, Right},

	"..":  {PrecRange, Left},
	"...": {PrecRange, Left},

	"||": {PrecLogOr, Left},
	"//": {PrecLogOr, Left},
	"&&": {PrecLogAnd, Left},

	"|": {PrecBitOr, Left},
	"^": {PrecBitOr, Left},
	"&": {PrecBitAnd, Left},

	"==":  {PrecEq, Left},
	"!=":  {PrecEq, Left},
	"<=>": {PrecEq, Left},
	"eq":  {PrecEq, Left},
	"ne":  {PrecEq, Left},
	"cmp": {PrecEq, Left},

	"<":  {PrecRel, Left},
	">":  {PrecRel, Left},
	"<=": {PrecRel, Left},
	">=": {PrecRel, Left},
	"lt": {PrecRel, Left},
	"gt": {PrecRel, Left},
	"le": {PrecRel, Left},
	"ge": {PrecRel, Left},

	"<<": {PrecShift, Left},
	">>": {PrecShift, Left},

	"+": {PrecAdd, Left},
	"-": {PrecAdd, Left},
	".": {PrecAdd, Left},

	"*": {PrecMul, Left},
	"/": {PrecMul, Left},
	"%": {PrecMul, Left},
	"x": {PrecMul, Left},

	"=~": {PrecMatch, Left},
	"!~": {PrecMatch, Left},

	"**": {PrecPow, Right},
}

// LookupOperator returns the binding of a binary operator symbol.
func LookupOperator(op string) (Operator, bool) {
	o, ok := operatorTable[op]

	return o, ok
}

// listOperators take a comma-separated argument list and, written without
// parentheses, consume everything to their right.
var listOperators = map[string]bool{
	"sprintf": true, "join": true, "split": true, "unpack": true,
	"pack": true, "push": true, "unshift": true, "sort": true,
	"reverse": true, "printf": true, "print": true, "die": true,
	"warn": true, "map": true, "grep": true, "substr": true, "index": true,
}

// namedUnary functions take one argument. Written without parentheses, the
// argument extends over operators tighter than comparison: `int $val / 2`
// is int($val / 2) and `lc $val eq "x"` is lc($val) eq "x".
var namedUnary = map[string]bool{
	"defined": true, "int": true, "abs": true, "sqrt": true, "log": true,
	"exp": true, "sin": true, "cos": true, "hex": true, "oct": true,
	"lc": true, "uc": true, "lcfirst": true, "ucfirst": true,
	"length": true, "chr": true, "ord": true, "ref": true, "scalar": true,
	"exists": true, "delete": true, "quotemeta": true, "chomp": true,
}

// IsFunction reports whether name is a builtin function the normalizer
// recognizes in call position.
func IsFunction(name string) bool {
	return listOperators[name] || namedUnary[name]
}
