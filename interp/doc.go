// Package interp evaluates normalized expression trees.
//
// A [Frame] holds the variables one conversion sees: $val, the composite
// dependency arrays @val, @prt, and @raw, the $$self{...} file context,
// and assigned locals. The Frame methods implement the operators with
// Perl scalar semantics (numeric strings, "" as false, integer modulus,
// string repetition) and are shared by the tree walker in [Frame.Eval]
// and by generated Go functions, so both evaluate identically.
//
// Errors are sticky. An operation that fails records the first error on
// the frame and yields the empty value; [Frame.Err] reports it once
// evaluation is done.
package interp
