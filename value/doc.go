// Package value defines the tagged union carried by every metadata tag.
//
// A [Value] holds exactly one of: nothing (the empty variant), an unsigned
// or signed integer of 8 to 64 bits, a float64, a string, a bool, an
// unsigned or signed rational, an array of rationals, a byte slice, or a
// nested array of values. Values are immutable once constructed; accessors
// that return slices return copies.
//
// Numeric accessors report failure instead of dividing by zero: a rational
// with a zero denominator is non-convertible.
package value
