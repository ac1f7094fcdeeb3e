// Package conv applies conversion expressions to tag values.
//
// Every tag value goes through two stages: a value conversion
// (ValueConv) that turns the stored value into a meaningful quantity,
// and a print conversion (PrintConv) that renders it for display.
// A [Converter] classifies each expression with a [registry.Classifier]
// and then runs the inline program or dispatch function it was routed
// to. Expressions routed to the missing function are either passed
// through or, with [WithInterpreter], evaluated by package interp.
//
// [Converter] implements [composite.Applier], so the same two stages
// serve computed composites.
package conv
