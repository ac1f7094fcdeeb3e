// Package registry decides how a conversion expression is evaluated.
//
// A [Classifier] routes each expression to one of three targets. Pure
// arithmetic on $val is compiled inline to an expr-lang program. Anything
// else is looked up in a static [Table] of expression text, first as
// written and then in normalized form, and dispatches to a registered
// [convfn] function. Expressions the table does not know route to
// [convfn.Missing] and are counted in [Stats] for coverage reporting.
//
// Normalization goes through a [Formatter]. The default [Native] formatter
// renders the normalizer's canonical text; [Subprocess] runs an external
// formatting tool and supports batching many expressions per invocation.
// Results are kept in a caller-owned [Cache].
package registry
