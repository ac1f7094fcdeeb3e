// Package codegen compiles conversion expressions to Go source.
//
// A [Registry] deduplicates expressions by the canonical text of their
// normalized tree, so each distinct expression becomes exactly one
// generated function no matter how many tags use it. Function names are
// derived from an xxh3 hash of the canonical text and are stable across
// runs. [Registry.GenerateFunctionFiles] emits the functions, bucketed by
// hash prefix, together with a registry file that maps names to
// implementations.
//
// Generated bodies evaluate through the same [interp.Frame] operations as
// the tree interpreter, so a generated function and [interp.Run] agree on
// every input.
//
// Tag definitions are read from YAML or TOML documents with [Load].
package codegen
