// Package convfn holds the hand-written conversion functions that
// normalized expressions dispatch to, together with the function types
// shared by ordinary tags and composites.
//
// Every function is addressed by a [FunctionID], a validated
// "Module::Name" pair. A [Registry] maps identifiers to implementations
// and answers unknown identifiers with the [Missing] passthrough.
//
// The functions follow the display conventions of extracted photo
// metadata: exposure times print as "1/2000", apertures with one decimal,
// coordinates as degrees, minutes, and seconds.
package convfn
