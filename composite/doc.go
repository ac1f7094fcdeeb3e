// Package composite resolves derived tags from the tags of a file.
//
// A [Definition] names the tags a composite requires, the tags it would
// like, and the tags whose presence inhibits it. [Resolver.Resolve] makes
// repeated passes over a catalog of definitions, building each composite
// whose dependencies are available and installing it in the [Pool] so
// that later composites can depend on it. Resolution ends when every
// definition is built, when a pass makes no progress, or after a fixed
// number of passes; definitions left over are reported as unresolvable
// together with the dependencies they were missing.
//
// The pool is mutated during resolution and must not be shared; concurrent
// resolutions each take their own copy with [Pool.Clone].
package composite
