// Package classindex builds and queries a read-only annotation index over a
// collection of parsed Java class files: which classes, fields, methods, or
// parameters carry a given annotation, and what the direct subclass /
// interface-implementor edges observed during the scan were.
//
// A scan has two phases. During the build phase a single *Builder consumes
// class descriptors (produced by internal/classreader from raw class-file
// bytes) and accumulates them into four maps. Builder.Build freezes those
// maps into an *Index and is the publication barrier between the two
// phases: everything reachable from an *Index is safe for concurrent,
// lock-free reads afterward, and nothing about it changes again.
//
// Read-only lists: slices handed out by the Index and its descriptors and
// values share storage with the index and are capacity-clamped
// (s[:len(s):len(s)]), so an append by the caller always reallocates and
// never writes into the index. Clamping does not stop an element
// assignment through a returned slice; such an assignment writes into the
// index's own storage.
package classindex

import "github.com/edward-ap/classindex/internal/dotted"

// Name is a Java fully-qualified name, e.g. "java.lang.String". It is
// backed by internal/dotted's component-shared representation: names that
// share a package or outer-class prefix reuse the same underlying nodes.
//
// Two Names are equal, in the sense that matters to this package, when
// Equal reports true — which happens exactly when their rendered dotted
// forms match, regardless of whether either was interned from a flat
// string or built component-by-component while decoding internal names.
type Name = dotted.Name
