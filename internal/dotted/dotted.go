// Package dotted implements a deduplicating interner for Java fully-qualified
// names ("dotted names" like java.lang.String).
//
// A Name is stored as a linked (parent, local component) pair so that shared
// prefixes across many names — every class in a package, every nested class
// under an outer class — occupy one node instead of one string per class.
// The interner is scoped to a single build (see classindex.Builder); it is
// never process-global, so independent scans never share mutable state.
package dotted

import "strings"

// Name is an immutable, possibly component-shared Java qualified name.
// The zero Name is not meaningful; construct Names via an Interner.
type Name struct {
	parent *Name
	local  string
	// shared marks a node produced by InternComponent (built while walking
	// slash-delimited internal names) as opposed to Intern (built by
	// splitting a flat dotted string). Both forms compare equal when they
	// render to the same dotted string; the flag exists only so callers
	// that care about representation (diagnostics, tests) can ask.
	shared bool
}

// String renders the dotted form, e.g. "java.lang.String".
func (n Name) String() string {
	if n.parent == nil {
		return n.local
	}
	var parts []string
	for p := &n; p != nil; p = p.parent {
		parts = append(parts, p.local)
	}
	// parts collected from leaf-to-root; reverse into root-to-leaf order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// IsZero reports whether n was never produced by an Interner.
func (n Name) IsZero() bool {
	return n.local == "" && n.parent == nil
}

// Equal reports structural equality: two Names are equal exactly when their
// rendered dotted forms match, regardless of whether either was built via
// Intern or InternComponent.
func (n Name) Equal(other Name) bool {
	return n.String() == other.String()
}

// IsComponentShared reports whether n was built via InternComponent (the
// slash-delimited internal-name path used while parsing the constant pool)
// rather than Intern (the flat-string path).
func (n Name) IsComponentShared() bool {
	return n.shared
}

// Interner canonicalizes Names for one index build. It is not safe for
// concurrent use — the class-file reader and index builder that own it
// operate single-threaded during the build phase (see the package-level
// concurrency note in classindex).
type Interner struct {
	// byComponent maps "<parent-dotted-form>\x00<local>" to the canonical node
	// for that (parent, local) pair, so repeated InternComponent calls for
	// the same chain (e.g. "java/lang/String" parsed once per class file
	// that references java.lang.String) return the identical node.
	byComponent map[string]*Name
	// byFlat maps a full dotted string to its canonical Name, used by
	// Intern so two calls with the same flat string return equal Names
	// without re-splitting or re-walking the component table each time.
	byFlat map[string]Name
}

// NewInterner returns an empty interner, ready for one build.
func NewInterner() *Interner {
	return &Interner{
		byComponent: make(map[string]*Name),
		byFlat:      make(map[string]Name),
	}
}

// Intern splits a flat dotted or slash-delimited string on '.' and returns
// the component-shared chain, reusing existing nodes from the intern table.
// Both "java.lang.String" and "java/lang/String" are accepted; the latter is
// normalized to dots first so callers never need to know which separator a
// given source string used.
func (in *Interner) Intern(flat string) Name {
	if flat == "" {
		return Name{}
	}
	if n, ok := in.byFlat[flat]; ok {
		return n
	}
	normalized := strings.ReplaceAll(flat, "/", ".")
	parts := strings.Split(normalized, ".")

	var parent *Name
	for _, part := range parts {
		node := in.internComponentNode(parent, part)
		parent = node
	}
	result := Name{parent: parent.parent, local: parent.local, shared: false}
	in.byFlat[flat] = result
	if normalized != flat {
		in.byFlat[normalized] = result
	}
	return result
}

// InternComponent composes a Name directly from a parent Name and a single
// local component, without re-splitting a string. This is the fast path used
// while decoding internal (slash-delimited) class names from the constant
// pool: each '/'-separated segment is interned as it is read.
func (in *Interner) InternComponent(parent *Name, local string) Name {
	node := in.internComponentNode(parent, local)
	return Name{parent: node.parent, local: node.local, shared: true}
}

// internComponentNode returns the canonical node for (parent, local),
// creating it on first sight so repeated chains collapse onto the same
// (parent, local) identity regardless of which call path reaches them. The
// node itself carries no shared flag: Intern and InternComponent each stamp
// their own Name value with the flag appropriate to the path that produced
// it, since the same cached node is reachable from both.
func (in *Interner) internComponentNode(parent *Name, local string) *Name {
	key := componentKey(parent, local)
	if existing, ok := in.byComponent[key]; ok {
		return existing
	}
	node := &Name{parent: parent, local: local}
	in.byComponent[key] = node
	return node
}

// componentKey builds a lookup key for the (parent, local) pair. Using the
// parent's rendered string (not its pointer) means two chains built through
// different call sites but describing the same prefix still collapse onto
// the same node.
func componentKey(parent *Name, local string) string {
	if parent == nil {
		return "\x00" + local
	}
	return parent.String() + "\x00" + local
}
