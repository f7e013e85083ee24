package classindex

import "github.com/edward-ap/classindex/internal/sortutil"

// Index is the frozen result of a Builder.Build call: a snapshot of every
// class scanned, every annotation instance found on them, and the direct
// subclass/implementor edges observed. Every method on Index is safe for
// concurrent use by any number of goroutines; nothing about an Index
// changes after Build returns it.
type Index struct {
	annotations  map[string][]*AnnotationInstance
	classes      map[string]*ClassDescriptor
	subclasses   map[string][]*ClassDescriptor
	implementors map[string][]*ClassDescriptor
}

// GetAnnotations returns every AnnotationInstance of the given annotation
// type name found anywhere in the scan (class, field, method, or parameter
// targets), in the order they were appended during the build. Returns nil
// if no class carried that annotation.
func (idx *Index) GetAnnotations(annotationName string) []*AnnotationInstance {
	list := idx.annotations[annotationName]
	return list[:len(list):len(list)]
}

// GetKnownDirectSubclasses returns the classes whose declared superclass is
// className, in append order. Interfaces are never listed here even when
// className is itself an interface being "extended" — see
// GetKnownDirectImplementors.
func (idx *Index) GetKnownDirectSubclasses(className string) []*ClassDescriptor {
	list := idx.subclasses[className]
	return list[:len(list):len(list)]
}

// GetKnownDirectImplementors returns the classes and interfaces that
// directly declare className in their interfaces list, in append order.
// This includes an interface I1 that extends I2 (I1's bytecode
// representation of "extends" for an interface is itself an implemented-
// interfaces entry, not a superclass), matching Jandex's own documented
// behavior.
func (idx *Index) GetKnownDirectImplementors(className string) []*ClassDescriptor {
	list := idx.implementors[className]
	return list[:len(list):len(list)]
}

// GetClassByName returns the descriptor for a scanned class, and false if
// no class of that name was scanned (which includes any class referenced
// only as a supertype, interface, or field/parameter type — the index
// records descriptors only for classes whose own bytes were fed to the
// builder).
func (idx *Index) GetClassByName(className string) (*ClassDescriptor, bool) {
	c, ok := idx.classes[className]
	return c, ok
}

// GetKnownClasses returns every scanned class descriptor, sorted by class
// name for deterministic iteration (the backing map has no order of its
// own).
func (idx *Index) GetKnownClasses() []*ClassDescriptor {
	names := make([]string, 0, len(idx.classes))
	for name := range idx.classes {
		names = append(names, name)
	}
	names = sortutil.StablePathSort(names)

	out := make([]*ClassDescriptor, len(names))
	for i, name := range names {
		out[i] = idx.classes[name]
	}
	return out
}
