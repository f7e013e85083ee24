package classindex

import "strings"

// AnnotationInstance is one occurrence of an annotation on a program
// element: its type, the element it was found on, and the name/value pairs
// written at that occurrence. Two AnnotationInstances with the same type
// name on different targets are entirely distinct entries in an Index.
type AnnotationInstance struct {
	name   Name
	target AnnotationTarget
	values []AnnotationValue
}

// NewAnnotationInstance constructs an AnnotationInstance. Inside this
// module its caller outside tests is the raw-to-domain conversion in
// classreader.go; index construction never mutates an instance after
// creating it.
func NewAnnotationInstance(name Name, target AnnotationTarget, values []AnnotationValue) *AnnotationInstance {
	return &AnnotationInstance{name: name, target: target, values: values[:len(values):len(values)]}
}

// Name returns the annotation type's fully-qualified name.
func (a *AnnotationInstance) Name() Name { return a.name }

// Target returns the program element this annotation was found on. Its
// Kind() is TargetNone when this instance is itself the value of another
// annotation's element (a nested annotation).
func (a *AnnotationInstance) Target() AnnotationTarget { return a.target }

// Values returns the annotation's name/value pairs in the order the class
// file declared them. Capacity-clamped; see the package doc comment on
// read-only lists.
func (a *AnnotationInstance) Values() []AnnotationValue {
	return a.values[:len(a.values):len(a.values)]
}

// Value looks up a single element by name, mirroring Jandex's
// AnnotationInstance.value(String). The second return is false when no
// element of that name was written (which, per JVMS/JLS default-value
// rules, is exactly when the annotation relied on its declared default —
// classindex does not resolve annotation-type defaults, since doing so
// would require the annotation type's own class file to be present in the
// same scan).
func (a *AnnotationInstance) Value(name string) (AnnotationValue, bool) {
	for _, v := range a.values {
		if v.Name() == name {
			return v, true
		}
	}
	return AnnotationValue{}, false
}

// String renders "@pkg.Annotation" or, when it carries elements,
// "@pkg.Annotation(name = value, ...)", matching Jandex's own
// AnnotationInstance.toString(). This is what a KindNested value renders
// as inside its enclosing annotation's dump.
func (a *AnnotationInstance) String() string {
	if len(a.values) == 0 {
		return "@" + a.name.String()
	}
	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = v.Render()
	}
	return "@" + a.name.String() + "(" + strings.Join(parts, ", ") + ")"
}
