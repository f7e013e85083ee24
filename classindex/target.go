package classindex

import "strconv"

// TargetKind discriminates the four kinds of program element an annotation
// can be attached to. A nested annotation value (an annotation appearing as
// the payload of another annotation's element) has no target at all.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetClass
	TargetField
	TargetMethod
	TargetParameter
)

// AnnotationTarget is a tagged reference to the program element an
// AnnotationInstance is attached to. The zero value is TargetNone, used for
// nested annotation instances per spec.md §3 ("may be absent for nested
// annotations").
type AnnotationTarget struct {
	kind       TargetKind
	class      *ClassDescriptor
	field      *FieldDescriptor
	method     *MethodDescriptor
	paramIndex int
}

// Kind reports which of the four target shapes this is (or TargetNone).
func (t AnnotationTarget) Kind() TargetKind { return t.kind }

// Class returns the target's class and true when Kind() == TargetClass.
func (t AnnotationTarget) Class() (*ClassDescriptor, bool) {
	if t.kind != TargetClass {
		return nil, false
	}
	return t.class, true
}

// Field returns the target's field and true when Kind() == TargetField.
func (t AnnotationTarget) Field() (*FieldDescriptor, bool) {
	if t.kind != TargetField {
		return nil, false
	}
	return t.field, true
}

// Method returns the target's method and true when Kind() == TargetMethod.
func (t AnnotationTarget) Method() (*MethodDescriptor, bool) {
	if t.kind != TargetMethod {
		return nil, false
	}
	return t.method, true
}

// Parameter returns the owning method, the 0-based parameter index, and
// true when Kind() == TargetParameter.
func (t AnnotationTarget) Parameter() (method *MethodDescriptor, index int, ok bool) {
	if t.kind != TargetParameter {
		return nil, 0, false
	}
	return t.method, t.paramIndex, true
}

// String renders the target for diagnostics, matching the "Class:"/
// "Field:"/"Method:"/"Parameter:" dump lines from spec.md §4.D: the label
// itself is added by the caller (Index.PrintAnnotations); String returns
// only the rendered target, e.g. "pkg.A", "pkg.A.f", "pkg.A.m(int)", or
// "pkg.A.m(int) 1" for a parameter target.
func (t AnnotationTarget) String() string {
	switch t.kind {
	case TargetClass:
		return t.class.String()
	case TargetField:
		return t.field.String()
	case TargetMethod:
		return t.method.String()
	case TargetParameter:
		return t.method.String() + " " + strconv.Itoa(t.paramIndex)
	default:
		return ""
	}
}

func classTarget(c *ClassDescriptor) AnnotationTarget {
	return AnnotationTarget{kind: TargetClass, class: c}
}

func fieldTarget(f *FieldDescriptor) AnnotationTarget {
	return AnnotationTarget{kind: TargetField, field: f}
}

func methodTarget(m *MethodDescriptor) AnnotationTarget {
	return AnnotationTarget{kind: TargetMethod, method: m}
}

func parameterTarget(m *MethodDescriptor, index int) AnnotationTarget {
	return AnnotationTarget{kind: TargetParameter, method: m, paramIndex: index}
}
