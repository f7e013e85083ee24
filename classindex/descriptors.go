package classindex

// FieldDescriptor is one field declared by a scanned class. Its identity is
// its pointer: the class reader allocates exactly one FieldDescriptor per
// field_info structure, and every AnnotationInstance targeting that field
// references this same pointer.
type FieldDescriptor struct {
	name   string
	typ    Type
	access AccessFlags
	owner  *ClassDescriptor
}

// Name returns the field's name.
func (f *FieldDescriptor) Name() string { return f.name }

// Type returns the field's declared type.
func (f *FieldDescriptor) Type() Type { return f.typ }

// Access returns the field's access flags.
func (f *FieldDescriptor) Access() AccessFlags { return f.access }

// Owner returns the class that declares this field.
func (f *FieldDescriptor) Owner() *ClassDescriptor { return f.owner }

// String renders "pkg.Class.field" for diagnostics.
func (f *FieldDescriptor) String() string {
	if f.owner == nil {
		return f.name
	}
	return f.owner.Name().String() + "." + f.name
}

// MethodDescriptor is one method or constructor declared by a scanned
// class. Like FieldDescriptor, its pointer identity is what method and
// parameter AnnotationTargets reference.
type MethodDescriptor struct {
	name       string
	returnType Type
	params     []Type
	access     AccessFlags
	owner      *ClassDescriptor
}

// Name returns the method's name (including "<init>" for constructors, as
// stored in the class file).
func (m *MethodDescriptor) Name() string { return m.name }

// ReturnType returns the method's declared return type.
func (m *MethodDescriptor) ReturnType() Type { return m.returnType }

// Params returns the method's parameter types in declaration order. The
// returned slice shares storage with the descriptor but is capacity-clamped
// so a caller append cannot grow into it.
func (m *MethodDescriptor) Params() []Type {
	return m.params[:len(m.params):len(m.params)]
}

// Access returns the method's access flags.
func (m *MethodDescriptor) Access() AccessFlags { return m.access }

// Owner returns the class that declares this method.
func (m *MethodDescriptor) Owner() *ClassDescriptor { return m.owner }

// String renders "pkg.Class.method(paramType1, paramType2)" for
// diagnostics.
func (m *MethodDescriptor) String() string {
	s := m.name + "("
	for i, p := range m.params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ")"
	if m.owner == nil {
		return s
	}
	return m.owner.Name().String() + "." + s
}

// ClassDescriptor is one scanned class file. It is the sole owner of the
// FieldDescriptor and MethodDescriptor values it declares; those in turn
// carry a back-reference here, so a ClassDescriptor, once built, forms a
// small closed graph that the Index and its AnnotationInstances reference
// by pointer without ever copying.
type ClassDescriptor struct {
	name       Name
	super      *Name
	interfaces []Name
	access     AccessFlags
	fields     []*FieldDescriptor
	methods    []*MethodDescriptor
}

// Name returns the class's fully-qualified name.
func (c *ClassDescriptor) Name() Name { return c.name }

// Super returns the superclass name, or nil for java.lang.Object (which has
// none) — matching spec.md's "absent for java.lang.Object" invariant.
func (c *ClassDescriptor) Super() *Name { return c.super }

// Interfaces returns the directly-declared interface names, in class-file
// order. Capacity-clamped; see the package doc comment on read-only lists.
func (c *ClassDescriptor) Interfaces() []Name {
	return c.interfaces[:len(c.interfaces):len(c.interfaces)]
}

// Access returns the class's access flags.
func (c *ClassDescriptor) Access() AccessFlags { return c.access }

// Fields returns the class's declared fields, in class-file order.
// Capacity-clamped; see the package doc comment on read-only lists.
func (c *ClassDescriptor) Fields() []*FieldDescriptor {
	return c.fields[:len(c.fields):len(c.fields)]
}

// Methods returns the class's declared methods, in class-file order.
// Capacity-clamped; see the package doc comment on read-only lists.
func (c *ClassDescriptor) Methods() []*MethodDescriptor {
	return c.methods[:len(c.methods):len(c.methods)]
}

// String renders the class name, matching Java's toString-as-name
// convention used throughout the original Jandex dump output.
func (c *ClassDescriptor) String() string { return c.name.String() }
