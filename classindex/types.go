package classindex

import (
	"fmt"

	"github.com/edward-ap/classindex/internal/dotted"
)

// AccessFlags is the JVMS access_flags bitset, preserved verbatim from the
// class file. classindex does not interpret these beyond exposing the
// standard predicate helpers below; it never rejects a class based on its
// flags.
type AccessFlags uint16

// Access flag bits, JVMS §4.1 / §4.5 / §4.6 (the subset meaningful to
// classes, fields, and methods; interface- and module-only bits are
// preserved in the raw value even though no helper names them).
const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020 // classes; also ACC_SYNCHRONIZED on methods
	AccVolatile     AccessFlags = 0x0040 // fields; also ACC_BRIDGE on methods
	AccTransient    AccessFlags = 0x0080 // fields; also ACC_VARARGS on methods
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
)

func (f AccessFlags) has(bit AccessFlags) bool { return f&bit != 0 }

// IsPublic reports ACC_PUBLIC.
func (f AccessFlags) IsPublic() bool { return f.has(AccPublic) }

// IsPrivate reports ACC_PRIVATE.
func (f AccessFlags) IsPrivate() bool { return f.has(AccPrivate) }

// IsProtected reports ACC_PROTECTED.
func (f AccessFlags) IsProtected() bool { return f.has(AccProtected) }

// IsStatic reports ACC_STATIC.
func (f AccessFlags) IsStatic() bool { return f.has(AccStatic) }

// IsFinal reports ACC_FINAL.
func (f AccessFlags) IsFinal() bool { return f.has(AccFinal) }

// IsInterface reports ACC_INTERFACE.
func (f AccessFlags) IsInterface() bool { return f.has(AccInterface) }

// IsAbstract reports ACC_ABSTRACT.
func (f AccessFlags) IsAbstract() bool { return f.has(AccAbstract) }

// IsSynthetic reports ACC_SYNTHETIC.
func (f AccessFlags) IsSynthetic() bool { return f.has(AccSynthetic) }

// IsAnnotation reports ACC_ANNOTATION.
func (f AccessFlags) IsAnnotation() bool { return f.has(AccAnnotation) }

// IsEnum reports ACC_ENUM.
func (f AccessFlags) IsEnum() bool { return f.has(AccEnum) }

// PrimitiveKind identifies which JVM primitive a Type of kind TypePrimitive
// represents.
type PrimitiveKind uint8

const (
	PrimByte PrimitiveKind = iota
	PrimShort
	PrimInt
	PrimLong
	PrimChar
	PrimFloat
	PrimDouble
	PrimBoolean
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimByte:
		return "byte"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimChar:
		return "char"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	case PrimBoolean:
		return "boolean"
	default:
		return "?"
	}
}

// TypeKind discriminates the four shapes a Type can take.
type TypeKind uint8

const (
	TypePrimitive TypeKind = iota
	TypeClass
	TypeArray
	TypeVoid
)

// Type describes a Java type as it appears in a field/method descriptor or
// as the payload of an annotation Class value. Types are immutable.
type Type struct {
	kind      TypeKind
	name      Name // populated for TypeClass, and for a class-element TypeArray
	primitive PrimitiveKind
	arrayDim  int
}

// Kind reports which of primitive/class/array/void this Type is.
func (t Type) Kind() TypeKind { return t.kind }

// Name returns the class name for a TypeClass, or the element class name
// for a TypeArray of class elements. It is the zero Name for primitive,
// void, and primitive-array types.
func (t Type) Name() Name { return t.name }

// Primitive returns which primitive this Type is. Only meaningful when
// Kind() == TypePrimitive, or when Kind() == TypeArray with a primitive
// element type (ArrayDim() > 0 and Name().IsZero()).
func (t Type) Primitive() PrimitiveKind { return t.primitive }

// ArrayDim returns the array nesting depth, 0 for non-array types.
func (t Type) ArrayDim() int { return t.arrayDim }

// String renders the type using Java source syntax, e.g. "java.lang.String",
// "int", "java.lang.String[][]".
func (t Type) String() string {
	var base string
	switch t.kind {
	case TypeVoid:
		base = "void"
	case TypePrimitive:
		base = t.primitive.String()
	case TypeClass, TypeArray:
		if t.name.IsZero() {
			base = t.primitive.String()
		} else {
			base = t.name.String()
		}
	}
	for i := 0; i < t.arrayDim; i++ {
		base += "[]"
	}
	return base
}

func newClassType(name Name) Type {
	return Type{kind: TypeClass, name: name}
}

func newPrimitiveType(p PrimitiveKind) Type {
	return Type{kind: TypePrimitive, primitive: p}
}

func newVoidType() Type {
	return Type{kind: TypeVoid}
}

func newArrayType(elem Type, dim int) Type {
	return Type{kind: TypeArray, name: elem.name, primitive: elem.primitive, arrayDim: dim}
}

// ParseTypeDescriptor decodes a JVMS field/method type descriptor
// ("Ljava/lang/String;", "I", "[[D", "V") into a Type, interning any class
// name it encounters via interner. It is exported for reuse by callers that
// hold raw descriptor strings (e.g. from constant-pool Fieldref/Methodref
// entries) outside the normal class-reading path.
func ParseTypeDescriptor(desc string, interner *dotted.Interner) (Type, error) {
	dim := 0
	i := 0
	for i < len(desc) && desc[i] == '[' {
		dim++
		i++
	}
	if i >= len(desc) {
		return Type{}, fmt.Errorf("empty type descriptor after %d array dimensions", dim)
	}

	var base Type
	switch desc[i] {
	case 'B':
		base = newPrimitiveType(PrimByte)
	case 'S':
		base = newPrimitiveType(PrimShort)
	case 'I':
		base = newPrimitiveType(PrimInt)
	case 'J':
		base = newPrimitiveType(PrimLong)
	case 'F':
		base = newPrimitiveType(PrimFloat)
	case 'D':
		base = newPrimitiveType(PrimDouble)
	case 'C':
		base = newPrimitiveType(PrimChar)
	case 'Z':
		base = newPrimitiveType(PrimBoolean)
	case 'V':
		if dim > 0 {
			return Type{}, fmt.Errorf("void type cannot be an array element")
		}
		return newVoidType(), nil
	case 'L':
		if !hasSuffix(desc[i:], ";") {
			return Type{}, fmt.Errorf("class type descriptor %q missing trailing ;", desc)
		}
		internal := desc[i+1 : len(desc)-1]
		base = newClassType(interner.Intern(internal))
	default:
		return Type{}, fmt.Errorf("unrecognized type descriptor prefix %q", desc[i:])
	}

	if dim == 0 {
		return base, nil
	}
	return newArrayType(base, dim), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
