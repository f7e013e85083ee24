package classindex

import (
	"io"

	"github.com/edward-ap/classindex/internal/classreader"
	"github.com/edward-ap/classindex/internal/dotted"
)

// readClass decodes one class file's bytes and converts the result into
// this package's domain model. Any error from the underlying decoder is
// reported as a MalformedClassFileError, since internal/classreader has no
// notion of "malformed" itself — every error it returns means the bytes did
// not describe a valid class file.
func readClass(r io.Reader, interner *dotted.Interner) (*ClassDescriptor, []*AnnotationInstance, error) {
	raw, err := classreader.Read(r, interner)
	if err != nil {
		return nil, nil, NewMalformedClassFileError("reading class file", err)
	}
	return convertRawClass(raw, interner)
}

func convertRawClass(raw *classreader.RawClass, interner *dotted.Interner) (*ClassDescriptor, []*AnnotationInstance, error) {
	class := &ClassDescriptor{
		name:   raw.ThisClass,
		super:  raw.SuperClass,
		access: AccessFlags(raw.Access),
	}
	class.interfaces = append(class.interfaces, raw.Interfaces...)

	var allAnnotations []*AnnotationInstance

	for _, a := range raw.Annotations {
		inst, err := convertAnnotation(a, classTarget(class), interner)
		if err != nil {
			return nil, nil, NewMalformedClassFileError("class annotation", err)
		}
		allAnnotations = append(allAnnotations, inst)
	}

	for _, rf := range raw.Fields {
		typ, err := ParseTypeDescriptor(rf.Descriptor, interner)
		if err != nil {
			return nil, nil, NewMalformedClassFileError("field descriptor "+rf.Descriptor, err)
		}
		field := &FieldDescriptor{
			name:   rf.Name,
			typ:    typ,
			access: AccessFlags(rf.Access),
			owner:  class,
		}
		class.fields = append(class.fields, field)
		for _, a := range rf.Annotations {
			inst, err := convertAnnotation(a, fieldTarget(field), interner)
			if err != nil {
				return nil, nil, NewMalformedClassFileError("field annotation", err)
			}
			allAnnotations = append(allAnnotations, inst)
		}
	}

	for _, rm := range raw.Methods {
		params, retType, err := parseMethodDescriptor(rm.Descriptor, interner)
		if err != nil {
			return nil, nil, NewMalformedClassFileError("method descriptor "+rm.Descriptor, err)
		}
		method := &MethodDescriptor{
			name:       rm.Name,
			returnType: retType,
			params:     params,
			access:     AccessFlags(rm.Access),
			owner:      class,
		}
		class.methods = append(class.methods, method)
		for _, a := range rm.Annotations {
			inst, err := convertAnnotation(a, methodTarget(method), interner)
			if err != nil {
				return nil, nil, NewMalformedClassFileError("method annotation", err)
			}
			allAnnotations = append(allAnnotations, inst)
		}
		for paramIndex, paramAnns := range rm.ParamAnnotations {
			for _, a := range paramAnns {
				inst, err := convertAnnotation(a, parameterTarget(method, paramIndex), interner)
				if err != nil {
					return nil, nil, NewMalformedClassFileError("parameter annotation", err)
				}
				allAnnotations = append(allAnnotations, inst)
			}
		}
	}

	return class, allAnnotations, nil
}

func convertAnnotation(raw classreader.RawAnnotation, target AnnotationTarget, interner *dotted.Interner) (*AnnotationInstance, error) {
	typ, err := ParseTypeDescriptor(raw.TypeDescriptor, interner)
	if err != nil {
		return nil, err
	}
	values := make([]AnnotationValue, 0, len(raw.Values))
	for _, nv := range raw.Values {
		v, err := convertValue(nv.Name, nv.Value, interner)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return NewAnnotationInstance(typ.Name(), target, values), nil
}

func convertValue(name string, raw classreader.RawValue, interner *dotted.Interner) (AnnotationValue, error) {
	switch raw.Tag {
	case 'B':
		return NewByteValue(name, raw.I8), nil
	case 'S':
		return NewShortValue(name, raw.I16), nil
	case 'I':
		return NewIntValue(name, raw.I32), nil
	case 'J':
		return NewLongValue(name, raw.I64), nil
	case 'C':
		return NewCharValue(name, rune(raw.I32)), nil
	case 'F':
		return NewFloatValue(name, raw.F32), nil
	case 'D':
		return NewDoubleValue(name, raw.F64), nil
	case 'Z':
		return NewBoolValue(name, raw.Bool), nil
	case 's':
		return NewStringValue(name, raw.Str), nil
	case 'e':
		enumType, err := ParseTypeDescriptor(raw.EnumType, interner)
		if err != nil {
			return AnnotationValue{}, err
		}
		return NewEnumValue(name, enumType.Name(), raw.EnumConst), nil
	case 'c':
		typ, err := ParseTypeDescriptor(raw.Class, interner)
		if err != nil {
			return AnnotationValue{}, err
		}
		return NewClassValue(name, typ), nil
	case '@':
		nested, err := convertAnnotation(*raw.Nested, AnnotationTarget{}, interner)
		if err != nil {
			return AnnotationValue{}, err
		}
		return NewNestedValue(name, nested), nil
	case '[':
		elems := make([]AnnotationValue, 0, len(raw.Array))
		for _, e := range raw.Array {
			v, err := convertValue("", e, interner)
			if err != nil {
				return AnnotationValue{}, err
			}
			elems = append(elems, v)
		}
		return NewArrayValue(name, elems), nil
	default:
		return AnnotationValue{}, NewMalformedClassFileError("unrecognized element value tag", nil)
	}
}

// parseMethodDescriptor decodes a JVMS method descriptor
// "(paramDescs)returnDesc" into its parameter types and return type.
func parseMethodDescriptor(desc string, interner *dotted.Interner) (params []Type, ret Type, err error) {
	if len(desc) < 2 || desc[0] != '(' {
		return nil, Type{}, NewMalformedClassFileError("method descriptor missing (", nil)
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		start := i
		for i < len(desc) && desc[i] == '[' {
			i++
		}
		if i >= len(desc) {
			return nil, Type{}, NewMalformedClassFileError("method descriptor truncated after array dimensions", nil)
		}
		if desc[i] == 'L' {
			for i < len(desc) && desc[i] != ';' {
				i++
			}
			if i >= len(desc) {
				return nil, Type{}, NewMalformedClassFileError("method descriptor missing ; terminating class type", nil)
			}
		}
		i++
		typ, err := ParseTypeDescriptor(desc[start:i], interner)
		if err != nil {
			return nil, Type{}, err
		}
		params = append(params, typ)
	}
	if i >= len(desc) {
		return nil, Type{}, NewMalformedClassFileError("method descriptor missing )", nil)
	}
	ret, err = ParseTypeDescriptor(desc[i+1:], interner)
	if err != nil {
		return nil, Type{}, err
	}
	return params, ret, nil
}
