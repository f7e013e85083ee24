// Package classreader decodes one JVM class file (JVMS §4) into an
// intermediate structural representation. It knows nothing about
// classindex's domain types (ClassDescriptor, AnnotationInstance, ...) —
// classindex converts a *RawClass into those after reading, which keeps
// this package free of any import back to its caller.
package classreader

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/edward-ap/classindex/internal/constantpool"
	"github.com/edward-ap/classindex/internal/dotted"
)

const classFileMagic uint32 = 0xCAFEBABE

// RawValue is the decoded payload of one element_value structure (JVMS
// §4.7.16.1). Tag identifies which fields are meaningful, mirroring the
// ASCII tag byte the class file itself uses ('B','C','D','F','I','J','S',
// 'Z','s','e','c','@','[').
type RawValue struct {
	Tag byte

	I8    int8
	I16   int16
	I32   int32
	I64   int64
	F32   float32
	F64   float64
	Bool  bool
	Str   string // tag 's'
	Class string // tag 'c': a type descriptor, e.g. "Ljava/lang/String;" or "I"

	EnumType  string // tag 'e': the enum type's descriptor
	EnumConst string // tag 'e': the constant name

	Nested *RawAnnotation // tag '@'
	Array  []RawValue     // tag '['
}

// RawNamedValue is one element_value_pair: an element name paired with its
// value.
type RawNamedValue struct {
	Name  string
	Value RawValue
}

// RawAnnotation is one decoded annotation structure (JVMS §4.7.16):
// the annotation type's descriptor and its element/value pairs.
type RawAnnotation struct {
	TypeDescriptor string
	Values         []RawNamedValue
}

// RawField is one decoded field_info, with its RuntimeVisible/Invisible
// Annotations already merged into one slice.
type RawField struct {
	Name        string
	Descriptor  string
	Access      uint16
	Annotations []RawAnnotation
}

// RawMethod is one decoded method_info. ParamAnnotations is indexed by
// parameter position and is nil when the method carries neither a
// RuntimeVisibleParameterAnnotations nor RuntimeInvisibleParameterAnnotations
// attribute.
type RawMethod struct {
	Name             string
	Descriptor       string
	Access           uint16
	Annotations      []RawAnnotation
	ParamAnnotations [][]RawAnnotation
}

// RawClass is the fully decoded structural content of one class file.
type RawClass struct {
	ThisClass   dotted.Name
	SuperClass  *dotted.Name
	Interfaces  []dotted.Name
	Access      uint16
	Fields      []RawField
	Methods     []RawMethod
	Annotations []RawAnnotation
}

// Read decodes one class file from r. interner canonicalizes the class
// names resolved through the constant pool (this class, superclass, and
// interfaces). Field, method, and annotation descriptors, including the
// types inside annotation values, are returned as raw descriptor strings.
func Read(r io.Reader, interner *dotted.Interner) (*RawClass, error) {
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if magic != classFileMagic {
		return nil, fmt.Errorf("bad magic %#08x, want %#08x", magic, classFileMagic)
	}

	var minor, major uint16
	if err := binary.Read(r, binary.BigEndian, &minor); err != nil {
		return nil, fmt.Errorf("reading minor version: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &major); err != nil {
		return nil, fmt.Errorf("reading major version: %w", err)
	}

	var poolCount uint16
	if err := binary.Read(r, binary.BigEndian, &poolCount); err != nil {
		return nil, fmt.Errorf("reading constant_pool_count: %w", err)
	}
	pool, err := constantpool.Read(r, poolCount, interner)
	if err != nil {
		return nil, err
	}

	rc := &RawClass{}

	if err := binary.Read(r, binary.BigEndian, &rc.Access); err != nil {
		return nil, fmt.Errorf("reading access_flags: %w", err)
	}

	var thisIdx, superIdx uint16
	if err := binary.Read(r, binary.BigEndian, &thisIdx); err != nil {
		return nil, fmt.Errorf("reading this_class: %w", err)
	}
	rc.ThisClass, err = pool.ReadClassName(int(thisIdx))
	if err != nil {
		return nil, fmt.Errorf("resolving this_class: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &superIdx); err != nil {
		return nil, fmt.Errorf("reading super_class: %w", err)
	}
	if superIdx != 0 {
		super, err := pool.ReadClassName(int(superIdx))
		if err != nil {
			return nil, fmt.Errorf("resolving super_class: %w", err)
		}
		rc.SuperClass = &super
	}

	var ifaceCount uint16
	if err := binary.Read(r, binary.BigEndian, &ifaceCount); err != nil {
		return nil, fmt.Errorf("reading interfaces_count: %w", err)
	}
	rc.Interfaces = make([]dotted.Name, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		var idx uint16
		if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
			return nil, fmt.Errorf("reading interface %d: %w", i, err)
		}
		name, err := pool.ReadClassName(int(idx))
		if err != nil {
			return nil, fmt.Errorf("resolving interface %d: %w", i, err)
		}
		rc.Interfaces = append(rc.Interfaces, name)
	}

	var fieldCount uint16
	if err := binary.Read(r, binary.BigEndian, &fieldCount); err != nil {
		return nil, fmt.Errorf("reading fields_count: %w", err)
	}
	rc.Fields = make([]RawField, 0, fieldCount)
	for i := 0; i < int(fieldCount); i++ {
		f, err := readField(r, pool)
		if err != nil {
			return nil, fmt.Errorf("reading field %d: %w", i, err)
		}
		rc.Fields = append(rc.Fields, f)
	}

	var methodCount uint16
	if err := binary.Read(r, binary.BigEndian, &methodCount); err != nil {
		return nil, fmt.Errorf("reading methods_count: %w", err)
	}
	rc.Methods = make([]RawMethod, 0, methodCount)
	for i := 0; i < int(methodCount); i++ {
		m, err := readMethod(r, pool)
		if err != nil {
			return nil, fmt.Errorf("reading method %d: %w", i, err)
		}
		rc.Methods = append(rc.Methods, m)
	}

	var attrCount uint16
	if err := binary.Read(r, binary.BigEndian, &attrCount); err != nil {
		return nil, fmt.Errorf("reading class attributes_count: %w", err)
	}
	for i := 0; i < int(attrCount); i++ {
		name, payload, err := readAttributeHeader(r, pool)
		if err != nil {
			return nil, fmt.Errorf("reading class attribute %d: %w", i, err)
		}
		if isAnnotationsAttribute(name) {
			anns, err := readAnnotations(payload, pool)
			if err != nil {
				return nil, fmt.Errorf("decoding class annotations: %w", err)
			}
			rc.Annotations = append(rc.Annotations, anns...)
		}
	}

	return rc, nil
}

func readField(r io.Reader, pool *constantpool.Pool) (RawField, error) {
	var accessFlags, nameIdx, descIdx, attrCount uint16
	if err := binary.Read(r, binary.BigEndian, &accessFlags); err != nil {
		return RawField{}, fmt.Errorf("reading access_flags: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
		return RawField{}, fmt.Errorf("reading name_index: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &descIdx); err != nil {
		return RawField{}, fmt.Errorf("reading descriptor_index: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &attrCount); err != nil {
		return RawField{}, fmt.Errorf("reading attributes_count: %w", err)
	}
	name, err := pool.ReadUTF8(int(nameIdx))
	if err != nil {
		return RawField{}, fmt.Errorf("resolving name: %w", err)
	}
	desc, err := pool.ReadUTF8(int(descIdx))
	if err != nil {
		return RawField{}, fmt.Errorf("resolving descriptor: %w", err)
	}

	f := RawField{Name: name, Descriptor: desc, Access: accessFlags}
	for i := 0; i < int(attrCount); i++ {
		attrName, payload, err := readAttributeHeader(r, pool)
		if err != nil {
			return RawField{}, fmt.Errorf("reading attribute %d: %w", i, err)
		}
		if isAnnotationsAttribute(attrName) {
			anns, err := readAnnotations(payload, pool)
			if err != nil {
				return RawField{}, fmt.Errorf("decoding annotations: %w", err)
			}
			f.Annotations = append(f.Annotations, anns...)
		}
	}
	return f, nil
}

func readMethod(r io.Reader, pool *constantpool.Pool) (RawMethod, error) {
	var accessFlags, nameIdx, descIdx, attrCount uint16
	if err := binary.Read(r, binary.BigEndian, &accessFlags); err != nil {
		return RawMethod{}, fmt.Errorf("reading access_flags: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
		return RawMethod{}, fmt.Errorf("reading name_index: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &descIdx); err != nil {
		return RawMethod{}, fmt.Errorf("reading descriptor_index: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &attrCount); err != nil {
		return RawMethod{}, fmt.Errorf("reading attributes_count: %w", err)
	}
	name, err := pool.ReadUTF8(int(nameIdx))
	if err != nil {
		return RawMethod{}, fmt.Errorf("resolving name: %w", err)
	}
	desc, err := pool.ReadUTF8(int(descIdx))
	if err != nil {
		return RawMethod{}, fmt.Errorf("resolving descriptor: %w", err)
	}

	m := RawMethod{Name: name, Descriptor: desc, Access: accessFlags}
	for i := 0; i < int(attrCount); i++ {
		attrName, payload, err := readAttributeHeader(r, pool)
		if err != nil {
			return RawMethod{}, fmt.Errorf("reading attribute %d: %w", i, err)
		}
		switch {
		case isAnnotationsAttribute(attrName):
			anns, err := readAnnotations(payload, pool)
			if err != nil {
				return RawMethod{}, fmt.Errorf("decoding annotations: %w", err)
			}
			m.Annotations = append(m.Annotations, anns...)
		case attrName == "RuntimeVisibleParameterAnnotations" || attrName == "RuntimeInvisibleParameterAnnotations":
			perParam, err := readParameterAnnotations(payload, pool)
			if err != nil {
				return RawMethod{}, fmt.Errorf("decoding parameter annotations: %w", err)
			}
			m.ParamAnnotations = mergeParamAnnotations(m.ParamAnnotations, perParam)
		}
	}
	return m, nil
}

func mergeParamAnnotations(existing, incoming [][]RawAnnotation) [][]RawAnnotation {
	if existing == nil {
		return incoming
	}
	for i := range incoming {
		if i < len(existing) {
			existing[i] = append(existing[i], incoming[i]...)
		}
	}
	return existing
}

// readAttributeHeader reads one attribute's name and declared-length
// payload, leaving the reader positioned just past it. Unrecognized
// attributes are consumed here and their payload simply discarded by the
// caller, which is how this reader tolerates class-file versions newer
// than the ones it specifically understands.
func readAttributeHeader(r io.Reader, pool *constantpool.Pool) (name string, payload []byte, err error) {
	var nameIdx uint16
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
		return "", nil, fmt.Errorf("reading attribute_name_index: %w", err)
	}
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", nil, fmt.Errorf("reading attribute_length: %w", err)
	}
	name, err = pool.ReadUTF8(int(nameIdx))
	if err != nil {
		return "", nil, fmt.Errorf("resolving attribute name: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", nil, fmt.Errorf("reading attribute %q payload: %w", name, err)
	}
	return name, buf, nil
}

func isAnnotationsAttribute(name string) bool {
	return name == "RuntimeVisibleAnnotations" || name == "RuntimeInvisibleAnnotations"
}

func readAnnotations(payload []byte, pool *constantpool.Pool) ([]RawAnnotation, error) {
	br := newByteReader(payload)
	count, err := br.u16()
	if err != nil {
		return nil, fmt.Errorf("reading num_annotations: %w", err)
	}
	out := make([]RawAnnotation, 0, count)
	for i := 0; i < int(count); i++ {
		ann, err := readAnnotation(br, pool)
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		out = append(out, ann)
	}
	return out, nil
}

func readParameterAnnotations(payload []byte, pool *constantpool.Pool) ([][]RawAnnotation, error) {
	br := newByteReader(payload)
	numParams, err := br.u8()
	if err != nil {
		return nil, fmt.Errorf("reading num_parameters: %w", err)
	}
	out := make([][]RawAnnotation, numParams)
	for p := 0; p < int(numParams); p++ {
		count, err := br.u16()
		if err != nil {
			return nil, fmt.Errorf("reading num_annotations for parameter %d: %w", p, err)
		}
		anns := make([]RawAnnotation, 0, count)
		for i := 0; i < int(count); i++ {
			ann, err := readAnnotation(br, pool)
			if err != nil {
				return nil, fmt.Errorf("parameter %d annotation %d: %w", p, i, err)
			}
			anns = append(anns, ann)
		}
		out[p] = anns
	}
	return out, nil
}

func readAnnotation(br *byteReader, pool *constantpool.Pool) (RawAnnotation, error) {
	typeIdx, err := br.u16()
	if err != nil {
		return RawAnnotation{}, fmt.Errorf("reading type_index: %w", err)
	}
	typeDesc, err := pool.ReadUTF8(int(typeIdx))
	if err != nil {
		return RawAnnotation{}, fmt.Errorf("resolving type_index: %w", err)
	}
	pairCount, err := br.u16()
	if err != nil {
		return RawAnnotation{}, fmt.Errorf("reading num_element_value_pairs: %w", err)
	}
	ann := RawAnnotation{TypeDescriptor: typeDesc}
	for i := 0; i < int(pairCount); i++ {
		nameIdx, err := br.u16()
		if err != nil {
			return RawAnnotation{}, fmt.Errorf("reading element_name_index %d: %w", i, err)
		}
		elemName, err := pool.ReadUTF8(int(nameIdx))
		if err != nil {
			return RawAnnotation{}, fmt.Errorf("resolving element name %d: %w", i, err)
		}
		val, err := readElementValue(br, pool)
		if err != nil {
			return RawAnnotation{}, fmt.Errorf("reading value of %q: %w", elemName, err)
		}
		ann.Values = append(ann.Values, RawNamedValue{Name: elemName, Value: val})
	}
	return ann, nil
}

func readElementValue(br *byteReader, pool *constantpool.Pool) (RawValue, error) {
	tag, err := br.u8()
	if err != nil {
		return RawValue{}, fmt.Errorf("reading tag: %w", err)
	}
	switch tag {
	case 'B':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadInt(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, I8: int8(v)}, nil
	case 'S':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadInt(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, I16: int16(v)}, nil
	case 'I':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadInt(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, I32: v}, nil
	case 'J':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadLong(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, I64: v}, nil
	case 'C':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadInt(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, I32: v}, nil
	case 'F':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadFloat(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, F32: v}, nil
	case 'D':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadDouble(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, F64: v}, nil
	case 'Z':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadInt(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, Bool: v != 0}, nil
	case 's':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadUTF8(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, Str: v}, nil
	case 'e':
		typeIdx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		constIdx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		typeDesc, err := pool.ReadUTF8(int(typeIdx))
		if err != nil {
			return RawValue{}, err
		}
		constName, err := pool.ReadUTF8(int(constIdx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, EnumType: typeDesc, EnumConst: constName}, nil
	case 'c':
		idx, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		v, err := pool.ReadUTF8(int(idx))
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, Class: v}, nil
	case '@':
		nested, err := readAnnotation(br, pool)
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{Tag: tag, Nested: &nested}, nil
	case '[':
		count, err := br.u16()
		if err != nil {
			return RawValue{}, err
		}
		arr := make([]RawValue, 0, count)
		for i := 0; i < int(count); i++ {
			elem, err := readElementValue(br, pool)
			if err != nil {
				return RawValue{}, fmt.Errorf("array element %d: %w", i, err)
			}
			arr = append(arr, elem)
		}
		return RawValue{Tag: tag, Array: arr}, nil
	default:
		return RawValue{}, fmt.Errorf("unrecognized element_value tag %q", rune(tag))
	}
}
