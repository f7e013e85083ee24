package classindex

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind discriminates the shapes an AnnotationValue can take.
type ValueKind uint8

const (
	KindByte ValueKind = iota
	KindShort
	KindInt
	KindLong
	KindChar
	KindFloat
	KindDouble
	KindBoolean
	KindString
	KindClass
	KindEnum
	KindNested
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindChar:
		return "char"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindNested:
		return "nested"
	case KindArray:
		return "array"
	default:
		return "?"
	}
}

// isNumeric reports whether k is one of the JVM numeric primitive kinds
// that participate in the widening/narrowing accessor matrix. Boolean,
// despite being a "primitive" element-value tag, is not numeric in Java and
// has no cast conversions to or from the others.
func (k ValueKind) isNumeric() bool {
	return k.isIntegral() || k.isFloatingPoint()
}

// isIntegral reports whether k stores its canonical payload as an exact
// int64 (byte/short/int/long/char), as opposed to a floating-point kind.
// Keeping these separate from float/double avoids losing precision on a
// long value above 2^53 by ever routing it through a float64 payload.
func (k ValueKind) isIntegral() bool {
	switch k {
	case KindByte, KindShort, KindInt, KindLong, KindChar:
		return true
	default:
		return false
	}
}

// isFloatingPoint reports whether k stores its canonical payload as a
// float64 (float or double).
func (k ValueKind) isFloatingPoint() bool {
	return k == KindFloat || k == KindDouble
}

// AnnotationValue is one element of an AnnotationInstance: either a named
// element-value pair, or an unnamed element of an enclosing array (in which
// case Name() returns "").
//
// AnnotationValue is a tagged union over the thirteen shapes JVMS §4.7.16.1
// defines for an element_value. Access is via the kind-dispatched
// accessors below; calling an accessor that does not match Kind() returns
// an InvalidAnnotationValueAccessError, except that the numeric accessors
// (Byte/Short/Int/Long/Float/Double) succeed for any numeric Kind and
// apply the same narrowing/widening conversion a Java cast would. Char
// succeeds only for KindChar.
type AnnotationValue struct {
	name string
	kind ValueKind

	ival    int64   // exact canonical payload for byte/short/int/long/char/boolean(0 or 1)
	fval    float64 // canonical payload for float/double
	str     string  // KindString payload, or KindEnum's constant name
	typ     Type    // KindClass payload
	enumTyp Name    // KindEnum's declaring type
	nested  *AnnotationInstance
	array   []AnnotationValue
}

// Name returns the element name ("value" is conventional for a single-
// element annotation's implicit element, but this returns whatever name
// was recorded), or "" when this value is an element of an enclosing
// array.
func (v AnnotationValue) Name() string { return v.name }

// Kind reports which of the thirteen JVMS element_value shapes this is.
func (v AnnotationValue) Kind() ValueKind { return v.kind }

func invalidAccess(v AnnotationValue, requested string) error {
	return &InvalidAnnotationValueAccessError{Kind: v.kind, Requested: requested}
}

// Byte converts the underlying numeric value to a byte as if it were cast
// in Java (JLS §5.1.3): an integral payload narrows by simple truncation
// (wrapping), a floating-point payload first saturates to int32 and then
// truncates that int32 to 8 bits.
func (v AnnotationValue) Byte() (int8, error) {
	switch {
	case v.kind.isIntegral():
		return int8(v.ival), nil
	case v.kind.isFloatingPoint():
		return int8(javaIntCast(v.fval)), nil
	default:
		return 0, invalidAccess(v, "byte")
	}
}

// Short converts the underlying numeric value to a short as if cast in
// Java, following the same integral-truncates / float-saturates-then-
// truncates rule as Byte.
func (v AnnotationValue) Short() (int16, error) {
	switch {
	case v.kind.isIntegral():
		return int16(v.ival), nil
	case v.kind.isFloatingPoint():
		return int16(javaIntCast(v.fval)), nil
	default:
		return 0, invalidAccess(v, "short")
	}
}

// Int converts the underlying numeric value to an int as if cast in Java: an
// integral payload truncates to 32 bits, a floating-point payload saturates
// to the int32 range (JLS §5.1.3), rather than going through int64 first.
func (v AnnotationValue) Int() (int32, error) {
	switch {
	case v.kind.isIntegral():
		return int32(v.ival), nil
	case v.kind.isFloatingPoint():
		return javaIntCast(v.fval), nil
	default:
		return 0, invalidAccess(v, "int")
	}
}

// Long converts the underlying numeric value to a long as if cast in Java.
// An integral payload is already an exact int64 and is returned verbatim;
// a floating-point payload saturates to the int64 range.
func (v AnnotationValue) Long() (int64, error) {
	switch {
	case v.kind.isIntegral():
		return v.ival, nil
	case v.kind.isFloatingPoint():
		return javaLongCast(v.fval), nil
	default:
		return 0, invalidAccess(v, "long")
	}
}

// Char returns the underlying character value. Only KindChar supports this
// directly (matching Java, where asChar is not part of the numeric cast
// family).
func (v AnnotationValue) Char() (rune, error) {
	if v.kind != KindChar {
		return 0, invalidAccess(v, "char")
	}
	return rune(int32(v.ival)), nil
}

// Float converts the underlying numeric value to a float32 as if cast in
// Java.
func (v AnnotationValue) Float() (float32, error) {
	switch {
	case v.kind.isIntegral():
		return float32(v.ival), nil
	case v.kind.isFloatingPoint():
		return float32(v.fval), nil
	default:
		return 0, invalidAccess(v, "float")
	}
}

// Double converts the underlying numeric value to a float64 as if cast in
// Java.
func (v AnnotationValue) Double() (float64, error) {
	switch {
	case v.kind.isIntegral():
		return float64(v.ival), nil
	case v.kind.isFloatingPoint():
		return v.fval, nil
	default:
		return 0, invalidAccess(v, "double")
	}
}

// Bool returns the underlying boolean value. Boolean is not part of the
// numeric cast family in Java, so no other kind can satisfy this.
func (v AnnotationValue) Bool() (bool, error) {
	if v.kind != KindBoolean {
		return false, invalidAccess(v, "boolean")
	}
	return v.ival != 0, nil
}

// String returns a string representation of the value. Unlike the other
// accessors this never errors, mirroring Java's asString(), which falls
// back to value().toString() for any kind.
func (v AnnotationValue) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindEnum:
		return v.str
	case KindClass:
		return v.typ.String()
	case KindNested:
		if v.nested == nil {
			return ""
		}
		return v.nested.String()
	case KindArray:
		parts := make([]string, len(v.array))
		for i, e := range v.array {
			parts[i] = e.renderValue()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindBoolean:
		if v.ival != 0 {
			return "true"
		}
		return "false"
	case KindChar:
		return string(rune(int32(v.ival)))
	case KindFloat:
		return strconv.FormatFloat(v.fval, 'g', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(v.fval, 'g', -1, 64)
	default:
		return strconv.FormatInt(v.ival, 10)
	}
}

// Class returns the Type payload of a KindClass value.
func (v AnnotationValue) Class() (Type, error) {
	if v.kind != KindClass {
		return Type{}, invalidAccess(v, "class")
	}
	return v.typ, nil
}

// Enum returns the declaring type name and constant name of a KindEnum
// value.
func (v AnnotationValue) Enum() (typeName Name, constant string, err error) {
	if v.kind != KindEnum {
		return Name{}, "", invalidAccess(v, "enum")
	}
	return v.enumTyp, v.str, nil
}

// Nested returns the AnnotationInstance payload of a KindNested value. The
// returned instance's Target is always the zero AnnotationTarget
// (TargetNone), matching spec.md §3: nested annotations have no target.
func (v AnnotationValue) Nested() (*AnnotationInstance, error) {
	if v.kind != KindNested {
		return nil, invalidAccess(v, "nested annotation")
	}
	return v.nested, nil
}

// Array returns the element values of a KindArray value, in declaration
// order. Capacity-clamped; see the package doc comment on read-only lists.
func (v AnnotationValue) Array() ([]AnnotationValue, error) {
	if v.kind != KindArray {
		return nil, invalidAccess(v, "array")
	}
	return v.array[:len(v.array):len(v.array)], nil
}

// renderValue renders just the value portion (no "name = " prefix), used
// both for array elements and as the payload half of the top-level
// "name = value" rendering.
func (v AnnotationValue) renderValue() string {
	if v.kind == KindString {
		return `"` + v.str + `"`
	}
	return v.String()
}

// Render renders "name = value" the way Jandex's AnnotationValue.toString
// does, used by Index.PrintAnnotations.
func (v AnnotationValue) Render() string {
	if v.name == "" {
		return v.renderValue()
	}
	return fmt.Sprintf("%s = %s", v.name, v.renderValue())
}

// --- constructors -----------------------------------------------------------

// NewByteValue constructs a byte-kinded AnnotationValue.
func NewByteValue(name string, b int8) AnnotationValue {
	return AnnotationValue{name: name, kind: KindByte, ival: int64(b)}
}

// NewShortValue constructs a short-kinded AnnotationValue.
func NewShortValue(name string, s int16) AnnotationValue {
	return AnnotationValue{name: name, kind: KindShort, ival: int64(s)}
}

// NewIntValue constructs an int-kinded AnnotationValue.
func NewIntValue(name string, i int32) AnnotationValue {
	return AnnotationValue{name: name, kind: KindInt, ival: int64(i)}
}

// NewLongValue constructs a long-kinded AnnotationValue. Correctly spelled,
// unlike the source's createLongalue typo (spec.md §9). The int64 payload is
// stored exactly, not routed through float64, so values above 2^53 round-trip
// through Long() without losing precision.
func NewLongValue(name string, l int64) AnnotationValue {
	return AnnotationValue{name: name, kind: KindLong, ival: l}
}

// NewCharValue constructs a char-kinded AnnotationValue.
func NewCharValue(name string, c rune) AnnotationValue {
	return AnnotationValue{name: name, kind: KindChar, ival: int64(c)}
}

// NewFloatValue constructs a float-kinded AnnotationValue.
func NewFloatValue(name string, f float32) AnnotationValue {
	return AnnotationValue{name: name, kind: KindFloat, fval: float64(f)}
}

// NewDoubleValue constructs a double-kinded AnnotationValue. Correctly
// spelled, unlike the source's createDouleValue typo (spec.md §9).
func NewDoubleValue(name string, d float64) AnnotationValue {
	return AnnotationValue{name: name, kind: KindDouble, fval: d}
}

// NewBoolValue constructs a boolean-kinded AnnotationValue.
func NewBoolValue(name string, b bool) AnnotationValue {
	var n int64
	if b {
		n = 1
	}
	return AnnotationValue{name: name, kind: KindBoolean, ival: n}
}

// NewStringValue constructs a string-kinded AnnotationValue.
func NewStringValue(name, s string) AnnotationValue {
	return AnnotationValue{name: name, kind: KindString, str: s}
}

// NewClassValue constructs a class-kinded AnnotationValue.
func NewClassValue(name string, t Type) AnnotationValue {
	return AnnotationValue{name: name, kind: KindClass, typ: t}
}

// NewEnumValue constructs an enum-kinded AnnotationValue.
func NewEnumValue(name string, typeName Name, constant string) AnnotationValue {
	return AnnotationValue{name: name, kind: KindEnum, enumTyp: typeName, str: constant}
}

// NewNestedValue constructs a nested-annotation-kinded AnnotationValue.
func NewNestedValue(name string, instance *AnnotationInstance) AnnotationValue {
	return AnnotationValue{name: name, kind: KindNested, nested: instance}
}

// NewArrayValue constructs an array-kinded AnnotationValue.
func NewArrayValue(name string, elements []AnnotationValue) AnnotationValue {
	return AnnotationValue{name: name, kind: KindArray, array: elements}
}

// javaIntCast converts a float64 to int32 following Java's narrowing
// conversion from a floating point type directly to int (JLS §5.1.3): NaN
// becomes 0, values below math.MinInt32 saturate to math.MinInt32, values
// above math.MaxInt32 saturate to math.MaxInt32, otherwise the value is
// rounded toward zero. Byte()/Short() apply this first and then truncate the
// resulting int32 by simple (wrapping) narrowing, exactly as a Java
// double-or-float-to-byte/short cast does under the hood.
func javaIntCast(f float64) int32 {
	if math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	if f <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(f)
}

// javaLongCast converts a float64 to int64 following Java's narrowing
// conversion from a floating point type to long (JLS §5.1.3): NaN becomes 0,
// values below the target's minimum become the minimum, values above the
// maximum become the maximum, otherwise the value is rounded toward zero.
func javaLongCast(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}
