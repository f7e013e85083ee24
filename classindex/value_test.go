package classindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericWideningAcrossKinds(t *testing.T) {
	v := NewIntValue("x", 42)

	b, err := v.Byte()
	require.NoError(t, err)
	assert.Equal(t, int8(42), b)

	l, err := v.Long()
	require.NoError(t, err)
	assert.Equal(t, int64(42), l)

	d, err := v.Double()
	require.NoError(t, err)
	assert.Equal(t, 42.0, d)
}

func TestDoubleToIntTruncatesTowardZero(t *testing.T) {
	v := NewDoubleValue("x", 3.9)
	i, err := v.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(3), i)

	neg := NewDoubleValue("x", -3.9)
	i, err = neg.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(-3), i)
}

func TestByteNarrowingWraps(t *testing.T) {
	v := NewIntValue("x", 200)
	b, err := v.Byte()
	require.NoError(t, err)
	assert.Equal(t, int8(-56), b) // 200 wraps to -56 in a signed byte
}

func TestLargeDoubleToIntSaturates(t *testing.T) {
	// 1e10 overflows int32 but fits comfortably in int64; Java's (int)1e10
	// saturates to Integer.MAX_VALUE rather than wrapping through a wider cast.
	v := NewDoubleValue("x", 1e10)
	i, err := v.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(2147483647), i)

	neg := NewDoubleValue("x", -1e10)
	i, err = neg.Int()
	require.NoError(t, err)
	assert.Equal(t, int32(-2147483648), i)

	s, err := v.Short()
	require.NoError(t, err)
	assert.Equal(t, int16(-1), s) // int32 max truncated to 16 bits

	l, err := v.Long()
	require.NoError(t, err)
	assert.Equal(t, int64(1e10), l) // double-to-long saturates independently, no overflow here
}

func TestLongValueRoundTripsExactly(t *testing.T) {
	const want int64 = 9007199254740993 // 2^53 + 1, not exactly representable in float64
	v := NewLongValue("x", want)

	l, err := v.Long()
	require.NoError(t, err)
	assert.Equal(t, want, l)
}

func TestBooleanIsNotNumeric(t *testing.T) {
	v := NewBoolValue("flag", true)
	_, err := v.Int()
	require.Error(t, err)
	assert.True(t, IsInvalidAnnotationValueAccess(err))

	got, err := v.Bool()
	require.NoError(t, err)
	assert.True(t, got)
}

func TestClassAccessOnWrongKindErrors(t *testing.T) {
	v := NewIntValue("x", 1)
	_, err := v.Class()
	require.Error(t, err)
	assert.True(t, IsInvalidAnnotationValueAccess(err))
}

func TestStringNeverErrors(t *testing.T) {
	v := NewStringValue("x", "hello")
	assert.Equal(t, "hello", v.String())

	arr := NewArrayValue("x", []AnnotationValue{NewIntValue("", 1), NewIntValue("", 2)})
	assert.Equal(t, "[1, 2]", arr.String())
}

func TestRenderQuotesStrings(t *testing.T) {
	v := NewStringValue("name", "value")
	assert.Equal(t, `name = "value"`, v.Render())

	iv := NewIntValue("count", 5)
	assert.Equal(t, "count = 5", iv.Render())
}

func TestNestedValueRendersElements(t *testing.T) {
	interner := newTestInterner()
	inner := NewAnnotationInstance(
		interner.Intern("com.example.Inner"),
		AnnotationTarget{},
		[]AnnotationValue{NewIntValue("count", 3), NewStringValue("label", "x")},
	)
	v := NewNestedValue("inner", inner)

	assert.Equal(t, `@com.example.Inner(count = 3, label = "x")`, v.String())

	empty := NewAnnotationInstance(interner.Intern("com.example.Marker"), AnnotationTarget{}, nil)
	assert.Equal(t, "@com.example.Marker", NewNestedValue("marker", empty).String())
}

func TestEnumValueAccessors(t *testing.T) {
	interner := newTestInterner()
	dayType := interner.Intern("com.example.Day")
	v := NewEnumValue("day", dayType, "MONDAY")

	typeName, constant, err := v.Enum()
	require.NoError(t, err)
	assert.Equal(t, "com.example.Day", typeName.String())
	assert.Equal(t, "MONDAY", constant)
}
