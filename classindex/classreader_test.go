package classindex

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edward-ap/classindex/internal/dotted"
)

// classFileBuilder assembles a minimal, valid class file byte-for-byte for
// tests, the same way pool_test.go's builder assembles just a constant
// pool. Constant pool entries are numbered in the order they are added,
// starting at 1.
type classFileBuilder struct {
	buf      bytes.Buffer
	poolBuf  bytes.Buffer
	poolSize uint16
}

func newClassFileBuilder() *classFileBuilder { return &classFileBuilder{poolSize: 1} }

func (b *classFileBuilder) utf8(s string) uint16 {
	binary.Write(&b.poolBuf, binary.BigEndian, uint8(1))
	binary.Write(&b.poolBuf, binary.BigEndian, uint16(len(s)))
	b.poolBuf.WriteString(s)
	idx := b.poolSize
	b.poolSize++
	return idx
}

func (b *classFileBuilder) class(nameIdx uint16) uint16 {
	binary.Write(&b.poolBuf, binary.BigEndian, uint8(7))
	binary.Write(&b.poolBuf, binary.BigEndian, nameIdx)
	idx := b.poolSize
	b.poolSize++
	return idx
}

func (b *classFileBuilder) integer(v int32) uint16 {
	binary.Write(&b.poolBuf, binary.BigEndian, uint8(3))
	binary.Write(&b.poolBuf, binary.BigEndian, v)
	idx := b.poolSize
	b.poolSize++
	return idx
}

// build assembles a class file that declares one class-level annotation
// "Lcom/example/Ann;" with a single int element "value" = 42, and no
// fields, methods, superclass, or interfaces.
func (b *classFileBuilder) build() []byte {
	thisNameIdx := b.utf8("com/example/Widget")
	thisClassIdx := b.class(thisNameIdx)
	annAttrNameIdx := b.utf8("RuntimeVisibleAnnotations")
	annTypeIdx := b.utf8("Lcom/example/Ann;")
	elemNameIdx := b.utf8("value")
	elemValueIdx := b.integer(42)

	var payload bytes.Buffer
	binary.Write(&payload, binary.BigEndian, uint16(1)) // num_annotations
	binary.Write(&payload, binary.BigEndian, annTypeIdx)
	binary.Write(&payload, binary.BigEndian, uint16(1)) // num_element_value_pairs
	binary.Write(&payload, binary.BigEndian, elemNameIdx)
	payload.WriteByte('I')
	binary.Write(&payload, binary.BigEndian, elemValueIdx)

	binary.Write(&b.buf, binary.BigEndian, uint32(0xCAFEBABE))
	binary.Write(&b.buf, binary.BigEndian, uint16(0))  // minor
	binary.Write(&b.buf, binary.BigEndian, uint16(52)) // major
	binary.Write(&b.buf, binary.BigEndian, b.poolSize)
	b.buf.Write(b.poolBuf.Bytes())
	binary.Write(&b.buf, binary.BigEndian, uint16(0x0021)) // access_flags
	binary.Write(&b.buf, binary.BigEndian, thisClassIdx)   // this_class
	binary.Write(&b.buf, binary.BigEndian, uint16(0))      // super_class
	binary.Write(&b.buf, binary.BigEndian, uint16(0))      // interfaces_count
	binary.Write(&b.buf, binary.BigEndian, uint16(0))      // fields_count
	binary.Write(&b.buf, binary.BigEndian, uint16(0))      // methods_count
	binary.Write(&b.buf, binary.BigEndian, uint16(1))      // attributes_count
	binary.Write(&b.buf, binary.BigEndian, annAttrNameIdx)
	binary.Write(&b.buf, binary.BigEndian, uint32(payload.Len()))
	b.buf.Write(payload.Bytes())

	return b.buf.Bytes()
}

func TestReadClassEndToEnd(t *testing.T) {
	data := newClassFileBuilder().build()
	interner := dotted.NewInterner()

	class, annotations, err := readClass(bytes.NewReader(data), interner)
	require.NoError(t, err)

	assert.Equal(t, "com.example.Widget", class.Name().String())
	assert.Nil(t, class.Super())
	assert.Empty(t, class.Fields())
	assert.Empty(t, class.Methods())

	require.Len(t, annotations, 1)
	inst := annotations[0]
	assert.Equal(t, "com.example.Ann", inst.Name().String())
	assert.Equal(t, TargetClass, inst.Target().Kind())

	v, ok := inst.Value("value")
	require.True(t, ok)
	i, err := v.Int()
	require.NoError(t, err)
	assert.EqualValues(t, 42, i)
}

func TestReadClassBadMagicIsMalformed(t *testing.T) {
	_, _, err := readClass(bytes.NewReader([]byte{0, 0, 0, 0}), dotted.NewInterner())
	require.Error(t, err)
	assert.True(t, IsMalformedClassFile(err))
}

func TestParseMethodDescriptorTruncatedReturnsMalformedNotPanic(t *testing.T) {
	interner := dotted.NewInterner()

	_, _, err := parseMethodDescriptor("(Lcom/example/Foo", interner)
	require.Error(t, err)
	assert.True(t, IsMalformedClassFile(err))

	_, _, err = parseMethodDescriptor("([", interner)
	require.Error(t, err)
	assert.True(t, IsMalformedClassFile(err))
}
