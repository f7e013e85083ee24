package constantpool

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/edward-ap/classindex/internal/dotted"
)

// builder assembles a minimal constant pool byte stream for tests.
type builder struct {
	buf   bytes.Buffer
	count uint16 // constant_pool_count (entries + 1)
}

func (b *builder) utf8(s string) *builder {
	b.buf.WriteByte(byte(TagUTF8))
	binary.Write(&b.buf, binary.BigEndian, uint16(len(s)))
	b.buf.WriteString(s)
	b.count++
	return b
}

func (b *builder) class(nameIdx uint16) *builder {
	b.buf.WriteByte(byte(TagClass))
	binary.Write(&b.buf, binary.BigEndian, nameIdx)
	b.count++
	return b
}

func (b *builder) integer(v int32) *builder {
	b.buf.WriteByte(byte(TagInteger))
	binary.Write(&b.buf, binary.BigEndian, uint32(v))
	b.count++
	return b
}

func (b *builder) long(v int64) *builder {
	b.buf.WriteByte(byte(TagLong))
	binary.Write(&b.buf, binary.BigEndian, uint64(v))
	b.count += 2 // occupies two slots
	return b
}

func (b *builder) read(t *testing.T) *Pool {
	t.Helper()
	p, err := Read(bytes.NewReader(b.buf.Bytes()), b.count+1, dotted.NewInterner())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return p
}

func TestReadUTF8AndClassName(t *testing.T) {
	b := &builder{}
	b.utf8("java/lang/String") // index 1
	b.class(1)                 // index 2

	p := b.read(t)

	s, err := p.ReadUTF8(1)
	if err != nil || s != "java/lang/String" {
		t.Fatalf("ReadUTF8: %v, %q", err, s)
	}

	name, err := p.ReadClassName(2)
	if err != nil {
		t.Fatalf("ReadClassName: %v", err)
	}
	if name.String() != "java.lang.String" {
		t.Fatalf("unexpected class name: %q", name.String())
	}
}

func TestLongOccupiesTwoSlots(t *testing.T) {
	b := &builder{}
	b.long(42)     // index 1, index 2 reserved
	b.integer(100) // index 3

	p := b.read(t)

	v, err := p.ReadLong(1)
	if err != nil || v != 42 {
		t.Fatalf("ReadLong: %v, %d", err, v)
	}

	if _, err := p.ReadLong(2); err == nil {
		t.Fatalf("expected error reading reserved slot")
	}

	iv, err := p.ReadInt(3)
	if err != nil || iv != 100 {
		t.Fatalf("ReadInt: %v, %d", err, iv)
	}
}

func TestWrongTagIsError(t *testing.T) {
	b := &builder{}
	b.integer(5)

	p := b.read(t)
	if _, err := p.ReadUTF8(1); err == nil {
		t.Fatalf("expected tag mismatch error")
	}
}

func TestUnknownTagIsMalformed(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(99) // unrecognized tag
	_, err := Read(bytes.NewReader(buf.Bytes()), 2, dotted.NewInterner())
	if err == nil {
		t.Fatalf("expected malformed error for unknown tag")
	}
}

func TestIndexZeroIsInvalid(t *testing.T) {
	b := &builder{}
	b.utf8("x")
	p := b.read(t)
	if _, err := p.ReadUTF8(0); err == nil {
		t.Fatalf("expected error for index 0")
	}
}
