// Package constantpool decodes the constant pool of a JVM class file
// (JVMS §4.4) and offers random-access, tag-checked resolution of its
// entries. It recognizes exactly the tags spec.md enumerates:
// UTF8, Integer, Float, Long, Double, Class, String, Fieldref, Methodref,
// InterfaceMethodref, NameAndType. Any other tag byte is a malformed class
// file, because this decoder has no way to know how many bytes an
// unrecognized entry occupies and therefore cannot safely skip it.
//
// Constant pool indices are 1-based per JVMS; index 0 is always invalid.
// Long and Double entries occupy two consecutive indices — the second is
// reserved and unusable — which this decoder accounts for while building
// the pool and rejects if a caller tries to resolve it directly.
package constantpool

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/edward-ap/classindex/internal/dotted"
	"github.com/edward-ap/classindex/internal/mutf8"
)

// Tag identifies the kind of a constant pool entry.
type Tag uint8

const (
	TagUTF8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12

	// tagReserved marks the unusable slot following a Long/Double entry.
	// It is never present in a class file; it is synthesized while parsing.
	tagReserved Tag = 0
)

// entry is the decoded payload for one constant pool slot. Only the fields
// relevant to the entry's tag are populated.
type entry struct {
	tag Tag

	utf8      string
	i32       int32
	f32       float32
	i64       int64
	f64       float64
	classIdx  uint16 // TagClass, TagString: index of the UTF8 name/value
	classIdx2 uint16 // ref entries: name-and-type index
}

// Pool is a parsed, randomly-addressable constant pool.
type Pool struct {
	entries  []entry // 1-indexed; entries[0] is the unusable placeholder
	interner *dotted.Interner
}

// MalformedError reports a structural problem decoding the constant pool.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed constant pool: " + e.Reason
}

func malformed(format string, args ...any) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

// Read parses count-1 constant pool entries (count is the class file's
// constant_pool_count, which is one greater than the number of usable
// entries) from r, using interner to canonicalize any class names resolved
// during the read.
func Read(r io.Reader, count uint16, interner *dotted.Interner) (*Pool, error) {
	p := &Pool{
		entries:  make([]entry, 1, count),
		interner: interner,
	}
	p.entries[0] = entry{tag: tagReserved}

	for i := 1; i < int(count); i++ {
		var tagByte uint8
		if err := binary.Read(r, binary.BigEndian, &tagByte); err != nil {
			return nil, malformed("reading tag at index %d: %v", i, err)
		}
		tag := Tag(tagByte)

		e, err := readEntry(r, tag)
		if err != nil {
			return nil, malformed("index %d: %v", i, err)
		}
		p.entries = append(p.entries, e)

		if tag == TagLong || tag == TagDouble {
			// 8-byte constants occupy two entries; the second is reserved.
			p.entries = append(p.entries, entry{tag: tagReserved})
			i++
		}
	}
	return p, nil
}

func readEntry(r io.Reader, tag Tag) (entry, error) {
	switch tag {
	case TagUTF8:
		var length uint16
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return entry{}, fmt.Errorf("reading utf8 length: %w", err)
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return entry{}, fmt.Errorf("reading utf8 bytes: %w", err)
		}
		s, err := mutf8.Decode(buf)
		if err != nil {
			return entry{}, fmt.Errorf("decoding mutf8: %w", err)
		}
		return entry{tag: tag, utf8: s}, nil

	case TagInteger:
		var v uint32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return entry{}, fmt.Errorf("reading integer: %w", err)
		}
		return entry{tag: tag, i32: int32(v)}, nil

	case TagFloat:
		var v uint32
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return entry{}, fmt.Errorf("reading float: %w", err)
		}
		return entry{tag: tag, f32: math.Float32frombits(v)}, nil

	case TagLong:
		var v uint64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return entry{}, fmt.Errorf("reading long: %w", err)
		}
		return entry{tag: tag, i64: int64(v)}, nil

	case TagDouble:
		var v uint64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return entry{}, fmt.Errorf("reading double: %w", err)
		}
		return entry{tag: tag, f64: math.Float64frombits(v)}, nil

	case TagClass:
		var nameIdx uint16
		if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
			return entry{}, fmt.Errorf("reading class name index: %w", err)
		}
		return entry{tag: tag, classIdx: nameIdx}, nil

	case TagString:
		var strIdx uint16
		if err := binary.Read(r, binary.BigEndian, &strIdx); err != nil {
			return entry{}, fmt.Errorf("reading string index: %w", err)
		}
		return entry{tag: tag, classIdx: strIdx}, nil

	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		var classIdx, natIdx uint16
		if err := binary.Read(r, binary.BigEndian, &classIdx); err != nil {
			return entry{}, fmt.Errorf("reading ref class index: %w", err)
		}
		if err := binary.Read(r, binary.BigEndian, &natIdx); err != nil {
			return entry{}, fmt.Errorf("reading ref name-and-type index: %w", err)
		}
		return entry{tag: tag, classIdx: classIdx, classIdx2: natIdx}, nil

	case TagNameAndType:
		var nameIdx, descIdx uint16
		if err := binary.Read(r, binary.BigEndian, &nameIdx); err != nil {
			return entry{}, fmt.Errorf("reading name index: %w", err)
		}
		if err := binary.Read(r, binary.BigEndian, &descIdx); err != nil {
			return entry{}, fmt.Errorf("reading descriptor index: %w", err)
		}
		return entry{tag: tag, classIdx: nameIdx, classIdx2: descIdx}, nil

	default:
		return entry{}, fmt.Errorf("unrecognized constant pool tag %d", tag)
	}
}

func (p *Pool) at(index int) (entry, error) {
	if index <= 0 || index >= len(p.entries) {
		return entry{}, malformed("index %d out of range", index)
	}
	e := p.entries[index]
	if e.tag == tagReserved {
		return entry{}, malformed("index %d refers to an unusable Long/Double placeholder slot", index)
	}
	return e, nil
}

// ReadUTF8 returns the decoded string stored at index, which must be a
// CONSTANT_Utf8_info entry.
func (p *Pool) ReadUTF8(index int) (string, error) {
	e, err := p.at(index)
	if err != nil {
		return "", err
	}
	if e.tag != TagUTF8 {
		return "", malformed("index %d is tag %d, want UTF8", index, e.tag)
	}
	return e.utf8, nil
}

// ReadClassName resolves index as a CONSTANT_Class_info entry, reads the
// referenced UTF-8 as a slash-delimited internal name, and interns it into
// component-shared dotted form.
func (p *Pool) ReadClassName(index int) (dotted.Name, error) {
	e, err := p.at(index)
	if err != nil {
		return dotted.Name{}, err
	}
	if e.tag != TagClass {
		return dotted.Name{}, malformed("index %d is tag %d, want Class", index, e.tag)
	}
	internal, err := p.ReadUTF8(int(e.classIdx))
	if err != nil {
		return dotted.Name{}, malformed("class index %d: %v", index, err)
	}
	var name dotted.Name
	var parent *dotted.Name
	start := 0
	for i := 0; i <= len(internal); i++ {
		if i == len(internal) || internal[i] == '/' {
			n := p.interner.InternComponent(parent, internal[start:i])
			name, parent, start = n, &n, i+1
		}
	}
	return name, nil
}

// ReadString resolves index as a CONSTANT_String_info entry and returns the
// UTF-8 string it points to.
func (p *Pool) ReadString(index int) (string, error) {
	e, err := p.at(index)
	if err != nil {
		return "", err
	}
	if e.tag != TagString {
		return "", malformed("index %d is tag %d, want String", index, e.tag)
	}
	return p.ReadUTF8(int(e.classIdx))
}

// ReadInt returns the CONSTANT_Integer_info value at index.
func (p *Pool) ReadInt(index int) (int32, error) {
	e, err := p.at(index)
	if err != nil {
		return 0, err
	}
	if e.tag != TagInteger {
		return 0, malformed("index %d is tag %d, want Integer", index, e.tag)
	}
	return e.i32, nil
}

// ReadLong returns the CONSTANT_Long_info value at index.
func (p *Pool) ReadLong(index int) (int64, error) {
	e, err := p.at(index)
	if err != nil {
		return 0, err
	}
	if e.tag != TagLong {
		return 0, malformed("index %d is tag %d, want Long", index, e.tag)
	}
	return e.i64, nil
}

// ReadFloat returns the CONSTANT_Float_info value at index.
func (p *Pool) ReadFloat(index int) (float32, error) {
	e, err := p.at(index)
	if err != nil {
		return 0, err
	}
	if e.tag != TagFloat {
		return 0, malformed("index %d is tag %d, want Float", index, e.tag)
	}
	return e.f32, nil
}

// ReadDouble returns the CONSTANT_Double_info value at index.
func (p *Pool) ReadDouble(index int) (float64, error) {
	e, err := p.at(index)
	if err != nil {
		return 0, err
	}
	if e.tag != TagDouble {
		return 0, malformed("index %d is tag %d, want Double", index, e.tag)
	}
	return e.f64, nil
}

// NameAndType resolves a CONSTANT_NameAndType_info entry into its raw name
// and descriptor strings.
func (p *Pool) NameAndType(index int) (name, descriptor string, err error) {
	e, err := p.at(index)
	if err != nil {
		return "", "", err
	}
	if e.tag != TagNameAndType {
		return "", "", malformed("index %d is tag %d, want NameAndType", index, e.tag)
	}
	name, err = p.ReadUTF8(int(e.classIdx))
	if err != nil {
		return "", "", err
	}
	descriptor, err = p.ReadUTF8(int(e.classIdx2))
	if err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}
