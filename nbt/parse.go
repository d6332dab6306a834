package nbt

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Parse decodes a complete, already decompressed document and returns the
// root compound's name (often empty) and value. The root tag on the wire
// must be a Compound; anything else fails with ErrInvalidRoot carrying the
// observed type byte. Data still wearing the gzip magic fails with
// ErrStillCompressed, see Decompress.
//
// On any failure no partial tree is returned. Bytes past the end of the root
// payload are ignored.
func Parse(data []byte, opts ...Option) (string, Tag, error) {
	if IsCompressed(data) {
		return "", Tag{}, ErrStillCompressed
	}
	o := newParseOptions(opts...)
	p := &parser{c: cursor{data: data}, maxDepth: o.maxDepth}

	id, err := p.c.u8()
	if err != nil {
		return "", Tag{}, fmt.Errorf("reading root tag type: %w", err)
	}
	if TagType(id) != TagCompound {
		return "", Tag{}, fmt.Errorf("%w: got tag type %d", ErrInvalidRoot, id)
	}
	name, err := p.readString()
	if err != nil {
		return "", Tag{}, fmt.Errorf("reading root name: %w", err)
	}
	root, err := p.parsePayload(TagCompound)
	if err != nil {
		return "", Tag{}, err
	}
	return name, root, nil
}

type parser struct {
	c        cursor
	depth    int
	maxDepth int
}

// push charges one level of List or Compound nesting against the limit. The
// root compound is level 1.
func (p *parser) push() error {
	p.depth++
	if p.depth > p.maxDepth {
		return fmt.Errorf("%w: limit %d", ErrDepthExceeded, p.maxDepth)
	}
	return nil
}

func (p *parser) pop() {
	p.depth--
}

// readString reads a u16 length prefixed utf8 string. Invalid utf8 is
// malformed data and no partially decoded text escapes.
func (p *parser) readString() (string, error) {
	n, err := p.c.u16()
	if err != nil {
		return "", err
	}
	b, err := p.c.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: string payload is not valid utf8", ErrMalformedData)
	}
	return string(b), nil
}

// count reads the i32 length prefixing the array and list payload forms. A
// negative length is malformed data, never reinterpreted as a magnitude.
func (p *parser) count(kind TagType) (int, error) {
	n, err := p.c.i32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative %s length %d", ErrMalformedData, kind, n)
	}
	return int(n), nil
}

// parsePayload decodes the payload form for kind. One branch per
// discriminant the format defines; anything else is malformed data.
func (p *parser) parsePayload(kind TagType) (Tag, error) {
	switch kind {
	case TagEnd:
		return Tag{}, nil
	case TagByte:
		v, err := p.c.i8()
		if err != nil {
			return Tag{}, err
		}
		return Byte(v), nil
	case TagShort:
		v, err := p.c.i16()
		if err != nil {
			return Tag{}, err
		}
		return Short(v), nil
	case TagInt:
		v, err := p.c.i32()
		if err != nil {
			return Tag{}, err
		}
		return Int(v), nil
	case TagLong:
		v, err := p.c.i64()
		if err != nil {
			return Tag{}, err
		}
		return Long(v), nil
	case TagFloat:
		v, err := p.c.f32()
		if err != nil {
			return Tag{}, err
		}
		return Float(v), nil
	case TagDouble:
		v, err := p.c.f64()
		if err != nil {
			return Tag{}, err
		}
		return Double(v), nil
	case TagByteArray:
		return p.parseByteArray()
	case TagString:
		s, err := p.readString()
		if err != nil {
			return Tag{}, err
		}
		return String(s), nil
	case TagList:
		return p.parseList()
	case TagCompound:
		return p.parseCompound()
	case TagIntArray:
		return p.parseIntArray()
	case TagLongArray:
		return p.parseLongArray()
	default:
		return Tag{}, fmt.Errorf("%w: unknown tag type %d", ErrMalformedData, uint8(kind))
	}
}

func (p *parser) parseByteArray() (Tag, error) {
	n, err := p.count(TagByteArray)
	if err != nil {
		return Tag{}, err
	}
	b, err := p.c.take(n)
	if err != nil {
		return Tag{}, fmt.Errorf("byte array of %d: %w", n, err)
	}
	return ByteArray(b), nil
}

// parseIntArray decodes each element explicitly; the length is checked
// against the remaining data before anything is allocated, so a hostile
// count cannot drive allocation. The remaining/width comparison also keeps
// the byte count arithmetic from overflowing int.
func (p *parser) parseIntArray() (Tag, error) {
	n, err := p.count(TagIntArray)
	if err != nil {
		return Tag{}, err
	}
	if n > p.c.remaining()/4 {
		return Tag{}, fmt.Errorf("int array of %d: %w", n, ErrUnexpectedEndOfData)
	}
	b, err := p.c.take(n * 4)
	if err != nil {
		return Tag{}, err
	}
	v := make([]int32, n)
	for i := 0; i < n; i++ {
		v[i] = int32(binary.BigEndian.Uint32(b[i*4:]))
	}
	return IntArray(v), nil
}

func (p *parser) parseLongArray() (Tag, error) {
	n, err := p.count(TagLongArray)
	if err != nil {
		return Tag{}, err
	}
	if n > p.c.remaining()/8 {
		return Tag{}, fmt.Errorf("long array of %d: %w", n, ErrUnexpectedEndOfData)
	}
	b, err := p.c.take(n * 8)
	if err != nil {
		return Tag{}, err
	}
	v := make([]int64, n)
	for i := 0; i < n; i++ {
		v[i] = int64(binary.BigEndian.Uint64(b[i*8:]))
	}
	return LongArray(v), nil
}

func (p *parser) parseList() (Tag, error) {
	id, err := p.c.u8()
	if err != nil {
		return Tag{}, err
	}
	elem := TagType(id)
	if !elem.Valid() {
		return Tag{}, fmt.Errorf("%w: unknown list element type %d", ErrMalformedData, id)
	}
	n, err := p.count(TagList)
	if err != nil {
		return Tag{}, err
	}
	// A list of End can only ever be the empty list the vanilla encoder
	// writes when it has no element type to declare.
	if elem == TagEnd && n > 0 {
		return Tag{}, fmt.Errorf("%w: list of End with %d elements", ErrMalformedData, n)
	}
	if err := p.push(); err != nil {
		return Tag{}, err
	}
	defer p.pop()

	// Every non End payload consumes at least one byte, so the remaining
	// data bounds any honest count and caps the preallocation.
	var items []Tag
	if n > 0 {
		capacity := n
		if r := p.c.remaining(); capacity > r {
			capacity = r
		}
		items = make([]Tag, 0, capacity)
	}
	for i := 0; i < n; i++ {
		item, err := p.parsePayload(elem)
		if err != nil {
			return Tag{}, fmt.Errorf("list element %d of %d: %w", i, n, err)
		}
		items = append(items, item)
	}
	return Tag{kind: TagList, list: &List{Elem: elem, Items: items}}, nil
}

func (p *parser) parseCompound() (Tag, error) {
	if err := p.push(); err != nil {
		return Tag{}, err
	}
	defer p.pop()

	c := Compound{}
	for {
		id, err := p.c.u8()
		if err != nil {
			return Tag{}, err
		}
		kind := TagType(id)
		if kind == TagEnd {
			return CompoundOf(c), nil
		}
		if !kind.Valid() {
			return Tag{}, fmt.Errorf("%w: unknown tag type %d", ErrMalformedData, id)
		}
		name, err := p.readString()
		if err != nil {
			return Tag{}, err
		}
		val, err := p.parsePayload(kind)
		if err != nil {
			return Tag{}, fmt.Errorf("compound entry %q: %w", name, err)
		}
		// a name seen twice keeps the later value
		c[name] = val
	}
}
