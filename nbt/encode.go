package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrStringTooLong  = errors.New("string payloads are limited to 65535 bytes")
	ErrArrayTooLong   = errors.New("array payloads are limited to 2147483647 elements")
	ErrListElemType   = errors.New("a list element's type differs from the declared element type")
	ErrUnencodableTag = errors.New("the tag has no wire form")
)

// Marshal encodes a named root compound to the plain wire form. Compound
// entries are written in sorted name order, so the output for a given tree
// is deterministic. The inverse of Parse up to that ordering.
func Marshal(name string, root Tag) ([]byte, error) {
	if root.Type() != TagCompound {
		return nil, fmt.Errorf("%w: got tag type %d", ErrInvalidRoot, uint8(root.Type()))
	}
	b := []byte{uint8(TagCompound)}
	b, err := appendString(b, name)
	if err != nil {
		return nil, err
	}
	return appendPayload(b, root)
}

// MarshalCompressed is Marshal wrapped in the gzip storage envelope.
func MarshalCompressed(name string, root Tag) ([]byte, error) {
	plain, err := Marshal(name, root)
	if err != nil {
		return nil, err
	}
	return Compress(plain)
}

func appendString(b []byte, s string) ([]byte, error) {
	if len(s) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...), nil
}

func appendCount(b []byte, n int) ([]byte, error) {
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d elements", ErrArrayTooLong, n)
	}
	return binary.BigEndian.AppendUint32(b, uint32(n)), nil
}

func appendPayload(b []byte, t Tag) ([]byte, error) {
	var err error
	switch t.kind {
	case TagByte:
		return append(b, uint8(t.num)), nil
	case TagShort:
		return binary.BigEndian.AppendUint16(b, uint16(t.num)), nil
	case TagInt, TagFloat:
		return binary.BigEndian.AppendUint32(b, uint32(t.num)), nil
	case TagLong, TagDouble:
		return binary.BigEndian.AppendUint64(b, t.num), nil
	case TagString:
		return appendString(b, t.str)
	case TagByteArray:
		if b, err = appendCount(b, len(t.raw)); err != nil {
			return nil, err
		}
		return append(b, t.raw...), nil
	case TagIntArray:
		if b, err = appendCount(b, len(t.i32s)); err != nil {
			return nil, err
		}
		for _, v := range t.i32s {
			b = binary.BigEndian.AppendUint32(b, uint32(v))
		}
		return b, nil
	case TagLongArray:
		if b, err = appendCount(b, len(t.i64s)); err != nil {
			return nil, err
		}
		for _, v := range t.i64s {
			b = binary.BigEndian.AppendUint64(b, uint64(v))
		}
		return b, nil
	case TagList:
		return appendList(b, t.list)
	case TagCompound:
		return appendCompound(b, t.comp)
	default:
		// End has no payload form of its own and a compound entry holding
		// one would terminate the enclosing compound early.
		return nil, fmt.Errorf("%w: tag type %d", ErrUnencodableTag, uint8(t.kind))
	}
}

func appendList(b []byte, l *List) ([]byte, error) {
	if l == nil {
		l = &List{Elem: TagEnd}
	}
	if l.Elem == TagEnd && len(l.Items) > 0 {
		return nil, fmt.Errorf("%w: list of End with %d elements", ErrUnencodableTag, len(l.Items))
	}
	b = append(b, uint8(l.Elem))
	b, err := appendCount(b, len(l.Items))
	if err != nil {
		return nil, err
	}
	for i, item := range l.Items {
		if item.Type() != l.Elem {
			return nil, fmt.Errorf("%w: element %d is %s, list declares %s",
				ErrListElemType, i, item.Type(), l.Elem)
		}
		if b, err = appendPayload(b, item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func appendCompound(b []byte, c Compound) ([]byte, error) {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	var err error
	for _, name := range names {
		entry := c[name]
		if entry.Type() == TagEnd {
			return nil, fmt.Errorf("%w: compound entry %q is an End tag", ErrUnencodableTag, name)
		}
		b = append(b, uint8(entry.Type()))
		if b, err = appendString(b, name); err != nil {
			return nil, err
		}
		if b, err = appendPayload(b, entry); err != nil {
			return nil, err
		}
	}
	return append(b, uint8(TagEnd)), nil
}
