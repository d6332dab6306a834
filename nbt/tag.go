package nbt

import (
	"fmt"
	"math"
)

// Tag is a decoded NBT value. It is a closed sum over the payload forms the
// format defines, discriminated by Type. The zero Tag is the End tag.
//
// Tags are plain values. Copying one is cheap and safe, with the usual slice
// aliasing caveats for the array payload forms.
type Tag struct {
	kind TagType

	// scalar payloads, stored as the raw big endian read: two's complement
	// for the integer forms, IEEE 754 bits for Float and Double
	num uint64

	str  string
	raw  []byte  // ByteArray, a view into the parse buffer
	i32s []int32 // IntArray, owned
	i64s []int64 // LongArray, owned

	list *List
	comp Compound
}

// List is the payload of a List tag: a declared element type and the ordered
// elements, every one of which has type Elem. An empty list is valid with any
// declared element type, End included.
type List struct {
	Elem  TagType
	Items []Tag
}

// Compound is the payload of a Compound tag. Name order on the wire is not
// preserved; when the same name occurs twice the later value wins.
type Compound map[string]Tag

// Type returns the payload discriminant.
func (t Tag) Type() TagType {
	return t.kind
}

func Byte(v int8) Tag      { return Tag{kind: TagByte, num: uint64(uint8(v))} }
func Short(v int16) Tag    { return Tag{kind: TagShort, num: uint64(uint16(v))} }
func Int(v int32) Tag      { return Tag{kind: TagInt, num: uint64(uint32(v))} }
func Long(v int64) Tag     { return Tag{kind: TagLong, num: uint64(v)} }
func Float(v float32) Tag  { return Tag{kind: TagFloat, num: uint64(math.Float32bits(v))} }
func Double(v float64) Tag { return Tag{kind: TagDouble, num: math.Float64bits(v)} }
func String(v string) Tag  { return Tag{kind: TagString, str: v} }

func ByteArray(v []byte) Tag  { return Tag{kind: TagByteArray, raw: v} }
func IntArray(v []int32) Tag  { return Tag{kind: TagIntArray, i32s: v} }
func LongArray(v []int64) Tag { return Tag{kind: TagLongArray, i64s: v} }

// ListOf builds a List tag. The caller is responsible for the elements
// actually having type elem; Marshal enforces it.
func ListOf(elem TagType, items ...Tag) Tag {
	return Tag{kind: TagList, list: &List{Elem: elem, Items: items}}
}

// CompoundOf builds a Compound tag over c without copying it.
func CompoundOf(c Compound) Tag {
	return Tag{kind: TagCompound, comp: c}
}

func (t Tag) typeErr(want TagType) error {
	return fmt.Errorf("%w: want %s, have %s", ErrTagTypeMismatch, want, t.kind)
}

func (t Tag) AsByte() (int8, error) {
	if t.kind != TagByte {
		return 0, t.typeErr(TagByte)
	}
	return int8(t.num), nil
}

func (t Tag) AsShort() (int16, error) {
	if t.kind != TagShort {
		return 0, t.typeErr(TagShort)
	}
	return int16(t.num), nil
}

func (t Tag) AsInt() (int32, error) {
	if t.kind != TagInt {
		return 0, t.typeErr(TagInt)
	}
	return int32(t.num), nil
}

func (t Tag) AsLong() (int64, error) {
	if t.kind != TagLong {
		return 0, t.typeErr(TagLong)
	}
	return int64(t.num), nil
}

func (t Tag) AsFloat() (float32, error) {
	if t.kind != TagFloat {
		return 0, t.typeErr(TagFloat)
	}
	return math.Float32frombits(uint32(t.num)), nil
}

func (t Tag) AsDouble() (float64, error) {
	if t.kind != TagDouble {
		return 0, t.typeErr(TagDouble)
	}
	return math.Float64frombits(t.num), nil
}

func (t Tag) AsString() (string, error) {
	if t.kind != TagString {
		return "", t.typeErr(TagString)
	}
	return t.str, nil
}

// AsByteArray returns the ByteArray payload. The slice is a view into the
// buffer the tag was parsed from, not a copy.
func (t Tag) AsByteArray() ([]byte, error) {
	if t.kind != TagByteArray {
		return nil, t.typeErr(TagByteArray)
	}
	return t.raw, nil
}

func (t Tag) AsIntArray() ([]int32, error) {
	if t.kind != TagIntArray {
		return nil, t.typeErr(TagIntArray)
	}
	return t.i32s, nil
}

func (t Tag) AsLongArray() ([]int64, error) {
	if t.kind != TagLongArray {
		return nil, t.typeErr(TagLongArray)
	}
	return t.i64s, nil
}

func (t Tag) AsList() (List, error) {
	if t.kind != TagList || t.list == nil {
		return List{}, t.typeErr(TagList)
	}
	return *t.list, nil
}

func (t Tag) AsCompound() (Compound, error) {
	if t.kind != TagCompound {
		return nil, t.typeErr(TagCompound)
	}
	return t.comp, nil
}

// Len returns the element count for the sequence payload forms, and 0 for
// everything else.
func (t Tag) Len() int {
	switch t.kind {
	case TagByteArray:
		return len(t.raw)
	case TagIntArray:
		return len(t.i32s)
	case TagLongArray:
		return len(t.i64s)
	case TagString:
		return len(t.str)
	case TagList:
		if t.list == nil {
			return 0
		}
		return len(t.list.Items)
	case TagCompound:
		return len(t.comp)
	default:
		return 0
	}
}
