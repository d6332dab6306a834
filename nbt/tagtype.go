package nbt

import "fmt"

// TagType is the one byte payload discriminant that precedes every named tag,
// and that a list declares once for all of its elements.
type TagType uint8

const (
	TagEnd TagType = iota // terminates a compound, carries no payload
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray

	// TagTypeMax is the largest discriminant the format defines. Anything
	// above it in a type byte is malformed data, never a panic.
	TagTypeMax = TagLongArray
)

var tagTypeNames = [TagTypeMax + 1]string{
	"End", "Byte", "Short", "Int", "Long", "Float", "Double",
	"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
}

// Valid reports whether t is a discriminant defined by the format.
func (t TagType) Valid() bool {
	return t <= TagTypeMax
}

func (t TagType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("invalid tag type %d", uint8(t))
	}
	return tagTypeNames[t]
}
