package nbt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleEntryDoc builds a plain document whose unnamed root compound holds
// one entry of the given type, name and raw payload bytes.
func singleEntryDoc(kind uint8, name string, payload ...byte) []byte {
	b := []byte{uint8(TagCompound), 0x00, 0x00, kind, 0x00, uint8(len(name))}
	b = append(b, name...)
	b = append(b, payload...)
	return append(b, uint8(TagEnd))
}

// nestedCompoundDoc builds a document nesting levels compounds, the unnamed
// root included, each inner one held under the name "c".
func nestedCompoundDoc(levels int) []byte {
	b := []byte{uint8(TagCompound), 0x00, 0x00}
	for i := 1; i < levels; i++ {
		b = append(b, uint8(TagCompound), 0x00, 0x01, 'c')
	}
	for i := 0; i < levels; i++ {
		b = append(b, uint8(TagEnd))
	}
	return b
}

func TestParseEmptyRootCompound(t *testing.T) {
	name, root, err := Parse([]byte{0x0a, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, "", name)

	c, err := root.AsCompound()
	require.NoError(t, err)
	assert.Len(t, c, 0)
}

func TestParseNamedIntEntry(t *testing.T) {
	data := []byte{
		0x0a, 0x00, 0x00, // unnamed root compound
		0x03, 0x00, 0x01, 'x', // Int entry named "x"
		0x00, 0x00, 0x00, 0x2a, // 42
		0x00, // end of root
	}
	name, root, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "", name)

	c, err := root.AsCompound()
	require.NoError(t, err)
	require.Len(t, c, 1)
	v, err := c.GetInt("x")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
}

func TestParsePayloadForms(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Tag
	}{
		{"byte", singleEntryDoc(0x01, "v", 0xfe), Byte(-2)},
		{"short", singleEntryDoc(0x02, "v", 0x01, 0x02), Short(258)},
		{"short negative", singleEntryDoc(0x02, "v", 0xff, 0xfe), Short(-2)},
		{"int", singleEntryDoc(0x03, "v", 0xff, 0xff, 0xff, 0xd6), Int(-42)},
		{"long", singleEntryDoc(0x04, "v", 0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff), Long(1<<63 - 1)},
		{"float", singleEntryDoc(0x05, "v", 0x40, 0x60, 0x00, 0x00), Float(3.5)},
		{"double", singleEntryDoc(0x06, "v", 0x3f, 0xf8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00), Double(1.5)},
		{"byte array", singleEntryDoc(0x07, "v", 0x00, 0x00, 0x00, 0x03, 1, 2, 3), ByteArray([]byte{1, 2, 3})},
		{"string", singleEntryDoc(0x08, "v", 0x00, 0x02, 'h', 'i'), String("hi")},
		{"string utf8", singleEntryDoc(0x08, "v", 0x00, 0x03, 0xe2, 0x88, 0x9a), String("√")},
		{"empty string", singleEntryDoc(0x08, "v", 0x00, 0x00), String("")},
		{"list of shorts", singleEntryDoc(0x09, "v", 0x02, 0x00, 0x00, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04),
			ListOf(TagShort, Short(3), Short(4))},
		{"empty list of end", singleEntryDoc(0x09, "v", 0x00, 0x00, 0x00, 0x00, 0x00), ListOf(TagEnd)},
		{"empty list of compound", singleEntryDoc(0x09, "v", 0x0a, 0x00, 0x00, 0x00, 0x00), ListOf(TagCompound)},
		{"int array", singleEntryDoc(0x0b, "v", 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 0xff, 0xff, 0xff, 0xff),
			IntArray([]int32{1, -1})},
		{"long array", singleEntryDoc(0x0c, "v", 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00),
			LongArray([]int64{1 << 35})},
		{"nested compound", singleEntryDoc(0x0a, "v", 0x00), CompoundOf(Compound{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, root, err := Parse(tt.data)
			require.NoError(t, err)
			c, err := root.AsCompound()
			require.NoError(t, err)
			got, ok := c.Get("v")
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRootMustBeCompound(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"byte root", []byte{0x01, 0x00, 0x00, 0x2a}},
		{"list root", []byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"long array root", []byte{0x0c, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrInvalidRoot)
		})
	}

	// the error names the type byte it saw
	_, _, err := Parse([]byte{0x09, 0x00, 0x00})
	assert.ErrorContains(t, err, "tag type 9")
}

func TestParseStillCompressed(t *testing.T) {
	plain := []byte{0x0a, 0x00, 0x00, 0x00}
	wrapped, err := Compress(plain)
	require.NoError(t, err)

	_, _, err = Parse(wrapped)
	require.ErrorIs(t, err, ErrStillCompressed)

	// the gate is the documented way through
	unwrapped, err := Decompress(wrapped)
	require.NoError(t, err)
	_, _, err = Parse(unwrapped)
	require.NoError(t, err)
}

func TestParseEmptyInput(t *testing.T) {
	_, _, err := Parse(nil)
	require.ErrorIs(t, err, ErrUnexpectedEndOfData)
}

func TestParseUnknownTagType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"compound entry type 13", singleEntryDoc(0x0d, "z", 0x00)},
		{"compound entry type 127", singleEntryDoc(0x7f, "z")},
		{"list element type 13", singleEntryDoc(0x09, "l", 0x0d, 0x00, 0x00, 0x00, 0x00)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrMalformedData)
		})
	}
}

func TestParseNegativeCounts(t *testing.T) {
	neg := []byte{0xff, 0xff, 0xff, 0xff} // -1
	tests := []struct {
		name string
		data []byte
	}{
		{"byte array", singleEntryDoc(0x07, "v", neg...)},
		{"int array", singleEntryDoc(0x0b, "v", neg...)},
		{"long array", singleEntryDoc(0x0c, "v", neg...)},
		{"list", singleEntryDoc(0x09, "v", append([]byte{0x01}, neg...)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrMalformedData)
		})
	}
}

// Hostile counts must fail on the bytes that are actually present, before
// any allocation sized by the count.
func TestParseOverstatedCounts(t *testing.T) {
	huge := []byte{0x7f, 0xff, 0xff, 0xff}
	tests := []struct {
		name string
		data []byte
	}{
		{"byte array", singleEntryDoc(0x07, "v", append(huge[:len(huge):len(huge)], 1, 2, 3)...)},
		{"int array", singleEntryDoc(0x0b, "v", append(huge[:len(huge):len(huge)], 0, 0, 0, 1)...)},
		{"long array", singleEntryDoc(0x0c, "v", append(huge[:len(huge):len(huge)], 0, 0, 0, 0, 0, 0, 0, 1)...)},
		{"list of longs", singleEntryDoc(0x09, "v", append([]byte{0x04}, huge...)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrUnexpectedEndOfData)
		})
	}
}

func TestParseListOfEndWithElements(t *testing.T) {
	data := singleEntryDoc(0x09, "v", 0x00, 0x00, 0x00, 0x00, 0x02)
	_, _, err := Parse(data)
	require.ErrorIs(t, err, ErrMalformedData)
}

func TestParseInvalidUTF8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"entry name", singleEntryDoc(0x03, "\xff", 0x00, 0x00, 0x00, 0x01)},
		{"string payload", singleEntryDoc(0x08, "s", 0x00, 0x01, 0xff)},
		{"truncated rune", singleEntryDoc(0x08, "s", 0x00, 0x01, 0xe2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.data)
			require.ErrorIs(t, err, ErrMalformedData)
		})
	}
}

func TestParseDuplicateNameLastWins(t *testing.T) {
	data := []byte{
		0x0a, 0x00, 0x00,
		0x03, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x01,
		0x03, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x02,
		0x00,
	}
	_, root, err := Parse(data)
	require.NoError(t, err)
	c, err := root.AsCompound()
	require.NoError(t, err)
	require.Len(t, c, 1)
	v, err := c.GetInt("a")
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestParseTrailingBytesIgnored(t *testing.T) {
	data := append([]byte{0x0a, 0x00, 0x00, 0x00}, 0xde, 0xad, 0xbe, 0xef)
	name, root, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "", name)
	assert.Equal(t, TagCompound, root.Type())
}

func TestParseDepthLimit(t *testing.T) {
	tests := []struct {
		name    string
		levels  int
		opts    []Option
		wantErr bool
	}{
		{"default limit reached", DefaultMaxDepth, nil, false},
		{"default limit exceeded", DefaultMaxDepth + 1, nil, true},
		{"small limit reached", 3, []Option{WithMaxDepth(3)}, false},
		{"small limit exceeded", 4, []Option{WithMaxDepth(3)}, true},
		{"raised limit", DefaultMaxDepth + 1, []Option{WithMaxDepth(DefaultMaxDepth * 2)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(nestedCompoundDoc(tt.levels), tt.opts...)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrDepthExceeded)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseDepthLimitCountsLists(t *testing.T) {
	// root compound then levels of single element lists of lists
	levels := 8
	b := []byte{0x0a, 0x00, 0x00, 0x09, 0x00, 0x01, 'l'}
	for i := 0; i < levels-1; i++ {
		b = append(b, 0x09, 0x00, 0x00, 0x00, 0x01) // list of one list
	}
	b = append(b, 0x00, 0x00, 0x00, 0x00, 0x00) // innermost, empty list of End
	b = append(b, 0x00)                         // end of root

	// root compound is one level, the lists are the other eight
	_, _, err := Parse(b, WithMaxDepth(levels+1))
	require.NoError(t, err)

	_, _, err = Parse(b, WithMaxDepth(levels))
	require.ErrorIs(t, err, ErrDepthExceeded)
}

func TestParseTruncatedAtEveryOffset(t *testing.T) {
	root := Compound{
		"byte":   Byte(-1),
		"short":  Short(2),
		"int":    Int(-3),
		"long":   Long(4),
		"float":  Float(1.5),
		"double": Double(-2.5),
		"text":   String("déjà vu"),
		"bytes":  ByteArray([]byte{1, 2, 3}),
		"ints":   IntArray([]int32{1, -2}),
		"longs":  LongArray([]int64{3, -4}),
		"list":   ListOf(TagString, String("a"), String("b")),
		"nested": CompoundOf(Compound{
			"inner": ListOf(TagCompound, CompoundOf(Compound{"x": Int(1)})),
		}),
	}
	data, err := Marshal("root", CompoundOf(root))
	require.NoError(t, err)

	// a sanity pass over the full encoding first
	name, got, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, "root", name)
	gotc, err := got.AsCompound()
	require.NoError(t, err)
	require.Equal(t, root, gotc)

	for i := 0; i < len(data); i++ {
		_, _, err := Parse(data[:i])
		require.ErrorIs(t, err, ErrUnexpectedEndOfData, "truncated to %d bytes", i)
	}
}

func TestParseByteArrayAliasesInput(t *testing.T) {
	data := singleEntryDoc(0x07, "b", 0x00, 0x00, 0x00, 0x03, 1, 2, 3)
	_, root, err := Parse(data)
	require.NoError(t, err)
	c, err := root.AsCompound()
	require.NoError(t, err)
	view, err := c.GetByteArray("b")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, view)

	// the payload is a view of the parse buffer, not a copy
	data[len(data)-4] = 0x63
	assert.Equal(t, []byte{1, 2, 0x63}, view)
}

func TestParseArraysDecodePerElement(t *testing.T) {
	data := singleEntryDoc(0x0b, "v",
		0x00, 0x00, 0x00, 0x02,
		0x01, 0x02, 0x03, 0x04,
		0x80, 0x00, 0x00, 0x00,
	)
	_, root, err := Parse(data)
	require.NoError(t, err)
	c, err := root.AsCompound()
	require.NoError(t, err)
	ints, err := c.GetIntArray("v")
	require.NoError(t, err)
	// every element is byte order converted, not just the first
	assert.Equal(t, []int32{0x01020304, -2147483648}, ints)
}
