package nbt

import (
	"encoding/binary"
	"math"
)

// cursor is a forward only read position over a byte slice. Every read
// checks bounds before touching the data; a read that would pass the end
// returns ErrUnexpectedEndOfData and leaves the position unchanged. The
// cursor never rewinds.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

// take returns a view of the next n bytes and advances past them. The view
// aliases the underlying buffer.
func (c *cursor) take(n int) ([]byte, error) {
	if n > c.remaining() {
		return nil, ErrUnexpectedEndOfData
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	if c.remaining() < 1 {
		return 0, ErrUnexpectedEndOfData
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, ErrUnexpectedEndOfData
	}
	v := binary.BigEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, ErrUnexpectedEndOfData
	}
	v := binary.BigEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) u64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, ErrUnexpectedEndOfData
	}
	v := binary.BigEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

func (c *cursor) i8() (int8, error) {
	v, err := c.u8()
	return int8(v), err
}

func (c *cursor) i16() (int16, error) {
	v, err := c.u16()
	return int16(v), err
}

func (c *cursor) i32() (int32, error) {
	v, err := c.u32()
	return int32(v), err
}

func (c *cursor) i64() (int64, error) {
	v, err := c.u64()
	return int64(v), err
}

// f32 and f64 are the IEEE 754 interpretations of the corresponding
// unsigned big endian read.

func (c *cursor) f32() (float32, error) {
	v, err := c.u32()
	return math.Float32frombits(v), err
}

func (c *cursor) f64() (float64, error) {
	v, err := c.u64()
	return math.Float64frombits(v), err
}
