package nbt

import (
	"math"
	"sort"
	"strconv"
)

// SNBT renders the tag in the stringified form used by in game commands and
// by the dump tooling: {name:1b,pos:[1.5d,2.5d],id:"minecraft:stone"}.
// Compound names are printed in sorted order, so the rendering for a given
// tree is stable.
func (t Tag) SNBT() string {
	return string(t.AppendSNBT(nil))
}

// AppendSNBT appends the stringified rendering of t to dst and returns the
// extended slice.
func (t Tag) AppendSNBT(dst []byte) []byte {
	switch t.kind {
	case TagByte:
		dst = strconv.AppendInt(dst, int64(int8(t.num)), 10)
		return append(dst, 'b')
	case TagShort:
		dst = strconv.AppendInt(dst, int64(int16(t.num)), 10)
		return append(dst, 's')
	case TagInt:
		return strconv.AppendInt(dst, int64(int32(t.num)), 10)
	case TagLong:
		dst = strconv.AppendInt(dst, int64(t.num), 10)
		return append(dst, 'L')
	case TagFloat:
		dst = strconv.AppendFloat(dst, float64(math.Float32frombits(uint32(t.num))), 'g', -1, 32)
		return append(dst, 'f')
	case TagDouble:
		dst = strconv.AppendFloat(dst, math.Float64frombits(t.num), 'g', -1, 64)
		return append(dst, 'd')
	case TagString:
		return appendQuotedSNBT(dst, t.str)
	case TagByteArray:
		dst = append(dst, "[B;"...)
		for i, v := range t.raw {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, int64(int8(v)), 10)
			dst = append(dst, 'b')
		}
		return append(dst, ']')
	case TagIntArray:
		dst = append(dst, "[I;"...)
		for i, v := range t.i32s {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, int64(v), 10)
		}
		return append(dst, ']')
	case TagLongArray:
		dst = append(dst, "[L;"...)
		for i, v := range t.i64s {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, v, 10)
			dst = append(dst, 'L')
		}
		return append(dst, ']')
	case TagList:
		dst = append(dst, '[')
		if t.list != nil {
			for i, item := range t.list.Items {
				if i > 0 {
					dst = append(dst, ',')
				}
				dst = item.AppendSNBT(dst)
			}
		}
		return append(dst, ']')
	case TagCompound:
		names := make([]string, 0, len(t.comp))
		for name := range t.comp {
			names = append(names, name)
		}
		sort.Strings(names)
		dst = append(dst, '{')
		for i, name := range names {
			if i > 0 {
				dst = append(dst, ',')
			}
			if snbtBareName(name) {
				dst = append(dst, name...)
			} else {
				dst = appendQuotedSNBT(dst, name)
			}
			dst = append(dst, ':')
			dst = t.comp[name].AppendSNBT(dst)
		}
		return append(dst, '}')
	default:
		// End never appears as a value in a decoded tree; keep the vanilla
		// marker so a zero Tag is still visible in a dump.
		return append(dst, "END"...)
	}
}

// snbtBareName reports whether a compound name can be printed without
// quotes, matching the character set command parsers accept.
func snbtBareName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.' || c == '+':
		default:
			return false
		}
	}
	return true
}

func appendQuotedSNBT(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			dst = append(dst, '\\')
		}
		dst = append(dst, c)
	}
	return append(dst, '"')
}
