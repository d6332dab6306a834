package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// CompressionScheme is the one byte code in a chunk record that names the
// algorithm the payload was compressed with. The values are protocol
// constants.
type CompressionScheme uint8

const (
	// SchemeGZip is the original chunk compression. Modern writers prefer
	// zlib but readers must still accept it.
	SchemeGZip CompressionScheme = 1

	// SchemeZlib is the default chunk compression.
	SchemeZlib CompressionScheme = 2

	// SchemeNone stores the NBT document uncompressed.
	SchemeNone CompressionScheme = 3

	// SchemeLZ4 wraps the document in the lz4 "LZ4Block" frame some servers
	// write for speed.
	SchemeLZ4 CompressionScheme = 4

	// SchemeCustom prefixes the payload with a namespaced algorithm name.
	// None are supported here; the decode error carries the name so the
	// operator can tell what wrote the file.
	SchemeCustom CompressionScheme = 127
)

func (s CompressionScheme) String() string {
	switch s {
	case SchemeGZip:
		return "gzip"
	case SchemeZlib:
		return "zlib"
	case SchemeNone:
		return "none"
	case SchemeLZ4:
		return "lz4"
	case SchemeCustom:
		return "custom"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// decompressChunk inflates a chunk record payload per its scheme byte. The
// returned buffer is freshly owned except for SchemeNone, which aliases the
// record.
func decompressChunk(scheme CompressionScheme, payload []byte) ([]byte, error) {
	switch scheme {
	case SchemeGZip:
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrChunkDecompress, err)
		}
		defer zr.Close()
		plain, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrChunkDecompress, err)
		}
		return plain, nil

	case SchemeZlib:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrChunkDecompress, err)
		}
		defer zr.Close()
		plain, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrChunkDecompress, err)
		}
		return plain, nil

	case SchemeNone:
		return payload, nil

	case SchemeLZ4:
		return decompressLZ4Block(payload)

	case SchemeCustom:
		name, err := customSchemeName(payload)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: custom algorithm %q", ErrUnsupportedScheme, name)

	default:
		return nil, fmt.Errorf("%w: scheme %d", ErrUnsupportedScheme, uint8(scheme))
	}
}

// compressChunk is the write side counterpart, used by Build and the test
// fixtures.
func compressChunk(scheme CompressionScheme, plain []byte) ([]byte, error) {
	switch scheme {
	case SchemeGZip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(plain); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case SchemeZlib:
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(plain); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case SchemeNone:
		return plain, nil

	case SchemeLZ4:
		return compressLZ4Block(plain)

	default:
		return nil, fmt.Errorf("%w: scheme %d", ErrUnsupportedScheme, uint8(scheme))
	}
}

// customSchemeName reads the u16 length prefixed algorithm name a
// SchemeCustom record starts with.
func customSchemeName(payload []byte) (string, error) {
	if len(payload) < 2 {
		return "", fmt.Errorf("%w: custom scheme record is truncated", ErrChunkLengthInvalid)
	}
	n := int(binary.BigEndian.Uint16(payload))
	if len(payload) < 2+n {
		return "", fmt.Errorf("%w: custom scheme record is truncated", ErrChunkLengthInvalid)
	}
	name := payload[2 : 2+n]
	if !utf8.Valid(name) {
		return "", fmt.Errorf("%w: custom scheme name is not valid utf8", ErrChunkLengthInvalid)
	}
	return string(name), nil
}

// The lz4 scheme does not use the standard lz4 frame. It is the block
// container the lz4-java library writes:
//
// .         |  magic   | token | compressed len | plain len | checksum | block |
// bytes     |    8     |   1   |       4        |     4     |    4     |  ...  |
//
// The three integers are little endian, unlike everything else in the file.
// The token's high nibble selects the method: 0x10 stores the block raw, 0x20
// stores an lz4 compressed block. The checksum is xxhash32 over the plain
// bytes; it is parsed but not verified here, the NBT grammar checks that
// follow catch corruption and we carry no xxhash32 implementation.
const (
	lz4BlockHeaderSize = 21
	lz4MethodRaw       = 0x10
	lz4MethodLZ4       = 0x20
)

var lz4BlockMagic = []byte("LZ4Block")

// lz4MaxPlainLen bounds the decompressed size a block header may declare,
// so a corrupt header cannot drive allocation. A chunk document is well
// under this.
const lz4MaxPlainLen = 1 << 30

func decompressLZ4Block(payload []byte) ([]byte, error) {
	if len(payload) < lz4BlockHeaderSize || !bytes.Equal(payload[:8], lz4BlockMagic) {
		return nil, fmt.Errorf("%w: lz4: missing LZ4Block magic", ErrChunkDecompress)
	}
	token := payload[8]
	compressedLen := int(int32(binary.LittleEndian.Uint32(payload[9:])))
	plainLen := int(int32(binary.LittleEndian.Uint32(payload[13:])))
	_ = binary.LittleEndian.Uint32(payload[17:]) // checksum, not verified

	if compressedLen < 0 || plainLen < 0 || plainLen > lz4MaxPlainLen {
		return nil, fmt.Errorf("%w: lz4: invalid block lengths", ErrChunkDecompress)
	}
	if len(payload) < lz4BlockHeaderSize+compressedLen {
		return nil, fmt.Errorf("%w: lz4: block is truncated", ErrChunkDecompress)
	}
	block := payload[lz4BlockHeaderSize : lz4BlockHeaderSize+compressedLen]

	switch token & 0xf0 {
	case lz4MethodRaw:
		if compressedLen != plainLen {
			return nil, fmt.Errorf("%w: lz4: raw block length mismatch", ErrChunkDecompress)
		}
		plain := make([]byte, plainLen)
		copy(plain, block)
		return plain, nil
	case lz4MethodLZ4:
		plain := make([]byte, plainLen)
		n, err := lz4.UncompressBlock(block, plain)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrChunkDecompress, err)
		}
		if n != plainLen {
			return nil, fmt.Errorf("%w: lz4: got %d bytes, header declares %d", ErrChunkDecompress, n, plainLen)
		}
		return plain, nil
	default:
		return nil, fmt.Errorf("%w: lz4: unknown block method %#x", ErrChunkDecompress, token&0xf0)
	}
}

func compressLZ4Block(plain []byte) ([]byte, error) {
	out := make([]byte, lz4BlockHeaderSize+lz4.CompressBlockBound(len(plain)))
	copy(out, lz4BlockMagic)

	n, err := lz4.CompressBlock(plain, out[lz4BlockHeaderSize:], nil)
	if err != nil {
		return nil, err
	}
	method := byte(lz4MethodLZ4)
	if n == 0 || n >= len(plain) {
		// incompressible, store raw
		method = lz4MethodRaw
		n = copy(out[lz4BlockHeaderSize:], plain)
	}
	out[8] = method
	binary.LittleEndian.PutUint32(out[9:], uint32(n))
	binary.LittleEndian.PutUint32(out[13:], uint32(len(plain)))
	// The checksum field is written as zero. Readers that verify it will
	// reject these files; ours does not, see decompressLZ4Block.
	binary.LittleEndian.PutUint32(out[17:], 0)
	return out[:lz4BlockHeaderSize+n], nil
}
