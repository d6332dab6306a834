package nbt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Documents are conventionally stored gzip compressed (level.dat, playerdata)
// and the envelope is identified by the two gzip magic bytes.
const (
	gzipMagic0 = 0x1f
	gzipMagic1 = 0x8b
)

// IsCompressed reports whether data starts with the gzip magic prefix.
func IsCompressed(data []byte) bool {
	return len(data) >= 2 && data[0] == gzipMagic0 && data[1] == gzipMagic1
}

// Decompress inflates a gzip wrapped document into a fresh buffer. Data
// without the gzip magic is returned as is, same slice, so callers can gate
// unconditionally. Any failure inside the envelope, truncation included,
// wraps ErrDecompressionFailed.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
	}
	return plain, nil
}

// Compress wraps data in a gzip envelope, the storage convention for
// level.dat and playerdata documents.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
