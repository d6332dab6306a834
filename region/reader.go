package region

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Outspending/go-ferrumc/nbt"
)

// Region is a read only view over a fully materialized region file. Methods
// take world chunk coordinates; only the position within the region is used,
// see ChunkIndex.
//
// A Region performs no I/O of its own and holds no state beyond the data, so
// it is safe for concurrent use.
type Region struct {
	data []byte
}

// Pos identifies a chunk position within a region.
type Pos struct {
	X int
	Z int
}

// Open validates that data is large enough to carry the header tables and
// returns a reader over it. The data is not copied.
func Open(data []byte) (*Region, error) {
	if len(data) < TimestampsTableEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrRegionTooSmall, len(data))
	}
	return &Region{data: data}, nil
}

// location returns the sector offset and sector count from the header table
// entry for x, z. A zero pair means the chunk is absent.
func (r *Region) location(x, z int) (int, int) {
	entry := binary.BigEndian.Uint32(r.data[ChunkIndex(x, z)*LocationEntryBytes:])
	return int(entry >> 8), int(entry & 0xff)
}

// Present reports whether the region holds a record for the chunk position.
func (r *Region) Present(x, z int) bool {
	offset, count := r.location(x, z)
	return offset != 0 && count != 0
}

// Timestamp returns the modification time (unix seconds) recorded for the
// chunk position, 0 when none was recorded.
func (r *Region) Timestamp(x, z int) uint32 {
	return binary.BigEndian.Uint32(r.data[LocationsTableEnd+ChunkIndex(x, z)*TimestampEntryBytes:])
}

// Chunks returns the positions of every chunk the region holds, in table
// order.
func (r *Region) Chunks() []Pos {
	var present []Pos
	for z := range 32 {
		for x := range 32 {
			if r.Present(x, z) {
				present = append(present, Pos{X: x, Z: z})
			}
		}
	}
	return present
}

// record returns the scheme byte and compressed payload for the chunk
// position, validating the location entry and record length against the data
// actually present.
func (r *Region) record(x, z int) (CompressionScheme, []byte, error) {
	offset, count := r.location(x, z)
	if offset == 0 || count == 0 {
		return 0, nil, fmt.Errorf("%w: %d,%d", ErrChunkNotPresent, x&31, z&31)
	}
	if offset < HeaderSectors {
		return 0, nil, fmt.Errorf("%w: chunk %d,%d offset %d lies in the header", ErrChunkOutOfRange, x&31, z&31, offset)
	}
	start := offset * SectorSize
	if start+ChunkRecordLengthBytes+ChunkRecordSchemeBytes > len(r.data) {
		return 0, nil, fmt.Errorf("%w: chunk %d,%d at sector %d", ErrChunkOutOfRange, x&31, z&31, offset)
	}

	// The record length counts the scheme byte plus the payload.
	length := int(int32(binary.BigEndian.Uint32(r.data[start:])))
	if length < ChunkRecordSchemeBytes {
		return 0, nil, fmt.Errorf("%w: chunk %d,%d declares %d bytes", ErrChunkLengthInvalid, x&31, z&31, length)
	}
	if length > count*SectorSize-ChunkRecordLengthBytes || start+ChunkRecordLengthBytes+length > len(r.data) {
		return 0, nil, fmt.Errorf("%w: chunk %d,%d declares %d bytes beyond its sectors", ErrChunkLengthInvalid, x&31, z&31, length)
	}
	scheme := CompressionScheme(r.data[start+ChunkRecordLengthBytes])
	payload := r.data[start+ChunkRecordLengthBytes+ChunkRecordSchemeBytes : start+ChunkRecordLengthBytes+length]
	return scheme, payload, nil
}

// ChunkPayload returns the decompressed NBT document for the chunk position.
func (r *Region) ChunkPayload(x, z int) ([]byte, error) {
	scheme, payload, err := r.record(x, z)
	if err != nil {
		return nil, err
	}
	plain, err := decompressChunk(scheme, payload)
	if err != nil {
		return nil, fmt.Errorf("chunk %d,%d: %w", x&31, z&31, err)
	}
	return plain, nil
}

// Chunk decompresses and parses the chunk document in one step.
func (r *Region) Chunk(x, z int, opts ...nbt.Option) (string, nbt.Tag, error) {
	plain, err := r.ChunkPayload(x, z)
	if err != nil {
		return "", nbt.Tag{}, err
	}
	name, root, err := nbt.Parse(plain, opts...)
	if err != nil {
		return "", nbt.Tag{}, fmt.Errorf("chunk %d,%d: %w", x&31, z&31, err)
	}
	return name, root, nil
}

var regionFileNameRE = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)

// ParseFileName extracts the region coordinates from a r.X.Z.mca file name.
func ParseFileName(name string) (int, int, error) {
	m := regionFileNameRE.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrRegionFileName, name)
	}
	x, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrRegionFileName, name)
	}
	z, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrRegionFileName, name)
	}
	return x, z, nil
}

// FileName returns the canonical file name for the region holding world chunk
// coordinates cx, cz.
func FileName(cx, cz int) string {
	return fmt.Sprintf("r.%d.%d.mca", cx>>5, cz>>5)
}
