// Package region reads the fixed layout container files that hold chunk NBT
// documents on disk, one file per 32x32 chunk area.
package region

import "errors"

// A region file packs up to 32x32 chunks of world data into a single blob.
// All offsets in the file are expressed in fixed size sectors, which keeps the
// header arithmetic content independent: knowing only a location entry, the
// position of a chunk record can be computed without reading anything else.
//
// File layout:
//
// .         | locations  | timestamps |  sector 2  |  sector 3  | ...
// .         | 0     4095 | 4096  8191 |            |            |
// bytes     |    4096    |    4096    |    4096    |    4096    |
//
// The locations table holds 1024 big endian entries of 4 bytes each:
//
// .         | sector offset | sector count |
// bytes     |       3       |      1       |
//
// A zero entry means the chunk is absent. The timestamps table holds 1024 big
// endian u32 modification times (unix seconds), in the same order.
//
// A chunk record, found at sector offset * SectorSize:
//
// .         | record length | scheme | compressed payload  |
// bytes     |       4       |   1    |  record length - 1  |
//
// The record length is big endian and counts the scheme byte plus the
// payload. The payload, once decompressed per the scheme, is a plain NBT
// document.
const (
	// SectorSize is the unit for all chunk placement within the file.
	SectorSize = 4096

	// RegionChunks is the number of location and timestamp entries in the
	// header, one per chunk position in the 32x32 region.
	RegionChunks = 1024

	LocationEntryBytes  = 4
	LocationsTableStart = 0
	LocationsTableEnd   = LocationsTableStart + RegionChunks*LocationEntryBytes
	TimestampEntryBytes = 4
	TimestampsTableEnd  = LocationsTableEnd + RegionChunks*TimestampEntryBytes

	// HeaderSectors is the sector count consumed by the two tables. Chunk
	// records can never live below it, a location offset of 0 or 1 is
	// malformed rather than a record in the header.
	HeaderSectors = TimestampsTableEnd / SectorSize

	// ChunkRecordLengthBytes and ChunkRecordSchemeBytes prefix every chunk
	// record.
	ChunkRecordLengthBytes = 4
	ChunkRecordSchemeBytes = 1
)

var (
	ErrRegionTooSmall       = errors.New("too few bytes to hold the region header tables")
	ErrChunkNotPresent      = errors.New("the region has no record for the chunk position")
	ErrChunkOutOfRange      = errors.New("the chunk record lies outside the region data")
	ErrChunkLengthInvalid   = errors.New("the chunk record length is invalid")
	ErrRegionFileName       = errors.New("the file name does not follow the r.X.Z.mca form")
	ErrUnsupportedScheme    = errors.New("the chunk compression scheme is not supported")
	ErrChunkDecompress      = errors.New("the chunk payload could not be decompressed")
	ErrRegionBuildTooLarge  = errors.New("the chunk payload does not fit a region record")
	ErrRegionBuildCollision = errors.New("two chunks were supplied for the same position")
)

// ChunkIndex returns the header table index for chunk coordinates x, z. The
// coordinates may be absolute world chunk coordinates; only their position
// within the owning region is significant.
func ChunkIndex(x, z int) int {
	return (x & 31) + (z&31)*32
}
