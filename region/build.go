package region

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BuildChunk describes one chunk record for Build. Payload is the plain NBT
// document; Build compresses it per Scheme.
type BuildChunk struct {
	X         int
	Z         int
	Payload   []byte
	Scheme    CompressionScheme
	Timestamp uint32
}

// Build assembles a region file from the provided chunks. Records are placed
// in the order given, each padded to a whole number of sectors. The result
// round trips through Open.
func Build(chunks []BuildChunk) ([]byte, error) {
	data := make([]byte, TimestampsTableEnd)
	seen := make(map[int]bool, len(chunks))

	for _, ch := range chunks {
		i := ChunkIndex(ch.X, ch.Z)
		if seen[i] {
			return nil, fmt.Errorf("%w: %d,%d", ErrRegionBuildCollision, ch.X&31, ch.Z&31)
		}
		seen[i] = true

		compressed, err := compressChunk(ch.Scheme, ch.Payload)
		if err != nil {
			return nil, fmt.Errorf("chunk %d,%d: %w", ch.X&31, ch.Z&31, err)
		}
		recordLen := ChunkRecordSchemeBytes + len(compressed)
		if recordLen > math.MaxInt32 {
			return nil, fmt.Errorf("%w: chunk %d,%d", ErrRegionBuildTooLarge, ch.X&31, ch.Z&31)
		}

		sectorOffset := len(data) / SectorSize
		sectorCount := (ChunkRecordLengthBytes + recordLen + SectorSize - 1) / SectorSize
		if sectorOffset > 0xffffff || sectorCount > 0xff {
			return nil, fmt.Errorf("%w: chunk %d,%d", ErrRegionBuildTooLarge, ch.X&31, ch.Z&31)
		}

		record := make([]byte, sectorCount*SectorSize)
		binary.BigEndian.PutUint32(record, uint32(recordLen))
		record[ChunkRecordLengthBytes] = uint8(ch.Scheme)
		copy(record[ChunkRecordLengthBytes+ChunkRecordSchemeBytes:], compressed)
		data = append(data, record...)

		binary.BigEndian.PutUint32(data[i*LocationEntryBytes:],
			uint32(sectorOffset)<<8|uint32(sectorCount))
		binary.BigEndian.PutUint32(data[LocationsTableEnd+i*TimestampEntryBytes:], ch.Timestamp)
	}
	return data, nil
}
