package nbt

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// UUID reads a player or entity identity from the compound. Modern data
// stores these as a four element IntArray holding the big endian quarters of
// the id. Data written before the 1.16 format change stores two Long tags
// named <name>Most and <name>Least instead; both forms are accepted, the
// IntArray form first.
func (c Compound) UUID(name string) (uuid.UUID, error) {
	if t, ok := c[name]; ok {
		quads, err := t.AsIntArray()
		if err != nil {
			return uuid.Nil, fmt.Errorf("uuid %q: %w", name, err)
		}
		if len(quads) != 4 {
			return uuid.Nil, fmt.Errorf("%w: uuid %q has %d ints, want 4", ErrMalformedData, name, len(quads))
		}
		var b [16]byte
		for i, q := range quads {
			binary.BigEndian.PutUint32(b[i*4:], uint32(q))
		}
		return uuid.UUID(b), nil
	}

	most, err := c.GetLong(name + "Most")
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid %q: %w", name, err)
	}
	least, err := c.GetLong(name + "Least")
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid %q: %w", name, err)
	}
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], uint64(most))
	binary.BigEndian.PutUint64(b[8:], uint64(least))
	return uuid.UUID(b), nil
}

// UUIDIntArray encodes id in the modern four int form.
func UUIDIntArray(id uuid.UUID) Tag {
	quads := make([]int32, 4)
	for i := range quads {
		quads[i] = int32(binary.BigEndian.Uint32(id[i*4:]))
	}
	return IntArray(quads)
}
