package nbt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDIntArrayRoundTrip(t *testing.T) {
	id := uuid.MustParse("f84c6a79-0a4e-45e7-9d9e-d3f5c2a91b07")

	c := Compound{"UUID": UUIDIntArray(id)}
	got, err := c.UUID("UUID")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestUUIDLegacyMostLeast(t *testing.T) {
	id := uuid.MustParse("f84c6a79-0a4e-45e7-9d9e-d3f5c2a91b07")

	c := Compound{
		"UUIDMost":  Long(-554951585976924697), // big endian high half
		"UUIDLeast": Long(-7088995710948271353),
	}
	got, err := c.UUID("UUID")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestUUIDFailures(t *testing.T) {
	c := Compound{
		"short": IntArray([]int32{1, 2, 3}),
		"wrong": String("not a uuid"),
	}

	_, err := c.UUID("short")
	require.ErrorIs(t, err, ErrMalformedData)

	_, err = c.UUID("wrong")
	require.ErrorIs(t, err, ErrTagTypeMismatch)

	// neither the array form nor the legacy pair present
	_, err = c.UUID("absent")
	require.ErrorIs(t, err, ErrTagNotFound)
}
