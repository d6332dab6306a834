package save

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/datatrails/go-datatrails-common/azblob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Outspending/go-ferrumc/nbt"
	"github.com/Outspending/go-ferrumc/nbttesting"
	"github.com/Outspending/go-ferrumc/region"
)

// mapObjectReader serves blob reads from a map, standing in for the remote
// store.
type mapObjectReader struct {
	objects map[string][]byte
}

func (r mapObjectReader) Reader(
	ctx context.Context, identity string, opts ...azblob.Option,
) (*azblob.ReaderResponse, error) {
	data, ok := r.objects[identity]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", identity)
	}
	return &azblob.ReaderResponse{
		Reader:        io.NopCloser(bytes.NewReader(data)),
		ContentLength: int64(len(data)),
	}, nil
}

func testReplica(t *testing.T, tc *nbttesting.TestContext, prefix string) mapObjectReader {
	t.Helper()
	objects := make(map[string][]byte)

	level, err := nbt.MarshalCompressed("", nbt.CompoundOf(tc.LevelCompound("replica world", 42)))
	require.NoError(t, err)
	objects[prefix+"/level.dat"] = level

	id := tc.UUID()
	player, err := nbt.MarshalCompressed("", nbt.CompoundOf(tc.PlayerCompound(id)))
	require.NoError(t, err)
	objects[prefix+"/playerdata/"+id.String()+".dat"] = player

	payload, err := nbt.Marshal("", nbt.CompoundOf(tc.ChunkCompound(3, 4)))
	require.NoError(t, err)
	blob, err := region.Build([]region.BuildChunk{
		{X: 3, Z: 4, Payload: payload, Scheme: region.SchemeZlib},
	})
	require.NoError(t, err)
	objects[prefix+"/region/r.0.0.mca"] = blob

	return mapObjectReader{objects: objects}
}

func TestBlobReaderReadsReplica(t *testing.T) {
	tc := nbttesting.NewTestContext(t, nbttesting.TestConfig{Seed: 7, TestLabelPrefix: "blobtest"})
	store := testReplica(t, &tc, "worlds/main")

	r, err := NewBlobReader(tc.GetLog(), store, "worlds/main")
	require.NoError(t, err)

	ctx := context.Background()

	level, err := r.ReadLevel(ctx)
	require.NoError(t, err)
	name, err := level.Name()
	require.NoError(t, err)
	assert.Equal(t, "replica world", name)
	seed, err := level.Seed()
	require.NoError(t, err)
	assert.Equal(t, int64(42), seed)

	var playerID string
	for identity := range store.objects {
		if len(identity) > len("worlds/main/playerdata/") && identity[:len("worlds/main/playerdata/")] == "worlds/main/playerdata/" {
			playerID = identity[len("worlds/main/playerdata/") : len(identity)-len(".dat")]
		}
	}
	require.NotEmpty(t, playerID)
	p, err := r.ReadPlayer(ctx, playerID)
	require.NoError(t, err)
	got, err := p.UUID()
	require.NoError(t, err)
	assert.Equal(t, playerID, got.String())

	reg, err := r.ReadRegion(ctx, 0, 0)
	require.NoError(t, err)
	_, root, err := reg.Chunk(3, 4)
	require.NoError(t, err)
	comp, err := root.AsCompound()
	require.NoError(t, err)
	x, err := comp.GetInt("xPos")
	require.NoError(t, err)
	assert.Equal(t, int32(3), x)
}

func TestBlobReaderMissingObjects(t *testing.T) {
	tc := nbttesting.NewTestContext(t, nbttesting.TestConfig{Seed: 8, TestLabelPrefix: "blobtest"})
	r, err := NewBlobReader(tc.GetLog(), mapObjectReader{objects: map[string][]byte{}}, "worlds/none")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = r.ReadLevel(ctx)
	require.ErrorIs(t, err, ErrObjectNotFound)
	_, err = r.ReadPlayer(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrObjectNotFound)
	_, err = r.ReadRegion(ctx, 0, 0)
	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewBlobReaderRequiresStore(t *testing.T) {
	tc := nbttesting.NewTestContext(t, nbttesting.TestConfig{Seed: 9, TestLabelPrefix: "blobtest"})
	_, err := NewBlobReader(tc.GetLog(), nil, "worlds/main")
	require.ErrorIs(t, err, ErrStoreNotProvided)
}
