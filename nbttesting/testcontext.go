// Package nbttesting provides deterministic world data fixtures for tests of
// the nbt, region and save packages.
package nbttesting

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Outspending/go-ferrumc/nbt"
	"github.com/Outspending/go-ferrumc/region"
)

type TestContext struct {
	T    *testing.T
	Log  logger.Logger
	Rand *rand.Rand
}

type TestConfig struct {
	// Seed fixes the RNG so that the generated data is the same from run to
	// run.
	Seed            int64
	TestLabelPrefix string
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	logger.New("TEST")
	c := TestContext{
		T:    t,
		Log:  logger.Sugar.WithServiceName(cfg.TestLabelPrefix),
		Rand: rand.New(rand.NewSource(cfg.Seed)),
	}
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// UUID generates a deterministic player id from the seeded RNG.
func (c *TestContext) UUID() uuid.UUID {
	var b [16]byte
	_, err := c.Rand.Read(b[:])
	require.NoError(c.T, err)
	// set the rfc 4122 version and variant bits so uuid.Parse round trips
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b)
}

// TestCompound generates a compound with n entries spanning the scalar tag
// types.
func (c *TestContext) TestCompound(n int) nbt.Compound {
	out := nbt.Compound{}
	for i := range n {
		name := fmt.Sprintf("entry%03d", i)
		switch i % 5 {
		case 0:
			out[name] = nbt.Int(c.Rand.Int31())
		case 1:
			out[name] = nbt.Long(c.Rand.Int63())
		case 2:
			out[name] = nbt.Double(c.Rand.Float64())
		case 3:
			out[name] = nbt.String(fmt.Sprintf("value %d", c.Rand.Intn(1000)))
		case 4:
			out[name] = nbt.Byte(int8(c.Rand.Intn(256) - 128))
		}
	}
	return out
}

// LevelCompound builds a level.dat style root compound for a world with the
// given name and seed.
func (c *TestContext) LevelCompound(name string, seed int64) nbt.Compound {
	return nbt.Compound{
		"Data": nbt.CompoundOf(nbt.Compound{
			"LevelName":   nbt.String(name),
			"DataVersion": nbt.Int(3953),
			"SpawnX":      nbt.Int(c.Rand.Int31n(1000) - 500),
			"SpawnY":      nbt.Int(64),
			"SpawnZ":      nbt.Int(c.Rand.Int31n(1000) - 500),
			"Time":        nbt.Long(c.Rand.Int63n(1 << 40)),
			"DayTime":     nbt.Long(c.Rand.Int63n(24000)),
			"hardcore":    nbt.Byte(0),
			"WorldGenSettings": nbt.CompoundOf(nbt.Compound{
				"seed": nbt.Long(seed),
			}),
			"GameRules": nbt.CompoundOf(nbt.Compound{
				"doDaylightCycle": nbt.String("true"),
				"keepInventory":   nbt.String("false"),
			}),
		}),
	}
}

// PlayerCompound builds a playerdata style root compound for the given
// player id.
func (c *TestContext) PlayerCompound(id uuid.UUID) nbt.Compound {
	return nbt.Compound{
		"UUID":      nbt.UUIDIntArray(id),
		"Health":    nbt.Float(20),
		"XpLevel":   nbt.Int(c.Rand.Int31n(100)),
		"Dimension": nbt.String("minecraft:overworld"),
		"Pos": nbt.ListOf(nbt.TagDouble,
			nbt.Double(c.Rand.Float64()*1000-500),
			nbt.Double(64),
			nbt.Double(c.Rand.Float64()*1000-500),
		),
		"Inventory": nbt.ListOf(nbt.TagCompound,
			nbt.CompoundOf(nbt.Compound{
				"Slot":  nbt.Byte(0),
				"id":    nbt.String("minecraft:stone"),
				"Count": nbt.Byte(int8(1 + c.Rand.Intn(64))),
			}),
			nbt.CompoundOf(nbt.Compound{
				"Slot":  nbt.Byte(1),
				"id":    nbt.String("minecraft:diamond_sword"),
				"Count": nbt.Byte(1),
				"tag": nbt.CompoundOf(nbt.Compound{
					"Damage": nbt.Int(c.Rand.Int31n(1562)),
				}),
			}),
		),
	}
}

// ChunkCompound builds a minimal chunk document for world chunk coordinates
// x, z.
func (c *TestContext) ChunkCompound(x, z int) nbt.Compound {
	heights := make([]int64, 37)
	for i := range heights {
		heights[i] = c.Rand.Int63n(1 << 48)
	}
	return nbt.Compound{
		"xPos":       nbt.Int(int32(x)),
		"zPos":       nbt.Int(int32(z)),
		"Status":     nbt.String("minecraft:full"),
		"Heightmaps": nbt.CompoundOf(nbt.Compound{"WORLD_SURFACE": nbt.LongArray(heights)}),
	}
}

// WorldFixture describes what WriteWorld put on disk.
type WorldFixture struct {
	Dir       string
	LevelName string
	Seed      int64
	PlayerIDs []uuid.UUID
	Chunks    []region.Pos
}

// WriteWorld materializes a small but complete world save under dir:
// a gzip wrapped level.dat, two playerdata entries and one region file
// holding three chunks.
func (c *TestContext) WriteWorld(dir string) WorldFixture {
	fx := WorldFixture{
		Dir:       dir,
		LevelName: "fixture world",
		Seed:      c.Rand.Int63(),
		Chunks:    []region.Pos{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 5, Z: 9}},
	}

	data, err := nbt.MarshalCompressed("", nbt.CompoundOf(c.LevelCompound(fx.LevelName, fx.Seed)))
	require.NoError(c.T, err)
	c.writeFile(filepath.Join(dir, "level.dat"), data)

	for range 2 {
		id := c.UUID()
		fx.PlayerIDs = append(fx.PlayerIDs, id)
		data, err := nbt.MarshalCompressed("", nbt.CompoundOf(c.PlayerCompound(id)))
		require.NoError(c.T, err)
		c.writeFile(filepath.Join(dir, "playerdata", id.String()+".dat"), data)
	}
	// a stray non player file the scanners must skip
	c.writeFile(filepath.Join(dir, "playerdata", "backup.dat_old"), []byte("not nbt"))

	schemes := []region.CompressionScheme{region.SchemeZlib, region.SchemeGZip, region.SchemeLZ4}
	var chunks []region.BuildChunk
	for i, pos := range fx.Chunks {
		payload, err := nbt.Marshal("", nbt.CompoundOf(c.ChunkCompound(pos.X, pos.Z)))
		require.NoError(c.T, err)
		chunks = append(chunks, region.BuildChunk{
			X: pos.X, Z: pos.Z,
			Payload:   payload,
			Scheme:    schemes[i%len(schemes)],
			Timestamp: uint32(1700000000 + i),
		})
	}
	blob, err := region.Build(chunks)
	require.NoError(c.T, err)
	c.writeFile(filepath.Join(dir, "region", "r.0.0.mca"), blob)

	return fx
}

func (c *TestContext) writeFile(path string, data []byte) {
	require.NoError(c.T, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(c.T, os.WriteFile(path, data, 0o644))
}
