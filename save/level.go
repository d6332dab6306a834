package save

import (
	"fmt"

	"github.com/Outspending/go-ferrumc/nbt"
)

// Level is a typed view over the Data compound of a level.dat document. The
// view borrows the decoded tree; it performs no reads of its own.
type Level struct {
	// Data is the full Data compound, for fields the typed accessors do not
	// cover.
	Data nbt.Compound
}

// ParseLevel decodes a level.dat document. The buffer may still be gzip
// wrapped, which is how the file is stored.
func ParseLevel(data []byte, opts ...nbt.Option) (*Level, error) {
	plain, err := nbt.Decompress(data)
	if err != nil {
		return nil, err
	}
	_, root, err := nbt.Parse(plain, opts...)
	if err != nil {
		return nil, err
	}
	c, err := root.AsCompound()
	if err != nil {
		return nil, err
	}
	inner, err := c.GetCompound("Data")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLevelDataMissing, err)
	}
	return &Level{Data: inner}, nil
}

// Name returns the world name.
func (l *Level) Name() (string, error) {
	return l.Data.GetString("LevelName")
}

// DataVersion returns the save format version the world was last written
// with.
func (l *Level) DataVersion() (int32, error) {
	return l.Data.GetInt("DataVersion")
}

// Seed returns the world generation seed. Modern saves nest it under
// WorldGenSettings; older saves store it as RandomSeed at the top level.
// Both forms are accepted, the modern one first.
func (l *Level) Seed() (int64, error) {
	if gen, err := l.Data.GetCompound("WorldGenSettings"); err == nil {
		return gen.GetLong("seed")
	}
	return l.Data.GetLong("RandomSeed")
}

// Spawn returns the world spawn block position.
func (l *Level) Spawn() (x, y, z int32, err error) {
	if x, err = l.Data.GetInt("SpawnX"); err != nil {
		return 0, 0, 0, err
	}
	if y, err = l.Data.GetInt("SpawnY"); err != nil {
		return 0, 0, 0, err
	}
	if z, err = l.Data.GetInt("SpawnZ"); err != nil {
		return 0, 0, 0, err
	}
	return x, y, z, nil
}

// Time returns the total world age in ticks.
func (l *Level) Time() (int64, error) {
	return l.Data.GetLong("Time")
}

// DayTime returns the time of day in ticks.
func (l *Level) DayTime() (int64, error) {
	return l.Data.GetLong("DayTime")
}

// Hardcore reports the hardcore flag.
func (l *Level) Hardcore() (bool, error) {
	return l.Data.GetBool("hardcore")
}

// GameRules returns the rule name to value mapping. Rule values are stored
// as strings regardless of their logical type.
func (l *Level) GameRules() (map[string]string, error) {
	c, err := l.Data.GetCompound("GameRules")
	if err != nil {
		return nil, err
	}
	rules := make(map[string]string, len(c))
	for name := range c {
		v, err := c.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("game rule %q: %w", name, err)
		}
		rules[name] = v
	}
	return rules, nil
}
