package nbt

import "fmt"

// Typed lookups over a compound. Each returns ErrTagNotFound when the name is
// absent and ErrTagTypeMismatch when it is present with a different type, so
// callers can tell the two apart with errors.Is.

// Get returns the named tag and whether it was present.
func (c Compound) Get(name string) (Tag, bool) {
	t, ok := c[name]
	return t, ok
}

// Has reports whether the compound holds the named tag, of any type.
func (c Compound) Has(name string) bool {
	_, ok := c[name]
	return ok
}

func (c Compound) lookup(name string) (Tag, error) {
	t, ok := c[name]
	if !ok {
		return Tag{}, fmt.Errorf("%w: %q", ErrTagNotFound, name)
	}
	return t, nil
}

func (c Compound) GetByte(name string) (int8, error) {
	t, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	return t.AsByte()
}

// GetBool reads a Byte flag the way the vanilla data uses them, any non zero
// value is true.
func (c Compound) GetBool(name string) (bool, error) {
	v, err := c.GetByte(name)
	return v != 0, err
}

func (c Compound) GetShort(name string) (int16, error) {
	t, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	return t.AsShort()
}

func (c Compound) GetInt(name string) (int32, error) {
	t, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	return t.AsInt()
}

func (c Compound) GetLong(name string) (int64, error) {
	t, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	return t.AsLong()
}

func (c Compound) GetFloat(name string) (float32, error) {
	t, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	return t.AsFloat()
}

func (c Compound) GetDouble(name string) (float64, error) {
	t, err := c.lookup(name)
	if err != nil {
		return 0, err
	}
	return t.AsDouble()
}

func (c Compound) GetString(name string) (string, error) {
	t, err := c.lookup(name)
	if err != nil {
		return "", err
	}
	return t.AsString()
}

func (c Compound) GetByteArray(name string) ([]byte, error) {
	t, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.AsByteArray()
}

func (c Compound) GetIntArray(name string) ([]int32, error) {
	t, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.AsIntArray()
}

func (c Compound) GetLongArray(name string) ([]int64, error) {
	t, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.AsLongArray()
}

func (c Compound) GetList(name string) (List, error) {
	t, err := c.lookup(name)
	if err != nil {
		return List{}, err
	}
	return t.AsList()
}

func (c Compound) GetCompound(name string) (Compound, error) {
	t, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.AsCompound()
}
