package save

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Outspending/go-ferrumc/nbt"
)

// Player is a typed view over a playerdata document.
type Player struct {
	// Data is the root compound, for fields the typed accessors do not
	// cover.
	Data nbt.Compound
}

// Slot is one inventory entry.
type Slot struct {
	// Slot is the inventory position. Hotbar is 0-8, armor 100-103, offhand
	// -106.
	Slot int8
	// ID is the namespaced item identifier, minecraft:stone and the like.
	ID string
	// Count is the stack size.
	Count int8
	// Tag holds the optional item payload, enchantments, damage and so on.
	// Nil when the item carries none.
	Tag nbt.Compound
}

// ParsePlayer decodes a playerdata document. The buffer may still be gzip
// wrapped, which is how the files are stored.
func ParsePlayer(data []byte, opts ...nbt.Option) (*Player, error) {
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
	return &Player{Data: c}, nil
}

// UUID returns the player identity. Both the modern IntArray form and the
// legacy UUIDMost/UUIDLeast pair are accepted.
func (p *Player) UUID() (uuid.UUID, error) {
	return p.Data.UUID("UUID")
}

// Pos returns the player position as x, y, z.
func (p *Player) Pos() (x, y, z float64, err error) {
	l, err := p.Data.GetList("Pos")
	if err != nil {
		return 0, 0, 0, err
	}
	if len(l.Items) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: Pos has %d elements, want 3", nbt.ErrMalformedData, len(l.Items))
	}
	var coords [3]float64
	for i, item := range l.Items {
		if coords[i], err = item.AsDouble(); err != nil {
			return 0, 0, 0, fmt.Errorf("Pos element %d: %w", i, err)
		}
	}
	return coords[0], coords[1], coords[2], nil
}

// Health returns the player health, 20 is full.
func (p *Player) Health() (float32, error) {
	return p.Data.GetFloat("Health")
}

// XpLevel returns the experience level.
func (p *Player) XpLevel() (int32, error) {
	return p.Data.GetInt("XpLevel")
}

// Dimension returns the namespaced dimension the player is in.
func (p *Player) Dimension() (string, error) {
	return p.Data.GetString("Dimension")
}

// Inventory returns the player inventory slots in stored order.
func (p *Player) Inventory() ([]Slot, error) {
	l, err := p.Data.GetList("Inventory")
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, len(l.Items))
	for i, item := range l.Items {
		c, err := item.AsCompound()
		if err != nil {
			return nil, fmt.Errorf("inventory entry %d: %w", i, err)
		}
		s := Slot{}
		if s.Slot, err = c.GetByte("Slot"); err != nil {
			return nil, fmt.Errorf("inventory entry %d: %w", i, err)
		}
		if s.ID, err = c.GetString("id"); err != nil {
			return nil, fmt.Errorf("inventory entry %d: %w", i, err)
		}
		if s.Count, err = c.GetByte("Count"); err != nil {
			return nil, fmt.Errorf("inventory entry %d: %w", i, err)
		}
		// the item payload is optional
		if tag, err := c.GetCompound("tag"); err == nil {
			s.Tag = tag
		}
		slots = append(slots, s)
	}
	return slots, nil
}
