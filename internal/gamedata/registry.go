package gamedata

import (
	"errors"
	"fmt"
)

// Catalog holds loaded tile definitions and provides lookup utilities.
// It is read-only after construction.
type Catalog struct {
	defs map[TileKind]*TileDef
	all  []TileDef
}

// NewCatalog creates a catalog from loaded tile definitions.
// Every kind must be unique and have a footprint of 1 or 2.
func NewCatalog(tiles []TileDef) (*Catalog, error) {
	c := &Catalog{
		defs: make(map[TileKind]*TileDef, len(tiles)),
		all:  tiles,
	}
	for i := range tiles {
		def := &tiles[i]
		if def.Size != 1 && def.Size != 2 {
			return nil, fmt.Errorf("tile %q: invalid size %d", def.Kind, def.Size)
		}
		if _, dup := c.defs[def.Kind]; dup {
			return nil, fmt.Errorf("tile %q defined twice", def.Kind)
		}
		c.defs[def.Kind] = def
	}
	return c, nil
}

// LoadCatalog loads and creates a catalog from the embedded tiles.json.
func LoadCatalog() (*Catalog, error) {
	tiles, err := LoadTiles()
	if err != nil {
		return nil, err
	}
	if len(tiles) == 0 {
		return nil, errors.New("no tiles loaded from tiles.json")
	}
	return NewCatalog(tiles)
}

// MustLoadCatalog loads the catalog, panicking on error.
// Use this for data that must be present for the game to function.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Get returns the definition for a kind, or nil if the kind is unknown.
func (c *Catalog) Get(kind TileKind) *TileDef {
	return c.defs[kind]
}

// Has reports whether the kind resolves to a catalog entry.
func (c *Catalog) Has(kind TileKind) bool {
	_, ok := c.defs[kind]
	return ok
}

// ByCategory returns the definitions in a category, in catalog order.
func (c *Catalog) ByCategory(cat Category) []*TileDef {
	var out []*TileDef
	for i := range c.all {
		if c.all[i].Category == cat {
			out = append(out, &c.all[i])
		}
	}
	return out
}

// All returns all tile definitions in catalog order.
func (c *Catalog) All() []TileDef {
	return c.all
}

// Count returns the number of tile kinds in the catalog.
func (c *Catalog) Count() int {
	return len(c.all)
}
