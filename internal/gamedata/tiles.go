package gamedata

import (
	"slices"

	"github.com/gdamore/tcell/v2"
)

// TileKind identifies a tile type in the catalog.
type TileKind string

const (
	KindCorridor   TileKind = "corridor"
	KindCorner     TileKind = "corner"
	KindTJunction  TileKind = "t-junction"
	KindOpenFloor  TileKind = "open-floor"
	KindOneSide    TileKind = "one-side"
	KindCulDeSac   TileKind = "cul-de-sac"
	KindEntrance   TileKind = "entrance"
	KindLava       TileKind = "lava"
	KindWater      TileKind = "water"
	KindBridge     TileKind = "bridge"
	KindStairs     TileKind = "stairs"
	KindColumn     TileKind = "column"
	KindDoor       TileKind = "door"
	KindRotWall    TileKind = "rotating-wall"
	KindSwerve     TileKind = "obstacle-half-w"
	KindHalfHeight TileKind = "obstacle-half-h"
	KindAbove      TileKind = "obstacle-above"
	KindPortal     TileKind = "portal"
	KindExit       TileKind = "exit"
	KindTileAbove  TileKind = "tile-above"
	KindTileBelow  TileKind = "tile-below"
	KindWeb        TileKind = "web"
	KindArtefact   TileKind = "artefact"
	KindMushroom   TileKind = "mushroom"
	KindThirdEye   TileKind = "third-eye"
	KindPotion     TileKind = "health-potion"
	KindFirefly    TileKind = "firefly"
	KindMagicTile  TileKind = "magic-tile"
	KindTrampoline TileKind = "trampoline"
	KindLever      TileKind = "lever"
	KindOrc        TileKind = "orc"
	KindTeeth      TileKind = "teeth"
	KindSpider     TileKind = "spider"
	KindPatio      TileKind = "patio"
	KindTree       TileKind = "tree"
	KindRotWallL   TileKind = "rotating-wall-l"
	KindRotWallI   TileKind = "rotating-wall-i"
	KindRotWallX   TileKind = "rotating-wall-plus"
)

// Category groups tile kinds by their role on the grid.
type Category string

const (
	CategoryCorridor Category = "corridor"
	CategoryItem     Category = "item"
	CategoryQuad     Category = "quad"
	CategoryPowerUp  Category = "power-up"
	CategoryMonster  Category = "monster"
	CategoryArtefact Category = "artefact"
)

// Behavioral tags carried by catalog entries.
const (
	TagLethal   = "lethal"   // kills on entry unless neutralized or bridged
	TagSolid    = "solid"    // always blocks movement
	TagSpan     = "span"     // makes lethal terrain in the same cell safe
	TagPickup   = "pickup"   // collected once on entry
	TagRotating = "rotating" // rotated by triggers
	TagPushable = "pushable" // orcs shove it one cell
	TagSticky   = "sticky"   // slows whoever walks through
	TagJumpable = "jumpable" // a jumping player passes over it
	TagWeaver   = "weaver"   // leaves webs behind
)

// TileDef defines a tile kind loaded from JSON.
type TileDef struct {
	Kind        TileKind `json:"kind"`
	Label       string   `json:"label"`
	Category    Category `json:"category"`
	Size        int      `json:"size"` // Footprint side in cells (1 or 2)
	Color       string   `json:"color"`
	Glyph       string   `json:"glyph"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// HasTag reports whether the definition carries the given behavioral tag.
func (d *TileDef) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// IsBase returns true for floor tiles that define walls (corridors and quads).
func (d *TileDef) IsBase() bool {
	return d.Category == CategoryCorridor || d.Category == CategoryQuad
}

// IsLayer returns true for tiles that stack on top of a base tile.
func (d *TileDef) IsLayer() bool {
	return !d.IsBase()
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *TileDef) GlyphRune() rune {
	for _, r := range d.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color.
func (d *TileDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(d.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// TilesFile represents the structure of tiles.json.
type TilesFile struct {
	Tiles []TileDef `json:"tiles"`
}

// LoadTiles loads tile definitions from the embedded tiles.json file.
func LoadTiles() ([]TileDef, error) {
	file, err := Load[TilesFile]("tiles.json")
	if err != nil {
		return nil, err
	}
	return file.Tiles, nil
}
