package world

import "github.com/samdwyer/dungeonbuilder/internal/gamedata"

// wallRule describes how a tile kind blocks movement across cell edges.
type wallRule struct {
	// sides are the walled edges of a 1x1 tile at rotation 0.
	sides []Direction
	// door blocks entry across its front edge only.
	door bool
	// segments are the internal half-walls of a 2x2 quad at rotation 0.
	segments []segment
}

// segment is one internal wall of a quad, between two sub-cells.
// The segments are numbered clockwise: north, east, south, west.
type segment int

const (
	segNorth segment = iota
	segEast
	segSouth
	segWest
)

// halfWall is one side of a segment: the sub-cell it borders and the edge it walls.
type halfWall struct {
	dx, dy int
	dir    Direction
}

// segmentSides maps each segment to the two sub-cell edges it covers.
// A quad's sub-cells are (0,0) top-left, (1,0) top-right, (1,1) bottom-right, (0,1) bottom-left.
var segmentSides = [4][2]halfWall{
	segNorth: {{0, 0, Right}, {1, 0, Left}},
	segEast:  {{1, 0, Down}, {1, 1, Up}},
	segSouth: {{1, 1, Left}, {0, 1, Right}},
	segWest:  {{0, 1, Up}, {0, 0, Down}},
}

var wallRules = map[gamedata.TileKind]wallRule{
	gamedata.KindCorridor:  {sides: []Direction{Up, Down}},
	gamedata.KindCorner:    {sides: []Direction{Up, Left}},
	gamedata.KindTJunction: {sides: []Direction{Up}},
	gamedata.KindOneSide:   {sides: []Direction{Up}},
	gamedata.KindCulDeSac:  {sides: []Direction{Up, Left, Right}},
	gamedata.KindRotWall:   {sides: []Direction{Left, Right}},
	gamedata.KindDoor:      {door: true},
	gamedata.KindRotWallI:  {segments: []segment{segNorth, segSouth}},
	gamedata.KindRotWallL:  {segments: []segment{segNorth, segEast}},
	gamedata.KindRotWallX:  {segments: []segment{segNorth, segEast, segSouth, segWest}},
}

// Blocked reports whether the tile walls off the edge of cell (x, y) facing dir.
// With entry set the question is whether an actor may come into the cell across
// that edge; otherwise whether it may leave through it. Doors only block entry.
func Blocked(t *PlacedTile, dir Direction, x, y int, entry bool) bool {
	if !t.Active() || !t.Covers(x, y) {
		return false
	}
	rule, ok := wallRules[t.Kind]
	if !ok {
		return false
	}

	if rule.door {
		return entry && dir == Up.Rotate(t.Rotation)
	}

	if len(rule.sides) > 0 {
		local := dir.Rotate(-t.Rotation)
		for _, s := range rule.sides {
			if s == local {
				return true
			}
		}
		return false
	}

	shift := NormalizeRotation(t.Rotation) / 90
	sx, sy := x-t.X, y-t.Y
	for _, seg := range rule.segments {
		for _, hw := range segmentSides[(int(seg)+shift)%4] {
			if hw.dx == sx && hw.dy == sy && hw.dir == dir {
				return true
			}
		}
	}
	return false
}

// BlockedAt reports whether any tile covering the cell walls off the given edge.
func (l *Level) BlockedAt(x, y int, dir Direction, entry bool) bool {
	for _, t := range l.Tiles {
		if Blocked(t, dir, x, y, entry) {
			return true
		}
	}
	return false
}

// CanCross reports whether an actor standing on (x, y) may step one cell in dir:
// it must be able to leave its cell and enter the next from the opposite side.
func (l *Level) CanCross(x, y int, dir Direction) bool {
	if l.BlockedAt(x, y, dir, false) {
		return false
	}
	dx, dy := dir.Delta()
	return !l.BlockedAt(x+dx, y+dy, dir.Opposite(), true)
}
