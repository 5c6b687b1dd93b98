package ui

import "github.com/samdwyer/dungeonbuilder/internal/world"

const allSides = 0b1111

func sideMask(d world.Direction) int {
	return 1 << int(d)
}

// openSides returns a bit per direction an actor may leave the cell through.
func openSides(l *world.Level, x, y int) int {
	open := 0
	for _, d := range world.Directions {
		if !l.BlockedAt(x, y, d, false) {
			open |= sideMask(d)
		}
	}
	return open
}

var (
	up    = sideMask(world.Up)
	right = sideMask(world.Right)
	down  = sideMask(world.Down)
	left  = sideMask(world.Left)
)

// passages draws the open sides of a cell as box-drawing lines.
var passages = map[int]rune{
	up:                  '╵',
	right:               '╶',
	down:                '╷',
	left:                '╴',
	up | down:           '│',
	left | right:        '─',
	up | right:          '└',
	right | down:        '┌',
	down | left:         '┐',
	left | up:           '┘',
	up | right | down:   '├',
	right | down | left: '┬',
	down | left | up:    '┤',
	left | up | right:   '┴',
}

// wallGlyph returns the passage glyph for an open-side mask, or 0 when the
// cell is fully open or fully closed.
func wallGlyph(open int) rune {
	return passages[open]
}
