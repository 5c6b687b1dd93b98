// Package entity provides the actors that move on a level: the player and monsters.
package entity

import "github.com/samdwyer/dungeonbuilder/internal/world"

// Action is the player's movement mode, deciding which obstacles are passable.
type Action int

const (
	ActionNormal Action = iota
	ActionJump          // clears half-height obstacles and jumpable monsters
	ActionSlide         // passes under overhead obstacles
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionNormal:
		return "normal"
	case ActionJump:
		return "jump"
	case ActionSlide:
		return "slide"
	default:
		return "unknown"
	}
}

// Player is the avatar controlled during play.
type Player struct {
	X, Y   int             // Current cell
	Action Action          // Current movement mode
	Facing world.Direction // Last direction moved or requested
	Symbol rune            // Display symbol
}

// NewPlayer creates a player standing at the given cell.
func NewPlayer(x, y int) *Player {
	return &Player{
		X:      x,
		Y:      y,
		Facing: world.Right,
		Symbol: '@',
	}
}

// MoveTo places the player on a cell.
func (p *Player) MoveTo(x, y int) {
	p.X, p.Y = x, y
}

// Position returns the current x, y coordinates.
func (p *Player) Position() (int, int) {
	return p.X, p.Y
}

// Jumping reports whether the player is mid-jump.
func (p *Player) Jumping() bool {
	return p.Action == ActionJump
}

// Sliding reports whether the player is sliding.
func (p *Player) Sliding() bool {
	return p.Action == ActionSlide
}
