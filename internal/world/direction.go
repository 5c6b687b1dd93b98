package world

// Direction is a cardinal direction on the grid, in clockwise order.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists the four cardinal directions in clockwise order.
var Directions = [4]Direction{Up, Right, Down, Left}

var deltas = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Delta returns the unit grid vector for the direction.
func (d Direction) Delta() (dx, dy int) {
	v := deltas[d&3]
	return v[0], v[1]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 2) & 3
}

// Rotate turns the direction clockwise by the given angle in degrees.
// Negative angles turn counter-clockwise.
func (d Direction) Rotate(degrees int) Direction {
	return (d + Direction(NormalizeRotation(degrees)/90)) & 3
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// DirectionFromDelta converts a unit cardinal vector to a Direction.
// It returns false for the zero vector and for diagonals.
func DirectionFromDelta(dx, dy int) (Direction, bool) {
	switch {
	case dx > 0 && dy == 0:
		return Right, true
	case dx < 0 && dy == 0:
		return Left, true
	case dy > 0 && dx == 0:
		return Down, true
	case dy < 0 && dx == 0:
		return Up, true
	}
	return Up, false
}

// NormalizeRotation maps any angle onto {0, 90, 180, 270}.
func NormalizeRotation(degrees int) int {
	r := degrees % 360
	if r < 0 {
		r += 360
	}
	return r - r%90
}
