package world

// Rect is a rectangular block of grid cells.
type Rect struct {
	X, Y          int // Top-left cell
	Width, Height int
}

// Contains returns true if the given cell is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects returns true if this rect overlaps with another rect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}
