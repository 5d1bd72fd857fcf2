package maze

// Cell represents the state of a single grid cell
type Cell uint8

const (
	// Wall is a solid cell the ball collides with
	Wall Cell = iota
	// Path is a carved, walkable cell
	Path
)

// String returns a single-character representation used in layout strings
func (c Cell) String() string {
	if c == Path {
		return "."
	}
	return "#"
}

// Point is a grid coordinate (X = column, Y = row)
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
