package game

type Direction struct {
	Dx, Dy int
}

var (
	Up    = Direction{Dx: 0, Dy: 1}
	Right = Direction{Dx: 1, Dy: 0}
	Down  = Direction{Dx: 0, Dy: -1}
	Left  = Direction{Dx: -1, Dy: 0}
)

// Directions is the neighbour expansion order used by every search.
var Directions = []Direction{Up, Right, Down, Left}

func GetManhattanDistance(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
