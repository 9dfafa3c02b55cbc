package game

// CellMatcher reports whether a cell is a search target.
type CellMatcher func(view *BoardView, c Cell) bool

func TileIs(kind TileKind) CellMatcher {
	return func(view *BoardView, c Cell) bool {
		return view.tileAt(c) == kind
	}
}

func HasGroundItem(kind ItemKind) CellMatcher {
	return func(view *BoardView, c Cell) bool {
		for _, item := range view.itemsAt(c) {
			if item == kind {
				return true
			}
		}
		return false
	}
}

func AnyOf(matchers ...CellMatcher) CellMatcher {
	return func(view *BoardView, c Cell) bool {
		for _, match := range matchers {
			if match(view, c) {
				return true
			}
		}
		return false
	}
}

// Elsewhere narrows match to cells other than self, so a search started on a
// matching cell still finds the next one.
func Elsewhere(self Cell, match CellMatcher) CellMatcher {
	return func(view *BoardView, c Cell) bool {
		return c != self && match(view, c)
	}
}

// FindNearest runs a breadth-first search from start and returns the first
// cell accepted by match. Neighbours are expanded up, right, down, left so
// equidistant targets always resolve the same way. When nothing matches the
// start cell is returned.
func FindNearest(view *BoardView, start Cell, match CellMatcher) Cell {
	if !view.InBounds(start) {
		return start
	}

	q := []Cell{start}
	visited := make(map[Cell]bool, view.size*view.size)
	visited[start] = true

	for len(q) > 0 {
		current := q[0]
		q = q[1:]

		if match(view, current) {
			return current
		}

		for _, dir := range Directions {
			next := current.Step(dir)
			if !view.InBounds(next) || visited[next] {
				continue
			}
			visited[next] = true
			q = append(q, next)
		}
	}

	return start
}

// foundElsewhere is the sentinel check callers run on FindNearest results.
func foundElsewhere(view *BoardView, target Cell) bool {
	return target != view.Self()
}
