package game

import (
	"errors"
	"fmt"
)

// ErrInvalidCell is returned by board queries for cells outside the grid.
var ErrInvalidCell = errors.New("invalid cell")

type Cell struct {
	X int
	Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Step returns the neighbouring cell in the given direction.
func (c Cell) Step(dir Direction) Cell {
	return Cell{X: c.X + dir.Dx, Y: c.Y + dir.Dy}
}

type TileKind int

const (
	TileEmpty TileKind = iota
	TileRuby
	TileEmerald
	TileDiamond
	TileRecharge
	TileRedMarket
	TileBlueMarket
)

var tileNames = map[TileKind]string{
	TileEmpty:      "empty",
	TileRuby:       "ruby",
	TileEmerald:    "emerald",
	TileDiamond:    "diamond",
	TileRecharge:   "recharge",
	TileRedMarket:  "red-market",
	TileBlueMarket: "blue-market",
}

func (t TileKind) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tile(%d)", int(t))
}

// Resource returns the item mined from a resource tile.
func (t TileKind) Resource() (ItemKind, bool) {
	switch t {
	case TileRuby:
		return ItemRuby, true
	case TileEmerald:
		return ItemEmerald, true
	case TileDiamond:
		return ItemDiamond, true
	}
	return 0, false
}

// MarketFor returns the deposit tile of the given side.
func MarketFor(isRed bool) TileKind {
	if isRed {
		return TileRedMarket
	}
	return TileBlueMarket
}

type ItemKind int

const (
	// ItemNone marks the absence of an item, e.g. a decision with no pickup.
	ItemNone ItemKind = iota
	ItemRuby
	ItemEmerald
	ItemDiamond
	ItemAutominer
)

// ResourceKinds is the rotation order of collectible resources.
var ResourceKinds = []ItemKind{ItemRuby, ItemEmerald, ItemDiamond}

var itemNames = map[ItemKind]string{
	ItemRuby:      "ruby",
	ItemEmerald:   "emerald",
	ItemDiamond:   "diamond",
	ItemAutominer: "autominer",
}

func (k ItemKind) String() string {
	if name, ok := itemNames[k]; ok {
		return name
	}
	if k == ItemNone {
		return "none"
	}
	return fmt.Sprintf("item(%d)", int(k))
}

func ParseItemKind(name string) (ItemKind, error) {
	for kind, itemName := range itemNames {
		if itemName == name {
			return kind, nil
		}
	}
	return ItemNone, fmt.Errorf("unknown item %q", name)
}

func (k ItemKind) IsResource() bool {
	return k == ItemRuby || k == ItemEmerald || k == ItemDiamond
}

// ResourceTile returns the tile a resource item is mined from.
func (k ItemKind) ResourceTile() TileKind {
	switch k {
	case ItemRuby:
		return TileRuby
	case ItemEmerald:
		return TileEmerald
	case ItemDiamond:
		return TileDiamond
	}
	return TileEmpty
}

// NextResource returns the resource after k in rotation order. The power-up
// kind rotates to the first resource after ruby, matching a fresh rotation.
func (k ItemKind) NextResource() ItemKind {
	switch k {
	case ItemRuby, ItemAutominer:
		return ItemEmerald
	case ItemEmerald:
		return ItemDiamond
	default:
		return ItemRuby
	}
}

type GroundItems map[Cell][]ItemKind

// Clone copies the mapping and every item slice.
func (g GroundItems) Clone() GroundItems {
	out := make(GroundItems, len(g))
	for cell, items := range g {
		if len(items) == 0 {
			continue
		}
		out[cell] = append([]ItemKind(nil), items...)
	}
	return out
}

// BoardView is the read-only snapshot a strategy sees on one turn.
// tiles is indexed [x][y].
type BoardView struct {
	size     int
	tiles    [][]TileKind
	items    GroundItems
	self     Cell
	opponent Cell
	turn     int
}

// NewBoardView copies tiles and items into a new snapshot. tiles must be
// square and indexed [x][y].
func NewBoardView(tiles [][]TileKind, items GroundItems, self, opponent Cell, turn int) (*BoardView, error) {
	size := len(tiles)
	if size == 0 {
		return nil, errors.New("board has no columns")
	}

	grid := make([][]TileKind, size)
	for x := range tiles {
		if len(tiles[x]) != size {
			return nil, fmt.Errorf("board column %d has %d tiles, want %d", x, len(tiles[x]), size)
		}
		grid[x] = append([]TileKind(nil), tiles[x]...)
	}

	view := &BoardView{
		size:     size,
		tiles:    grid,
		items:    items.Clone(),
		self:     self,
		opponent: opponent,
		turn:     turn,
	}

	if !view.InBounds(self) {
		return nil, fmt.Errorf("own location %v: %w", self, ErrInvalidCell)
	}
	if !view.InBounds(opponent) {
		return nil, fmt.Errorf("opponent location %v: %w", opponent, ErrInvalidCell)
	}

	return view, nil
}

func (v *BoardView) Size() int { return v.size }

func (v *BoardView) Self() Cell { return v.self }

func (v *BoardView) Opponent() Cell { return v.opponent }

func (v *BoardView) Turn() int { return v.turn }

func (v *BoardView) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < v.size && c.Y < v.size
}

func (v *BoardView) TileAt(c Cell) (TileKind, error) {
	if !v.InBounds(c) {
		return TileEmpty, fmt.Errorf("tile at %v: %w", c, ErrInvalidCell)
	}
	return v.tiles[c.X][c.Y], nil
}

// ItemsAt returns a copy of the items lying at c.
func (v *BoardView) ItemsAt(c Cell) ([]ItemKind, error) {
	if !v.InBounds(c) {
		return nil, fmt.Errorf("items at %v: %w", c, ErrInvalidCell)
	}
	items := v.items[c]
	if len(items) == 0 {
		return nil, nil
	}
	return append([]ItemKind(nil), items...), nil
}

// CellsOf lists every cell of the given kind, scanning x then y.
func (v *BoardView) CellsOf(kind TileKind) []Cell {
	var cells []Cell
	for x := 0; x < v.size; x++ {
		for y := 0; y < v.size; y++ {
			if v.tiles[x][y] == kind {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// tileAt and itemsAt skip the bounds check; callers guarantee c is on the board.
func (v *BoardView) tileAt(c Cell) TileKind {
	return v.tiles[c.X][c.Y]
}

func (v *BoardView) itemsAt(c Cell) []ItemKind {
	return v.items[c]
}

var tileRunes = map[rune]TileKind{
	'.': TileEmpty,
	'R': TileRuby,
	'E': TileEmerald,
	'D': TileDiamond,
	'+': TileRecharge,
	'r': TileRedMarket,
	'b': TileBlueMarket,
}

// ParseTiles turns a text layout into an [x][y] grid. The first row is the
// top of the board (highest y).
func ParseTiles(rows []string) ([][]TileKind, error) {
	size := len(rows)
	if size == 0 {
		return nil, errors.New("layout has no rows")
	}

	tiles := make([][]TileKind, size)
	for x := range tiles {
		tiles[x] = make([]TileKind, size)
	}

	for row, line := range rows {
		runes := []rune(line)
		if len(runes) != size {
			return nil, fmt.Errorf("layout row %d has %d tiles, want %d", row, len(runes), size)
		}
		y := size - 1 - row
		for x, r := range runes {
			kind, ok := tileRunes[r]
			if !ok {
				return nil, fmt.Errorf("layout row %d col %d: unknown tile %q", row, x, r)
			}
			tiles[x][y] = kind
		}
	}

	return tiles, nil
}
