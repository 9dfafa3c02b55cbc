package game

import "testing"

func TestFindNearestTieBreaksUpRightDownLeft(t *testing.T) {
	start := Cell{X: 2, Y: 2}

	cases := []struct {
		name    string
		targets []Cell
		want    Cell
	}{
		{"up beats right", []Cell{{X: 3, Y: 2}, {X: 2, Y: 3}}, Cell{X: 2, Y: 3}},
		{"right beats down", []Cell{{X: 2, Y: 1}, {X: 3, Y: 2}}, Cell{X: 3, Y: 2}},
		{"down beats left", []Cell{{X: 1, Y: 2}, {X: 2, Y: 1}}, Cell{X: 2, Y: 1}},
		{"closer wins over order", []Cell{{X: 2, Y: 4}, {X: 1, Y: 2}}, Cell{X: 1, Y: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := GroundItems{}
			for _, c := range tc.targets {
				items[c] = []ItemKind{ItemEmerald}
			}
			view := mustView(t, []string{".....", ".....", ".....", ".....", "....."}, items, start)

			for i := 0; i < 3; i++ {
				if got := FindNearest(view, start, HasGroundItem(ItemEmerald)); got != tc.want {
					t.Fatalf("call %d: FindNearest = %v, want %v", i, got, tc.want)
				}
			}
		})
	}
}

func TestFindNearestReturnsStartWhenNothingMatches(t *testing.T) {
	view := mustView(t, referenceLayout, nil, Cell{X: 0, Y: 0})

	if got := FindNearest(view, Cell{X: 0, Y: 0}, HasGroundItem(ItemDiamond)); got != (Cell{}) {
		t.Fatalf("FindNearest = %v, want start", got)
	}
}

func TestFindNearestMatchesStartFirst(t *testing.T) {
	start := Cell{X: 3, Y: 4}
	view := mustView(t, referenceLayout, nil, start)

	if got := FindNearest(view, start, TileIs(TileDiamond)); got != start {
		t.Fatalf("FindNearest = %v, want %v", got, start)
	}
}

func TestElsewhereSkipsTheStartCell(t *testing.T) {
	start := Cell{X: 3, Y: 4}
	view := mustView(t, referenceLayout, nil, start)

	if got := FindNearest(view, start, Elsewhere(start, TileIs(TileDiamond))); got != (Cell{X: 4, Y: 3}) {
		t.Fatalf("FindNearest = %v, want (4, 3)", got)
	}

	lone := Cell{X: 2, Y: 3}
	if got := FindNearest(view, lone, Elsewhere(lone, TileIs(TileRecharge))); got != lone {
		t.Fatalf("FindNearest = %v, want the start sentinel", got)
	}
}

// Every search result is either a matching cell at the minimum Manhattan
// distance or the start cell when no cell matches.
func TestFindNearestIsMinimalForEveryStart(t *testing.T) {
	view := mustView(t, referenceLayout, nil, Cell{})
	kinds := []TileKind{TileEmpty, TileRuby, TileEmerald, TileDiamond, TileRecharge, TileRedMarket, TileBlueMarket}

	for x := 0; x < view.Size(); x++ {
		for y := 0; y < view.Size(); y++ {
			start := Cell{X: x, Y: y}
			for _, kind := range kinds {
				got := FindNearest(view, start, TileIs(kind))
				candidates := view.CellsOf(kind)

				if len(candidates) == 0 {
					if got != start {
						t.Fatalf("start %v kind %v: got %v, want start", start, kind, got)
					}
					continue
				}

				if tile, _ := view.TileAt(got); tile != kind {
					t.Fatalf("start %v kind %v: got non-matching %v (%v)", start, kind, got, tile)
				}

				best := GetManhattanDistance(start, candidates[0])
				for _, c := range candidates[1:] {
					best = min(best, GetManhattanDistance(start, c))
				}
				if d := GetManhattanDistance(start, got); d != best {
					t.Fatalf("start %v kind %v: got %v at %d, nearest is %d", start, kind, got, d, best)
				}
			}
		}
	}
}

func TestAnyOf(t *testing.T) {
	items := GroundItems{{X: 0, Y: 4}: {ItemAutominer}}
	view := mustView(t, referenceLayout, items, Cell{X: 0, Y: 0})

	got := FindNearest(view, Cell{}, AnyOf(HasGroundItem(ItemAutominer), TileIs(TileRedMarket)))
	if got != (Cell{X: 1, Y: 1}) {
		t.Fatalf("FindNearest = %v, want red market at (1, 1)", got)
	}
}
