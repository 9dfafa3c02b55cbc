package game

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

const chargerSeekingScript = `
received = 0

function getTurnAction(state)
	if state.tile == "recharge" then
		return "NONE"
	end
	local x, y = nearest("recharge")
	if x > state.x then return "MOVE_RIGHT" end
	if x < state.x then return "MOVE_LEFT" end
	if y > state.y then return "MOVE_UP" end
	return "MOVE_DOWN"
end

function onItemReceived(item)
	received = received + 1
end
`

func newScripted(t *testing.T, source string) *ScriptedStrategy {
	t.Helper()
	s, err := NewScriptedStrategy("script", source, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewScriptedStrategy: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func initScripted(s *ScriptedStrategy, view *BoardView) {
	s.Initialize(RoundParams{
		BoardSize:    view.Size(),
		MaxInventory: testMaxInventory,
		MaxEnergy:    testMaxEnergy,
		WinningScore: testWinningScore,
		Board:        view,
		Start:        view.Self(),
		IsRed:        false,
		Rand:         rand.New(rand.NewSource(1)),
	})
}

func TestScriptedStrategyUsesNearestHelper(t *testing.T) {
	s := newScripted(t, chargerSeekingScript)

	cases := []struct {
		self Cell
		want Action
	}{
		{Cell{X: 0, Y: 3}, ActionMoveRight},
		{Cell{X: 4, Y: 3}, ActionMoveLeft},
		{Cell{X: 2, Y: 0}, ActionMoveUp},
		{Cell{X: 2, Y: 4}, ActionMoveDown},
		{Cell{X: 2, Y: 3}, ActionNone},
	}
	for _, tc := range cases {
		view := mustView(t, referenceLayout, nil, tc.self)
		initScripted(s, view)
		if got := s.TurnAction(view, testEconomy, testMaxEnergy, false); got != tc.want {
			t.Errorf("at %v: TurnAction = %v, want %v", tc.self, got, tc.want)
		}
	}
}

func TestScriptedStrategyHooksReachLua(t *testing.T) {
	s := newScripted(t, chargerSeekingScript)
	view := mustView(t, referenceLayout, nil, Cell{})
	initScripted(s, view)

	s.OnItemReceived(ItemRuby)
	s.OnItemReceived(ItemEmerald)

	if got := s.luaState.GetGlobal("received").String(); got != "2" {
		t.Fatalf("received = %s, want 2", got)
	}
	if s.inventory != 2 {
		t.Fatalf("inventory = %d, want 2", s.inventory)
	}
	s.OnInventorySold(40)
	if s.inventory != 0 {
		t.Fatalf("inventory after sale = %d", s.inventory)
	}
}

func TestScriptedStrategyFailuresIdle(t *testing.T) {
	view := mustView(t, referenceLayout, nil, Cell{})

	cases := map[string]string{
		"runtime error":  `function getTurnAction(state) error("boom") end`,
		"wrong type":     `function getTurnAction(state) return 7 end`,
		"unknown action": `function getTurnAction(state) return "JUMP" end`,
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			s := newScripted(t, source)
			initScripted(s, view)
			if got := s.TurnAction(view, testEconomy, testMaxEnergy, false); got != ActionNone {
				t.Fatalf("TurnAction = %v, want NONE", got)
			}
		})
	}
}

func TestScriptedStrategyRejectsBadScripts(t *testing.T) {
	cases := map[string]string{
		"syntax":      `function getTurnAction(`,
		"no function": `x = 1`,
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewScriptedStrategy(name, source, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadScriptedStrategyNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miner.lua")
	if err := os.WriteFile(path, []byte(`function getTurnAction(s) return "mine" end`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScriptedStrategy(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("LoadScriptedStrategy: %v", err)
	}
	defer s.Close()

	if s.Name() != "miner" {
		t.Fatalf("Name = %q", s.Name())
	}
	view := mustView(t, referenceLayout, nil, Cell{})
	initScripted(s, view)
	if got := s.TurnAction(view, testEconomy, testMaxEnergy, false); got != ActionMine {
		t.Fatalf("TurnAction = %v, want MINE", got)
	}
}

func TestScriptedStrategyNearestItem(t *testing.T) {
	items := GroundItems{
		{X: 1, Y: 3}: {ItemRuby},
		{X: 4, Y: 0}: {ItemAutominer},
	}
	view := mustView(t, referenceLayout, items, Cell{X: 1, Y: 1})

	cases := []struct {
		query string
		wantX string
		wantY string
	}{
		{`"ruby", "autominer"`, "1", "3"},
		{`"autominer"`, "4", "0"},
		{`"diamond"`, "1", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			s := newScripted(t, `
function getTurnAction(state)
	lastX, lastY = nearestItem(`+tc.query+`)
	return "NONE"
end`)
			initScripted(s, view)
			s.TurnAction(view, testEconomy, testMaxEnergy, false)

			gotX := s.luaState.GetGlobal("lastX").String()
			gotY := s.luaState.GetGlobal("lastY").String()
			if gotX != tc.wantX || gotY != tc.wantY {
				t.Fatalf("nearestItem(%s) = %s,%s, want %s,%s", tc.query, gotX, gotY, tc.wantX, tc.wantY)
			}
		})
	}

	s := newScripted(t, `function getTurnAction(state) nearestItem("gold") return "MINE" end`)
	initScripted(s, view)
	if got := s.TurnAction(view, testEconomy, testMaxEnergy, false); got != ActionNone {
		t.Fatalf("unknown item should make the script idle, got %v", got)
	}
}
