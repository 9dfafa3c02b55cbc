package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

const (
	luaTurnFunction     = "getTurnAction"
	luaItemFunction     = "onItemReceived"
	luaSoldFunction     = "onInventorySold"
	luaEndRoundFunction = "endRound"
)

// ScriptedStrategy drives a robot from a Lua script. The script must define
// getTurnAction(state) returning an action name such as "MOVE_UP"; it may
// also define onItemReceived(item), onInventorySold(total) and
// endRound(points, opponentPoints). The globals nearest(tile) and
// nearestItem(item, ...) return the x, y of the closest matching tile or
// ground item, or the robot's own cell when there is none.
type ScriptedStrategy struct {
	name      string
	source    string
	luaState  *lua.LState
	params    RoundParams
	view      *BoardView
	inventory int
	logger    *log.Logger
}

func NewScriptedStrategy(name, source string, logger *log.Logger) (*ScriptedStrategy, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &ScriptedStrategy{
		name:   name,
		source: source,
		logger: logger.With("strategy", name),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadScriptedStrategy reads a script from disk; the file name without its
// extension becomes the strategy name.
func LoadScriptedStrategy(path string, logger *log.Logger) (*ScriptedStrategy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lua strategy %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewScriptedStrategy(name, string(raw), logger)
}

func (s *ScriptedStrategy) load() error {
	luaState := lua.NewState()
	if err := luaState.DoString(s.source); err != nil {
		luaState.Close()
		return fmt.Errorf("could not parse lua strategy %s: %w", s.name, err)
	}
	if _, ok := luaState.GetGlobal(luaTurnFunction).(*lua.LFunction); !ok {
		luaState.Close()
		return fmt.Errorf("lua strategy %s does not define %s", s.name, luaTurnFunction)
	}
	luaState.SetGlobal("nearest", luaState.NewFunction(s.luaNearest))
	luaState.SetGlobal("nearestItem", luaState.NewFunction(s.luaNearestItem))

	if s.luaState != nil {
		s.luaState.Close()
	}
	s.luaState = luaState
	return nil
}

func (s *ScriptedStrategy) Name() string {
	return s.name
}

func (s *ScriptedStrategy) Source() string {
	return s.source
}

// Close releases the Lua interpreter.
func (s *ScriptedStrategy) Close() {
	if s.luaState != nil {
		s.luaState.Close()
		s.luaState = nil
	}
}

func (s *ScriptedStrategy) Initialize(params RoundParams) {
	s.params = params
	s.view = params.Board
	s.inventory = 0
}

func (s *ScriptedStrategy) TurnAction(view *BoardView, economy Economy, energy int, isRedTurn bool) Action {
	s.view = view
	action, err := s.callTurnAction(view, economy, energy, isRedTurn)
	if err != nil {
		s.logger.Warn("lua strategy failed, idling", "turn", view.Turn(), "error", err)
		return ActionNone
	}
	return action
}

func (s *ScriptedStrategy) callTurnAction(view *BoardView, economy Economy, energy int, isRedTurn bool) (Action, error) {
	if s.luaState == nil {
		return ActionNone, errors.New("lua strategy is closed")
	}

	fn := s.luaState.GetGlobal(luaTurnFunction)
	arg := s.stateTable(view, economy, energy, isRedTurn)
	if err := s.luaState.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, arg); err != nil {
		return ActionNone, fmt.Errorf("could not execute lua strategy: %w", err)
	}

	ret := s.luaState.Get(-1)
	s.luaState.Pop(1)

	name, ok := ret.(lua.LString)
	if !ok {
		return ActionNone, fmt.Errorf("lua return value was type %s, expected string", ret.Type().String())
	}
	return ParseAction(strings.ToUpper(string(name)))
}

func (s *ScriptedStrategy) stateTable(view *BoardView, economy Economy, energy int, isRedTurn bool) *lua.LTable {
	L := s.luaState
	tbl := L.NewTable()

	self := view.Self()
	opponent := view.Opponent()
	L.SetField(tbl, "x", lua.LNumber(self.X))
	L.SetField(tbl, "y", lua.LNumber(self.Y))
	L.SetField(tbl, "opponentX", lua.LNumber(opponent.X))
	L.SetField(tbl, "opponentY", lua.LNumber(opponent.Y))
	L.SetField(tbl, "size", lua.LNumber(view.Size()))
	L.SetField(tbl, "turn", lua.LNumber(view.Turn()))
	L.SetField(tbl, "energy", lua.LNumber(energy))
	L.SetField(tbl, "maxEnergy", lua.LNumber(s.params.MaxEnergy))
	L.SetField(tbl, "inventory", lua.LNumber(s.inventory))
	L.SetField(tbl, "maxInventory", lua.LNumber(s.params.MaxInventory))
	L.SetField(tbl, "red", lua.LBool(s.params.IsRed))
	L.SetField(tbl, "redTurn", lua.LBool(isRedTurn))
	L.SetField(tbl, "tile", lua.LString(view.tileAt(self).String()))

	items := L.NewTable()
	for _, item := range view.itemsAt(self) {
		items.Append(lua.LString(item.String()))
	}
	L.SetField(tbl, "items", items)

	if economy != nil {
		prices := L.NewTable()
		for _, kind := range ResourceKinds {
			L.SetField(prices, kind.String(), lua.LNumber(economy.Price(kind)))
		}
		L.SetField(tbl, "prices", prices)
	}

	return tbl
}

// luaNearest backs the nearest(tile) global.
func (s *ScriptedStrategy) luaNearest(L *lua.LState) int {
	name := L.CheckString(1)
	kind, ok := tileKindByName(name)
	if !ok {
		L.ArgError(1, "unknown tile "+name)
		return 0
	}

	return s.pushNearest(L, TileIs(kind))
}

// luaNearestItem backs nearestItem(item, ...), matching any of the names.
func (s *ScriptedStrategy) luaNearestItem(L *lua.LState) int {
	var matchers []CellMatcher
	for i := 1; i <= L.GetTop(); i++ {
		name := L.CheckString(i)
		kind, err := ParseItemKind(name)
		if err != nil {
			L.ArgError(i, "unknown item "+name)
			return 0
		}
		matchers = append(matchers, HasGroundItem(kind))
	}
	if len(matchers) == 0 {
		L.RaiseError("nearestItem needs at least one item name")
		return 0
	}
	return s.pushNearest(L, AnyOf(matchers...))
}

func (s *ScriptedStrategy) pushNearest(L *lua.LState, match CellMatcher) int {
	if s.view == nil {
		L.RaiseError("no board view yet")
		return 0
	}
	target := FindNearest(s.view, s.view.Self(), match)
	L.Push(lua.LNumber(target.X))
	L.Push(lua.LNumber(target.Y))
	return 2
}

func tileKindByName(name string) (TileKind, bool) {
	for kind, tileName := range tileNames {
		if tileName == name {
			return kind, true
		}
	}
	return TileEmpty, false
}

func (s *ScriptedStrategy) callHook(name string, args ...lua.LValue) {
	if s.luaState == nil {
		return
	}
	fn, ok := s.luaState.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return
	}
	if err := s.luaState.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		s.logger.Warn("lua hook failed", "hook", name, "error", err)
	}
}

func (s *ScriptedStrategy) OnItemReceived(item ItemKind) {
	if item.IsResource() {
		s.inventory = min(s.inventory+1, s.params.MaxInventory)
	}
	s.callHook(luaItemFunction, lua.LString(item.String()))
}

func (s *ScriptedStrategy) OnInventorySold(totalPrice int) {
	s.inventory = 0
	s.callHook(luaSoldFunction, lua.LNumber(totalPrice))
}

func (s *ScriptedStrategy) EndRound(points, opponentPoints int) {
	s.inventory = 0
	s.callHook(luaEndRoundFunction, lua.LNumber(points), lua.LNumber(opponentPoints))
}
