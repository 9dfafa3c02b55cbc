package arena

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/Mshel/mineopoly/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type RoundResult struct {
	Round     int
	RedName   string
	BlueName  string
	RedScore  int
	BlueScore int
	Turns     int
	Winner    string
}

// Snapshot is a detached copy of the arena for renderers.
type Snapshot struct {
	Round        int
	Turn         int
	Size         int
	Tiles        [][]game.TileKind
	Items        game.GroundItems
	Red          PlayerSnapshot
	Blue         PlayerSnapshot
	Prices       map[game.ItemKind]int
	MaxEnergy    int
	MaxInventory int
	WinningScore int
}

type TurnMsg struct {
	Snapshot Snapshot
}

type RoundOverMsg struct {
	Result RoundResult
}

type MatchOverMsg struct {
	Results []RoundResult
}

// Match pits two strategies against each other on one board for any number
// of rounds. All strategy calls happen on the goroutine driving the match.
type Match struct {
	cfg       Config
	layout    [][]game.TileKind
	mineTurns map[game.ItemKind]int

	tiles             [][]game.TileKind
	items             game.GroundItems
	autominerProgress map[game.Cell]int
	red               *Player
	blue              *Player
	economy           *Economy
	rng               *rand.Rand
	round             int
	turn              int
	results           []RoundResult

	logger      *log.Logger
	onRoundOver func(RoundResult)

	UpdateChannel chan tea.Msg
	isRunning     atomic.Bool
}

type MatchOption func(*Match)

func WithLogger(logger *log.Logger) MatchOption {
	return func(m *Match) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRoundRecorder registers a callback run after every finished round.
func WithRoundRecorder(record func(RoundResult)) MatchOption {
	return func(m *Match) {
		m.onRoundOver = record
	}
}

func NewMatch(cfg Config, red, blue game.Strategy, opts ...MatchOption) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if red == nil || blue == nil {
		return nil, errors.New("match needs two strategies")
	}

	layout, err := game.ParseTiles(cfg.Layout)
	if err != nil {
		return nil, err
	}

	m := &Match{
		cfg:           cfg,
		layout:        layout,
		mineTurns:     resourceTable(cfg.MineTurns),
		red:           newPlayer(red, true),
		blue:          newPlayer(blue, false),
		economy:       NewEconomy(resourceTable(cfg.BasePrices), cfg.PriceDrop, cfg.MinPrice),
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		logger:        log.Default(),
		UpdateChannel: make(chan tea.Msg, 16),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Match) Red() *Player  { return m.red }
func (m *Match) Blue() *Player { return m.blue }

func (m *Match) Results() []RoundResult {
	return append([]RoundResult(nil), m.results...)
}

func (m *Match) opponentOf(p *Player) *Player {
	if p == m.red {
		return m.blue
	}
	return m.red
}

func (m *Match) viewFor(p *Player) (*game.BoardView, error) {
	return game.NewBoardView(m.tiles, m.items, p.Location, m.opponentOf(p).Location, m.turn)
}

// StartRound restores the board and initialises both strategies.
func (m *Match) StartRound() error {
	m.round++
	m.turn = 0

	m.tiles = make([][]game.TileKind, len(m.layout))
	for x := range m.layout {
		m.tiles[x] = append([]game.TileKind(nil), m.layout[x]...)
	}
	m.items = game.GroundItems{}
	for _, spawn := range m.cfg.AutominerSpawns {
		cell := spawn.Cell()
		m.items[cell] = append(m.items[cell], game.ItemAutominer)
	}
	m.autominerProgress = make(map[game.Cell]int)
	m.economy.Reset()

	m.red.resetRound(m.cfg.RedStart.Cell(), m.cfg.MaxEnergy)
	m.blue.resetRound(m.cfg.BlueStart.Cell(), m.cfg.MaxEnergy)

	for _, p := range []*Player{m.red, m.blue} {
		view, err := m.viewFor(p)
		if err != nil {
			return err
		}
		p.Strategy.Initialize(game.RoundParams{
			BoardSize:    len(m.tiles),
			MaxInventory: m.cfg.MaxInventory,
			MaxEnergy:    m.cfg.MaxEnergy,
			WinningScore: m.cfg.WinningScore,
			Board:        view,
			Start:        p.Location,
			IsRed:        p.IsRed,
			Rand:         rand.New(rand.NewSource(m.rng.Int63())),
		})
	}

	m.logger.Info("Round started", "round", m.round, "red", m.red.Name, "blue", m.blue.Name)
	return nil
}

// Step plays one turn for both robots and reports whether the round is over.
// Red acts first on even turns and blue on odd ones; the robot acting first
// wins any contested cell.
func (m *Match) Step() (bool, error) {
	isRedTurn := m.turn%2 == 0
	order := []*Player{m.red, m.blue}
	if !isRedTurn {
		order[0], order[1] = order[1], order[0]
	}

	for _, p := range order {
		view, err := m.viewFor(p)
		if err != nil {
			return true, err
		}
		action := p.Strategy.TurnAction(view, m.economy, p.Energy, isRedTurn)
		p.LastAction = action
		m.apply(p, action)
	}

	m.runAutominers()
	for _, p := range order {
		m.settle(p)
	}
	m.economy.Tick()
	m.turn++

	return m.roundOver(), nil
}

func (m *Match) apply(p *Player, action game.Action) {
	if dir, ok := action.Direction(); ok {
		m.move(p, dir)
		return
	}

	switch action {
	case game.ActionMine:
		m.mine(p)
	case game.ActionPickUpResource:
		m.pickUpResource(p)
	case game.ActionPickUpAutominer:
		m.pickUpAutominer(p)
	case game.ActionPlaceAutominer:
		m.placeAutominer(p)
	}
}

func (m *Match) inBounds(c game.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < len(m.tiles) && c.Y < len(m.tiles)
}

func (m *Match) move(p *Player, dir game.Direction) {
	if p.Energy <= 0 {
		return
	}
	next := p.Location.Step(dir)
	if !m.inBounds(next) || next == m.opponentOf(p).Location {
		return
	}
	p.Location = next
	p.Energy--
	p.resetMining()
}

func (m *Match) mine(p *Player) {
	cell := p.Location
	kind, ok := m.tiles[cell.X][cell.Y].Resource()
	if !ok {
		return
	}
	if p.miningCell != cell {
		p.miningCell = cell
		p.miningTurns = 0
	}
	p.miningTurns++
	if p.miningTurns >= m.mineTurns[kind] {
		m.extract(cell, kind)
		p.resetMining()
	}
}

// extract empties a resource tile and leaves its item on the ground.
func (m *Match) extract(cell game.Cell, kind game.ItemKind) {
	m.tiles[cell.X][cell.Y] = game.TileEmpty
	m.items[cell] = append(m.items[cell], kind)
}

func (m *Match) takeItem(cell game.Cell, match func(game.ItemKind) bool) (game.ItemKind, bool) {
	items := m.items[cell]
	for i, item := range items {
		if !match(item) {
			continue
		}
		rest := append(append([]game.ItemKind(nil), items[:i]...), items[i+1:]...)
		if len(rest) == 0 {
			delete(m.items, cell)
		} else {
			m.items[cell] = rest
		}
		return item, true
	}
	return game.ItemNone, false
}

func (m *Match) pickUpResource(p *Player) {
	if len(p.Inventory) >= m.cfg.MaxInventory {
		return
	}
	item, ok := m.takeItem(p.Location, game.ItemKind.IsResource)
	if !ok {
		return
	}
	p.Inventory = append(p.Inventory, item)
	p.Strategy.OnItemReceived(item)
}

func (m *Match) pickUpAutominer(p *Player) {
	_, ok := m.takeItem(p.Location, func(k game.ItemKind) bool { return k == game.ItemAutominer })
	if !ok {
		return
	}
	if !m.hasItem(p.Location, game.ItemAutominer) {
		delete(m.autominerProgress, p.Location)
	}
	p.Autominers++
	p.Strategy.OnItemReceived(game.ItemAutominer)
}

func (m *Match) placeAutominer(p *Player) {
	if p.Autominers <= 0 {
		return
	}
	p.Autominers--
	m.items[p.Location] = append(m.items[p.Location], game.ItemAutominer)
}

func (m *Match) hasItem(cell game.Cell, kind game.ItemKind) bool {
	for _, item := range m.items[cell] {
		if item == kind {
			return true
		}
	}
	return false
}

// runAutominers advances every autominer standing on a resource tile.
func (m *Match) runAutominers() {
	for cell := range m.items {
		kind, isResource := m.tiles[cell.X][cell.Y].Resource()
		if !m.hasItem(cell, game.ItemAutominer) || !isResource {
			delete(m.autominerProgress, cell)
			continue
		}
		m.autominerProgress[cell]++
		if m.autominerProgress[cell] >= m.mineTurns[kind] {
			m.extract(cell, kind)
			delete(m.autominerProgress, cell)
		}
	}
}

func (m *Match) settle(p *Player) {
	switch m.tiles[p.Location.X][p.Location.Y] {
	case game.TileRecharge:
		p.Energy = min(m.cfg.MaxEnergy, p.Energy+m.cfg.RechargeRate)
	case game.MarketFor(p.IsRed):
		if len(p.Inventory) == 0 {
			return
		}
		total := m.economy.Sell(p.Inventory)
		p.Score += total
		p.Inventory = nil
		p.Strategy.OnInventorySold(total)
	}
}

func (m *Match) roundOver() bool {
	return m.red.Score >= m.cfg.WinningScore ||
		m.blue.Score >= m.cfg.WinningScore ||
		m.turn >= m.cfg.TurnLimit
}

func (m *Match) finishRound() RoundResult {
	result := RoundResult{
		Round:     m.round,
		RedName:   m.red.Name,
		BlueName:  m.blue.Name,
		RedScore:  m.red.Score,
		BlueScore: m.blue.Score,
		Turns:     m.turn,
		Winner:    "draw",
	}
	switch {
	case m.red.Score > m.blue.Score:
		result.Winner = m.red.Color()
		m.red.Wins++
	case m.blue.Score > m.red.Score:
		result.Winner = m.blue.Color()
		m.blue.Wins++
	}

	m.red.Strategy.EndRound(m.red.Score, m.blue.Score)
	m.blue.Strategy.EndRound(m.blue.Score, m.red.Score)
	m.results = append(m.results, result)

	m.logger.Info("Round finished", "round", result.Round, "winner", result.Winner,
		"red_score", result.RedScore, "blue_score", result.BlueScore, "turns", result.Turns)

	if m.onRoundOver != nil {
		m.onRoundOver(result)
	}
	return result
}

// PlayRound runs a full round without pacing.
func (m *Match) PlayRound(ctx context.Context) (RoundResult, error) {
	if err := m.StartRound(); err != nil {
		return RoundResult{}, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return RoundResult{}, err
		}
		done, err := m.Step()
		if err != nil {
			return RoundResult{}, err
		}
		if done {
			return m.finishRound(), nil
		}
	}
}

// StartGameLoop plays rounds at the configured tick rate and publishes every
// turn on UpdateChannel. It returns when all rounds are played or ctx ends.
func (m *Match) StartGameLoop(ctx context.Context, rounds int) {
	if !m.isRunning.CompareAndSwap(false, true) {
		return
	}
	defer m.isRunning.Store(false)

	ticker := time.NewTicker(m.cfg.TickDuration())
	defer ticker.Stop()

	for r := 0; r < rounds; r++ {
		if err := m.StartRound(); err != nil {
			m.logger.Error("Could not start round", "error", err)
			return
		}
		if !m.publish(ctx, TurnMsg{Snapshot: m.Snapshot()}) {
			return
		}

		for done := false; !done; {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			var err error
			done, err = m.Step()
			if err != nil {
				m.logger.Error("Turn failed", "round", m.round, "turn", m.turn, "error", err)
				return
			}
			if !m.publish(ctx, TurnMsg{Snapshot: m.Snapshot()}) {
				return
			}
		}

		if !m.publish(ctx, RoundOverMsg{Result: m.finishRound()}) {
			return
		}
	}

	m.publish(ctx, MatchOverMsg{Results: m.Results()})
}

func (m *Match) publish(ctx context.Context, msg tea.Msg) bool {
	select {
	case m.UpdateChannel <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (m *Match) Snapshot() Snapshot {
	tiles := make([][]game.TileKind, len(m.tiles))
	for x := range m.tiles {
		tiles[x] = append([]game.TileKind(nil), m.tiles[x]...)
	}
	return Snapshot{
		Round:        m.round,
		Turn:         m.turn,
		Size:         len(m.tiles),
		Tiles:        tiles,
		Items:        m.items.Clone(),
		Red:          m.red.snapshot(),
		Blue:         m.blue.snapshot(),
		Prices:       m.economy.Prices(),
		MaxEnergy:    m.cfg.MaxEnergy,
		MaxInventory: m.cfg.MaxInventory,
		WinningScore: m.cfg.WinningScore,
	}
}

// Close releases strategy resources such as Lua interpreters.
func (m *Match) Close() {
	closeStrategy(m.red.Strategy)
	closeStrategy(m.blue.Strategy)
}
