package arena

import (
	"github.com/Mshel/mineopoly/internal/game"
)

// Player is the arena's authoritative record of one robot.
type Player struct {
	Name       string
	Strategy   game.Strategy
	IsRed      bool
	Location   game.Cell
	Energy     int
	Inventory  []game.ItemKind
	Autominers int
	Score      int
	Wins       int
	LastAction game.Action

	miningCell  game.Cell
	miningTurns int
}

func newPlayer(strategy game.Strategy, isRed bool) *Player {
	return &Player{
		Name:     strategy.Name(),
		Strategy: strategy,
		IsRed:    isRed,
	}
}

func (p *Player) resetRound(start game.Cell, maxEnergy int) {
	p.Location = start
	p.Energy = maxEnergy
	p.Inventory = nil
	p.Autominers = 0
	p.Score = 0
	p.LastAction = game.ActionNone
	p.resetMining()
}

func (p *Player) resetMining() {
	p.miningCell = game.Cell{X: -1, Y: -1}
	p.miningTurns = 0
}

func (p *Player) Color() string {
	if p.IsRed {
		return "red"
	}
	return "blue"
}

// PlayerSnapshot is a copy of a player safe to hand to other goroutines.
type PlayerSnapshot struct {
	Name       string
	IsRed      bool
	Location   game.Cell
	Energy     int
	Inventory  int
	Autominers int
	Score      int
	Wins       int
	LastAction game.Action
}

func (p *Player) snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		Name:       p.Name,
		IsRed:      p.IsRed,
		Location:   p.Location,
		Energy:     p.Energy,
		Inventory:  len(p.Inventory),
		Autominers: p.Autominers,
		Score:      p.Score,
		Wins:       p.Wins,
		LastAction: p.LastAction,
	}
}
