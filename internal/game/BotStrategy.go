package game

import "math/rand"

// RoundParams are handed to a strategy once at the start of every round.
type RoundParams struct {
	BoardSize    int
	MaxInventory int
	MaxEnergy    int
	WinningScore int
	Board        *BoardView
	Start        Cell
	IsRed        bool
	Rand         *rand.Rand
}

// Economy exposes current resource prices.
type Economy interface {
	Price(kind ItemKind) int
}

// Strategy is implemented by anything that can drive a robot through a match.
type Strategy interface {
	Initialize(params RoundParams)
	TurnAction(view *BoardView, economy Economy, energy int, isRedTurn bool) Action
	OnItemReceived(item ItemKind)
	OnInventorySold(totalPrice int)
	EndRound(points, opponentPoints int)
	Name() string
}
