package game

const (
	// StrategyName is reported by the built-in strategy.
	StrategyName = "Gunnerside"

	// LowEnergyFraction of max energy at or below which the robot heads to recharge.
	LowEnergyFraction = 0.20

	// DefaultPreferred is the resource sought first in every round.
	DefaultPreferred = ItemDiamond
)
