package game

import (
	"github.com/charmbracelet/log"
)

// DefaultStrategy is the built-in priority-driven miner.
type DefaultStrategy struct {
	params RoundParams
	robot  RobotState
	last   Decision
	logger *log.Logger
}

type StrategyOption func(*DefaultStrategy)

func WithLogger(logger *log.Logger) StrategyOption {
	return func(s *DefaultStrategy) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewDefaultStrategy(opts ...StrategyOption) *DefaultStrategy {
	s := &DefaultStrategy{logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("strategy", StrategyName)
	return s
}

func (s *DefaultStrategy) Name() string {
	return StrategyName
}

func (s *DefaultStrategy) Initialize(params RoundParams) {
	s.params = params
	s.robot = NewRobotState(params.MaxEnergy, params.MaxInventory, params.IsRed)
	s.last = Decision{Target: params.Start, Preferred: s.robot.Preferred}
	s.logger.Debug("round initialised",
		"board", params.BoardSize, "max_energy", params.MaxEnergy,
		"max_inventory", params.MaxInventory, "red", params.IsRed, "start", params.Start)
}

// TurnAction classifies the turn and commits the decision's side effects to
// the robot before translating it.
func (s *DefaultStrategy) TurnAction(view *BoardView, economy Economy, energy int, isRedTurn bool) Action {
	s.robot.refresh(energy)

	decision := Classify(s.robot, view)
	action := Translate(decision, view.Self())
	s.commit(decision, action)

	s.logger.Debug("turn decided",
		"turn", view.Turn(), "intent", decision.Intent, "target", decision.Target,
		"action", action, "energy", s.robot.Energy, "inventory", s.robot.Inventory,
		"preferred", s.robot.Preferred, "rotations", decision.Rotations)

	return action
}

func (s *DefaultStrategy) commit(decision Decision, action Action) {
	s.last = decision
	s.robot.PreviousIntent = decision.Intent
	s.robot.Preferred = decision.Preferred

	switch action {
	case ActionPickUpAutominer:
		s.robot.PowerUpClaimed = true
	case ActionPlaceAutominer:
		s.robot.placeAutominer()
	}
}

func (s *DefaultStrategy) OnItemReceived(item ItemKind) {
	s.robot.receiveItem(item)
}

func (s *DefaultStrategy) OnInventorySold(totalPrice int) {
	s.robot.sold()
	s.logger.Debug("inventory sold", "price", totalPrice, "next_preferred", s.robot.Preferred)
}

func (s *DefaultStrategy) EndRound(points, opponentPoints int) {
	s.robot.resetRound()
	s.last = Decision{}
	s.logger.Debug("round ended", "points", points, "opponent_points", opponentPoints)
}

func (s *DefaultStrategy) Inventory() int {
	return s.robot.Inventory
}

func (s *DefaultStrategy) Preferred() ItemKind {
	return s.robot.Preferred
}

// Robot returns a copy of the robot state.
func (s *DefaultStrategy) Robot() RobotState {
	return s.robot
}

func (s *DefaultStrategy) LastDecision() Decision {
	return s.last
}
