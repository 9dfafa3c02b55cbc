package game

import "fmt"

type Action int

const (
	ActionNone Action = iota
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMine
	ActionPickUpResource
	ActionPickUpAutominer
	ActionPlaceAutominer
)

var actionNames = map[Action]string{
	ActionNone:            "NONE",
	ActionMoveUp:          "MOVE_UP",
	ActionMoveDown:        "MOVE_DOWN",
	ActionMoveLeft:        "MOVE_LEFT",
	ActionMoveRight:       "MOVE_RIGHT",
	ActionMine:            "MINE",
	ActionPickUpResource:  "PICK_UP_RESOURCE",
	ActionPickUpAutominer: "PICK_UP_AUTOMINER",
	ActionPlaceAutominer:  "PLACE_AUTOMINER",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ACTION(%d)", int(a))
}

func ParseAction(name string) (Action, error) {
	for action, actionName := range actionNames {
		if actionName == name {
			return action, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Direction returns the step a move action takes, or false for actions that
// keep the robot in place.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionMoveUp:
		return Up, true
	case ActionMoveDown:
		return Down, true
	case ActionMoveLeft:
		return Left, true
	case ActionMoveRight:
		return Right, true
	}
	return Direction{}, false
}

// Translate turns a decision into one engine action. Movement closes the x
// gap before the y gap.
func Translate(d Decision, at Cell) Action {
	if at == d.Target {
		switch d.Intent {
		case IntentMine:
			return ActionMine
		case IntentPickupHere:
			if d.Pickup == ItemAutominer {
				return ActionPickUpAutominer
			}
			return ActionPickUpResource
		case IntentUsePowerUp:
			return ActionPlaceAutominer
		default:
			return ActionNone
		}
	}

	switch {
	case at.X > d.Target.X:
		return ActionMoveLeft
	case at.X < d.Target.X:
		return ActionMoveRight
	case at.Y > d.Target.Y:
		return ActionMoveDown
	default:
		return ActionMoveUp
	}
}
