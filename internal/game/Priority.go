package game

import "fmt"

type Intent int

const (
	IntentIdle Intent = iota
	IntentCharge
	IntentUsePowerUp
	IntentDeposit
	IntentPickupHere
	IntentMine
	IntentReposition
)

var intentNames = map[Intent]string{
	IntentIdle:       "idle",
	IntentCharge:     "charge",
	IntentUsePowerUp: "use-power-up",
	IntentDeposit:    "deposit",
	IntentPickupHere: "pickup-here",
	IntentMine:       "mine",
	IntentReposition: "reposition",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("intent(%d)", int(i))
}

// Decision is the classifier's verdict for one turn.
type Decision struct {
	Intent Intent
	Target Cell
	// Preferred is the resource preference after any rotation this turn.
	Preferred ItemKind
	Rotations int
	// Pickup is the item to lift when Intent is IntentPickupHere, ItemNone
	// otherwise.
	Pickup ItemKind
}

type priorityRule func(state RobotState, view *BoardView) (Decision, bool)

// priorityCascade is evaluated top to bottom; the first rule that fires wins.
var priorityCascade = []priorityRule{
	chargeRule,
	usePowerUpRule,
	depositRule,
	pickupHereRule,
	mineHereRule,
	repositionRule,
}

// Classify picks the single intent for this turn. It reads state and view
// but changes neither, so equal inputs always give equal decisions.
func Classify(state RobotState, view *BoardView) Decision {
	for _, rule := range priorityCascade {
		if decision, ok := rule(state, view); ok {
			return decision
		}
	}

	return Decision{
		Intent:    IntentIdle,
		Target:    view.Self(),
		Preferred: state.Preferred,
	}
}

func decide(intent Intent, target Cell, state RobotState) Decision {
	return Decision{Intent: intent, Target: target, Preferred: state.Preferred}
}

// P1: survival
func chargeRule(state RobotState, view *BoardView) (Decision, bool) {
	if !state.LowEnergy() && !state.KeepCharging() {
		return Decision{}, false
	}
	target := FindNearest(view, view.Self(), TileIs(TileRecharge))
	return decide(IntentCharge, target, state), true
}

// P2: a held autominer is placed right away
func usePowerUpRule(state RobotState, view *BoardView) (Decision, bool) {
	if state.PowerUpsHeld <= 0 {
		return Decision{}, false
	}
	return decide(IntentUsePowerUp, view.Self(), state), true
}

// P3: sell once full
func depositRule(state RobotState, view *BoardView) (Decision, bool) {
	if !state.InventoryFull() {
		return Decision{}, false
	}
	target := FindNearest(view, view.Self(), TileIs(MarketFor(state.IsRed)))
	return decide(IntentDeposit, target, state), true
}

// P4: free pickups, autominer first
func pickupHereRule(state RobotState, view *BoardView) (Decision, bool) {
	items := view.itemsAt(view.Self())
	if len(items) == 0 {
		return Decision{}, false
	}

	if !state.PowerUpClaimed {
		for _, item := range items {
			if item == ItemAutominer {
				d := decide(IntentPickupHere, view.Self(), state)
				d.Pickup = ItemAutominer
				return d, true
			}
		}
	}

	for _, item := range items {
		if item.IsResource() {
			d := decide(IntentPickupHere, view.Self(), state)
			d.Pickup = item
			return d, true
		}
	}

	return Decision{}, false
}

// P5: mine the preferred resource in place
func mineHereRule(state RobotState, view *BoardView) (Decision, bool) {
	if view.tileAt(view.Self()) != state.Preferred.ResourceTile() {
		return Decision{}, false
	}
	return decide(IntentMine, view.Self(), state), true
}

// P6: travel to the preferred resource, rotating the preference until one
// is found somewhere other than here
func repositionRule(state RobotState, view *BoardView) (Decision, bool) {
	nearest := make(map[ItemKind]Cell, len(ResourceKinds))
	anyElsewhere := false
	self := view.Self()
	for _, kind := range ResourceKinds {
		target := FindNearest(view, self, Elsewhere(self, TileIs(kind.ResourceTile())))
		nearest[kind] = target
		if foundElsewhere(view, target) {
			anyElsewhere = true
		}
	}

	if !anyElsewhere {
		return Decision{}, false
	}

	preferred := state.Preferred
	if !preferred.IsResource() {
		preferred = preferred.NextResource()
	}

	rotations := 0
	for !foundElsewhere(view, nearest[preferred]) && rotations < len(ResourceKinds) {
		preferred = preferred.NextResource()
		rotations++
	}

	return Decision{
		Intent:    IntentReposition,
		Target:    nearest[preferred],
		Preferred: preferred,
		Rotations: rotations,
	}, true
}
