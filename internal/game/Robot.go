package game

// RobotState is the strategy's own view of its robot. It persists across the
// turns of one round and is reset between rounds.
type RobotState struct {
	MaxEnergy    int
	MaxInventory int
	IsRed        bool

	Energy         int
	Inventory      int
	Preferred      ItemKind
	PowerUpsHeld   int
	PowerUpClaimed bool
	PreviousIntent Intent
}

func NewRobotState(maxEnergy, maxInventory int, isRed bool) RobotState {
	r := RobotState{
		MaxEnergy:    max(0, maxEnergy),
		MaxInventory: max(0, maxInventory),
		IsRed:        isRed,
	}
	r.resetRound()
	return r
}

func (r *RobotState) resetRound() {
	r.Energy = r.MaxEnergy
	r.Inventory = 0
	r.Preferred = DefaultPreferred
	r.PowerUpsHeld = 0
	r.PowerUpClaimed = false
	r.PreviousIntent = IntentIdle
}

func (r *RobotState) refresh(energy int) {
	r.Energy = min(max(0, energy), r.MaxEnergy)
}

func (r *RobotState) rotatePreferred() {
	r.Preferred = r.Preferred.NextResource()
}

func (r *RobotState) receiveItem(item ItemKind) {
	r.Inventory = min(r.Inventory+1, r.MaxInventory)
	if item == ItemAutominer {
		r.PowerUpsHeld++
		r.PowerUpClaimed = true
	}
}

// placeAutominer frees the inventory slot the held autominer took up.
func (r *RobotState) placeAutominer() {
	r.PowerUpsHeld = max(0, r.PowerUpsHeld-1)
	r.Inventory = max(0, r.Inventory-1)
}

func (r *RobotState) sold() {
	r.Inventory = 0
	r.rotatePreferred()
}

func (r RobotState) LowEnergy() bool {
	return float64(r.MaxEnergy)*LowEnergyFraction >= float64(r.Energy)
}

// KeepCharging holds the robot on the charger until it is full again.
func (r RobotState) KeepCharging() bool {
	return r.PreviousIntent == IntentCharge && r.Energy < r.MaxEnergy
}

func (r RobotState) InventoryFull() bool {
	return r.Inventory >= r.MaxInventory
}
