package arena

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Mshel/mineopoly/internal/game"
	"gopkg.in/yaml.v3"
)

type CellConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c CellConfig) Cell() game.Cell {
	return game.Cell{X: c.X, Y: c.Y}
}

// Config describes one arena. Zero-valued fields in a loaded file keep the
// defaults.
type Config struct {
	Layout          []string       `yaml:"layout"`
	RedStart        CellConfig     `yaml:"red_start"`
	BlueStart       CellConfig     `yaml:"blue_start"`
	AutominerSpawns []CellConfig   `yaml:"autominer_spawns"`
	MaxEnergy       int            `yaml:"max_energy"`
	MaxInventory    int            `yaml:"max_inventory"`
	WinningScore    int            `yaml:"winning_score"`
	TurnLimit       int            `yaml:"turn_limit"`
	RechargeRate    int            `yaml:"recharge_rate"`
	MineTurns       map[string]int `yaml:"mine_turns"`
	BasePrices      map[string]int `yaml:"base_prices"`
	PriceDrop       int            `yaml:"price_drop"`
	MinPrice        int            `yaml:"min_price"`
	TickMs          int            `yaml:"tick_ms"`
	Rounds          int            `yaml:"rounds"`
	Seed            int64          `yaml:"seed"`
	DatabasePath    string         `yaml:"database_path"`
	LogLevel        string         `yaml:"log_level"`
	Scripts         []string       `yaml:"scripts"`
}

func Default() Config {
	return Config{
		Layout: []string{
			"D..E..R..D",
			".R......E.",
			"...D..D...",
			"E...+....R",
			"..R....E..",
			"..E....R..",
			"R....+...E",
			"...D..D...",
			".E..r.b.R.",
			"D..R..E..D",
		},
		RedStart:        CellConfig{X: 3, Y: 1},
		BlueStart:       CellConfig{X: 7, Y: 1},
		AutominerSpawns: []CellConfig{{X: 2, Y: 5}, {X: 7, Y: 4}},
		MaxEnergy:       40,
		MaxInventory:    5,
		WinningScore:    1200,
		TurnLimit:       1000,
		RechargeRate:    10,
		MineTurns:       map[string]int{"ruby": 1, "emerald": 2, "diamond": 3},
		BasePrices:      map[string]int{"ruby": 20, "emerald": 35, "diamond": 60},
		PriceDrop:       5,
		MinPrice:        5,
		TickMs:          120,
		Rounds:          3,
		Seed:            1,
		DatabasePath:    "rounds.db",
		LogLevel:        "info",
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	tiles, err := game.ParseTiles(c.Layout)
	if err != nil {
		return err
	}
	size := len(tiles)
	inBounds := func(cell CellConfig) bool {
		return cell.X >= 0 && cell.Y >= 0 && cell.X < size && cell.Y < size
	}

	var errs []error
	if !inBounds(c.RedStart) {
		errs = append(errs, fmt.Errorf("red_start %v is off the board", c.RedStart.Cell()))
	}
	if !inBounds(c.BlueStart) {
		errs = append(errs, fmt.Errorf("blue_start %v is off the board", c.BlueStart.Cell()))
	}
	if c.RedStart == c.BlueStart {
		errs = append(errs, errors.New("red_start and blue_start overlap"))
	}
	for _, spawn := range c.AutominerSpawns {
		if !inBounds(spawn) {
			errs = append(errs, fmt.Errorf("autominer spawn %v is off the board", spawn.Cell()))
		}
	}
	if c.MaxEnergy <= 0 {
		errs = append(errs, errors.New("max_energy must be positive"))
	}
	if c.MaxInventory < 0 {
		errs = append(errs, errors.New("max_inventory must not be negative"))
	}
	if c.WinningScore <= 0 {
		errs = append(errs, errors.New("winning_score must be positive"))
	}
	if c.TurnLimit <= 0 {
		errs = append(errs, errors.New("turn_limit must be positive"))
	}
	if c.RechargeRate <= 0 {
		errs = append(errs, errors.New("recharge_rate must be positive"))
	}
	if c.TickMs <= 0 {
		errs = append(errs, errors.New("tick_ms must be positive"))
	}
	for _, kind := range game.ResourceKinds {
		if c.MineTurns[kind.String()] <= 0 {
			errs = append(errs, fmt.Errorf("mine_turns.%s must be positive", kind))
		}
		if c.BasePrices[kind.String()] <= 0 {
			errs = append(errs, fmt.Errorf("base_prices.%s must be positive", kind))
		}
	}
	return errors.Join(errs...)
}

func (c Config) TickDuration() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// resourceTable resolves a name-keyed table into item kinds.
func resourceTable(table map[string]int) map[game.ItemKind]int {
	out := make(map[game.ItemKind]int, len(table))
	for name, value := range table {
		kind, err := game.ParseItemKind(name)
		if err != nil || !kind.IsResource() {
			continue
		}
		out[kind] = value
	}
	return out
}
