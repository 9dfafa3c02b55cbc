package arena

import (
	"fmt"

	"github.com/Mshel/mineopoly/internal/game"
	"github.com/charmbracelet/log"
)

type StrategyFactory func() (game.Strategy, error)

// Roster knows every strategy a match can field. Each match gets fresh
// instances since strategies keep per-round state.
type Roster struct {
	names     []string
	factories map[string]StrategyFactory
}

// NewRoster registers the built-in strategy followed by one scripted
// strategy per Lua file. Scripts are compiled once up front so a broken file
// fails at startup.
func NewRoster(scripts []string, logger *log.Logger) (*Roster, error) {
	if logger == nil {
		logger = log.Default()
	}
	r := &Roster{factories: make(map[string]StrategyFactory)}
	r.add(game.StrategyName, func() (game.Strategy, error) {
		return game.NewDefaultStrategy(game.WithLogger(logger)), nil
	})

	for _, path := range scripts {
		probe, err := game.LoadScriptedStrategy(path, logger)
		if err != nil {
			return nil, err
		}
		name, source := probe.Name(), probe.Source()
		probe.Close()
		if _, taken := r.factories[name]; taken {
			return nil, fmt.Errorf("strategy %q registered twice", name)
		}

		r.add(name, func() (game.Strategy, error) {
			return game.NewScriptedStrategy(name, source, logger)
		})
		logger.Debug("Registered lua strategy", "name", name, "path", path)
	}
	return r, nil
}

func (r *Roster) add(name string, factory StrategyFactory) {
	r.names = append(r.names, name)
	r.factories[name] = factory
}

func (r *Roster) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Roster) New(name string) (game.Strategy, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return factory()
}

// NewMatch fields the named strategies against each other.
func (r *Roster) NewMatch(cfg Config, redName, blueName string, opts ...MatchOption) (*Match, error) {
	red, err := r.New(redName)
	if err != nil {
		return nil, err
	}
	blue, err := r.New(blueName)
	if err != nil {
		closeStrategy(red)
		return nil, err
	}
	m, err := NewMatch(cfg, red, blue, opts...)
	if err != nil {
		closeStrategy(red)
		closeStrategy(blue)
		return nil, err
	}
	return m, nil
}

func closeStrategy(s game.Strategy) {
	if closer, ok := s.(interface{ Close() }); ok {
		closer.Close()
	}
}
