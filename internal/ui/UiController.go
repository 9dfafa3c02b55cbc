package ui

import (
	"context"

	"github.com/Mshel/mineopoly/internal/arena"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
)

// Messages for state transitions
type IntroSubmitMsg int // 0 for Watch, 1 for Leaderboard
type SetupSubmitMsg struct {
	Seed     int64
	Opponent string
}

type ShowLeaderboardMsg struct{}

// MatchFactory builds a match of the built-in strategy against the named
// opponent.
type MatchFactory func(seed int64, opponent string) (*arena.Match, error)

type ControllerModel struct {
	CurrentScreen Screen

	ctx       context.Context
	stopMatch context.CancelFunc
	newMatch  MatchFactory
	history   *arena.RoundHistory
	rounds    int

	IntroModel tea.Model
	SetupModel tea.Model
	GameModel  tea.Model

	ScreenWidth  int
	ScreenHeight int
}

// NewControllerModel wires the spectator screens. ctx bounds every match the
// controller starts; history may be nil when nothing is persisted.
func NewControllerModel(ctx context.Context, newMatch MatchFactory, history *arena.RoundHistory,
	opponents []string, rounds int, defaultSeed int64, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		CurrentScreen: IntroScreen,
		ctx:           ctx,
		newMatch:      newMatch,
		history:       history,
		rounds:        rounds,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(opponents, defaultSeed, screenWidth, screenHeight),

		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Match Loading..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) quit() (tea.Model, tea.Cmd) {
	if m.stopMatch != nil {
		m.stopMatch()
		m.stopMatch = nil
	}
	return m, tea.Quit
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.CurrentScreen != SetupScreen) {
			return m.quit()
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		m.SetupModel, _ = m.SetupModel.Update(msg)
		if m.GameModel != nil {
			m.GameModel, _ = m.GameModel.Update(msg)
		}
		return m, nil

	case IntroSubmitMsg:
		if msg == 0 {
			m.CurrentScreen = SetupScreen
			return m, m.SetupModel.Init()
		} else if msg == 1 {
			m.CurrentScreen = GameScreen
			m.GameModel = NewGameModel(nil, m.history, m.ScreenWidth, m.ScreenHeight)
			return m, tea.Sequence(m.GameModel.Init(), func() tea.Msg { return ShowLeaderboardMsg{} })
		}

	case SetupSubmitMsg:
		match, err := m.newMatch(msg.Seed, msg.Opponent)
		if err != nil {
			log.Error("Could not create match", "opponent", msg.Opponent, "seed", msg.Seed, "error", err)
			return m.quit()
		}

		var matchCtx context.Context
		matchCtx, m.stopMatch = context.WithCancel(m.ctx)
		go func() {
			match.StartGameLoop(matchCtx, m.rounds)
			match.Close()
		}()

		m.CurrentScreen = GameScreen
		m.GameModel = NewGameModel(match, m.history, m.ScreenWidth, m.ScreenHeight)
		return m, m.GameModel.Init()

	case QuitGameMsg:
		if m.stopMatch != nil {
			m.stopMatch()
			m.stopMatch = nil
		}
		m.CurrentScreen = IntroScreen
		m.GameModel = nil
		return m, m.IntroModel.Init()

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
			cmds = append(cmds, cmd)
		case SetupScreen:
			m.SetupModel, cmd = m.SetupModel.Update(msg)
			cmds = append(cmds, cmd)
		case GameScreen:
			if m.GameModel != nil {
				m.GameModel, cmd = m.GameModel.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}
