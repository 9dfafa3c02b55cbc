package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/mineopoly/internal/arena"
	"github.com/Mshel/mineopoly/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type GameState int

const (
	StatePlaying GameState = iota
	StateGameOver
	StateLeaderboard
)

var (
	redColor  = lipgloss.Color("9")
	blueColor = lipgloss.Color("12")

	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	tileStyles = map[game.TileKind]lipgloss.Style{
		game.TileEmpty:      lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		game.TileRuby:       lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		game.TileEmerald:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		game.TileDiamond:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		game.TileRecharge:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		game.TileRedMarket:  lipgloss.NewStyle().Foreground(redColor).Bold(true),
		game.TileBlueMarket: lipgloss.NewStyle().Foreground(blueColor).Bold(true),
	}

	tileGlyphs = map[game.TileKind]string{
		game.TileEmpty:      "·",
		game.TileRuby:       "R",
		game.TileEmerald:    "E",
		game.TileDiamond:    "D",
		game.TileRecharge:   "+",
		game.TileRedMarket:  "$",
		game.TileBlueMarket: "$",
	}

	itemColors = map[game.ItemKind]lipgloss.Color{
		game.ItemRuby:      lipgloss.Color("160"),
		game.ItemEmerald:   lipgloss.Color("34"),
		game.ItemDiamond:   lipgloss.Color("51"),
		game.ItemAutominer: lipgloss.Color("208"),
	}
)

const (
	mapViewPercentage  = 0.60
	statusPanelPadding = 4
	updatePollInterval = 50 * time.Millisecond
)

// GameViewModel follows one match. match is nil when only the leaderboard is
// shown.
type GameViewModel struct {
	ScreenWidth  int
	ScreenHeight int
	match        *arena.Match
	snapshot     *arena.Snapshot
	results      []arena.RoundResult

	gameState     GameState
	gameOverState GameOverState
}

func NewGameModel(match *arena.Match, history *arena.RoundHistory, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		match:        match,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		gameState:    StatePlaying,
		gameOverState: GameOverState{
			History:        history,
			ScreenWidth:    screenWidth,
			ScreenHeight:   screenHeight,
			SelectedButton: 0,
		},
	}
}

func (m GameViewModel) Init() tea.Cmd {
	return m.listenForGameUpdates()
}

// QuitGameMsg sends the controller back to the intro screen.
type QuitGameMsg struct{}

// gameTickMsg keeps the poll loop alive when no update was waiting.
type gameTickMsg struct{}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.gameOverState.ScreenWidth = msg.Width
		m.gameOverState.ScreenHeight = msg.Height
		return m, nil

	case ShowLeaderboardMsg:
		m.gameState = StateLeaderboard
		return m, m.gameOverState.loadLeaderboard()

	case leaderboardMsg:
		m.gameOverState.setLeaderboard(msg)
		return m, nil

	case tea.KeyMsg:
		if m.gameState == StatePlaying {
			if msg.String() == "esc" {
				return m, func() tea.Msg { return QuitGameMsg{} }
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			if m.gameState == StateLeaderboard && m.match != nil {
				m.gameState = StateGameOver
				return m, nil
			}
			return m, func() tea.Msg { return QuitGameMsg{} }
		case "left", "h":
			if m.gameState == StateGameOver {
				m.gameOverState.SelectedButton = max(0, m.gameOverState.SelectedButton-1)
			}
		case "right", "l":
			if m.gameState == StateGameOver {
				m.gameOverState.SelectedButton = min(1, m.gameOverState.SelectedButton+1)
			}
		case "up", "down", "k", "j":
			if m.gameState == StateLeaderboard {
				m.gameOverState.leaderboard, _ = m.gameOverState.leaderboard.Update(msg)
			}
		case "enter":
			switch m.gameState {
			case StateGameOver:
				// 0: Exit, 1: Leaderboard
				if m.gameOverState.SelectedButton == 0 {
					return m, tea.Quit
				}
				m.gameState = StateLeaderboard
				return m, m.gameOverState.loadLeaderboard()
			case StateLeaderboard:
				if m.match != nil {
					m.gameState = StateGameOver
					return m, nil
				}
				return m, func() tea.Msg { return QuitGameMsg{} }
			}
		}
		return m, nil

	case gameTickMsg:
		return m, m.listenForGameUpdates()

	case arena.TurnMsg:
		m.snapshot = &msg.Snapshot
		return m, m.listenForGameUpdates()

	case arena.RoundOverMsg:
		m.results = append(m.results, msg.Result)
		return m, m.listenForGameUpdates()

	case arena.MatchOverMsg:
		log.Info("Match finished, showing results", "rounds", len(msg.Results))
		m.results = msg.Results
		m.gameState = StateGameOver
		m.gameOverState.Results = msg.Results
		m.gameOverState.SelectedButton = 0
		return m, nil
	}

	return m, nil
}

func (m GameViewModel) View() string {
	if m.gameState == StateGameOver {
		return m.gameOverState.RenderGameOverScreen()
	}

	if m.gameState == StateLeaderboard {
		return m.gameOverState.RenderLeaderboardScreen()
	}

	if m.snapshot == nil {
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, "Waiting for the first turn...")
	}

	mapWidth := int(float64(m.ScreenWidth) * mapViewPercentage)
	statusPanelWidth := max(0, m.ScreenWidth-mapWidth-statusPanelPadding)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		mapViewStyle.Width(mapWidth).Render(renderBoard(*m.snapshot)),
		statusPanelStyle.Width(statusPanelWidth).Render(m.renderStatusPanel(*m.snapshot)),
	)
}

// renderBoard draws the grid with the top row (highest y) first. Each cell is
// two columns wide: the tile and whatever lies on the ground.
func renderBoard(s arena.Snapshot) string {
	var sb strings.Builder
	for y := s.Size - 1; y >= 0; y-- {
		for x := 0; x < s.Size; x++ {
			cell := game.Cell{X: x, Y: y}
			sb.WriteString(renderCell(s, cell))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderCell(s arena.Snapshot, cell game.Cell) string {
	switch cell {
	case s.Red.Location:
		return lipgloss.NewStyle().Foreground(redColor).Bold(true).Render("◆ ")
	case s.Blue.Location:
		return lipgloss.NewStyle().Foreground(blueColor).Bold(true).Render("◆ ")
	}

	tile := s.Tiles[cell.X][cell.Y]
	glyph := tileStyles[tile].Render(tileGlyphs[tile])

	items := s.Items[cell]
	if len(items) == 0 {
		return glyph + " "
	}
	top := items[len(items)-1]
	for _, item := range items {
		if item == game.ItemAutominer {
			top = item
		}
	}
	marker := "•"
	if top == game.ItemAutominer {
		marker = "⚙"
	}
	return glyph + lipgloss.NewStyle().Foreground(itemColors[top]).Render(marker)
}

func renderPlayer(p arena.PlayerSnapshot, s arena.Snapshot) string {
	color := blueColor
	if p.IsRed {
		color = redColor
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s\n", lipgloss.NewStyle().Foreground(color).Render("● "), p.Name))
	sb.WriteString(fmt.Sprintf("Score: %d / %d\n", p.Score, s.WinningScore))
	sb.WriteString(fmt.Sprintf("Energy: %d / %d\n", p.Energy, s.MaxEnergy))
	sb.WriteString(fmt.Sprintf("Inventory: %d / %d\n", p.Inventory, s.MaxInventory))
	sb.WriteString(fmt.Sprintf("Autominers: %d\n", p.Autominers))
	sb.WriteString(fmt.Sprintf("At: %s  Last: %s\n", p.Location, p.LastAction))
	sb.WriteString(fmt.Sprintf("Rounds won: %d\n", p.Wins))
	return sb.String()
}

func (m GameViewModel) renderStatusPanel(s arena.Snapshot) string {
	var statusContent strings.Builder
	bold := lipgloss.NewStyle().Bold(true)

	statusContent.WriteString(bold.Render(fmt.Sprintf("--- Round %d, Turn %d ---", s.Round, s.Turn)) + "\n")
	statusContent.WriteString(renderPlayer(s.Red, s))
	statusContent.WriteString("\n")
	statusContent.WriteString(renderPlayer(s.Blue, s))

	statusContent.WriteString("\n" + bold.Render("--- Market ---") + "\n")
	for _, kind := range game.ResourceKinds {
		swatch := lipgloss.NewStyle().Foreground(itemColors[kind]).Render("■ ")
		statusContent.WriteString(fmt.Sprintf("%s%-8s %d\n", swatch, kind, s.Prices[kind]))
	}

	if len(m.results) > 0 {
		statusContent.WriteString("\n" + bold.Render("--- Finished Rounds ---") + "\n")
		for _, r := range m.results {
			statusContent.WriteString(fmt.Sprintf("%d. %d-%d %s\n", r.Round, r.RedScore, r.BlueScore, r.Winner))
		}
	}

	statusContent.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render("ESC: back to menu  Q / Ctrl+C: quit"))
	return statusContent.String()
}

func (m GameViewModel) listenForGameUpdates() tea.Cmd {
	if m.match == nil {
		return nil
	}
	updates := m.match.UpdateChannel
	return tea.Tick(updatePollInterval, func(t time.Time) tea.Msg {
		select {
		case msg := <-updates:
			return msg
		default:
			return gameTickMsg{}
		}
	})
}
