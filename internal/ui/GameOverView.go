package ui

import (
	"fmt"
	"strconv"

	"github.com/Mshel/mineopoly/internal/arena"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const leaderboardSize = 10

// GameOverState holds the data and local state for the results and
// leaderboard screens.
type GameOverState struct {
	History        *arena.RoundHistory
	Results        []arena.RoundResult
	SelectedButton int
	ScreenWidth    int
	ScreenHeight   int

	leaderboard      table.Model
	leaderboardErr   error
	leaderboardReady bool
	totalRounds      int
}

type leaderboardMsg struct {
	standings []arena.Standing
	total     int
	err       error
}

var (
	GameOverbuttonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Padding(0, 3).
				Margin(1, 1).
				Bold(true)

	selectedButtonStyle = GameOverbuttonStyle.
				Background(lipgloss.Color("214")).
				Foreground(lipgloss.Color("0"))

	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))
)

func newResultsTable(height int) table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Red", Width: 14},
			{Title: "Blue", Width: 14},
			{Title: "Score", Width: 11},
			{Title: "Turns", Width: 6},
			{Title: "Winner", Width: 7},
		}),
		table.WithHeight(height),
	)
}

func newLeaderboardTable(rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Strategy", Width: 16},
			{Title: "Rounds", Width: 7},
			{Title: "Wins", Width: 6},
			{Title: "Points", Width: 8},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(leaderboardSize),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	t.SetStyles(styles)
	return t
}

// loadLeaderboard queries the history store off the update loop.
func (g *GameOverState) loadLeaderboard() tea.Cmd {
	history := g.History
	return func() tea.Msg {
		if history == nil {
			return leaderboardMsg{}
		}
		standings, err := history.GetLeaderboard(leaderboardSize, 0)
		if err != nil {
			return leaderboardMsg{err: err}
		}
		total, err := history.GetTotalRoundCount()
		return leaderboardMsg{standings: standings, total: total, err: err}
	}
}

func (g *GameOverState) setLeaderboard(msg leaderboardMsg) {
	rows := make([]table.Row, 0, len(msg.standings))
	for i, s := range msg.standings {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			s.StrategyName,
			strconv.Itoa(s.Rounds),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.TotalPoints),
		})
	}
	g.leaderboard = newLeaderboardTable(rows)
	g.leaderboardErr = msg.err
	g.totalRounds = msg.total
	g.leaderboardReady = true
}

// RenderGameOverScreen shows every round of the finished match.
func (g *GameOverState) RenderGameOverScreen() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214")).
		Padding(1, 5).
		Render("⛏  M A T C H   O V E R  ⛏")

	rows := make([]table.Row, 0, len(g.Results))
	redWins, blueWins := 0, 0
	for _, r := range g.Results {
		rows = append(rows, table.Row{
			strconv.Itoa(r.Round),
			r.RedName,
			r.BlueName,
			fmt.Sprintf("%d-%d", r.RedScore, r.BlueScore),
			strconv.Itoa(r.Turns),
			r.Winner,
		})
		switch r.Winner {
		case "red":
			redWins++
		case "blue":
			blueWins++
		}
	}
	results := newResultsTable(max(1, len(rows)))
	results.SetRows(rows)

	summary := fmt.Sprintf("\nRounds won: red %d, blue %d\n", redWins, blueWins)

	exitButton := GameOverbuttonStyle.Render("EXIT (Enter)")
	leaderboardButton := GameOverbuttonStyle.Render("LEADERBOARD")
	if g.SelectedButton == 0 {
		exitButton = selectedButtonStyle.Render("EXIT (Enter)")
	} else {
		leaderboardButton = selectedButtonStyle.Render("LEADERBOARD")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, exitButton, leaderboardButton)

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		tableBorderStyle.Render(results.View()),
		summary,
		buttons,
	)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}

// RenderLeaderboardScreen draws the all-time standings from the history store.
func (g *GameOverState) RenderLeaderboardScreen() string {
	var body string
	switch {
	case g.History == nil:
		body = "Round history is disabled."
	case !g.leaderboardReady:
		body = "Loading leaderboard..."
	case g.leaderboardErr != nil:
		body = "Could not load leaderboard: " + g.leaderboardErr.Error()
	default:
		body = tableBorderStyle.Render(g.leaderboard.View()) +
			fmt.Sprintf("\n%d rounds recorded", g.totalRounds)
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("👑 ALL-TIME LEADERBOARD 👑")
	instruction := lipgloss.NewStyle().Faint(true).Margin(1, 0).Render("Press ESC or ENTER to go back.")

	finalContent := lipgloss.JoinVertical(lipgloss.Center,
		title,
		body,
		instruction,
	)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(finalContent),
	)
}
