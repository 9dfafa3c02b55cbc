package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedColor = lipgloss.Color("214")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(blurredColor)
	helpStyle    = blurredStyle
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	opponentStyle         = lipgloss.NewStyle().Padding(0, 1)
	selectedOpponentStyle = opponentStyle.
				Background(focusedColor).
				Foreground(lipgloss.Color("0"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)
)

// SetupModel picks the seed and the opponent of the built-in strategy.
type SetupModel struct {
	seedInput     textinput.Model
	opponents     []string
	opponentIndex int
	focusIndex    int // 0: Seed, 1: Opponent, 2: Submit
	err           string
	width         int
	height        int
}

func NewInitialSetupModel(opponents []string, defaultSeed int64, w, h int) SetupModel {
	ti := textinput.New()
	ti.Placeholder = strconv.FormatInt(defaultSeed, 10)
	ti.Focus()
	ti.CharLimit = 19
	ti.PromptStyle = focusedStyle
	ti.TextStyle = focusedStyle
	ti.Validate = func(s string) error {
		if s == "" || s == "-" {
			return nil
		}
		_, err := strconv.ParseInt(s, 10, 64)
		return err
	}

	return SetupModel{
		seedInput: ti,
		opponents: opponents,
		width:     w,
		height:    h,
	}
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// seed returns the typed seed, falling back to the placeholder.
func (m SetupModel) seed() (int64, error) {
	raw := strings.TrimSpace(m.seedInput.Value())
	if raw == "" {
		raw = m.seedInput.Placeholder
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		s := msg.String()

		if s == "enter" || s == "tab" || s == "shift+tab" {
			switch m.focusIndex {
			case 0:
				switch s {
				case "enter", "tab":
					m.focusIndex = 1
					m.seedInput.Blur()
				case "shift+tab":
					m.focusIndex = 2
					m.seedInput.Blur()
				}

			case 1:
				switch s {
				case "enter", "tab":
					m.focusIndex = 2
				case "shift+tab":
					m.focusIndex = 0
					m.seedInput.Focus()
				}

			case 2:
				switch s {
				case "enter":
					seed, err := m.seed()
					if err != nil {
						m.err = "seed must be a whole number"
						return m, nil
					}
					if len(m.opponents) == 0 {
						m.err = "no opponents available"
						return m, nil
					}
					opponent := m.opponents[m.opponentIndex]
					return m, func() tea.Msg {
						return SetupSubmitMsg{Seed: seed, Opponent: opponent}
					}
				case "tab":
					m.focusIndex = 0
					m.seedInput.Focus()
				case "shift+tab":
					m.focusIndex = 1
				}
			}
			return m, nil
		}

		if m.focusIndex == 1 && len(m.opponents) > 0 {
			switch s {
			case "left", "up":
				m.opponentIndex = (m.opponentIndex - 1 + len(m.opponents)) % len(m.opponents)
				return m, nil
			case "right", "down":
				m.opponentIndex = (m.opponentIndex + 1) % len(m.opponents)
				return m, nil
			}
		}

		if m.focusIndex == 0 {
			var cmd tea.Cmd
			m.err = ""
			m.seedInput, cmd = m.seedInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder

	seedPrompt := "Board seed"
	if m.focusIndex == 0 {
		b.WriteString(center(focusedStyle.Render(seedPrompt)))
	} else {
		b.WriteString(center(blurredStyle.Render(seedPrompt)))
	}
	b.WriteString("\n")
	b.WriteString(center(m.seedInput.View()))
	b.WriteString("\n\n")

	opponentPrompt := "Opponent for Gunnerside (use arrows)"
	if m.focusIndex == 1 {
		b.WriteString(center(focusedStyle.Render(opponentPrompt)))
	} else {
		b.WriteString(center(blurredStyle.Render(opponentPrompt)))
	}
	b.WriteString("\n")

	var picker []string
	for i, name := range m.opponents {
		if i == m.opponentIndex {
			picker = append(picker, selectedOpponentStyle.Render(name))
		} else {
			picker = append(picker, opponentStyle.Render(name))
		}
	}
	b.WriteString(center(lipgloss.JoinHorizontal(lipgloss.Center, picker...)))
	b.WriteString("\n\n")

	submitText := "Start Match"
	if m.focusIndex == 2 {
		b.WriteString(center(submitButtonStyle.Render(submitText)))
	} else {
		b.WriteString(center(blurredButtonStyle.Render(submitText)))
	}
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(center(errorStyle.Render(m.err)))
	}
	b.WriteString("\n")

	b.WriteString(center(helpStyle.Render("(arrows to pick opponent, tab/shift+tab to navigate, enter to confirm, ctrl+c to quit)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
