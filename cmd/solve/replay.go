package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"doudizhu/internal/game"
)

// styles: a header, a success/error accent, and a dim info color for
// secondary text.
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// replayModel is the Bubble Tea program driving the proven tree one trick at
// a time: our forced moves auto-play, the opponent's replies are chosen
// interactively from the current node's surviving children.
type replayModel struct {
	g      *game.Game
	logger *log.Logger

	cursor  game.NodeHandle
	history []game.NodeHandle // ancestors visited, nearest last; retract/retry pop this

	log         []string
	input       textinput.Model
	logViewport viewport.Model
	quitting    bool
	width       int
	height      int
}

func newReplayModel(g *game.Game, logger *log.Logger) *replayModel {
	ti := textinput.New()
	ti.Placeholder = "reply index, or retract/retry/new/quit"
	ti.Focus()
	ti.CharLimit = 32
	ti.Prompt = "> "

	m := &replayModel{
		g:           g,
		logger:      logger.WithPrefix("replay"),
		cursor:      g.RootNode(),
		input:       ti,
		logViewport: viewport.New(80, 16),
	}
	m.autoAdvance()
	return m
}

func (m *replayModel) Init() tea.Cmd { return textinput.Blink }

// autoAdvance plays every forced move (turn 0, the solver's own move — the
// winning search pruned every sibling, so exactly one child survives) until
// either the hand is won or the opponent must choose a reply.
func (m *replayModel) autoAdvance() {
	for {
		st := m.g.StateOf(m.cursor)
		children := m.g.ChildrenOf(m.cursor)
		if len(children) == 0 {
			if st.PassFlag {
				m.appendLog(successStyle.Render("hand won: " + st.Move.String()))
			}
			return
		}
		if st.Turn != 0 {
			m.describeChoice(children)
			return
		}
		// Exactly one surviving child: the search pruned every losing or
		// unexplored alternative once it proved this move forced a win.
		next := children[0]
		m.appendLog(fmt.Sprintf("our move: %s", m.g.StateOf(next).Move.String()))
		m.history = append(m.history, m.cursor)
		m.cursor = next
	}
}

func (m *replayModel) describeChoice(children []game.NodeHandle) {
	var b strings.Builder
	b.WriteString("opponent's turn — choose a reply:\n")
	for i, c := range children {
		fmt.Fprintf(&b, "  [%d] %s\n", i, m.g.StateOf(c).Move.String())
	}
	m.appendLog(strings.TrimRight(b.String(), "\n"))
}

func (m *replayModel) appendLog(line string) {
	m.log = append(m.log, line)
	m.logViewport.SetContent(strings.Join(m.log, "\n"))
	m.logViewport.GotoBottom()
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logViewport.Width = msg.Width
		m.logViewport.Height = msg.Height - 4
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			m.handleCommand(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			if m.quitting {
				return m, tea.Quit
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replayModel) handleCommand(cmd string) {
	switch strings.ToLower(cmd) {
	case "":
		return
	case "quit":
		m.quitting = true
	case "new":
		m.cursor = m.g.RootNode()
		m.history = nil
		m.log = nil
		m.autoAdvance()
	case "retract", "retry":
		if len(m.history) == 0 {
			m.appendLog(errorStyle.Render("already at the root"))
			return
		}
		m.cursor = m.history[len(m.history)-1]
		m.history = m.history[:len(m.history)-1]
		m.appendLog(infoStyle.Render(fmt.Sprintf("%s: back to %q", cmd, m.g.StateOf(m.cursor).Move.String())))
		m.autoAdvance()
	default:
		idx, err := strconv.Atoi(cmd)
		if err != nil {
			m.appendLog(errorStyle.Render("unrecognized command: " + cmd))
			return
		}
		children := m.g.ChildrenOf(m.cursor)
		if m.g.StateOf(m.cursor).Turn != 1 || idx < 0 || idx >= len(children) {
			m.appendLog(errorStyle.Render("no such reply"))
			return
		}
		m.appendLog(fmt.Sprintf("opponent plays: %s", m.g.StateOf(children[idx]).Move.String()))
		m.history = append(m.history, m.cursor)
		m.cursor = children[idx]
		m.autoAdvance()
	}
}

func (m *replayModel) View() string {
	if m.quitting {
		return ""
	}
	header := headerStyle.Render(" doudizhu replay ")
	return fmt.Sprintf("%s\n%s\n%s", header, m.logViewport.View(), m.input.View())
}
