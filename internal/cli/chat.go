package cli

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tubetalk/tubetalk/internal/client"
)

var chatCmd = &cobra.Command{
	Use:   "chat <video-id>",
	Short: "Open an interactive chat about a processed video",
	Long: `Start an interactive conversation about a processed video. The
conversation history lives on the server, so follow-up questions can refer
back to earlier answers. Press Ctrl+C or Esc to leave.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	model := newChatModel(apiClient(), args[0])
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	if m, ok := finalModel.(chatModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true)
)

// visibleTurns caps how much history is redrawn each frame.
const visibleTurns = 20

type chatTurn struct {
	fromUser bool
	text     string
}

// answerMsg carries the server's reply for an in-flight question.
type answerMsg struct {
	answer string
	err    error
}

// chatModel is the bubbletea model for the interactive chat.
type chatModel struct {
	client  *client.Client
	videoID string

	input   textinput.Model
	spin    spinner.Model
	turns   []chatTurn
	waiting bool
	width   int
	err     error
}

func newChatModel(c *client.Client, videoID string) chatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the video and press Enter"
	ti.Focus()

	return chatModel{
		client:  c,
		videoID: videoID,
		input:   ti,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   80,
	}
}

func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update handles key events and server replies.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.turns = append(m.turns, chatTurn{fromUser: true, text: question})
			m.input.SetValue("")
			m.waiting = true
			return m, tea.Batch(m.ask(question), m.spin.Tick)
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.turns = append(m.turns, chatTurn{text: errStyle.Render("error: " + msg.err.Error())})
		} else {
			m.turns = append(m.turns, chatTurn{text: msg.answer})
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the conversation, the input box and a status line.
func (m chatModel) View() tea.View {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("tubetalk chat") + "  " +
		hintStyle.Render("video "+m.videoID) + "\n\n")

	start := 0
	if len(m.turns) > visibleTurns {
		start = len(m.turns) - visibleTurns
	}
	wrap := lipgloss.NewStyle().Width(max(20, m.width-4))
	for _, turn := range m.turns[start:] {
		if turn.fromUser {
			b.WriteString(userStyle.Render("you: ") + wrap.Render(turn.text) + "\n")
		} else {
			b.WriteString(assistantStyle.Render(wrap.Render(turn.text)) + "\n")
		}
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString(m.spin.View() + " thinking...\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(hintStyle.Render("Ctrl+C or Esc to quit"))

	return tea.NewView(b.String())
}

// ask sends the question to the server off the UI goroutine.
func (m chatModel) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.client.Chat(context.Background(), m.videoID, question)
		return answerMsg{answer: answer, err: err}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
