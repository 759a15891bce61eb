// Package tui is the interactive chat screen.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/tvyn/internal/insights"
	"github.com/jeanpaul/tvyn/internal/logger"
	"github.com/jeanpaul/tvyn/internal/session"
)

var ThinkingSpinner = spinner.Spinner{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    time.Second / 12,
}

// Chatter is the session surface the screen drives.
type Chatter interface {
	Handle(ctx context.Context, utterance string) (session.Turn, error)
	Greeting() string
	TopKeywords(n int) ([]insights.Keyword, error)
	Transcript() (string, bool, error)
	Dislikes() ([]string, error)
	Reset()
}

type Options struct {
	Name     string
	Provider string
	Model    string
	// LLM is shown in the header when fallback answers are enabled.
	LLM        bool
	Theme      string
	Keywords   int
	ExportPath string
	Log        *slog.Logger
}

const (
	defaultExportPath = "tvyn-transcript.txt"
	inputHeight       = 3
	footerHeight      = 1
)

type role string

const (
	roleWelcome   role = "welcome"
	roleUser      role = "user"
	roleAssistant role = "assistant"
	roleSystem    role = "system"
	roleError     role = "error"
)

type chatMessage struct {
	role    role
	content string
	source  session.Source
}

// turnMsg carries a finished turn back into Update. seq ties it to the
// request so a cancelled turn that finishes late is dropped.
type turnMsg struct {
	seq  int
	turn session.Turn
	err  error
}

type Model struct {
	width, height int
	viewport      viewport.Model
	textarea      textarea.Model
	spinner       spinner.Model
	menu          MenuModel
	renderer      *glamour.TermRenderer

	chat     Chatter
	opts     Options
	log      *slog.Logger
	messages []chatMessage
	thinking bool
	seq      int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewModel(chat Chatter, opts Options) Model {
	if opts.Name == "" {
		opts.Name = "TVYN"
	}
	if opts.Keywords <= 0 {
		opts.Keywords = insights.DefaultLimit
	}
	if opts.ExportPath == "" {
		opts.ExportPath = defaultExportPath
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask about products, or tell me what you don't like..."
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(White)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(DimGreen)
	ta.BlurredStyle.Base = lipgloss.NewStyle().Foreground(DarkGreen)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = ThinkingSpinner
	sp.Style = SpinnerStyle

	style := "dark"
	if opts.Theme == "light" {
		style = "light"
	}
	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(80),
	)

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		viewport: viewport.New(80, 20),
		textarea: ta,
		spinner:  sp,
		menu:     NewMenuModel(),
		renderer: r,
		chat:     chat,
		opts:     opts,
		log:      opts.Log.With(logger.Module("tui")),
		ctx:      ctx,
		cancel:   cancel,
	}
	m.messages = append(m.messages, chatMessage{role: roleWelcome, content: chat.Greeting()})
	m.rebuildView()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		tea.EnableMouseCellMotion,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2
		m.textarea.SetWidth(msg.Width - 6)
		m.layout()
		return m, nil

	case turnMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.thinking = false
		if msg.err != nil {
			m.log.Error("turn failed", logger.Err(msg.err))
			m.messages = append(m.messages, chatMessage{role: roleError, content: msg.err.Error()})
		} else {
			m.messages = append(m.messages, chatMessage{role: roleAssistant, content: msg.turn.Bot, source: msg.turn.Source})
		}
		m.rebuildView()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.thinking {
			m.rebuildView()
		}
		return m, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.viewport.LineUp(3)
			case tea.MouseButtonWheelDown:
				m.viewport.LineDown(3)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.menu.active {
			return m.updateMenu(msg)
		}
		if msg.String() == "/" && m.textarea.Value() == "" && !m.thinking {
			m.menu.active = true
			m.menu.list.ResetSelected()
			m.menu.list.ResetFilter()
			m.layout()
			return m, nil
		}

		switch msg.Type {
		case tea.KeyPgUp:
			m.viewport.HalfViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.HalfViewDown()
			return m, nil
		case tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyCtrlC:
			if m.thinking {
				m.thinking = false
				m.seq++
				m.cancel()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.messages = append(m.messages, chatMessage{role: roleSystem, content: "Request cancelled"})
				m.rebuildView()
				return m, nil
			}
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			if msg.Alt {
				break
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.menu.active = false
		m.layout()
		return m, nil
	case tea.KeyEnter:
		selected := m.menu.Selected()
		m.menu.active = false
		m.layout()
		if selected == "" {
			return m, nil
		}
		return m.handleSlashCommand(selected)
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" {
		return m, nil
	}
	if m.thinking {
		m.messages = append(m.messages, chatMessage{role: roleSystem, content: "Still answering... (Ctrl+C to cancel)"})
		m.rebuildView()
		return m, nil
	}
	m.textarea.Reset()

	if strings.HasPrefix(text, "/") {
		return m.handleSlashCommand(text)
	}

	m.messages = append(m.messages, chatMessage{role: roleUser, content: text})
	m.thinking = true
	m.seq++
	m.rebuildView()
	return m, m.ask(m.seq, text)
}

func (m Model) ask(seq int, text string) tea.Cmd {
	ctx, chat := m.ctx, m.chat
	return func() tea.Msg {
		turn, err := chat.Handle(ctx, text)
		return turnMsg{seq: seq, turn: turn, err: err}
	}
}

// layout recomputes the viewport height from the chrome around it.
func (m *Model) layout() {
	if m.height == 0 {
		return
	}
	h := m.height - lipgloss.Height(m.headerView()) - inputHeight - footerHeight
	if m.menu.active {
		h -= menuHeight
	}
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.rebuildView()
}

func (m *Model) rebuildView() {
	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case roleWelcome:
			sb.WriteString(m.renderAssistantBlock(msg.content, "", false))
		case roleUser:
			sb.WriteString(m.renderUserBlock(msg.content))
		case roleAssistant:
			sb.WriteString(m.renderAssistantBlock(msg.content, msg.source, true))
		case roleSystem:
			sb.WriteString(SystemMsgStyle.Render("  ℹ "+msg.content) + "\n\n")
		case roleError:
			sb.WriteString(ErrorStyle.Render("  ✗ Error: "+msg.content) + "\n\n")
		}
	}
	if m.thinking {
		sb.WriteString(m.spinner.Style.Render(fmt.Sprintf(" %s %s is thinking...", m.spinner.View(), m.opts.Name)) + "\n")
	}

	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(sb.String())
	if wasAtBottom || len(m.messages) <= 1 || m.thinking {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderUserBlock(content string) string {
	return UserBlockStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			RoleHeaderStyle.Foreground(BrightGreen).Render("YOU"),
			UserMsgStyle.Render(content),
		),
	) + "\n"
}

func (m *Model) renderAssistantBlock(content string, source session.Source, markdown bool) string {
	body := AssistantMsgStyle.Render(content)
	if markdown && m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			body = rendered
		}
	}
	body = strings.TrimRight(body, "\n")

	title := RoleHeaderStyle.Foreground(Cyan).Render(m.opts.Name)
	if source == session.SourceLLM {
		title += " " + SourceTagStyle.Render("(model)")
	}
	return AssistantBlockStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body)) + "\n"
}

func (m Model) headerView() string {
	status := "Ready"
	if m.thinking {
		status = "Thinking..."
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		BannerStyle.Render(m.opts.Name+" Supermarket Assistant"),
		HelpStyle.Render("Ask what's available, how many items are in stock, or say what you don't like."),
	)
	badges := StatusBarStyle.Render(status)
	if m.opts.LLM && m.opts.Provider != "" {
		badges = lipgloss.JoinHorizontal(lipgloss.Top,
			StatusProviderStyle.Render(m.opts.Provider),
			StatusBarStyle.Render(m.opts.Model),
			" ",
			badges,
		)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(DimGreen).
		PaddingLeft(1).
		Render(lipgloss.JoinVertical(lipgloss.Left, left, badges))
}

func (m Model) View() string {
	prompt := lipgloss.NewStyle().Foreground(Green).Bold(true).Render("> ")
	if m.thinking {
		prompt = lipgloss.NewStyle().Foreground(Purple).Bold(true).Render("● ")
	}
	inputBox := InputBoxStyle.
		Width(max(m.width-4, 10)).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, prompt, m.textarea.View()))

	help := HelpStyle.Render("Enter: send  •  /: commands  •  PgUp/PgDown: scroll  •  Esc: quit")

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		ViewportStyle.Render(m.viewport.View()),
		inputBox,
		lipgloss.NewStyle().PaddingLeft(2).Render(help),
	)
	if m.menu.active {
		return lipgloss.JoinVertical(lipgloss.Left, view, m.menu.View())
	}
	return view
}

// Run starts the full-screen program and blocks until the user quits.
func Run(chat Chatter, opts Options) error {
	p := tea.NewProgram(NewModel(chat, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
