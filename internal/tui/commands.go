package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/tvyn/internal/insights"
)

func (m Model) handleSlashCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(text)
	switch parts[0] {
	case "/help":
		m.system(helpText())

	case "/keywords":
		n := m.opts.Keywords
		if len(parts) > 1 {
			v, err := strconv.Atoi(parts[1])
			if err != nil || v < 1 {
				m.fail("usage: /keywords [n]")
				break
			}
			n = v
		}
		top, err := m.chat.TopKeywords(n)
		if err != nil {
			m.fail(err.Error())
			break
		}
		m.system(formatKeywords(top, n))

	case "/dislikes":
		names, err := m.chat.Dislikes()
		if err != nil {
			m.fail(err.Error())
			break
		}
		if len(names) == 0 {
			m.system("You haven't told me about anything you dislike.")
			break
		}
		m.system("You don't like: " + strings.Join(names, ", "))

	case "/export":
		path := m.opts.ExportPath
		if len(parts) > 1 {
			path = parts[1]
		}
		if err := m.export(path); err != nil {
			m.fail(err.Error())
			break
		}
		m.system("Transcript saved to " + path)

	case "/clear":
		m.chat.Reset()
		m.messages = []chatMessage{{role: roleWelcome, content: m.chat.Greeting()}}

	case "/quit", "/exit":
		m.cancel()
		return m, tea.Quit

	default:
		m.fail(fmt.Sprintf("unknown command %s (try /help)", parts[0]))
	}
	m.rebuildView()
	return m, nil
}

func (m *Model) system(content string) {
	m.messages = append(m.messages, chatMessage{role: roleSystem, content: content})
}

func (m *Model) fail(content string) {
	m.messages = append(m.messages, chatMessage{role: roleError, content: content})
}

func (m *Model) export(path string) error {
	text, ok, err := m.chat.Transcript()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no transcript yet")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return err
	}
	m.log.Info("transcript exported", "path", path)
	return nil
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range slashCommands {
		fmt.Fprintf(&b, "    %-10s %s\n", c.title, c.desc)
	}
	b.WriteString("\n  Keyboard shortcuts:\n")
	b.WriteString("    Enter        send message\n")
	b.WriteString("    Ctrl+C       cancel the current answer / quit\n")
	b.WriteString("    PgUp/PgDown  scroll conversation\n")
	b.WriteString("    Esc          quit")
	return b.String()
}

func formatKeywords(top []insights.Keyword, n int) string {
	if len(top) == 0 {
		return "No keywords yet. Chat a little first."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d keywords:", n)
	for _, k := range top {
		b.WriteString("\n    " + k.Title())
	}
	return b.String()
}
