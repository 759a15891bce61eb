package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/tvyn/internal/assistant"
	"github.com/jeanpaul/tvyn/internal/insights"
	"github.com/jeanpaul/tvyn/internal/session"
)

type fakeChat struct {
	reply      string
	err        error
	asked      []string
	keywords   []insights.Keyword
	transcript string
	dislikes   []string
	resets     int
}

func (f *fakeChat) Handle(_ context.Context, utterance string) (session.Turn, error) {
	f.asked = append(f.asked, utterance)
	if f.err != nil {
		return session.Turn{}, f.err
	}
	return session.Turn{User: utterance, Bot: f.reply, Intent: assistant.IntentCount, Source: session.SourceRules}, nil
}

func (f *fakeChat) Greeting() string { return "Hello! I'm TVYN Assistant." }

func (f *fakeChat) TopKeywords(n int) ([]insights.Keyword, error) {
	if len(f.keywords) > n {
		return f.keywords[:n], nil
	}
	return f.keywords, nil
}

func (f *fakeChat) Transcript() (string, bool, error) {
	return f.transcript, f.transcript != "", nil
}

func (f *fakeChat) Dislikes() ([]string, error) { return f.dislikes, nil }

func (f *fakeChat) Reset() { f.resets++ }

func newTestModel(t *testing.T, chat *fakeChat) Model {
	t.Helper()
	m := NewModel(chat, Options{Name: "TVYN"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

func lastMessage(m Model) chatMessage {
	return m.messages[len(m.messages)-1]
}

func TestWelcomeMessage(t *testing.T) {
	m := newTestModel(t, &fakeChat{})
	require.Len(t, m.messages, 1)
	assert.Equal(t, roleWelcome, m.messages[0].role)
	assert.Contains(t, m.View(), "TVYN Supermarket Assistant")
}

func TestSubmitRunsTurn(t *testing.T) {
	chat := &fakeChat{reply: "We have approximately 15 products in stock."}
	m := newTestModel(t, chat)

	m = typeText(t, m, "how many products?")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.thinking)
	assert.Equal(t, roleUser, lastMessage(m).role)
	assert.Empty(t, m.textarea.Value())

	updated, _ := m.Update(cmd())
	m = updated.(Model)
	assert.False(t, m.thinking)
	assert.Equal(t, []string{"how many products?"}, chat.asked)
	assert.Equal(t, roleAssistant, lastMessage(m).role)
	assert.Equal(t, "We have approximately 15 products in stock.", lastMessage(m).content)
}

func TestSubmitWhileThinking(t *testing.T) {
	chat := &fakeChat{reply: "ok"}
	m := newTestModel(t, chat)

	m = typeText(t, m, "first")
	m, _ = press(m, tea.KeyEnter)
	m = typeText(t, m, "second")
	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, roleSystem, lastMessage(m).role)
}

func TestTurnError(t *testing.T) {
	chat := &fakeChat{err: errors.New("dislikes: malformed store")}
	m := newTestModel(t, chat)

	m = typeText(t, m, "I don't like milk")
	m, cmd := press(m, tea.KeyEnter)
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	assert.Equal(t, roleError, lastMessage(m).role)
	assert.Contains(t, lastMessage(m).content, "malformed")
}

func TestCancelDropsLateTurn(t *testing.T) {
	chat := &fakeChat{reply: "late"}
	m := newTestModel(t, chat)

	m = typeText(t, m, "hello")
	m, cmd := press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyCtrlC)
	assert.False(t, m.thinking)

	before := len(m.messages)
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	assert.Len(t, m.messages, before)
}

func TestEmptyEnterDoesNothing(t *testing.T) {
	m := newTestModel(t, &fakeChat{})
	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Len(t, m.messages, 1)
}

func TestSlashKeywords(t *testing.T) {
	chat := &fakeChat{keywords: []insights.Keyword{{Word: "apples", Count: 3}, {Word: "bread", Count: 1}}}
	m := newTestModel(t, chat)

	m = typeText(t, m, "/keywords")
	m, _ = press(m, tea.KeyEnter)
	got := lastMessage(m)
	assert.Equal(t, roleSystem, got.role)
	assert.Contains(t, got.content, "Apples (3 times)")
	assert.Contains(t, got.content, "Bread (1 times)")

	m = typeText(t, m, "/keywords 1")
	m, _ = press(m, tea.KeyEnter)
	assert.NotContains(t, lastMessage(m).content, "Bread")

	m = typeText(t, m, "/keywords x")
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, roleError, lastMessage(m).role)
}

func TestSlashDislikes(t *testing.T) {
	chat := &fakeChat{}
	m := newTestModel(t, chat)

	m = typeText(t, m, "/dislikes")
	m, _ = press(m, tea.KeyEnter)
	assert.Contains(t, lastMessage(m).content, "haven't told me")

	chat.dislikes = []string{"bread", "milk"}
	m = typeText(t, m, "/dislikes")
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, "You don't like: bread, milk", lastMessage(m).content)
}

func TestSlashExport(t *testing.T) {
	chat := &fakeChat{}
	m := newTestModel(t, chat)
	path := filepath.Join(t.TempDir(), "out", "log.txt")

	m = typeText(t, m, "/export "+path)
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, roleError, lastMessage(m).role)

	chat.transcript = "[2024-01-01 10:00:00]\n🧑 User: hi\n🤖 Bot: hello\n\n"
	m = typeText(t, m, "/export "+path)
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, roleSystem, lastMessage(m).role)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, chat.transcript, string(data))
}

func TestSlashClearAndUnknown(t *testing.T) {
	chat := &fakeChat{}
	m := newTestModel(t, chat)

	m = typeText(t, m, "/bogus")
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, roleError, lastMessage(m).role)

	m = typeText(t, m, "/clear")
	m, _ = press(m, tea.KeyEnter)
	assert.Equal(t, 1, chat.resets)
	require.Len(t, m.messages, 1)
	assert.Equal(t, roleWelcome, m.messages[0].role)
}

func TestSlashHelp(t *testing.T) {
	m := newTestModel(t, &fakeChat{})
	m = typeText(t, m, "/help")
	m, _ = press(m, tea.KeyEnter)
	for _, c := range slashCommands {
		assert.Contains(t, lastMessage(m).content, c.title)
	}
}

func TestSlashQuit(t *testing.T) {
	m := newTestModel(t, &fakeChat{})
	m = typeText(t, m, "/quit")
	_, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestMenuTrigger(t *testing.T) {
	m := newTestModel(t, &fakeChat{})
	assert.False(t, m.menu.active)

	m = typeText(t, m, "/")
	assert.True(t, m.menu.active)
	assert.Contains(t, m.View(), "/keywords")

	m, _ = press(m, tea.KeyEsc)
	assert.False(t, m.menu.active)
}

func TestMenuSelection(t *testing.T) {
	m := newTestModel(t, &fakeChat{})
	m = typeText(t, m, "/")
	require.True(t, m.menu.active)

	// first entry is /help
	m, _ = press(m, tea.KeyEnter)
	assert.False(t, m.menu.active)
	assert.True(t, strings.Contains(lastMessage(m).content, "Available commands"))
}
