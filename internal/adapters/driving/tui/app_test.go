package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
)

type mockChat struct {
	history []domain.Message
	reply   string
	sendErr error
	model   string
	cleared bool
}

func (m *mockChat) Send(_ context.Context, text string) (<-chan driven.StreamChunk, error) {
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.history = append(m.history,
		domain.Message{Role: domain.RoleUser, Content: text},
		domain.Message{Role: domain.RoleAssistant, Content: m.reply},
	)
	out := make(chan driven.StreamChunk, 1)
	out <- driven.StreamChunk{Content: m.reply}
	close(out)
	return out, nil
}

func (m *mockChat) History() []domain.Message { return m.history }
func (m *mockChat) Clear()                    { m.cleared = true; m.history = nil }
func (m *mockChat) ModelName() string         { return m.model }

type mockCreds struct {
	result domain.DiagnosticResult
}

func (m *mockCreds) Diagnose() domain.DiagnosticResult { return m.result }
func (m *mockCreds) Load() (*domain.ServiceAccountCredential, error) {
	return nil, domain.ErrSourceNotFound
}

func newTestApp(t *testing.T) (*App, *mockChat) {
	t.Helper()
	chat := &mockChat{reply: "42 responses", model: "route-llm"}
	app, err := NewApp(Config{
		Chat:        chat,
		Credentials: &mockCreds{result: domain.DiagnosticOK("svc@proj.iam.gserviceaccount.com")},
		Version:     "test",
	})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app, chat
}

func TestNewApp_RequiresServices(t *testing.T) {
	_, err := NewApp(Config{})
	assert.Error(t, err)

	_, err = NewApp(Config{Chat: &mockChat{}})
	assert.Error(t, err)
}

func TestApp_StatusShowsModel(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Contains(t, app.View(), "model: route-llm")
}

func TestApp_StatusWithoutModel(t *testing.T) {
	app, err := NewApp(Config{
		Chat:        &mockChat{},
		Credentials: &mockCreds{},
	})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Contains(t, app.View(), "no chat model configured")
}

func TestApp_SendRendersReply(t *testing.T) {
	app, chat := newTestApp(t)

	app.input.SetValue("how many responses?")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	// Drive the command chain by hand: send, then pump the stream.
	started, ok := cmd().(streamStartedMsg)
	require.True(t, ok)
	app.Update(started)

	pump := streamNextCmd(started.chunks)
	for {
		msg := pump()
		if _, done := msg.(streamDoneMsg); done {
			app.Update(msg)
			break
		}
		app.Update(msg)
		pump = streamNextCmd(started.chunks)
	}

	assert.Equal(t, "how many responses?", chat.history[0].Content)
	view := app.View()
	assert.Contains(t, view, "42 responses")
	assert.False(t, app.streaming)
}

func TestApp_SendErrorShownInView(t *testing.T) {
	app, chat := newTestApp(t)
	chat.sendErr = domain.ErrLLMUnavailable

	app.input.SetValue("hello")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	app.Update(cmd())

	assert.Contains(t, app.View(), "no chat model configured")
}

func TestApp_EmptyInputIgnored(t *testing.T) {
	app, _ := newTestApp(t)

	app.input.SetValue("   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestApp_ClearHistory(t *testing.T) {
	app, chat := newTestApp(t)
	chat.history = []domain.Message{{Role: domain.RoleUser, Content: "old"}}

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.True(t, chat.cleared)
	assert.NotContains(t, app.View(), "old")
}

func TestApp_CredentialRecheck(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "svc@proj.iam.gserviceaccount.com")
}

func TestApp_CredentialRecheckError(t *testing.T) {
	chat := &mockChat{model: "route-llm"}
	app, err := NewApp(Config{
		Chat: chat,
		Credentials: &mockCreds{result: domain.DiagnosticError(
			"no credential source found",
			"place a key file under keys/",
		)},
	})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 24})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NotNil(t, cmd)
	app.Update(cmd())

	view := app.View()
	assert.Contains(t, view, "no credential source found")
	assert.Contains(t, view, "place a key file under keys/")
}

func TestApp_QuitKey(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	assert.Equal(t, tea.Quit(), cmd())
}

func TestStreamErrMsg_StopsStreaming(t *testing.T) {
	app, _ := newTestApp(t)
	app.streaming = true
	app.reply.WriteString("partial")

	app.Update(streamErrMsg{err: errors.New("stream cut")})

	assert.False(t, app.streaming)
	assert.Contains(t, app.View(), "stream cut")
}

func TestHelpLine_ListsBindings(t *testing.T) {
	app, _ := newTestApp(t)

	view := app.View()
	for _, want := range []string{"enter send", "ctrl+l clear history", "ctrl+r recheck credentials"} {
		assert.True(t, strings.Contains(view, want), "help should mention %q", want)
	}
}
