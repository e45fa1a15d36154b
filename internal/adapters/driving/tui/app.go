// Package tui implements the interactive chat terminal UI following the
// Elm architecture on Bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alpha-insights/alphy-cli/internal/adapters/driving/tui/keymap"
	"github.com/alpha-insights/alphy-cli/internal/adapters/driving/tui/styles"
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driving"
)

// Config wires the services the chat view needs.
type Config struct {
	Chat        driving.ChatService
	Credentials driving.CredentialService
	KeysDir     string
	Version     string
}

// Validate checks that required services are present.
func (c Config) Validate() error {
	if c.Chat == nil {
		return errors.New("chat service is required")
	}
	if c.Credentials == nil {
		return errors.New("credential service is required")
	}
	return nil
}

// App is the chat TUI application. It implements tea.Model.
type App struct {
	cfg Config
	ctx context.Context

	styles *styles.Styles
	keys   keymap.KeyMap

	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model
	streaming bool

	// reply accumulates the assistant message while it streams.
	reply strings.Builder

	status      string
	statusLevel domain.DiagnosticStatus
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat application.
func NewApp(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask Alphy about your form responses..."
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &App{
		cfg:     cfg,
		ctx:     context.Background(),
		styles:  s,
		keys:    keymap.Default(),
		input:   input,
		spinner: sp,
		status:  statusForModel(cfg.Chat.ModelName()),
	}, nil
}

// Run starts the TUI and blocks until the user quits.
func Run(cfg Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.refreshViewport()
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case streamStartedMsg:
		a.streaming = true
		a.reply.Reset()
		a.err = nil
		return a, tea.Batch(a.spinner.Tick, streamNextCmd(msg.chunks))

	case streamChunkMsg:
		a.reply.WriteString(msg.content)
		a.refreshViewport()
		return a, streamNextCmd(msg.chunks)

	case streamDoneMsg:
		a.streaming = false
		a.reply.Reset()
		a.refreshViewport()
		return a, nil

	case streamErrMsg:
		a.streaming = false
		a.reply.Reset()
		a.err = msg.err
		a.refreshViewport()
		return a, nil

	case diagMsg:
		a.status = diagStatusLine(msg.result)
		a.statusLevel = msg.result.Status
		if msg.result.Status == domain.StatusError && a.cfg.KeysDir != "" {
			a.status += " [keys dir: " + a.cfg.KeysDir + "]"
		}
		return a, nil

	case spinner.TickMsg:
		if !a.streaming {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Send):
		text := strings.TrimSpace(a.input.Value())
		if text == "" || a.streaming {
			return a, nil
		}
		a.input.Reset()
		a.err = nil
		return a, sendCmd(a.ctx, a.cfg.Chat, text)

	case key.Matches(msg, a.keys.Clear):
		if a.streaming {
			return a, nil
		}
		a.cfg.Chat.Clear()
		a.err = nil
		a.refreshViewport()
		return a, nil

	case key.Matches(msg, a.keys.CheckCreds):
		return a, diagnoseCmd(a.cfg.Credentials)

	case key.Matches(msg, a.keys.ScrollUp):
		a.viewport.HalfViewUp()
		return a, nil

	case key.Matches(msg, a.keys.ScrollDown):
		a.viewport.HalfViewDown()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Starting Alphy..."
	}

	var b strings.Builder
	b.WriteString(a.titleBar())
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")
	b.WriteString(a.styles.InputField.Width(max(a.width-2, 20)).Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.statusBar())
	return b.String()
}

func (a *App) titleBar() string {
	title := a.styles.Title.Render("Alphy")
	version := a.styles.Muted.Render("v" + a.cfg.Version)
	return title + " " + version
}

func (a *App) statusBar() string {
	left := a.status
	switch a.statusLevel {
	case domain.StatusOK:
		left = a.styles.Success.Render(left)
	case domain.StatusWarning:
		left = a.styles.Warning.Render(left)
	case domain.StatusError:
		left = a.styles.Error.Render(left)
	}
	if a.streaming {
		left = a.spinner.View() + " thinking..."
	}
	help := a.styles.Help.Render(helpLine(a.keys))
	return a.styles.StatusBar.Width(max(a.width, 20)).Render(left) + "\n" + help
}

// layout sizes the viewport to the space left by the chrome: title,
// input box with its border, status bar, and help line.
func (a *App) layout() {
	const chromeHeight = 7
	h := a.height - chromeHeight
	if h < 3 {
		h = 3
	}
	if !a.ready {
		a.viewport = viewport.New(a.width, h)
	} else {
		a.viewport.Width = a.width
		a.viewport.Height = h
	}
	a.input.Width = max(a.width-6, 20)
}

// refreshViewport re-renders the conversation into the viewport and
// scrolls to the bottom.
func (a *App) refreshViewport() {
	a.viewport.SetContent(a.renderConversation())
	a.viewport.GotoBottom()
}

func (a *App) renderConversation() string {
	history := a.cfg.Chat.History()

	var b strings.Builder
	if len(history) == 0 && a.reply.Len() == 0 && a.err == nil {
		b.WriteString(a.styles.Muted.Render(`Ask about your form responses, or try "list spreadsheets".`))
		return b.String()
	}

	for _, m := range history {
		b.WriteString(a.renderMessage(m.Role, m.Content))
		b.WriteString("\n")
	}

	if a.reply.Len() > 0 {
		b.WriteString(a.renderMessage(domain.RoleAssistant, a.reply.String()))
		b.WriteString("\n")
	}

	if a.err != nil {
		b.WriteString(a.styles.Error.Render("error: " + errorText(a.err)))
		b.WriteString("\n")
	}

	return b.String()
}

func (a *App) renderMessage(role domain.Role, content string) string {
	label := a.styles.Assistant.Render("Alphy")
	if role == domain.RoleUser {
		label = a.styles.User.Render("You")
	}
	body := a.styles.Normal.Width(max(a.width-2, 20)).Render(content)
	return label + "\n" + body + "\n"
}

// sendCmd submits a message and hands the chunk channel to the update loop.
func sendCmd(ctx context.Context, chat driving.ChatService, text string) tea.Cmd {
	return func() tea.Msg {
		chunks, err := chat.Send(ctx, text)
		if err != nil {
			return streamErrMsg{err: err}
		}
		return streamStartedMsg{chunks: chunks}
	}
}

// streamNextCmd waits for the next chunk. Blocking here is fine: tea
// runs commands on their own goroutines.
func streamNextCmd(chunks <-chan driven.StreamChunk) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-chunks
		if !ok {
			return streamDoneMsg{}
		}
		if chunk.Err != nil {
			return streamErrMsg{err: chunk.Err}
		}
		return streamChunkMsg{chunks: chunks, content: chunk.Content}
	}
}

// diagnoseCmd reruns the credential pipeline off the update loop.
func diagnoseCmd(creds driving.CredentialService) tea.Cmd {
	return func() tea.Msg {
		return diagMsg{result: creds.Diagnose()}
	}
}

func statusForModel(model string) string {
	if model == "" {
		return "no chat model configured (spreadsheet commands only)"
	}
	return "model: " + model
}

// diagStatusLine renders a diagnostic result for the status bar. The
// result is already redacted; it never carries key material.
func diagStatusLine(r domain.DiagnosticResult) string {
	switch r.Status {
	case domain.StatusOK:
		return "credentials ok: " + r.ClientEmail
	case domain.StatusWarning:
		return "credentials warning: " + r.Message
	default:
		line := "credentials error: " + r.Message
		if r.Hint != "" {
			line += " (" + r.Hint + ")"
		}
		return line
	}
}

func errorText(err error) string {
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return "no chat model configured; set ROUTELLM_API_KEY or GEMINI_API_KEY"
	}
	return err.Error()
}

func helpLine(k keymap.KeyMap) string {
	var parts []string
	for _, b := range k.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
