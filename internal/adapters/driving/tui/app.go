package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdex-cli/internal/core/ports/driving"
)

// mode identifies what the app is currently doing.
type mode int

const (
	modeInput mode = iota
	modeAsking
	modeAnswer
)

// App is the interactive ask interface following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// indexName is the index every question is asked against.
	indexName string

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *Styles

	// input is the question entry field.
	input textinput.Model

	// spinner is shown while an ask is in flight.
	spinner spinner.Model

	// mode tracks the current interaction state.
	mode mode

	// answer holds the last completed answer.
	answer *driving.Answer

	// statsLine describes the index in the header, once loaded.
	statsLine string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application for the given index.
func NewApp(ports *Ports, indexName string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if strings.TrimSpace(indexName) == "" {
		return nil, fmt.Errorf("creating app: %w", ErrMissingIndexName)
	}

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Prompt = "> "
	input.CharLimit = 512
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ports:     ports,
		indexName: indexName,
		ctx:       context.Background(),
		styles:    DefaultStyles(),
		input:     input,
		spinner:   sp,
		mode:      modeInput,
		width:     80,
		height:    24,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts the cursor blink and loads the index stats.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadStatsCmd())
}

// Update handles messages and drives state transitions.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 4
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.mode != modeAsking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case askCompletedMsg:
		if msg.Err != nil {
			a.err = msg.Err
			a.mode = modeInput
			return a, nil
		}
		a.answer = msg.Answer
		a.mode = modeAnswer
		return a, nil

	case statsLoadedMsg:
		if msg.Err == nil {
			a.statsLine = fmt.Sprintf("%d chunks, %d dimensions", msg.Stats.PointCount, msg.Stats.Dimensions)
		}
		return a, nil
	}

	if a.mode == modeInput || a.mode == modeAnswer {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return a, tea.Quit

	case tea.KeyEnter:
		if a.mode == modeAsking {
			return a, nil
		}
		question := strings.TrimSpace(a.input.Value())
		if question == "" {
			return a, nil
		}
		a.err = nil
		a.answer = nil
		a.mode = modeAsking
		return a, tea.Batch(a.spinner.Tick, a.askCmd(question))
	}

	if a.mode == modeAsking {
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// askCmd runs the ask in the background and reports back.
func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Query.Ask(a.ctx, a.indexName, question, driving.RetrieveOptions{})
		return askCompletedMsg{Answer: answer, Err: err}
	}
}

// loadStatsCmd fetches the index statistics for the header line.
func (a *App) loadStatsCmd() tea.Cmd {
	if a.ports.Index == nil {
		return nil
	}
	return func() tea.Msg {
		stats, err := a.ports.Index.Stats(a.ctx, a.indexName)
		return statsLoadedMsg{Stats: stats, Err: err}
	}
}

// View renders the current state.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("ragdex"))
	b.WriteString("  ")
	header := a.indexName
	if a.statsLine != "" {
		header += " (" + a.statsLine + ")"
	}
	b.WriteString(a.styles.Subtitle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch a.mode {
	case modeAsking:
		b.WriteString(a.spinner.View())
		b.WriteString(a.styles.Muted.Render(" thinking..."))
		b.WriteString("\n")
	case modeAnswer:
		if a.answer != nil {
			b.WriteString(a.styles.Answer.Width(a.width - 4).Render(a.answer.Text))
			b.WriteString("\n")
			if len(a.answer.Candidates) > 0 {
				b.WriteString(a.styles.Muted.Render(a.sourcesView()))
				b.WriteString("\n")
			}
		}
	case modeInput:
		// Nothing extra to show.
	}

	if a.err != nil {
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("enter: ask - esc: quit"))
	b.WriteString("\n")

	return b.String()
}

// sourcesView renders the source listing under an answer.
func (a *App) sourcesView() string {
	var b strings.Builder
	b.WriteString("Sources:\n")
	for i := range a.answer.Candidates {
		p := a.answer.Candidates[i].Point
		fmt.Fprintf(&b, "  [%d] %s#%d (%.3f)\n",
			i+1, p.Payload.FilePath, p.Payload.ChunkIndex, a.answer.Candidates[i].FusedScore)
	}
	return strings.TrimRight(b.String(), "\n")
}
