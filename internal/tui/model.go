package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"bimbuddy/internal/domain"
	"bimbuddy/internal/health"
	"bimbuddy/internal/selection"
	"bimbuddy/internal/service"
)

// HealthChecker is the TUI-facing subset of the dictionary client.
type HealthChecker interface {
	Health(ctx context.Context) (domain.HealthResponse, error)
}

// Options wires the model to the rest of the application.
type Options struct {
	Health     HealthChecker
	Dispatcher *service.Dispatcher
	Machine    *selection.Machine
	Monitor    *health.Monitor
	BaseURL    string
	Timeout    time.Duration
	Interval   time.Duration
	Examples   []string
	Logger     *slog.Logger
	// Open launches an external viewer for a media URL. Defaults to the OS opener.
	Open func(url string) error
}

type screen int

const (
	screenLanding screen = iota
	screenMain
)

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	opts Options
	log  *slog.Logger

	screen   screen
	focus    focus
	keys     keyMap
	help     help.Model
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	probing bool
	example int
	notice  string
	width   int
	ready   bool
}

// New creates a new TUI model instance showing the landing screen.
func New(opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Interval <= 0 {
		opts.Interval = health.DefaultInterval
	}
	if opts.Open == nil {
		// The launcher must not write into the alt screen.
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
		opts.Open = browser.OpenURL
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type Malay text and press Enter"
	ti.CharLimit = 500

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	return Model{
		opts:     opts,
		log:      opts.Logger.With("component", "tui"),
		keys:     newKeyMap(),
		help:     help.New(),
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		example:  -1,
	}
}

// Init initializes the model. Nothing runs until the landing screen is dismissed.
func (m Model) Init() tea.Cmd { return tea.SetWindowTitle("BIM Buddy") }

// Update handles key, mouse, timer and completion messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-8)
		_, rh := resultBoxStyle.GetFrameSize()
		reserved := 9 + rh
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		if m.screen == screenLanding && msg.Action == tea.MouseActionPress {
			return m.enterMain()
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.screen == screenLanding {
			return m.enterMain()
		}
		return m.handleKey(msg)

	case healthTickMsg:
		if m.probing {
			return m, nil
		}
		m.probing = true
		return m, probeHealth(m.opts.Health, m.opts.Timeout)

	case healthResultMsg:
		m.probing = false
		m.opts.Monitor.Observe(msg.resp, msg.err)
		return m, scheduleHealth(m.opts.Interval)

	case translateDoneMsg:
		if m.opts.Dispatcher.Complete(msg.completion) {
			m.refresh()
		}
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.log.Warn("open media failed", slog.String("url", msg.url), slog.String("error", msg.err.Error()))
			m.notice = "Could not open " + msg.url
		} else {
			m.notice = "Opened " + msg.url
		}
		return m, nil

	case spinner.TickMsg:
		if !m.opts.Dispatcher.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) enterMain() (tea.Model, tea.Cmd) {
	m.screen = screenMain
	m.probing = true
	m.opts.Monitor.Reset()
	m.refresh()
	blink := m.input.Focus()
	return m, tea.Batch(probeHealth(m.opts.Health, m.opts.Timeout), blink)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Translate):
		return m.translate()

	case key.Matches(msg, m.keys.Example):
		if len(m.opts.Examples) == 0 {
			return m, nil
		}
		m.example = (m.example + 1) % len(m.opts.Examples)
		m.input.SetValue(m.opts.Examples[m.example])
		m.input.CursorEnd()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.opts.Dispatcher.Clear()
		m.input.Reset()
		m.notice = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		if m.opts.Machine.Retreat() {
			m.opts.Dispatcher.DismissError()
			m.notice = ""
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.opts.Machine.Advance() {
			m.opts.Dispatcher.DismissError()
			m.notice = ""
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		url := mediaURL(m.opts.Machine.View())
		if url == "" {
			m.notice = domain.MsgNoMedia
			return m, nil
		}
		return m, openMedia(m.opts.Open, url)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		return m.toggleFocus()
	}

	if m.focus != focusInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusInput {
		m.focus = focusResults
		m.input.Blur()
		m.keys.setFocus(focusResults)
		return m, nil
	}
	m.focus = focusInput
	m.help.ShowAll = false
	m.keys.setFocus(focusInput)
	blink := m.input.Focus()
	return m, blink
}

// translate dispatches the input unless a request is outstanding or the
// service is not reachable. Blank input is rejected with the validation
// message regardless of connectivity.
func (m Model) translate() (tea.Model, tea.Cmd) {
	d := m.opts.Dispatcher
	if d.Busy() {
		return m, nil
	}
	text := m.input.Value()
	if strings.TrimSpace(text) != "" && m.opts.Monitor.Snapshot().Status != health.Connected {
		return m, nil
	}
	m.notice = ""
	req, err := d.Begin(text)
	if err != nil {
		m.refresh()
		return m, nil
	}
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, runTranslate(d, req))
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderResult())
	m.viewport.GotoTop()
}

func mediaURL(v selection.ViewState) string {
	if v.VideoURL != "" {
		return v.VideoURL
	}
	return v.ImageURL
}
