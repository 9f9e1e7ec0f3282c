package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimbuddy/internal/domain"
	"bimbuddy/internal/health"
	"bimbuddy/internal/selection"
	"bimbuddy/internal/service"
)

const base = "http://bim.test"

type fakeHealth struct {
	resp domain.HealthResponse
	err  error
}

func (f *fakeHealth) Health(context.Context) (domain.HealthResponse, error) { return f.resp, f.err }

type fakeTranslator struct {
	fn func(text string) (domain.TranslateResponse, error)
}

func (f *fakeTranslator) Translate(_ context.Context, text string) (domain.TranslateResponse, error) {
	return f.fn(text)
}

type harness struct {
	model   Model
	machine *selection.Machine
	monitor *health.Monitor
	opened  []string
}

func newHarness(t *testing.T, fn func(string) (domain.TranslateResponse, error)) *harness {
	t.Helper()
	if fn == nil {
		fn = func(string) (domain.TranslateResponse, error) { return domain.TranslateResponse{}, nil }
	}
	h := &harness{
		machine: selection.New(base),
		monitor: health.NewMonitor(nil),
	}
	d := service.NewDispatcher(&fakeTranslator{fn: fn}, h.machine, time.Second, nil)
	h.model = New(Options{
		Health:     &fakeHealth{resp: domain.HealthResponse{Status: "healthy", DictionarySize: 42, AIModel: "gemini"}},
		Dispatcher: d,
		Machine:    h.machine,
		Monitor:    h.monitor,
		BaseURL:    base,
		Timeout:    time.Second,
		Interval:   time.Hour,
		Examples:   []string{"Saya", "Makan"},
		Open: func(url string) error {
			h.opened = append(h.opened, url)
			return nil
		},
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) key(k tea.KeyType) tea.Cmd { return h.send(tea.KeyMsg{Type: k}) }

func (h *harness) runes(s string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// connect dismisses the landing screen and answers the first probe.
func (h *harness) connect(t *testing.T) {
	t.Helper()
	cmd := h.key(tea.KeyEnter)
	require.NotNil(t, cmd)
	h.send(healthResultMsg{resp: domain.HealthResponse{Status: "healthy", DictionarySize: 42, AIModel: "gemini"}})
	require.Equal(t, health.Connected, h.monitor.Snapshot().Status)
}

// translate presses Enter and feeds back the translate completion.
func (h *harness) translate(t *testing.T, text string) {
	t.Helper()
	h.model.input.SetValue(text)
	cmd := h.key(tea.KeyEnter)
	require.NotNil(t, cmd)
	done := findMsg[translateDoneMsg](t, cmd)
	h.send(done)
}

// findMsg runs cmd, expanding batches, and returns the first message of type T.
func findMsg[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case T:
			return msg
		}
	}
	var zero T
	t.Fatalf("no %T produced", zero)
	return zero
}

func TestModel_LandingAnyKeyStartsHealthProbe(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	assert.Contains(t, h.model.View(), "BIM BUDDY.")
	assert.Equal(t, screenLanding, h.model.screen)

	cmd := h.runes("x")
	assert.Equal(t, screenMain, h.model.screen)
	res := findMsg[healthResultMsg](t, cmd)
	assert.NoError(t, res.err)
	assert.Equal(t, 42, res.resp.DictionarySize)
	assert.Empty(t, h.model.input.Value())
}

func TestModel_MouseClickLeavesLanding(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.send(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, screenMain, h.model.screen)
}

func TestModel_CtrlCQuitsFromLanding(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	cmd := h.key(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_HealthCycle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.connect(t)

	view := h.model.View()
	assert.Contains(t, view, "Connected")
	assert.Contains(t, view, "42 signs")
	assert.Contains(t, view, "model gemini")
	assert.Contains(t, view, base)

	cmd := h.send(healthTickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.Nil(t, h.send(healthTickMsg(time.Now())), "probe already in flight")

	h.send(healthResultMsg{err: errors.New("connection refused")})
	snap := h.monitor.Snapshot()
	assert.Equal(t, health.Disconnected, snap.Status)
	assert.Zero(t, snap.DictionarySize)
	assert.Contains(t, h.model.View(), "Disconnected")
}

func TestModel_TranslateDisabledUntilConnected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.key(tea.KeyEnter)
	h.model.input.SetValue("saya")

	assert.Nil(t, h.key(tea.KeyEnter))
	assert.False(t, h.model.opts.Dispatcher.Busy())
}

func TestModel_BlankInputShowsValidation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.connect(t)
	h.model.input.SetValue("   ")

	assert.Nil(t, h.key(tea.KeyEnter))
	assert.Contains(t, h.model.View(), "Please enter some text")
}

func TestModel_BlankInputValidatedWhileOffline(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"connecting", "disconnected"} {
		t.Run(status, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, nil)
			h.key(tea.KeyEnter)
			if status == "disconnected" {
				h.send(healthResultMsg{err: errors.New("connection refused")})
			}
			h.model.input.SetValue("   ")

			assert.Nil(t, h.key(tea.KeyEnter))
			assert.Equal(t, domain.MsgEmptyInput, h.model.opts.Dispatcher.Err())
			assert.Contains(t, h.model.View(), "Please enter some text")
			assert.False(t, h.model.opts.Dispatcher.Busy())
		})
	}
}

func TestModel_TranslateShowsSpinnerThenResult(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(text string) (domain.TranslateResponse, error) {
		return domain.TranslateResponse{Results: []domain.LookupResult{
			{Word: "saya", Found: true, Media: &domain.Media{Image: "/static/saya.png", Translation: "I"}},
		}}, nil
	})
	h.connect(t)
	h.model.input.SetValue("saya")

	cmd := h.key(tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Contains(t, h.model.View(), "SEARCHING...")
	assert.Nil(t, h.key(tea.KeyEnter), "second enter while busy")

	h.send(findMsg[translateDoneMsg](t, cmd))
	view := h.model.View()
	assert.NotContains(t, view, "SEARCHING...")
	assert.Contains(t, view, "SAYA")
	assert.Contains(t, view, base+"/static/saya.png")
	assert.NotContains(t, view, "1 of 1")
}

func TestModel_FullPhraseBadge(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(string) (domain.TranslateResponse, error) {
		return domain.TranslateResponse{
			IsFullPhrase: true,
			Results: []domain.LookupResult{
				{Word: "terima kasih", Found: true, Media: &domain.Media{Video: "/static/tk.mp4"}},
			},
		}, nil
	})
	h.connect(t)
	h.translate(t, "terima kasih")

	assert.True(t, h.machine.IsFullPhrase())
	assert.Contains(t, h.model.View(), "Full Phrase Mode")
}

func multiWord(string) (domain.TranslateResponse, error) {
	return domain.TranslateResponse{Results: []domain.LookupResult{
		{Word: "saya", Found: true, Media: &domain.Media{Image: "/static/saya.png"}},
		{Word: "hmm", Found: false},
		{Word: "makan", Found: true},
		{Word: "nasi", Found: true, Media: &domain.Media{Video: "/static/nasi.mp4"}},
	}}, nil
}

func TestModel_NavigateMultiWord(t *testing.T) {
	t.Parallel()

	h := newHarness(t, multiWord)
	h.connect(t)
	h.translate(t, "saya makan nasi")

	assert.Contains(t, h.model.View(), "1 of 3")
	assert.Contains(t, h.model.View(), "next →")

	h.key(tea.KeyEsc)
	assert.Equal(t, focusResults, h.model.focus)

	h.key(tea.KeyRight)
	assert.Contains(t, h.model.View(), "2 of 3")
	assert.Contains(t, h.model.View(), "No media found for the word(s)")

	h.runes("l")
	view := h.model.View()
	assert.Contains(t, view, "3 of 3")
	assert.Contains(t, view, base+"/static/nasi.mp4")
	assert.Contains(t, view, "← prev")
	assert.NotContains(t, view, "next →")

	h.runes("l")
	cursor, _ := h.machine.Position()
	assert.Equal(t, 2, cursor, "clamped at the last entry")

	h.key(tea.KeyLeft)
	cursor, _ = h.machine.Position()
	assert.Equal(t, 1, cursor)
}

func TestModel_NavigationDismissesValidationError(t *testing.T) {
	t.Parallel()

	h := newHarness(t, multiWord)
	h.connect(t)
	h.translate(t, "saya makan nasi")

	h.model.input.SetValue("")
	h.key(tea.KeyEnter)
	require.Contains(t, h.model.View(), "Please enter some text")

	h.key(tea.KeyDown)
	assert.Contains(t, h.model.View(), "2 of 3")
	assert.Empty(t, h.model.opts.Dispatcher.Err())

	h.key(tea.KeyUp)
	view := h.model.View()
	assert.Contains(t, view, "1 of 3")
	assert.NotContains(t, view, "Please enter some text")
}

func TestNew_DefaultOpenerIsQuiet(t *testing.T) {
	m := New(Options{})
	assert.NotNil(t, m.opts.Open)
	assert.Equal(t, io.Discard, browser.Stdout)
	assert.Equal(t, io.Discard, browser.Stderr)
	assert.False(t, m.log.Enabled(context.Background(), slog.LevelError))
}

func TestModel_OpenMedia(t *testing.T) {
	t.Parallel()

	h := newHarness(t, multiWord)
	h.connect(t)
	h.translate(t, "saya makan nasi")

	h.runes("o")
	assert.Equal(t, "o", h.model.input.Value()[len(h.model.input.Value())-1:], "typed while input focused")
	assert.Empty(t, h.opened)

	h.key(tea.KeyEsc)
	cmd := h.runes("o")
	require.NotNil(t, cmd)
	h.send(cmd())
	assert.Equal(t, []string{base + "/static/saya.png"}, h.opened)
	assert.Contains(t, h.model.View(), "Opened "+base+"/static/saya.png")

	h.key(tea.KeyRight)
	assert.Nil(t, h.runes("o"))
	assert.Len(t, h.opened, 1)
}

func TestModel_ExamplesCycle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.connect(t)

	h.key(tea.KeyTab)
	assert.Equal(t, "Saya", h.model.input.Value())
	h.key(tea.KeyTab)
	assert.Equal(t, "Makan", h.model.input.Value())
	h.key(tea.KeyTab)
	assert.Equal(t, "Saya", h.model.input.Value())
}

func TestModel_ClearResetsEverything(t *testing.T) {
	t.Parallel()

	h := newHarness(t, multiWord)
	h.connect(t)
	h.translate(t, "saya makan nasi")
	require.NotNil(t, h.machine.State())

	h.key(tea.KeyCtrlL)
	assert.Empty(t, h.model.input.Value())
	assert.Nil(t, h.machine.State())
	assert.Contains(t, h.model.View(), "Tab cycles examples")
}

func TestModel_ClearDropsInFlightResult(t *testing.T) {
	t.Parallel()

	h := newHarness(t, multiWord)
	h.connect(t)
	h.model.input.SetValue("saya")
	cmd := h.key(tea.KeyEnter)
	done := findMsg[translateDoneMsg](t, cmd)

	h.key(tea.KeyCtrlL)
	h.send(done)
	assert.Nil(t, h.machine.State())
	assert.False(t, h.model.opts.Dispatcher.Busy())
}

func TestModel_ServerErrorShown(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(string) (domain.TranslateResponse, error) {
		return domain.TranslateResponse{}, errors.New("dial tcp: connection refused")
	})
	h.connect(t)
	h.translate(t, "saya")

	assert.Contains(t, h.model.View(), "Error: Failed to connect to server")
	assert.False(t, h.model.opts.Dispatcher.Busy())
}
