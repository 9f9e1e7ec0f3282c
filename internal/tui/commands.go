package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bimbuddy/internal/domain"
	"bimbuddy/internal/service"
)

type (
	healthTickMsg   time.Time
	healthResultMsg struct {
		resp domain.HealthResponse
		err  error
	}
	translateDoneMsg struct {
		completion service.Completion
	}
	openedMsg struct {
		url string
		err error
	}
)

func probeHealth(h HealthChecker, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := h.Health(ctx)
		return healthResultMsg{resp: resp, err: err}
	}
}

func scheduleHealth(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return healthTickMsg(t) })
}

func runTranslate(d *service.Dispatcher, req service.Request) tea.Cmd {
	return func() tea.Msg {
		return translateDoneMsg{completion: d.Execute(context.Background(), req)}
	}
}

func openMedia(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}
