package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bimbuddy/internal/health"
	"bimbuddy/internal/selection"
)

var (
	bannerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(1, 4).Border(lipgloss.DoubleBorder())
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	badgeStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("13")).Padding(0, 1)
	wordStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	resultBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedBoxColor = lipgloss.Color("12")
)

// View renders the current screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.screen == screenLanding {
		return m.landingView()
	}
	return m.mainView()
}

func (m Model) landingView() string {
	banner := bannerStyle.Render("BIM BUDDY.")
	body := lipgloss.JoinVertical(lipgloss.Center,
		banner,
		"",
		"Malaysian Sign Language (BIM) translator",
		dimStyle.Render("press any key or click to start, ctrl+c to quit"),
	)
	return lipgloss.PlaceHorizontal(max(m.width, lipgloss.Width(body)), lipgloss.Center, body)
}

func (m Model) mainView() string {
	var b strings.Builder
	b.WriteString(m.statusBar())
	b.WriteString("\n")

	inputBox := queryBoxStyle
	resultBox := resultBoxStyle
	if m.focus == focusInput {
		inputBox = inputBox.BorderForeground(focusedBoxColor)
	} else {
		resultBox = resultBox.BorderForeground(focusedBoxColor)
	}
	b.WriteString(inputBox.Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.opts.Dispatcher.Busy():
		b.WriteString(m.spinner.View() + " " + warnStyle.Render("SEARCHING..."))
	case m.errorLine() != "":
		b.WriteString(errorStyle.Render(m.errorLine()))
	case m.notice != "":
		b.WriteString(dimStyle.Render(m.notice))
	}
	b.WriteString("\n")

	b.WriteString(resultBox.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusBar() string {
	snap := m.opts.Monitor.Snapshot()
	var status string
	switch snap.Status {
	case health.Connected:
		status = okStyle.Render("● Connected")
	case health.Disconnected:
		status = errorStyle.Render("● Disconnected")
	default:
		status = warnStyle.Render("● Connecting...")
	}
	parts := []string{titleStyle.Render("BIM BUDDY."), status}
	if snap.Status == health.Connected {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("%d signs", snap.DictionarySize)))
	}
	if m.opts.Machine.IsFullPhrase() {
		parts = append(parts, badgeStyle.Render("Full Phrase Mode"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) footer() string {
	snap := m.opts.Monitor.Snapshot()
	model := snap.AIModel
	if model == "" {
		model = "n/a"
	}
	return dimStyle.Render(fmt.Sprintf("backend %s · dictionary %d · model %s",
		m.opts.BaseURL, snap.DictionarySize, model))
}

// errorLine prefers the dispatcher's message and falls back to the view's,
// which covers navigating onto an entry without media.
func (m Model) errorLine() string {
	if e := m.opts.Dispatcher.Err(); e != "" {
		return e
	}
	return m.opts.Machine.View().Error
}

func (m Model) renderResult() string {
	mc := m.opts.Machine
	st := mc.State()
	if st == nil {
		return dimStyle.Render("Type a Malay word or phrase and press Enter. Tab cycles examples.")
	}
	if nf, ok := st.(selection.NotFound); ok {
		return dimStyle.Render(nf.Message)
	}

	v := mc.View()
	var b strings.Builder
	b.WriteString(wordStyle.Render(v.CurrentWord))
	if v.IsFullPhrase {
		b.WriteString("  " + badgeStyle.Render("full phrase"))
	}
	b.WriteString("\n")
	if v.Translation != "" {
		b.WriteString(dimStyle.Render("meaning: ") + v.Translation + "\n")
	}
	b.WriteString("\n")
	switch {
	case v.VideoURL != "":
		b.WriteString(fmt.Sprintf("%s  %s\n", selection.MediaVideo, v.VideoURL))
	case v.ImageURL != "":
		b.WriteString(fmt.Sprintf("%s  %s\n", selection.MediaImage, v.ImageURL))
	default:
		b.WriteString(errorStyle.Render(v.Error) + "\n")
	}

	if mc.Navigable() {
		cursor, total := mc.Position()
		prev, next := "      ", "      "
		if mc.HasPrev() {
			prev = "← prev"
		}
		if mc.HasNext() {
			next = "next →"
		}
		b.WriteString(fmt.Sprintf("\n%s  %d of %d  %s", prev, cursor+1, total, next))
	}
	return b.String()
}
