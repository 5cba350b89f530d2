// Package tui renders a live dashboard over a running simulation. It
// follows The Elm Architecture via bubbletea: the App is the state,
// Update reacts to timer ticks, router events and key presses, and
// View renders the current model state to the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jdtull-uark/teams-core/internal/config"
	"github.com/jdtull-uark/teams-core/internal/events"
	"github.com/jdtull-uark/teams-core/internal/logbook"
	"github.com/jdtull-uark/teams-core/internal/sim"
)

const (
	stepInterval = 200 * time.Millisecond
	feedCapacity = 200
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	seekingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type stepMsg time.Time

type feedMsg events.Event

type feedClosedMsg struct{}

// App is the dashboard state.
type App struct {
	model *sim.Model
	cfg   config.Config
	sub   events.Subscription

	feed     []string
	feedView viewport.Model
	paused   bool
	selected int
	width    int
	height   int
}

// NewApp wraps a constructed model. The subscription feeds the event
// pane; pass a zero Subscription to run without one.
func NewApp(model *sim.Model, cfg config.Config, sub events.Subscription) *App {
	return &App{
		model:    model,
		cfg:      cfg,
		sub:      sub,
		feedView: viewport.New(80, 8),
	}
}

// Init schedules the first simulation step and starts draining events.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.scheduleStep(), a.awaitEvent())
}

func (a *App) scheduleStep() tea.Cmd {
	return tea.Tick(stepInterval, func(t time.Time) tea.Msg { return stepMsg(t) })
}

func (a *App) awaitEvent() tea.Cmd {
	if a.sub.Events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-a.sub.Events
		if !ok {
			return feedClosedMsg{}
		}
		return feedMsg(ev)
	}
}

func (a *App) finished() bool {
	if a.model.Tick() >= a.cfg.Ticks {
		return true
	}
	return a.cfg.StopWhenDone && a.model.AllDone()
}

// Update is the bubbletea message loop.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.feedView.Width = msg.Width - 4
	case stepMsg:
		if !a.paused && !a.finished() {
			a.model.Step()
		}
		return a, a.scheduleStep()
	case feedMsg:
		a.pushFeed(events.Event(msg))
		return a, a.awaitEvent()
	case feedClosedMsg:
		return a, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.sub.Close()
			return a, tea.Quit
		case " ":
			a.paused = !a.paused
		case "s":
			if a.paused && !a.finished() {
				a.model.Step()
			}
		case "left", "h":
			if a.selected > 0 {
				a.selected--
			}
		case "right", "l":
			if a.selected < len(a.model.Agents())-1 {
				a.selected++
			}
		}
	}
	return a, nil
}

func (a *App) pushFeed(ev events.Event) {
	a.feed = append(a.feed, logbook.FormatEvent(ev))
	if len(a.feed) > feedCapacity {
		a.feed = a.feed[len(a.feed)-feedCapacity:]
	}
	a.feedView.SetContent(strings.Join(a.feed, "\n"))
	a.feedView.GotoBottom()
}

// View renders the dashboard: run status, the selected agent, and the
// most recent events.
func (a *App) View() string {
	ms, agents := a.model.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("TEAMS"))
	b.WriteString("  ")
	switch {
	case a.finished():
		b.WriteString(doneStyle.Render("finished"))
	case a.paused:
		b.WriteString(pausedStyle.Render("paused"))
	default:
		b.WriteString(valueStyle.Render("running"))
	}
	b.WriteString("\n\n")

	b.WriteString(paneStyle.Render(a.renderStats(ms)))
	b.WriteString("\n")
	if len(agents) > 0 {
		b.WriteString(paneStyle.Render(a.renderAgent(agents[a.selected])))
		b.WriteString("\n")
	}
	b.WriteString(paneStyle.Render(a.renderFeed()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space pause · s step · ←/→ agent · q quit"))
	return b.String()
}

func (a *App) renderStats(ms sim.ModelSnapshot) string {
	rows := []string{
		fmt.Sprintf("%s %d / %d", labelStyle.Render("tick"), ms.Tick, a.cfg.Ticks),
		fmt.Sprintf("%s %d backlog · %d active · %d done of %d",
			labelStyle.Render("tasks"), ms.TasksBacklog, ms.TasksActive, ms.TasksCompleted, ms.TasksTotal),
		fmt.Sprintf("%s %.3f", labelStyle.Render("mean safety"), ms.MeanPerceived),
		fmt.Sprintf("%s %.2f concepts", labelStyle.Render("mean knowledge"), ms.MeanKnowledge),
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderAgent(as sim.AgentSnapshot) string {
	status := "working"
	if as.SeekingAgent {
		status = seekingStyle.Render("seeking collaborator")
	} else if as.SeekingKnowledge {
		status = seekingStyle.Render("studying")
	}
	rows := []string{
		fmt.Sprintf("%s %d at (%d,%d)  %s", labelStyle.Render("agent"), as.ID, as.Position.X, as.Position.Y, status),
		fmt.Sprintf("%s pps %.3f · cps %.3f", labelStyle.Render("safety"), as.Perceived, as.Contributed),
		fmt.Sprintf("%s %d concepts · %d interactions", labelStyle.Render("state"), as.KnowledgeSize, as.Interactions),
	}
	if as.CurrentSubTask != "" {
		rows = append(rows, fmt.Sprintf("%s %s", labelStyle.Render("subtask"), shortID(as.CurrentSubTask)))
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderFeed() string {
	if len(a.feed) == 0 {
		return labelStyle.Render("no events yet")
	}
	return a.feedView.View()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the bubbletea program and blocks until it exits.
func Run(model *sim.Model, cfg config.Config, sub events.Subscription) error {
	app := NewApp(model, cfg, sub)
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
