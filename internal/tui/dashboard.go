package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowdl/flowdl/internal/model"
)

const (
	refreshInterval = 500 * time.Millisecond
	historyRows     = 10
	titleWidth      = 38
	barWidth        = 18
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A8DADC")).
			MarginTop(1)

	columnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6C757D"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	statusStyles = map[model.TaskStatus]lipgloss.Style{
		model.StatusQueued:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D")),
		model.StatusDownloading: lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")),
		model.StatusProcessing:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C77DFF")),
		model.StatusCompleted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3")).Bold(true),
		model.StatusFailed:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		model.StatusCancelled:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D")),
	}
)

// Source is the read-only view of the scheduler the dashboard polls.
type Source interface {
	QueueDepth() int
	Active() []model.Task
	History() []model.Task
	ToolDescription() string
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	source  Source
	version string
	onQuit  func()

	spinner  spinner.Model
	progress progress.Model

	depth   int
	active  []model.Task
	history []model.Task
	tool    string

	width  int
	height int
}

// NewModel creates a dashboard model. onQuit runs once when the user quits
// and should trigger scheduler shutdown.
func NewModel(source Source, version string, onQuit func()) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = barWidth

	return Model{
		source:   source,
		version:  version,
		onQuit:   onQuit,
		spinner:  sp,
		progress: prog,
		tool:     source.ToolDescription(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.depth = m.source.QueueDepth()
		m.active = m.source.Active()
		m.history = m.source.History()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.activeSection())
	b.WriteString(m.historySection())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("press q to quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) header() string {
	done := len(m.history)
	working := 0
	for _, task := range m.active {
		if task.Status.IsActive() {
			working++
		}
	}

	indicator := " "
	if working > 0 {
		indicator = m.spinner.View()
	}

	stats := fmt.Sprintf("queued %d | active %d | done %d | %s",
		m.depth, working, done, m.tool)
	return headerBoxStyle.Render(
		indicator + " " + titleStyle.Render("flowdl "+m.version) + "   " + dimStyle.Render(stats))
}

func (m Model) activeSection() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Active Downloads"))
	b.WriteString("\n")

	if len(m.active) == 0 {
		b.WriteString(dimStyle.Render("  no active downloads"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(columnStyle.Render(fmt.Sprintf("  %-10s %-*s %-7s %-8s %-12s %-*s %-12s %-8s",
		"ID", titleWidth, "TITLE", "TYPE", "QUALITY", "STATUS", barWidth, "PROGRESS", "SPEED", "ETA")))
	b.WriteString("\n")

	for _, task := range m.active {
		status := statusStyles[task.Status].Render(fmt.Sprintf("%-12s", task.Status))
		bar := m.progress.ViewAs(task.Progress / 100)
		b.WriteString(fmt.Sprintf("  %-10s %-*s %-7s %-8s %s %s %-12s %-8s\n",
			task.ID,
			titleWidth, clip(task.DisplayTitle(), titleWidth),
			task.Kind,
			task.Quality,
			status,
			bar,
			task.Speed,
			task.ETA,
		))
	}
	return b.String()
}

func (m Model) historySection() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Recent"))
	b.WriteString("\n")

	if len(m.history) == 0 {
		b.WriteString(dimStyle.Render("  nothing finished yet"))
		b.WriteString("\n")
		return b.String()
	}

	// Latest first, bounded to keep the dashboard stable.
	shown := 0
	for i := len(m.history) - 1; i >= 0 && shown < historyRows; i-- {
		task := m.history[i]
		status := statusStyles[task.Status].Render(fmt.Sprintf("%-10s", task.Status))

		detail := task.FilePath
		if task.Status == model.StatusFailed {
			detail = errorStyle.Render(clip(task.Error, 60))
		}
		b.WriteString(fmt.Sprintf("  %-10s %-*s %s %s\n",
			task.ID, titleWidth, clip(task.DisplayTitle(), titleWidth), status, detail))
		shown++
	}
	return b.String()
}

// clip bounds a cell to width runes so long titles never break the layout.
func clip(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return ""
	}
	return string(runes[:width-1]) + "…"
}

// Run starts the dashboard and blocks until the user quits.
func Run(source Source, version string, onQuit func()) error {
	p := tea.NewProgram(NewModel(source, version, onQuit), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
