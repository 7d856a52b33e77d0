// Package ui holds the terminal front-ends: an interactive setup picker
// and a live monitor showing band energies, mood, and the active
// palette.
package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/pipeline"
	"github.com/lumabeat/lumabeat/internal/utils"
)

// Monitor renders per-tick snapshots in an alt-screen TUI. Updates are
// throttled so a fast pipeline cannot flood the render loop.
type Monitor struct {
	program   *tea.Program
	mu        sync.Mutex
	lastSend  time.Time
	throttle  time.Duration
	closeOnce sync.Once
}

type snapshotMsg struct {
	snap       pipeline.Snapshot
	receivedAt time.Time
}

type monitorModel struct {
	bands       []bands.FrequencyBand
	snap        pipeline.Snapshot
	lastUpdated time.Time
	ready       bool
	onExit      func()
	exitOnce    sync.Once
}

var (
	monContainerStyle = lipgloss.NewStyle().Padding(0, 2)
	monTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	monLabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	monValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	monWaitingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	monHintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	monEmptyBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

const (
	monBarWidth   = 32
	renderLatency = 45 * time.Millisecond
)

// NewMonitor starts the TUI in its own goroutine. onExit fires once when
// the user quits from inside the monitor.
func NewMonitor(bandCfg []bands.FrequencyBand, onExit func()) *Monitor {
	model := &monitorModel{bands: bandCfg, onExit: onExit}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())

	m := &Monitor{
		program:  program,
		throttle: renderLatency,
	}

	go program.Run()

	return m
}

// Publish is a pipeline.Observer feeding the monitor.
func (m *Monitor) Publish(snap pipeline.Snapshot) {
	m.mu.Lock()
	if time.Since(m.lastSend) < m.throttle {
		m.mu.Unlock()
		return
	}
	m.lastSend = time.Now()
	m.mu.Unlock()

	m.program.Send(snapshotMsg{snap: snap, receivedAt: time.Now()})
}

// Close quits the TUI. Safe to call more than once.
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		m.program.Quit()
	})
}

func (m *monitorModel) Init() tea.Cmd {
	return nil
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = msg.snap
		m.lastUpdated = msg.receivedAt
		m.ready = true
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC, msg.String() == "q", msg.String() == "esc":
			m.invokeExit()
			return m, tea.Quit
		}
	case tea.QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *monitorModel) View() string {
	if !m.ready {
		header := titleStyle.Render("LumaBeat Monitor")
		waiting := monWaitingStyle.Render("Waiting for analysis frames…")
		return monContainerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", waiting))
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderMood(),
		"",
		m.renderPalette(),
		"",
		m.renderBands(),
		"",
		monHintStyle.Render("Press q / esc / ctrl+c to stop the monitor"),
	)
	return monContainerStyle.Render(body)
}

func (m *monitorModel) renderHeader() string {
	accent := lipgloss.Color(m.snap.Palette.Accent.Hex())
	title := titleStyle.Foreground(accent).Render("LumaBeat Monitor")
	timestamp := monTimestampStyle.Render(m.lastUpdated.Format("15:04:05.000"))
	return lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", timestamp)
}

func (m *monitorModel) renderMood() string {
	mode := renderMetric("Visual", m.snap.VisualMode)
	pal := renderMetric("Palette", m.snap.PaletteName)
	top := lipgloss.JoinHorizontal(lipgloss.Left, mode, "   ", pal)

	energy := renderMetric("Energy", fmt.Sprintf("%4.2f", m.snap.Mood.Energy))
	brightness := renderMetric("Brightness", fmt.Sprintf("%4.2f", m.snap.Mood.Brightness))
	dynamics := renderMetric("Dynamics", fmt.Sprintf("%4.2f", m.snap.Mood.Dynamics))
	bottom := lipgloss.JoinHorizontal(lipgloss.Left, energy, "   ", brightness, "   ", dynamics)

	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func renderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		monLabelStyle.Render(label+":"),
		" ",
		monValueStyle.Render(value),
	)
}

func (m *monitorModel) renderPalette() string {
	entries := []struct {
		label string
		hex   string
	}{
		{"bg", m.snap.Palette.Background.Hex()},
		{"base", m.snap.Palette.Base.Hex()},
		{"accent", m.snap.Palette.Accent.Hex()},
		{"ring", m.snap.Palette.Ring.Hex()},
		{"particle", m.snap.Palette.Particle.Hex()},
		{"highlight", m.snap.Palette.Highlight.Hex()},
	}

	segments := make([]string, 0, len(entries)*2)
	for _, entry := range entries {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(entry.hex)).Render("    ")
		segments = append(segments, swatch, monLabelStyle.Render(" "+entry.label+"  "))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		append([]string{subtitleStyle.Render("Colors"), "  "}, segments...)...,
	)
}

func (m *monitorModel) renderBands() string {
	lines := make([]string, 0, len(m.bands))
	for i, band := range m.bands {
		value := 0.0
		if i < len(m.snap.Frame.Bands) {
			value = m.snap.Frame.Bands[i]
		}
		lines = append(lines, renderBandBar(band.Label, value, m.snap.Palette.Accent.Hex()))
	}
	return strings.Join(lines, "\n")
}

func renderBandBar(label string, value float64, hex string) string {
	clamped := utils.Clamp01(value)
	filled := int(math.Round(clamped * monBarWidth))
	if clamped > 0 && filled == 0 {
		filled = 1
	}
	if filled > monBarWidth {
		filled = monBarWidth
	}

	builder := strings.Builder{}
	builder.Grow(128)
	builder.WriteString(monLabelStyle.Render(fmt.Sprintf("%-12s", label)))
	builder.WriteString(" [")
	if filled > 0 {
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(strings.Repeat("█", filled))
		builder.WriteString(bar)
	}
	if empty := monBarWidth - filled; empty > 0 {
		builder.WriteString(monEmptyBarStyle.Render(strings.Repeat("░", empty)))
	}
	builder.WriteString("] ")
	builder.WriteString(monValueStyle.Render(fmt.Sprintf("%3.0f%%", clamped*100)))

	return builder.String()
}

func (m *monitorModel) invokeExit() {
	m.exitOnce.Do(func() {
		if m.onExit != nil {
			m.onExit()
		}
	})
}
