package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"golang.org/x/term"

	"github.com/lumabeat/lumabeat/internal/utils"
)

var (
	ErrSelectionAborted = eris.New("selection aborted")
	ErrNoInteractiveTTY = eris.New("no interactive terminal available")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))
	pointerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))
	inactivePointerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)
	instructionKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)
	instructionTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
	instructionDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("246"))
	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)
	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Option is one selectable row in a setup step.
type Option struct {
	Label string
}

// Step is a titled list of options with a pre-selected index.
type Step struct {
	Title   string
	Options []Option
	Initial int
}

// RunSetup walks the user through the given steps and returns the chosen
// index per step. Steps with a single option or none are skipped. When
// nothing requires input the initial indices are returned untouched.
func RunSetup(steps []Step) ([]int, error) {
	indices := make([]int, len(steps))
	interactive := false
	for i, step := range steps {
		indices[i] = utils.ClampIndex(step.Initial, len(step.Options))
		if len(step.Options) > 1 {
			interactive = true
		}
	}
	if !interactive {
		return indices, nil
	}

	if !isInteractiveTerminal() {
		return nil, ErrNoInteractiveTTY
	}

	program := tea.NewProgram(newSetupModel(steps, indices))
	finalModel, err := program.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(setupModel)
	if result.err != nil {
		return nil, result.err
	}
	return result.chosen, nil
}

type setupModel struct {
	steps  []Step
	chosen []int

	step    int // index into steps, len(steps) means confirm
	cursor  int
	confirm bool
	err     error
}

func newSetupModel(steps []Step, initial []int) setupModel {
	m := setupModel{steps: steps, chosen: initial}
	m.step = m.nextStep(-1)
	if m.step < len(steps) {
		m.cursor = m.chosen[m.step]
	} else {
		m.confirm = true
	}
	return m
}

// nextStep returns the first step after idx that actually needs a
// choice, or len(steps) when none remain.
func (m setupModel) nextStep(idx int) int {
	for i := idx + 1; i < len(m.steps); i++ {
		if len(m.steps[i].Options) > 1 {
			return i
		}
	}
	return len(m.steps)
}

func (m setupModel) prevStep(idx int) int {
	for i := idx - 1; i >= 0; i-- {
		if len(m.steps[i].Options) > 1 {
			return i
		}
	}
	return -1
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.err = ErrSelectionAborted
		return m, tea.Quit
	case "up", "k":
		if !m.confirm {
			m.cursor = wrapIndex(m.cursor-1, len(m.steps[m.step].Options))
		}
	case "down", "j":
		if !m.confirm {
			m.cursor = wrapIndex(m.cursor+1, len(m.steps[m.step].Options))
		}
	case "enter", "tab", "right", "l":
		if m.confirm {
			if key.String() == "enter" {
				return m, tea.Quit
			}
			return m, nil
		}
		m.chosen[m.step] = m.cursor
		next := m.nextStep(m.step)
		if next < len(m.steps) {
			m.step = next
			m.cursor = m.chosen[next]
		} else {
			m.confirm = true
		}
	case "shift+tab", "left", "h", "backspace", "b":
		if m.confirm {
			prev := m.prevStep(len(m.steps))
			if prev >= 0 {
				m.confirm = false
				m.step = prev
				m.cursor = m.chosen[prev]
			}
			return m, nil
		}
		if prev := m.prevStep(m.step); prev >= 0 {
			m.chosen[m.step] = m.cursor
			m.step = prev
			m.cursor = m.chosen[prev]
		}
	}

	return m, nil
}

func (m setupModel) View() string {
	if m.confirm {
		return m.renderSummaryView()
	}
	return m.renderStepView()
}

func (m setupModel) renderStepView() string {
	step := m.steps[m.step]
	instructions := []string{"↑/k ↓/j move", "enter confirm"}
	if m.prevStep(m.step) >= 0 {
		instructions = append(instructions, "shift+tab/left back")
	}
	instructions = append(instructions, "esc cancel")

	lines := []string{
		"",
		titleStyle.Render(step.Title),
		"",
		renderOptionList(step.Options, m.cursor),
		"",
		renderInstructions(instructions),
		"",
	}
	return strings.Join(lines, "\n")
}

func (m setupModel) renderSummaryView() string {
	lines := []string{
		"",
		titleStyle.Render("Ready to start"),
		"",
	}
	for i, step := range m.steps {
		lines = append(lines, renderSummaryRow(step.Title, m.selectedLabel(i)))
	}
	lines = append(lines,
		"",
		renderInstructions([]string{"enter start", "←/h/b/backspace edit", "esc cancel"}),
		"",
	)
	return strings.Join(lines, "\n")
}

func (m setupModel) selectedLabel(step int) string {
	options := m.steps[step].Options
	idx := m.chosen[step]
	if idx >= 0 && idx < len(options) {
		return options[idx].Label
	}
	return "not selected"
}

func renderOptionList(items []Option, cursor int) string {
	if len(items) == 0 {
		return emptyStateStyle.Render("No options detected")
	}

	rows := make([]string, len(items))
	for i, item := range items {
		pointer := inactivePointerStyle.Render(" ")
		label := itemStyle.Render(item.Label)
		if cursor == i {
			pointer = pointerStyle.Render("›")
			label = selectedItemStyle.Render(item.Label)
		}
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Left, pointer, " ", label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderInstructions(parts []string) string {
	if len(parts) == 0 {
		return ""
	}

	var segments []string
	for i, part := range parts {
		if i > 0 {
			segments = append(segments, instructionDividerStyle.Render(" · "))
		}
		segments = append(segments, renderInstruction(part))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderInstruction(part string) string {
	tokens := strings.Fields(part)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) == 1 {
		return instructionTextStyle.Render(tokens[0])
	}

	var segments []string
	for i, token := range tokens[:len(tokens)-1] {
		if i > 0 {
			segments = append(segments, instructionTextStyle.Render(" "))
		}
		segments = append(segments, instructionKeyStyle.Render(token))
	}
	segments = append(segments, instructionTextStyle.Render(" "))
	segments = append(segments, instructionTextStyle.Render(tokens[len(tokens)-1]))
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderSummaryRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		summaryLabelStyle.Render(label+": "),
		summaryValueStyle.Render(value),
	)
}

func wrapIndex(idx, length int) int {
	if length <= 0 {
		return 0
	}
	idx = idx % length
	if idx < 0 {
		idx += length
	}
	return idx
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
