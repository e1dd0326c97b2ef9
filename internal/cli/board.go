package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/barooo/wires/pkg/models"
)

// Board panel indices.
const (
	panelReady = iota
	panelInProgress
	panelBlocked
	panelCount
)

type boardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	ready      []models.Wire
	inProgress []models.WireWithDeps
	blocked    []models.WireWithDeps

	// State.
	loading bool
	err     error
}

// boardDataMsg carries loaded data back to the model.
type boardDataMsg struct {
	ready      []models.Wire
	inProgress []models.WireWithDeps
	blocked    []models.WireWithDeps
	err        error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	blockedByStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newBoardModel() boardModel {
	return boardModel{
		activePanel: panelReady,
		loading:     true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return loadBoardData
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadBoardData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.ready = msg.ready
		m.inProgress = msg.inProgress
		m.blocked = msg.blocked
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m boardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" wires board ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading wires...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	readyPanel := m.renderReadyPanel()
	inProgressPanel := m.renderInProgressPanel()
	blockedPanel := m.renderBlockedPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		readyPanel = m.applyPanelStyle(panelReady, readyPanel, colWidth-4)
		inProgressPanel = m.applyPanelStyle(panelInProgress, inProgressPanel, colWidth-4)
		blockedPanel = m.applyPanelStyle(panelBlocked, blockedPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, readyPanel, inProgressPanel, blockedPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		readyPanel = m.applyPanelStyle(panelReady, readyPanel, panelWidth)
		inProgressPanel = m.applyPanelStyle(panelInProgress, inProgressPanel, panelWidth)
		blockedPanel = m.applyPanelStyle(panelBlocked, blockedPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, readyPanel, inProgressPanel, blockedPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m boardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m boardModel) renderReadyPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Ready"))
	b.WriteString("\n")

	if len(m.ready) == 0 {
		b.WriteString("  Nothing is ready.")
		return b.String()
	}

	for _, w := range m.ready {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", statusSymbol(w.Status), w.ID, w.Title))
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", len(m.ready)))

	return b.String()
}

func (m boardModel) renderInProgressPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("In Progress"))
	b.WriteString("\n")

	if len(m.inProgress) == 0 {
		b.WriteString("  Nothing in progress.")
		return b.String()
	}

	for _, w := range m.inProgress {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", statusSymbol(w.Status), w.ID, w.Title))
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", len(m.inProgress)))

	return b.String()
}

func (m boardModel) renderBlockedPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Blocked"))
	b.WriteString("\n")

	if len(m.blocked) == 0 {
		b.WriteString("  Nothing is blocked.")
		return b.String()
	}

	for _, w := range m.blocked {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", statusSymbol(w.Status), w.ID, w.Title))
		var blockers []string
		for _, dep := range w.DependsOn {
			if dep.Status.Blocking() {
				blockers = append(blockers, dep.ID)
			}
		}
		b.WriteString(blockedByStyle.Render(fmt.Sprintf("      waiting on %s", strings.Join(blockers, ", "))))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  Total: %d", len(m.blocked)))

	return b.String()
}

// loadBoardData reads the three panel datasets through the engine. The
// board never mutates.
func loadBoardData() tea.Msg {
	var result boardDataMsg

	eng, err := requireEngine()
	if err != nil {
		result.err = err
		return result
	}

	ctx := context.Background()

	ready, err := eng.ReadyWires(ctx)
	if err != nil {
		result.err = fmt.Errorf("loading ready wires: %w", err)
		return result
	}
	result.ready = ready

	all, err := eng.ListWires(ctx, nil)
	if err != nil {
		result.err = fmt.Errorf("loading wires: %w", err)
		return result
	}

	for _, w := range all {
		open := w.Status == models.StatusTodo || w.Status == models.StatusInProgress
		if open {
			blocked := false
			for _, dep := range w.DependsOn {
				if dep.Status.Blocking() {
					blocked = true
					break
				}
			}
			if blocked {
				result.blocked = append(result.blocked, w)
				continue
			}
		}
		if w.Status == models.StatusInProgress {
			result.inProgress = append(result.inProgress, w)
		}
	}

	return result
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive board of ready, in-progress, and blocked wires",
	Long: `Launch a terminal board with three panels: wires ready to work on,
wires in progress, and wires blocked on unfinished dependencies.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireEngine(); err != nil {
			return err
		}
		p := tea.NewProgram(newBoardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
