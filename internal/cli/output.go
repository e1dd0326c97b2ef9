package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/pkg/models"
)

// formatFlag holds the persistent --format flag value.
var formatFlag string

// Status symbol styles, 256-color codes shared with the board panels.
var (
	styleDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styleInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	styleCancelled  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// stdoutIsTerminal reports whether stdout is attached to a terminal.
// Swapped out in tests.
var stdoutIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// resolveFormat picks the output format: the --format flag wins, then the
// configured default, then TTY detection (table on a terminal, JSON when
// piped).
func resolveFormat() (string, error) {
	switch formatFlag {
	case "":
	case core.FormatJSON, core.FormatTable:
		return formatFlag, nil
	default:
		return "", fmt.Errorf("invalid format: %s (expected json or table)", formatFlag)
	}
	if Cfg != nil && Cfg.Format != core.FormatAuto {
		return Cfg.Format, nil
	}
	if stdoutIsTerminal() {
		return core.FormatTable, nil
	}
	return core.FormatJSON, nil
}

// printJSON prints v as single-line JSON on stdout.
func printJSON(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(line))
	return nil
}

// statusSymbol returns the symbol for a status, colored when the terminal
// supports it.
func statusSymbol(s models.Status) string {
	sym := s.Symbol()
	switch s {
	case models.StatusDone:
		return styleDone.Render(sym)
	case models.StatusInProgress:
		return styleInProgress.Render(sym)
	case models.StatusCancelled:
		return styleCancelled.Render(sym)
	default:
		return sym
	}
}

// renderWireTable formats wires one per row. There is no header row, the
// status symbols are self-explanatory. Wires waiting on unfinished
// dependencies get a blocked-by suffix listing the blocker ids.
func renderWireTable(wires []models.WireWithDeps) string {
	if len(wires) == 0 {
		return "No wires found."
	}

	var b strings.Builder
	for _, w := range wires {
		fmt.Fprintf(&b, "%s %s  %s", statusSymbol(w.Status), w.ID, w.Title)

		var blockers []string
		for _, dep := range w.DependsOn {
			if dep.Status.Blocking() {
				blockers = append(blockers, dep.ID)
			}
		}
		if len(blockers) > 0 {
			fmt.Fprintf(&b, "  ← blocked by %s", strings.Join(blockers, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderWireDetail formats a single wire with a compact header line,
// followed by the description and both dependency directions.
func renderWireDetail(w *models.WireWithDeps) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s  [pri:%d]\n", statusSymbol(w.Status), w.ID, w.Title, w.Priority)

	if w.Description != "" {
		b.WriteByte('\n')
		b.WriteString(w.Description)
		b.WriteByte('\n')
	}

	if len(w.DependsOn) > 0 {
		b.WriteString("\nDepends on:\n")
		for _, dep := range w.DependsOn {
			fmt.Fprintf(&b, "  %s %s  %s\n", statusSymbol(dep.Status), dep.ID, dep.Title)
		}
	}

	if len(w.Blocks) > 0 {
		b.WriteString("\nBlocks:\n")
		for _, blocked := range w.Blocks {
			fmt.Fprintf(&b, "  %s %s  %s\n", statusSymbol(blocked.Status), blocked.ID, blocked.Title)
		}
	}

	return b.String()
}
