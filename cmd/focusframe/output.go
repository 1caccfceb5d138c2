package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/focusframe/internal/ipc"
)

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(16).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	modeStyles = map[string]lipgloss.Style{
		"focus":     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		"pinned":    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		"suspended": lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		"idle":      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
)

func formatRegion(r ipc.Region) string {
	if r.Width <= 0 || r.Height <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

type field struct {
	key   string
	label string
	value string
}

func statusFields(st *ipc.StatusData) []field {
	pinned := st.PinnedUntil
	if pinned == "" {
		pinned = "-"
		if st.Mode == "pinned" {
			pinned = "until hide/resume"
		}
	}
	return []field{
		{"mode", "Mode", st.Mode},
		{"visible", "Visible", strconv.FormatBool(st.Visible)},
		{"allocated", "Surface", strconv.FormatBool(st.Allocated)},
		{"bounds", "Frame", formatRegion(st.Bounds)},
		{"focus", "Focused window", formatRegion(st.Focus)},
		{"monitor", "Monitor", orDash(st.Monitor)},
		{"pinned_until", "Pinned", pinned},
		{"redraws", "Redraws", strconv.Itoa(st.Redraws)},
		{"dropped", "Dropped", strconv.Itoa(st.Dropped)},
		{"uptime_seconds", "Uptime", strconv.FormatInt(st.UptimeSeconds, 10) + "s"},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// renderStatus prints key: value lines, or a styled table on a terminal.
func renderStatus(w io.Writer, st *ipc.StatusData, styled bool) {
	fields := statusFields(st)
	if !styled {
		for _, f := range fields {
			fmt.Fprintf(w, "%s: %s\n", f.key, f.value)
		}
		return
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		style := valueStyle
		if f.key == "mode" {
			if s, ok := modeStyles[f.value]; ok {
				style = s
			}
		}
		lines = append(lines, labelStyle.Render(f.label)+style.Render(f.value))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func renderMonitors(w io.Writer, monitors []ipc.MonitorInfo, styled bool) {
	if len(monitors) == 0 {
		fmt.Fprintln(w, "no monitors")
		return
	}
	for _, m := range monitors {
		geometry := formatRegion(ipc.Region{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
		if !styled {
			fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID, m.Name, geometry)
			continue
		}
		fmt.Fprintln(w, labelStyle.Render(strconv.Itoa(m.ID))+valueStyle.Render(m.Name)+"  "+dimStyle.Render(geometry))
	}
}
