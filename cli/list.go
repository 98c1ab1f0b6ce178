package cli

// This file contains the one-line-per-record listings.

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/qadesk/qadesk/model"
)

// Titles longer than this many terminal cells are cut with an ellipsis.
const listTitleWidth = 60

type styles struct {
	header   lipgloss.Style
	id       lipgloss.Style
	status   map[model.Status]lipgloss.Style
	severity map[model.Severity]lipgloss.Style
}

func (a *App) styles() styles {
	r := lipgloss.NewRenderer(a.out)
	if !a.color {
		plain := r.NewStyle()
		return styles{header: plain, id: plain}
	}

	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }
	return styles{
		header: r.NewStyle().Bold(true).Underline(true),
		id:     r.NewStyle().Bold(true),
		status: map[model.Status]lipgloss.Style{
			model.StatusPassed: fg("42"),
			model.StatusFailed: fg("196").Bold(true),
			model.StatusNotRun: fg("245"),
		},
		severity: map[model.Severity]lipgloss.Style{
			model.SeverityLow:      fg("245"),
			model.SeverityMedium:   fg("214"),
			model.SeverityHigh:     fg("202"),
			model.SeverityCritical: fg("196").Bold(true),
		},
	}
}

// tag renders "[value]" with the style registered for value, if any.
func tag[K comparable](m map[K]lipgloss.Style, v K, text string) string {
	if st, ok := m[v]; ok {
		return st.Render("[" + text + "]")
	}
	return "[" + text + "]"
}

func truncateTitle(title string) string {
	return runewidth.Truncate(title, listTitleWidth, "…")
}

// listLine renders "ID – title" with an optional trailing tag.
func (st styles) listLine(id, title, suffix string) string {
	line := st.id.Render(id) + " – " + truncateTitle(title)
	if suffix != "" {
		line += " " + suffix
	}
	return line
}

func (a *App) listHeader(st styles, title string, n int) {
	a.printf("%s\n\n", st.header.Render(fmt.Sprintf("=== %s (%d) ===", title, n)))
}

func (a *App) printScenarios(items []model.TestScenario) {
	st := a.styles()
	if len(items) == 0 {
		a.printf("No test scenarios found\n")
		return
	}
	a.listHeader(st, "Test Scenarios", len(items))
	for _, ts := range items {
		a.printf("%s\n", st.listLine(ts.ID, ts.Title, ""))
	}
}

func (a *App) printCases(items []model.TestCase) {
	st := a.styles()
	if len(items) == 0 {
		a.printf("No test cases found\n")
		return
	}
	a.listHeader(st, "Test Cases", len(items))
	for _, tc := range items {
		a.printf("%s\n", st.listLine(tc.ID, tc.Title, tag(st.status, tc.Status, string(tc.Status))))
	}
}

func (a *App) printBugs(items []model.BugReport) {
	st := a.styles()
	if len(items) == 0 {
		a.printf("No bug reports found\n")
		return
	}
	a.listHeader(st, "Bug Reports", len(items))
	for _, bug := range items {
		a.printf("%s\n", st.listLine(bug.ID, bug.Title, tag(st.severity, bug.Severity, string(bug.Severity))))
	}
}
