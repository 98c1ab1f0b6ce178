package cli

// This file contains the detail view shared by the show commands. Records
// are written as Markdown and rendered for the terminal with glamour.

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/qadesk/qadesk/model"
)

const detailWrap = 100

func (a *App) printDetail(markdown string, raw bool) error {
	if raw {
		a.printf("%s", markdown)
		return nil
	}

	style := glamour.WithAutoStyle()
	if !a.color {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(detailWrap))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render details: %w", err)
	}
	a.printf("%s", out)
	return nil
}

type mdBuilder struct {
	strings.Builder
}

func (b *mdBuilder) title(id, title string) {
	fmt.Fprintf(b, "# %s – %s\n\n", mdEscape(id), mdEscape(title))
}

// field writes a bold label line. Empty values are shown as "-".
func (b *mdBuilder) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	} else {
		value = mdEscape(value)
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, value)
}

func (b *mdBuilder) steps(label string, steps []string) {
	fmt.Fprintf(b, "**%s:**\n\n", label)
	for i, s := range steps {
		fmt.Fprintf(b, "%d. %s\n", i+1, mdEscape(s))
	}
	b.WriteString("\n")
}

// mdEscape makes user text render literally: inline markup characters are
// backslash-escaped and so is anything that would open a block at the start
// of a line.
func mdEscape(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = mdInline.Replace(line)
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]
		switch {
		case strings.HasPrefix(trimmed, "-"), strings.HasPrefix(trimmed, "+"), strings.HasPrefix(trimmed, "="):
			line = indent + "\\" + trimmed
		case mdOrdered.MatchString(trimmed):
			m := mdOrdered.FindStringSubmatchIndex(trimmed)
			line = indent + trimmed[:m[3]] + "\\" + trimmed[m[3]:]
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

var (
	mdInline = strings.NewReplacer(
		"\\", "\\\\", "`", "\\`", "*", "\\*", "_", "\\_", "[", "\\[", "]", "\\]",
		"<", "\\<", ">", "\\>", "#", "\\#", "|", "\\|", "~", "\\~", "!", "\\!",
	)
	mdOrdered = regexp.MustCompile(`^(\d+)[.)]`)
)

func scenarioMarkdown(ts model.TestScenario, cases []model.TestCase) string {
	var b mdBuilder
	b.title(ts.ID, ts.Title)
	if ts.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", mdEscape(ts.Description))
	}

	var linked []model.TestCase
	for _, tc := range cases {
		if strings.EqualFold(string(tc.ScenarioID), ts.ID) {
			linked = append(linked, tc)
		}
	}
	if len(linked) > 0 {
		b.WriteString("## Test cases\n\n")
		for _, tc := range linked {
			fmt.Fprintf(&b, "- %s – %s [%s]\n", mdEscape(tc.ID), mdEscape(tc.Title), tc.Status)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func caseMarkdown(tc model.TestCase) string {
	var b mdBuilder
	b.title(tc.ID, tc.Title)
	b.field("Scenario", string(tc.ScenarioID))
	b.field("Preconditions", tc.Preconditions)
	b.steps("Steps", tc.Steps)
	b.field("Expected result", tc.Expected)
	b.field("Actual result", tc.Actual)
	b.field("Status", string(tc.Status))
	return b.String()
}

func bugMarkdown(bug model.BugReport) string {
	var b mdBuilder
	b.title(bug.ID, bug.Title)
	b.field("Test case", string(bug.RelatedCase))
	b.field("Severity", string(bug.Severity))
	b.steps("Steps to reproduce", bug.Steps)
	b.field("Expected result", bug.Expected)
	b.field("Actual result", bug.Actual)
	if bug.Note != "" {
		b.field("Note", bug.Note)
	}
	if bug.Screenshot.IsSet() {
		b.field("Screenshot", string(bug.Screenshot))
	}
	b.field("Created", bug.CreatedAt.String())
	return b.String()
}
