package export

import (
	"bufio"
	"fmt"
	"io"
)

// Text renders a plain-text report.
type Text struct{}

func (Text) Name() string     { return "txt" }
func (Text) Filename() string { return "qa_export.txt" }

func (Text) Render(w io.Writer, doc Document) error {
	b := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(b, format, args...) }

	p("QA Test Report\n")
	p("Generated: %s\n\n", doc.Generated.Format(generatedLayout))

	p("=== TEST SCENARIOS ===\n\n")
	for _, ts := range doc.Data.Scenarios {
		p("%s\n", headline(ts.ID, ts.Title))
		if ts.Description != "" {
			p("Description: %s\n", ts.Description)
		}
		p("%s\n", separator)
	}

	p("\n=== TEST CASES ===\n\n")
	for _, tc := range doc.Data.Cases {
		p("ID: %s\n", tc.ID)
		p("Title: %s\n", tc.Title)
		p("Scenario: %s\n", refText(tc.ScenarioID))
		p("Preconditions: %s\n", tc.Preconditions)
		p("Steps:\n")
		for i, step := range tc.Steps {
			p("  %d. %s\n", i+1, step)
		}
		p("Expected result: %s\n", tc.Expected)
		p("Actual result: %s\n", tc.Actual)
		p("Status: %s\n", tc.Status)
		p("%s\n", separator)
	}

	p("\n=== BUG REPORTS ===\n\n")
	for _, bug := range doc.Data.Bugs {
		p("ID: %s\n", bug.ID)
		p("Title: %s\n", bug.Title)
		p("Test case: %s\n", refText(bug.RelatedCase))
		p("Severity: %s\n", bug.Severity)
		p("Steps to reproduce:\n")
		for i, step := range bug.Steps {
			p("  %d. %s\n", i+1, step)
		}
		p("Expected result: %s\n", bug.Expected)
		p("Actual result: %s\n", bug.Actual)
		if bug.Screenshot.IsSet() {
			p("Screenshot: %s\n", bug.Screenshot)
		}
		if bug.Note != "" {
			p("Note: %s\n", bug.Note)
		}
		p("Created: %s\n", bug.CreatedAt)
		p("%s\n", separator)
	}

	return b.Flush()
}
