package model

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Status is the outcome of a test case.
type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
	StatusNotRun Status = "NOT RUN"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPassed, StatusFailed, StatusNotRun}

// StatusAll is the list filter value that matches every status.
const StatusAll = "ALL"

// ParseStatus upper-cases s and checks it against the known statuses.
// An empty string yields StatusNotRun.
func ParseStatus(s string) (Status, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return StatusNotRun, nil
	}
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want one of PASSED, FAILED, NOT RUN)", s)
}

// JSONSchema describes Status as a string enum.
func (Status) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{string(StatusPassed), string(StatusFailed), string(StatusNotRun)},
	}
}

// Severity classifies the impact of a bug.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists every valid severity from least to most severe.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// ParseSeverity matches s case-insensitively and returns the canonical
// spelling. An empty string yields SeverityMedium.
func ParseSeverity(s string) (Severity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SeverityMedium, nil
	}
	for _, sev := range Severities {
		if strings.EqualFold(string(sev), s) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q (want one of Low, Medium, High, Critical)", s)
}

// JSONSchema describes Severity as a string enum.
func (Severity) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{string(SeverityLow), string(SeverityMedium), string(SeverityHigh), string(SeverityCritical)},
	}
}
