package model

import "strings"

// SplitSteps turns free text into a step list, one step per line. Lines are
// trimmed and blank lines dropped.
func SplitSteps(text string) []string {
	return NormalizeSteps(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

// NormalizeSteps trims every step and drops the empty ones.
func NormalizeSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
