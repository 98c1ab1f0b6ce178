package cli

// This file contains record selection by id or position for show, edit and rm.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qadesk/qadesk/store"
)

const selectorHelp = `Selectors:
  0           The last record (default for show)
  -1          The record before the last one
  3           The third record, counted from 1
  <id>        The record with this id, e.g. TC07 (case-insensitive)`

func removeFirstDashDash(in []string) []string {
	if len(in) > 0 && in[0] == "--" {
		return in[1:]
	}
	return in
}

// parseSelectorArgs splits raw arguments into a selector and the remaining
// options. A negative index such as -1 is a selector, not a flag.
func parseSelectorArgs(in []string) (sel string, rest []string) {
	if len(in) == 0 {
		return "0", nil
	}

	// If first arg is "--", use default "0" and rest are options
	if in[0] == "--" {
		return "0", in[1:]
	}

	// A negative index is "-" followed by only digits, anything else starting
	// with "-" is an option
	if len(in[0]) > 1 && in[0][0] == '-' {
		if _, err := strconv.ParseInt(in[0], 10, 64); err != nil {
			return "0", in
		}
	}

	return in[0], removeFirstDashDash(in[1:])
}

// resolveSelector returns the index into ids picked by sel. kind names the
// record type in error messages.
func resolveSelector(kind, sel string, ids []string) (int, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return 0, fmt.Errorf("missing %s selector", kind)
	}

	if parsed, err := strconv.ParseInt(sel, 10, 64); err == nil {
		if len(ids) == 0 {
			return 0, fmt.Errorf("no %ss found", kind)
		}
		var index int
		if parsed > 0 {
			// Positive integers count from the start, 1-based
			index = int(parsed) - 1
		} else {
			// 0 or negative integer: count from the end (0=last, -1=second-to-last)
			index = len(ids) - 1 + int(parsed)
		}
		if index < 0 || index >= len(ids) {
			return 0, fmt.Errorf("index %s out of range (only %d %ss)", sel, len(ids), kind)
		}
		return index, nil
	}

	for i, id := range ids {
		if strings.EqualFold(strings.TrimSpace(id), sel) {
			return i, nil
		}
	}
	return 0, &store.NotFoundError{Kind: kind, ID: sel}
}
