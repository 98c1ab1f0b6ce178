package store

// This file contains the record id schemes.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qadesk/qadesk/model"
)

// GenerateID returns prefix followed by len(existing)+1, zero padded to two
// digits.
//
// The id depends only on the current collection length, so it is not stable
// under deletion: removing a record and adding another can hand out an id
// that is already (or was previously) in use.
func GenerateID[T any](prefix string, existing []T) string {
	return formatID(prefix, len(existing)+1)
}

func formatID(prefix string, n int) string {
	return fmt.Sprintf("%s%02d", prefix, n)
}

// IDScheme assigns ids to new records.
type IDScheme interface {
	// Name is the configuration name of the scheme.
	Name() string
	// NextID returns the id for a new record with the given prefix. ids holds
	// the ids currently in the collection, in order. The scheme may record
	// state in data.
	NextID(data *model.Data, prefix string, ids []string) string
}

// ID scheme names accepted by ParseIDScheme.
const (
	SchemeSequence = "sequence"
	SchemeCounter  = "counter"
	SchemeUUID     = "uuid"
)

// ParseIDScheme returns the scheme with the given name. An empty name selects
// the sequence scheme.
func ParseIDScheme(name string) (IDScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemeSequence:
		return SequenceScheme{}, nil
	case SchemeCounter:
		return CounterScheme{}, nil
	case SchemeUUID:
		return UUIDScheme{}, nil
	}
	return nil, fmt.Errorf("unknown id scheme %q (want %s, %s or %s)", name, SchemeSequence, SchemeCounter, SchemeUUID)
}

// SequenceScheme derives ids from the collection length, see GenerateID.
type SequenceScheme struct{}

func (SequenceScheme) Name() string { return SchemeSequence }

func (SequenceScheme) NextID(_ *model.Data, prefix string, ids []string) string {
	return GenerateID(prefix, ids)
}

// CounterScheme keeps a per-prefix counter in the document. The counter is
// seeded from the highest numeric id already present and only grows, so ids
// are never reissued.
type CounterScheme struct{}

func (CounterScheme) Name() string { return SchemeCounter }

func (CounterScheme) NextID(data *model.Data, prefix string, ids []string) string {
	if data.Sequences == nil {
		data.Sequences = make(map[string]int)
	}
	n := data.Sequences[prefix]
	for _, id := range ids {
		if v, ok := numericSuffix(prefix, id); ok && v > n {
			n = v
		}
	}
	n++
	data.Sequences[prefix] = n
	return formatID(prefix, n)
}

// UUIDScheme uses a short random suffix.
type UUIDScheme struct{}

func (UUIDScheme) Name() string { return SchemeUUID }

func (UUIDScheme) NextID(_ *model.Data, prefix string, ids []string) string {
	for {
		id := prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
		if !containsID(ids, id) {
			return id
		}
	}
}

func numericSuffix(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if sameID(existing, id) {
			return true
		}
	}
	return false
}

func sameID(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
