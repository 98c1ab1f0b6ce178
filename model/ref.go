package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// Ref is a soft reference to another record's ID. An empty Ref means unset.
//
// References are never checked for existence and deletes never cascade: a
// Ref to a removed record simply dangles.
type Ref string

// IsSet reports whether the reference points anywhere.
func (r Ref) IsSet() bool { return r != "" }

func (r Ref) MarshalJSON() ([]byte, error) { return marshalNullable(string(r)) }

func (r *Ref) UnmarshalJSON(b []byte) error {
	s, err := unmarshalNullable(b)
	*r = Ref(s)
	return err
}

func (Ref) JSONSchema() *jsonschema.Schema { return nullableStringSchema() }

// Path is an optional filesystem path stored verbatim.
type Path string

// IsSet reports whether a path is recorded.
func (p Path) IsSet() bool { return p != "" }

func (p Path) MarshalJSON() ([]byte, error) { return marshalNullable(string(p)) }

func (p *Path) UnmarshalJSON(b []byte) error {
	s, err := unmarshalNullable(b)
	*p = Path(s)
	return err
}

func (Path) JSONSchema() *jsonschema.Schema { return nullableStringSchema() }

func marshalNullable(s string) ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(s)
}

func unmarshalNullable(b []byte) (string, error) {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func nullableStringSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "null"},
		},
	}
}

// TimestampLayout is the on-disk format of created_at values.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a local wall-clock time with second precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds in local time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Local().Truncate(time.Second)}
}

// Equal reports whether both timestamps denote the same instant.
func (t Timestamp) Equal(u Timestamp) bool { return t.Time.Equal(u.Time) }

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s, err := unmarshalNullable(b)
	if err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (Timestamp) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "string", Pattern: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`},
			{Type: "null"},
		},
	}
}
