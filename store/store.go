package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/qadesk/qadesk/model"
	"github.com/rs/zerolog"
)

// Attacher takes ownership of a screenshot at attach time and returns the
// reference to store in its place.
type Attacher interface {
	Attach(src string) (string, error)
}

// Store holds the three record collections in memory and writes the whole
// document back to disk after every successful mutation.
//
// A failed write is reported to the caller but the in-memory change is kept.
type Store struct {
	logger   zerolog.Logger
	path     string
	ids      IDScheme
	now      func() time.Time
	attacher Attacher
	data     model.Data
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithIDScheme selects how new record ids are assigned.
func WithIDScheme(scheme IDScheme) Option {
	return func(s *Store) { s.ids = scheme }
}

// WithClock overrides the clock used for bug creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAttacher routes bug screenshots through a.
func WithAttacher(a Attacher) Option {
	return func(s *Store) { s.attacher = a }
}

// Open loads the document at path and returns a store bound to it.
func Open(path string, opts ...Option) (*Store, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(path, data, opts...), nil
}

// New returns a store bound to path holding data. Nothing is written until
// the first mutation.
func New(path string, data model.Data, opts ...Option) *Store {
	data.Normalize()
	s := &Store{
		logger: zerolog.Nop(),
		path:   path,
		ids:    SequenceScheme{},
		now:    time.Now,
		data:   data,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the data file location.
func (s *Store) Path() string { return s.path }

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() model.Data { return s.data.Clone() }

// Reset deletes the data file and empties every collection.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove data file: %w", err)
	}
	s.data = model.Empty()
	s.logger.Info().Str("path", s.path).Msg("Data reset")
	return nil
}

func (s *Store) save() error {
	if err := Save(s.path, s.data); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to save data")
		return err
	}
	s.logger.Debug().
		Str("path", s.path).
		Int("scenarios", len(s.data.Scenarios)).
		Int("cases", len(s.data.Cases)).
		Int("bugs", len(s.data.Bugs)).
		Msg("Saved data")
	return nil
}

func requireTitle(title string) (string, error) {
	title = trim(title)
	if title == "" {
		return "", invalid("title", "title must not be empty")
	}
	return title, nil
}

func requireSteps(steps []string) ([]string, error) {
	steps = model.NormalizeSteps(steps)
	if len(steps) == 0 {
		return nil, invalid("steps", "at least one step is required")
	}
	return steps, nil
}
