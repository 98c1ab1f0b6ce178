package store

import (
	"strings"

	"github.com/qadesk/qadesk/model"
)

// ScenarioInput carries the editable fields of a test scenario.
type ScenarioInput struct {
	Title       string
	Description string
}

// Scenarios returns all scenarios in insertion order.
func (s *Store) Scenarios() []model.TestScenario {
	return append([]model.TestScenario{}, s.data.Scenarios...)
}

// Scenario returns the first scenario with the given id.
func (s *Store) Scenario(id string) (model.TestScenario, error) {
	i := s.scenarioIndex(id)
	if i < 0 {
		return model.TestScenario{}, notFound("test scenario", id)
	}
	return s.data.Scenarios[i], nil
}

// AddScenario validates in, appends a new scenario and saves.
func (s *Store) AddScenario(in ScenarioInput) (model.TestScenario, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return model.TestScenario{}, err
	}

	ts := model.TestScenario{
		ID:          s.ids.NextID(&s.data, model.ScenarioPrefix, scenarioIDs(s.data.Scenarios)),
		Title:       title,
		Description: trim(in.Description),
	}
	s.data.Scenarios = append(s.data.Scenarios, ts)
	s.logger.Debug().Str("id", ts.ID).Msg("Added test scenario")

	return ts, s.save()
}

// UpdateScenario replaces the editable fields of the first scenario with the
// given id and saves.
func (s *Store) UpdateScenario(id string, in ScenarioInput) (model.TestScenario, error) {
	i := s.scenarioIndex(id)
	if i < 0 {
		return model.TestScenario{}, notFound("test scenario", id)
	}
	return s.UpdateScenarioAt(i, in)
}

// UpdateScenarioAt replaces the editable fields of the scenario at position i
// and saves.
func (s *Store) UpdateScenarioAt(i int, in ScenarioInput) (model.TestScenario, error) {
	if err := outOfRange("test scenario", i, len(s.data.Scenarios)); err != nil {
		return model.TestScenario{}, err
	}
	title, err := requireTitle(in.Title)
	if err != nil {
		return model.TestScenario{}, err
	}

	ts := &s.data.Scenarios[i]
	ts.Title = title
	ts.Description = trim(in.Description)

	return *ts, s.save()
}

// DeleteScenario removes every scenario with the given id and saves. Test
// cases referring to them are left untouched.
func (s *Store) DeleteScenario(id string) ([]model.TestScenario, error) {
	var removed []model.TestScenario
	kept := s.data.Scenarios[:0]
	for _, ts := range s.data.Scenarios {
		if sameID(ts.ID, id) {
			removed = append(removed, ts)
			continue
		}
		kept = append(kept, ts)
	}
	if len(removed) == 0 {
		return nil, notFound("test scenario", id)
	}
	s.data.Scenarios = kept
	s.logger.Debug().Str("id", removed[0].ID).Int("count", len(removed)).Msg("Deleted test scenarios")

	return removed, s.save()
}

// DeleteScenarioAt removes the scenario at position i and saves.
func (s *Store) DeleteScenarioAt(i int) (model.TestScenario, error) {
	if err := outOfRange("test scenario", i, len(s.data.Scenarios)); err != nil {
		return model.TestScenario{}, err
	}
	removed := s.data.Scenarios[i]
	s.data.Scenarios = append(s.data.Scenarios[:i], s.data.Scenarios[i+1:]...)
	s.logger.Debug().Str("id", removed.ID).Int("index", i).Msg("Deleted test scenario")

	return removed, s.save()
}

func (s *Store) scenarioIndex(id string) int {
	for i, ts := range s.data.Scenarios {
		if sameID(ts.ID, id) {
			return i
		}
	}
	return -1
}

func scenarioIDs(items []model.TestScenario) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func trim(s string) string { return strings.TrimSpace(s) }
