package store

import (
	"strings"

	"github.com/qadesk/qadesk/model"
)

// CaseInput carries the editable fields of a test case. Status is parsed
// with model.ParseStatus, so it may be given in any case and defaults to
// NOT RUN.
type CaseInput struct {
	Title         string
	Preconditions string
	ScenarioID    model.Ref
	Steps         []string
	Expected      string
	Actual        string
	Status        string
}

func (in CaseInput) build() (model.TestCase, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return model.TestCase{}, err
	}
	steps, err := requireSteps(in.Steps)
	if err != nil {
		return model.TestCase{}, err
	}
	status, err := model.ParseStatus(in.Status)
	if err != nil {
		return model.TestCase{}, invalid("status", "%s", err)
	}

	return model.TestCase{
		Title:         title,
		Preconditions: trim(in.Preconditions),
		ScenarioID:    model.Ref(trim(string(in.ScenarioID))),
		Steps:         steps,
		Expected:      trim(in.Expected),
		Actual:        trim(in.Actual),
		Status:        status,
	}, nil
}

// Cases returns the test cases whose status matches filter, in insertion
// order. An empty filter or "ALL" matches every case.
func (s *Store) Cases(filter string) ([]model.TestCase, error) {
	filter = strings.ToUpper(trim(filter))
	if filter == "" || filter == model.StatusAll {
		return append([]model.TestCase{}, s.data.Cases...), nil
	}
	status, err := model.ParseStatus(filter)
	if err != nil {
		return nil, invalid("status filter", "%s", err)
	}

	out := []model.TestCase{}
	for _, tc := range s.data.Cases {
		if tc.Status == status {
			out = append(out, tc)
		}
	}
	return out, nil
}

// Case returns the first test case with the given id.
func (s *Store) Case(id string) (model.TestCase, error) {
	i := s.caseIndex(id)
	if i < 0 {
		return model.TestCase{}, notFound("test case", id)
	}
	return s.data.Cases[i], nil
}

// AddCase validates in, appends a new test case and saves. The scenario
// reference is stored as given; it is not required to exist.
func (s *Store) AddCase(in CaseInput) (model.TestCase, error) {
	tc, err := in.build()
	if err != nil {
		return model.TestCase{}, err
	}

	tc.ID = s.ids.NextID(&s.data, model.CasePrefix, caseIDs(s.data.Cases))
	s.data.Cases = append(s.data.Cases, tc)
	s.logger.Debug().Str("id", tc.ID).Str("status", string(tc.Status)).Msg("Added test case")

	return tc, s.save()
}

// UpdateCase replaces the editable fields of the first test case with the
// given id and saves.
func (s *Store) UpdateCase(id string, in CaseInput) (model.TestCase, error) {
	i := s.caseIndex(id)
	if i < 0 {
		return model.TestCase{}, notFound("test case", id)
	}
	return s.UpdateCaseAt(i, in)
}

// UpdateCaseAt replaces the editable fields of the test case at position i
// and saves.
func (s *Store) UpdateCaseAt(i int, in CaseInput) (model.TestCase, error) {
	if err := outOfRange("test case", i, len(s.data.Cases)); err != nil {
		return model.TestCase{}, err
	}
	tc, err := in.build()
	if err != nil {
		return model.TestCase{}, err
	}

	tc.ID = s.data.Cases[i].ID
	s.data.Cases[i] = tc

	return tc, s.save()
}

// DeleteCase removes every test case with the given id and saves. Bug
// reports referring to them are left untouched.
func (s *Store) DeleteCase(id string) ([]model.TestCase, error) {
	var removed []model.TestCase
	kept := s.data.Cases[:0]
	for _, tc := range s.data.Cases {
		if sameID(tc.ID, id) {
			removed = append(removed, tc)
			continue
		}
		kept = append(kept, tc)
	}
	if len(removed) == 0 {
		return nil, notFound("test case", id)
	}
	s.data.Cases = kept
	s.logger.Debug().Str("id", removed[0].ID).Int("count", len(removed)).Msg("Deleted test cases")

	return removed, s.save()
}

// DeleteCaseAt removes the test case at position i and saves.
func (s *Store) DeleteCaseAt(i int) (model.TestCase, error) {
	if err := outOfRange("test case", i, len(s.data.Cases)); err != nil {
		return model.TestCase{}, err
	}
	removed := s.data.Cases[i]
	s.data.Cases = append(s.data.Cases[:i], s.data.Cases[i+1:]...)
	s.logger.Debug().Str("id", removed.ID).Int("index", i).Msg("Deleted test case")

	return removed, s.save()
}

// markCaseFailed sets the status of the first case matching ref to FAILED.
// It reports whether such a case exists.
func (s *Store) markCaseFailed(ref model.Ref) bool {
	i := s.caseIndex(string(ref))
	if i < 0 {
		return false
	}
	if s.data.Cases[i].Status != model.StatusFailed {
		s.logger.Debug().Str("id", s.data.Cases[i].ID).Msg("Marked test case as failed")
	}
	s.data.Cases[i].Status = model.StatusFailed
	return true
}

func (s *Store) caseIndex(id string) int {
	if trim(id) == "" {
		return -1
	}
	for i, tc := range s.data.Cases {
		if sameID(tc.ID, id) {
			return i
		}
	}
	return -1
}

func caseIDs(items []model.TestCase) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
