package store

import (
	"github.com/qadesk/qadesk/model"
)

// BugInput carries the editable fields of a bug report. Severity is parsed
// with model.ParseSeverity and defaults to Medium.
type BugInput struct {
	Title       string
	RelatedCase model.Ref
	Steps       []string
	Expected    string
	Actual      string
	Severity    string
	Note        string
	Screenshot  string
}

func (in BugInput) build() (model.BugReport, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return model.BugReport{}, err
	}
	steps, err := requireSteps(in.Steps)
	if err != nil {
		return model.BugReport{}, err
	}
	severity, err := model.ParseSeverity(in.Severity)
	if err != nil {
		return model.BugReport{}, invalid("severity", "%s", err)
	}

	return model.BugReport{
		Title:       title,
		RelatedCase: model.Ref(trim(string(in.RelatedCase))),
		Steps:       steps,
		Expected:    trim(in.Expected),
		Actual:      trim(in.Actual),
		Severity:    severity,
		Note:        trim(in.Note),
		Screenshot:  model.Path(trim(in.Screenshot)),
	}, nil
}

// Bugs returns all bug reports in insertion order.
func (s *Store) Bugs() []model.BugReport {
	return append([]model.BugReport{}, s.data.Bugs...)
}

// Bug returns the first bug report with the given id.
func (s *Store) Bug(id string) (model.BugReport, error) {
	i := s.bugIndex(id)
	if i < 0 {
		return model.BugReport{}, notFound("bug report", id)
	}
	return s.data.Bugs[i], nil
}

// AddBug validates in, appends a new bug report stamped with the current
// time and saves. A set RelatedCase marks that test case as FAILED.
func (s *Store) AddBug(in BugInput) (model.BugReport, error) {
	bug, err := in.build()
	if err != nil {
		return model.BugReport{}, err
	}
	if bug.Screenshot, err = s.attach(bug.Screenshot, ""); err != nil {
		return model.BugReport{}, err
	}

	bug.ID = s.ids.NextID(&s.data, model.BugPrefix, bugIDs(s.data.Bugs))
	bug.CreatedAt = model.NewTimestamp(s.now())
	s.linkCase(&bug)
	s.data.Bugs = append(s.data.Bugs, bug)
	s.logger.Debug().Str("id", bug.ID).Str("severity", string(bug.Severity)).Msg("Added bug report")

	return bug, s.save()
}

// UpdateBug replaces the editable fields of the first bug report with the
// given id and saves. The creation time is kept. A set RelatedCase marks that
// test case as FAILED.
func (s *Store) UpdateBug(id string, in BugInput) (model.BugReport, error) {
	i := s.bugIndex(id)
	if i < 0 {
		return model.BugReport{}, notFound("bug report", id)
	}
	return s.UpdateBugAt(i, in)
}

// UpdateBugAt is UpdateBug for the bug report at position i.
func (s *Store) UpdateBugAt(i int, in BugInput) (model.BugReport, error) {
	if err := outOfRange("bug report", i, len(s.data.Bugs)); err != nil {
		return model.BugReport{}, err
	}
	bug, err := in.build()
	if err != nil {
		return model.BugReport{}, err
	}
	current := s.data.Bugs[i]
	if bug.Screenshot, err = s.attach(bug.Screenshot, current.Screenshot); err != nil {
		return model.BugReport{}, err
	}

	bug.ID = current.ID
	bug.CreatedAt = current.CreatedAt
	s.data.Bugs[i] = bug
	s.linkCase(&s.data.Bugs[i])
	bug = s.data.Bugs[i]

	return bug, s.save()
}

// DeleteBug removes every bug report with the given id and saves. The status
// of a linked test case is not reverted.
func (s *Store) DeleteBug(id string) ([]model.BugReport, error) {
	var removed []model.BugReport
	kept := s.data.Bugs[:0]
	for _, bug := range s.data.Bugs {
		if sameID(bug.ID, id) {
			removed = append(removed, bug)
			continue
		}
		kept = append(kept, bug)
	}
	if len(removed) == 0 {
		return nil, notFound("bug report", id)
	}
	s.data.Bugs = kept
	s.logger.Debug().Str("id", removed[0].ID).Int("count", len(removed)).Msg("Deleted bug reports")

	return removed, s.save()
}

// DeleteBugAt removes the bug report at position i and saves.
func (s *Store) DeleteBugAt(i int) (model.BugReport, error) {
	if err := outOfRange("bug report", i, len(s.data.Bugs)); err != nil {
		return model.BugReport{}, err
	}
	removed := s.data.Bugs[i]
	s.data.Bugs = append(s.data.Bugs[:i], s.data.Bugs[i+1:]...)
	s.logger.Debug().Str("id", removed.ID).Int("index", i).Msg("Deleted bug report")

	return removed, s.save()
}

// linkCase applies the failed-status rule for bug and rewrites its reference
// to the canonical id of the matched case.
func (s *Store) linkCase(bug *model.BugReport) {
	if !bug.RelatedCase.IsSet() {
		return
	}
	if i := s.caseIndex(string(bug.RelatedCase)); i >= 0 {
		bug.RelatedCase = model.Ref(s.data.Cases[i].ID)
	}
	if !s.markCaseFailed(bug.RelatedCase) {
		s.logger.Debug().Str("related_tc", string(bug.RelatedCase)).Msg("Related test case not found")
	}
}

// attach hands a newly chosen screenshot to the attacher. A screenshot equal
// to the current one is kept as is.
func (s *Store) attach(shot, current model.Path) (model.Path, error) {
	if !shot.IsSet() || shot == current || s.attacher == nil {
		return shot, nil
	}
	ref, err := s.attacher.Attach(string(shot))
	if err != nil {
		return "", err
	}
	return model.Path(ref), nil
}

func (s *Store) bugIndex(id string) int {
	for i, bug := range s.data.Bugs {
		if sameID(bug.ID, id) {
			return i
		}
	}
	return -1
}

func bugIDs(items []model.BugReport) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
