package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/qadesk/qadesk/model"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultDataFile)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := Open(path, opts...)
	require.NoError(t, err)
	return s
}

func addScenarios(t *testing.T, s *Store, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := s.AddScenario(ScenarioInput{Title: title})
		require.NoError(t, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	data, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.NotNil(t, data.Scenarios)
	require.NotNil(t, data.Cases)
	require.NotNil(t, data.Bugs)
	require.Empty(t, data.Scenarios)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadLegacyFormat(t *testing.T) {
	raw := `{
    "test_scenarios": [{"id": "TS01", "title": "Prihlásenie", "description": ""}],
    "test_cases": [{
        "id": "TC01", "title": "Login OK", "preconditions": "", "ts_id": null,
        "steps": ["open", "submit"], "expected": "ok", "actual": "", "status": "NOT RUN"
    }],
    "bug_reports": [{
        "id": "BUG01", "title": "Crash", "related_tc": "TC01", "steps": ["open"],
        "expected": "", "actual": "", "severity": "High", "note": "",
        "screenshot": null, "created_at": "2024-01-02 03:04:05"
    }]
}`
	path := filepath.Join(t.TempDir(), DefaultDataFile)
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	data, err := Load(path)
	require.NoError(t, err)
	require.Len(t, data.Scenarios, 1)
	require.Equal(t, "Prihlásenie", data.Scenarios[0].Title)
	require.False(t, data.Cases[0].ScenarioID.IsSet())
	require.Equal(t, model.StatusNotRun, data.Cases[0].Status)
	require.Equal(t, model.Ref("TC01"), data.Bugs[0].RelatedCase)
	require.Equal(t, "2024-01-02 03:04:05", data.Bugs[0].CreatedAt.String())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data model.Data
	}{
		{name: "empty", data: model.Empty()},
		{
			name: "scenarios only",
			data: model.Data{Scenarios: []model.TestScenario{{ID: "TS01", Title: "A", Description: "multi\nline"}}},
		},
		{
			name: "all collections",
			data: model.Data{
				Scenarios: []model.TestScenario{{ID: "TS01", Title: "A"}},
				Cases: []model.TestCase{{
					ID: "TC01", Title: "B", ScenarioID: "TS01", Steps: []string{"one", "two"},
					Expected: "<ok>", Status: model.StatusPassed,
				}},
				Bugs: []model.BugReport{{
					ID: "BUG01", Title: "C", RelatedCase: "TC01", Steps: []string{"x"},
					Severity: model.SeverityCritical, Screenshot: "shots/a.png",
					CreatedAt: model.NewTimestamp(fixedNow),
				}},
			},
		},
		{
			name: "with counters",
			data: model.Data{Sequences: map[string]int{model.ScenarioPrefix: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, Save(path, tt.data))

			got, err := Load(path)
			require.NoError(t, err)

			want := tt.data
			want.Normalize()
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveKeepsNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	data := model.Empty()
	data.Scenarios = append(data.Scenarios, model.TestScenario{ID: "TS01", Title: "Overenie <košíka>"})
	require.NoError(t, Save(path, data))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "Overenie <košíka>")
	require.Contains(t, string(raw), "\n    \"test_scenarios\"")
}

func TestGenerateID(t *testing.T) {
	require.Equal(t, "TS01", GenerateID("TS", []model.TestScenario{}))
	require.Equal(t, "TS02", GenerateID("TS", []model.TestScenario{{ID: "TS01"}}))
	require.Equal(t, "BUG10", GenerateID("BUG", make([]int, 9)))
	require.Equal(t, "TC100", GenerateID("TC", make([]int, 99)))
}

func TestSequenceSchemeReusesIDsAfterDelete(t *testing.T) {
	t.Run("delete middle of three duplicates a live id", func(t *testing.T) {
		s := newTestStore(t)
		addScenarios(t, s, "one", "two", "three")

		_, err := s.DeleteScenario("TS02")
		require.NoError(t, err)

		ts, err := s.AddScenario(ScenarioInput{Title: "four"})
		require.NoError(t, err)
		require.Equal(t, "TS03", ts.ID)

		var ids []string
		for _, ts := range s.Scenarios() {
			ids = append(ids, ts.ID)
		}
		require.Equal(t, []string{"TS01", "TS03", "TS03"}, ids)
	})

	t.Run("delete last reissues its id", func(t *testing.T) {
		s := newTestStore(t)
		addScenarios(t, s, "one", "two")

		_, err := s.DeleteScenario("TS02")
		require.NoError(t, err)

		ts, err := s.AddScenario(ScenarioInput{Title: "three"})
		require.NoError(t, err)
		require.Equal(t, "TS02", ts.ID)
	})
}

func TestCounterSchemeNeverReusesIDs(t *testing.T) {
	s := newTestStore(t, WithIDScheme(CounterScheme{}))
	addScenarios(t, s, "one", "two", "three")

	_, err := s.DeleteScenario("TS02")
	require.NoError(t, err)
	_, err = s.DeleteScenario("TS03")
	require.NoError(t, err)

	ts, err := s.AddScenario(ScenarioInput{Title: "four"})
	require.NoError(t, err)
	require.Equal(t, "TS04", ts.ID)

	// counters survive a reload
	reopened, err := Open(s.Path(), WithIDScheme(CounterScheme{}))
	require.NoError(t, err)
	ts, err = reopened.AddScenario(ScenarioInput{Title: "five"})
	require.NoError(t, err)
	require.Equal(t, "TS05", ts.ID)
}

func TestCounterSchemeSeedsFromLegacyData(t *testing.T) {
	data := model.Empty()
	data.Cases = []model.TestCase{{ID: "TC01"}, {ID: "TC07"}, {ID: "TC03"}}

	id := CounterScheme{}.NextID(&data, model.CasePrefix, caseIDs(data.Cases))
	require.Equal(t, "TC08", id)
	require.Equal(t, 8, data.Sequences[model.CasePrefix])
}

func TestUUIDScheme(t *testing.T) {
	s := newTestStore(t, WithIDScheme(UUIDScheme{}))
	a, err := s.AddScenario(ScenarioInput{Title: "a"})
	require.NoError(t, err)
	b, err := s.AddScenario(ScenarioInput{Title: "b"})
	require.NoError(t, err)

	require.Regexp(t, `^TS-[0-9A-F]{8}$`, a.ID)
	require.NotEqual(t, a.ID, b.ID)
}

func TestParseIDScheme(t *testing.T) {
	for name, want := range map[string]string{"": SchemeSequence, "Counter": SchemeCounter, "uuid": SchemeUUID} {
		scheme, err := ParseIDScheme(name)
		require.NoError(t, err)
		require.Equal(t, want, scheme.Name())
	}
	_, err := ParseIDScheme("random")
	require.Error(t, err)
}

func TestMutationsPersist(t *testing.T) {
	s := newTestStore(t)
	addScenarios(t, s, "login")
	_, err := s.AddCase(CaseInput{Title: "happy path", Steps: []string{"open"}})
	require.NoError(t, err)

	reopened, err := Open(s.Path())
	require.NoError(t, err)
	if diff := cmp.Diff(s.Snapshot(), reopened.Snapshot()); diff != "" {
		t.Errorf("persisted state mismatch (-want +got):\n%s", diff)
	}
}

func TestValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name  string
		run   func() error
		field string
	}{
		{
			name:  "scenario without title",
			run:   func() error { _, err := s.AddScenario(ScenarioInput{Title: "   "}); return err },
			field: "title",
		},
		{
			name:  "case without steps",
			run:   func() error { _, err := s.AddCase(CaseInput{Title: "x", Steps: []string{" ", ""}}); return err },
			field: "steps",
		},
		{
			name: "case with unknown status",
			run: func() error {
				_, err := s.AddCase(CaseInput{Title: "x", Steps: []string{"a"}, Status: "BLOCKED"})
				return err
			},
			field: "status",
		},
		{
			name:  "bug without title",
			run:   func() error { _, err := s.AddBug(BugInput{Steps: []string{"a"}}); return err },
			field: "title",
		},
		{
			name: "bug with unknown severity",
			run: func() error {
				_, err := s.AddBug(BugInput{Title: "x", Steps: []string{"a"}, Severity: "Blocker"})
				return err
			},
			field: "severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			require.Equal(t, tt.field, verr.Field)
		})
	}

	snap := s.Snapshot()
	require.Empty(t, snap.Scenarios)
	require.Empty(t, snap.Cases)
	require.Empty(t, snap.Bugs)
	_, err := os.Stat(s.Path())
	require.True(t, os.IsNotExist(err), "nothing should have been written")
}

func TestNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateScenario("TS09", ScenarioInput{Title: "x"})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "TS09", nf.ID)

	_, err = s.DeleteCase("TC01")
	require.True(t, errors.As(err, &nf))

	_, err = s.Bug("BUG01")
	require.True(t, errors.As(err, &nf))
}

func duplicateScenarios(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	addScenarios(t, s, "a", "b", "c")
	_, err := s.DeleteScenario("TS02")
	require.NoError(t, err)
	addScenarios(t, s, "d")
	return s
}

func scenarioTitles(s *Store) []string {
	var titles []string
	for _, ts := range s.Scenarios() {
		titles = append(titles, ts.ID+" "+ts.Title)
	}
	return titles
}

func TestPositionalOperationsWithDuplicateIDs(t *testing.T) {
	t.Run("update at", func(t *testing.T) {
		s := duplicateScenarios(t)
		ts, err := s.UpdateScenarioAt(2, ScenarioInput{Title: "d2"})
		require.NoError(t, err)
		require.Equal(t, "TS03", ts.ID)
		require.Equal(t, []string{"TS01 a", "TS03 c", "TS03 d2"}, scenarioTitles(s))
	})

	t.Run("delete at", func(t *testing.T) {
		s := duplicateScenarios(t)
		removed, err := s.DeleteScenarioAt(2)
		require.NoError(t, err)
		require.Equal(t, "d", removed.Title)
		require.Equal(t, []string{"TS01 a", "TS03 c"}, scenarioTitles(s))

		data, err := Load(s.Path())
		require.NoError(t, err)
		require.Len(t, data.Scenarios, 2)
	})

	t.Run("delete by id removes every match", func(t *testing.T) {
		s := duplicateScenarios(t)
		removed, err := s.DeleteScenario("ts03")
		require.NoError(t, err)
		require.Len(t, removed, 2)
		require.Equal(t, []string{"TS01 a"}, scenarioTitles(s))
	})

	t.Run("out of range", func(t *testing.T) {
		s := duplicateScenarios(t)
		var re *RangeError
		_, err := s.UpdateScenarioAt(3, ScenarioInput{Title: "x"})
		require.True(t, errors.As(err, &re))
		require.Equal(t, 3, re.Index)
		_, err = s.DeleteCaseAt(0)
		require.True(t, errors.As(err, &re))
		_, err = s.DeleteBugAt(-1)
		require.True(t, errors.As(err, &re))
	})
}

func TestCaseAndBugPositionalOperations(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"x", "y", "z"} {
		_, err := s.AddCase(CaseInput{Title: title, Steps: []string{"go"}})
		require.NoError(t, err)
	}
	_, err := s.DeleteCase("TC02")
	require.NoError(t, err)
	_, err = s.AddCase(CaseInput{Title: "w", Steps: []string{"go"}})
	require.NoError(t, err)

	tc, err := s.UpdateCaseAt(2, CaseInput{Title: "w", Steps: []string{"go"}, Status: "passed"})
	require.NoError(t, err)
	require.Equal(t, "TC03", tc.ID)
	cases, err := s.Cases(model.StatusAll)
	require.NoError(t, err)
	require.Equal(t, model.StatusNotRun, cases[1].Status)
	require.Equal(t, model.StatusPassed, cases[2].Status)

	for _, title := range []string{"b1", "b2"} {
		_, err := s.AddBug(BugInput{Title: title, Steps: []string{"1"}})
		require.NoError(t, err)
	}
	_, err = s.DeleteBug("BUG01")
	require.NoError(t, err)
	_, err = s.AddBug(BugInput{Title: "b3", Steps: []string{"1"}})
	require.NoError(t, err)

	bug, err := s.UpdateBugAt(1, BugInput{Title: "b3", Steps: []string{"1"}, Severity: "high"})
	require.NoError(t, err)
	require.Equal(t, "BUG02", bug.ID)
	require.Equal(t, model.SeverityHigh, bug.Severity)
	require.Equal(t, model.SeverityMedium, s.Bugs()[0].Severity)

	removed, err := s.DeleteBugAt(0)
	require.NoError(t, err)
	require.Equal(t, "b2", removed.Title)
	require.Len(t, s.Bugs(), 1)
	require.Equal(t, "b3", s.Bugs()[0].Title)
}

func TestCaseDefaultsAndNormalization(t *testing.T) {
	s := newTestStore(t)
	tc, err := s.AddCase(CaseInput{
		Title:      "  checkout ",
		ScenarioID: " TS01 ",
		Steps:      []string{" add item ", "", "pay"},
		Status:     "passed",
	})
	require.NoError(t, err)
	require.Equal(t, "TC01", tc.ID)
	require.Equal(t, "checkout", tc.Title)
	require.Equal(t, model.Ref("TS01"), tc.ScenarioID)
	require.Equal(t, []string{"add item", "pay"}, tc.Steps)
	require.Equal(t, model.StatusPassed, tc.Status)

	tc, err = s.AddCase(CaseInput{Title: "x", Steps: []string{"a"}})
	require.NoError(t, err)
	require.Equal(t, model.StatusNotRun, tc.Status)
}

func TestBugMarksRelatedCaseFailed(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddCase(CaseInput{
		Title: "login", Preconditions: "user exists", Steps: []string{"open", "submit"},
		Expected: "dashboard", Actual: "dashboard", Status: "PASSED",
	})
	require.NoError(t, err)
	other, err := s.AddCase(CaseInput{Title: "logout", Steps: []string{"click"}, Status: "PASSED"})
	require.NoError(t, err)
	before, err := s.Case("TC01")
	require.NoError(t, err)

	bug, err := s.AddBug(BugInput{Title: "500 on submit", RelatedCase: "tc01", Steps: []string{"submit"}})
	require.NoError(t, err)
	require.Equal(t, model.Ref("TC01"), bug.RelatedCase)
	require.Equal(t, model.SeverityMedium, bug.Severity)
	require.Equal(t, model.NewTimestamp(fixedNow), bug.CreatedAt)

	after, err := s.Case("TC01")
	require.NoError(t, err)
	want := before
	want.Status = model.StatusFailed
	require.Equal(t, want, after)

	untouched, err := s.Case(other.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPassed, untouched.Status)

	// the side effect is persisted with the bug
	reopened, err := Open(s.Path())
	require.NoError(t, err)
	persisted, err := reopened.Case("TC01")
	require.NoError(t, err)
	require.Equal(t, model.StatusFailed, persisted.Status)
}

func TestUpdateBugMarksCaseFailedAndKeepsCreatedAt(t *testing.T) {
	now := fixedNow
	s := newTestStore(t, WithClock(func() time.Time { return now }))
	_, err := s.AddCase(CaseInput{Title: "a", Steps: []string{"1"}, Status: "PASSED"})
	require.NoError(t, err)
	_, err = s.AddCase(CaseInput{Title: "b", Steps: []string{"1"}, Status: "PASSED"})
	require.NoError(t, err)

	bug, err := s.AddBug(BugInput{Title: "bug", Steps: []string{"1"}})
	require.NoError(t, err)
	tc, err := s.Case("TC02")
	require.NoError(t, err)
	require.Equal(t, model.StatusPassed, tc.Status)

	now = now.Add(48 * time.Hour)
	updated, err := s.UpdateBug(bug.ID, BugInput{Title: "bug", RelatedCase: "TC02", Steps: []string{"1"}, Severity: "high"})
	require.NoError(t, err)
	require.True(t, bug.CreatedAt.Equal(updated.CreatedAt))
	require.Equal(t, model.SeverityHigh, updated.Severity)

	tc, err = s.Case("TC02")
	require.NoError(t, err)
	require.Equal(t, model.StatusFailed, tc.Status)
	tc, err = s.Case("TC01")
	require.NoError(t, err)
	require.Equal(t, model.StatusPassed, tc.Status)
}

func TestBugWithUnknownCaseIsAccepted(t *testing.T) {
	s := newTestStore(t)
	bug, err := s.AddBug(BugInput{Title: "x", RelatedCase: "TC42", Steps: []string{"1"}})
	require.NoError(t, err)
	require.Equal(t, model.Ref("TC42"), bug.RelatedCase)
}

func TestDeletionDoesNotCascade(t *testing.T) {
	s := newTestStore(t)
	addScenarios(t, s, "checkout")
	_, err := s.AddCase(CaseInput{Title: "pay", ScenarioID: "TS01", Steps: []string{"pay"}})
	require.NoError(t, err)
	_, err = s.AddBug(BugInput{Title: "declined", RelatedCase: "TC01", Steps: []string{"pay"}})
	require.NoError(t, err)

	_, err = s.DeleteScenario("TS01")
	require.NoError(t, err)
	tc, err := s.Case("TC01")
	require.NoError(t, err)
	require.Equal(t, model.Ref("TS01"), tc.ScenarioID)

	_, err = s.DeleteCase("TC01")
	require.NoError(t, err)
	bug, err := s.Bug("BUG01")
	require.NoError(t, err)
	require.Equal(t, model.Ref("TC01"), bug.RelatedCase)
}

func TestCasesFilter(t *testing.T) {
	s := newTestStore(t)
	for _, in := range []CaseInput{
		{Title: "a", Steps: []string{"1"}, Status: "PASSED"},
		{Title: "b", Steps: []string{"1"}, Status: "FAILED"},
		{Title: "c", Steps: []string{"1"}, Status: "PASSED"},
		{Title: "d", Steps: []string{"1"}},
		{Title: "e", Steps: []string{"1"}, Status: "PASSED"},
	} {
		_, err := s.AddCase(in)
		require.NoError(t, err)
	}

	titles := func(cases []model.TestCase) []string {
		out := []string{}
		for _, tc := range cases {
			out = append(out, tc.Title)
		}
		return out
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: "", want: []string{"a", "b", "c", "d", "e"}},
		{filter: "ALL", want: []string{"a", "b", "c", "d", "e"}},
		{filter: "PASSED", want: []string{"a", "c", "e"}},
		{filter: "failed", want: []string{"b"}},
		{filter: "NOT RUN", want: []string{"d"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got, err := s.Cases(tt.filter)
			require.NoError(t, err)
			require.Equal(t, tt.want, titles(got))
		})
	}

	_, err := s.Cases("SKIPPED")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	s := New(filepath.Join(blocker, DefaultDataFile), model.Empty())
	ts, err := s.AddScenario(ScenarioInput{Title: "kept"})
	require.Error(t, err)
	require.Equal(t, "TS01", ts.ID)
	require.Len(t, s.Scenarios(), 1)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddCase(CaseInput{Title: "a", Steps: []string{"1"}})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Cases[0].Steps[0] = "mutated"
	snap.Cases[0].Title = "mutated"

	tc, err := s.Case("TC01")
	require.NoError(t, err)
	require.Equal(t, "a", tc.Title)
	require.Equal(t, []string{"1"}, tc.Steps)
}

func TestReset(t *testing.T) {
	s := newTestStore(t)
	addScenarios(t, s, "one")
	_, err := os.Stat(s.Path())
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	require.Empty(t, s.Scenarios())
	_, err = os.Stat(s.Path())
	require.True(t, os.IsNotExist(err))

	// resetting twice is fine
	require.NoError(t, s.Reset())
}

type fakeAttacher struct {
	calls []string
	err   error
}

func (f *fakeAttacher) Attach(src string) (string, error) {
	f.calls = append(f.calls, src)
	if f.err != nil {
		return "", f.err
	}
	return "assets/" + filepath.Base(src), nil
}

func TestBugScreenshotAttach(t *testing.T) {
	att := &fakeAttacher{}
	s := newTestStore(t, WithAttacher(att))

	bug, err := s.AddBug(BugInput{Title: "x", Steps: []string{"1"}, Screenshot: "/home/me/shot.png"})
	require.NoError(t, err)
	require.Equal(t, model.Path("assets/shot.png"), bug.Screenshot)

	// unchanged screenshot is not attached again
	_, err = s.UpdateBug(bug.ID, BugInput{Title: "y", Steps: []string{"1"}, Screenshot: "assets/shot.png"})
	require.NoError(t, err)
	require.Equal(t, []string{"/home/me/shot.png"}, att.calls)

	att.err = errors.New("disk full")
	_, err = s.AddBug(BugInput{Title: "z", Steps: []string{"1"}, Screenshot: "/tmp/other.png"})
	require.Error(t, err)
	require.Len(t, s.Bugs(), 1)
}
