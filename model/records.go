package model

// ID prefixes for the three record kinds.
const (
	ScenarioPrefix = "TS"
	CasePrefix     = "TC"
	BugPrefix      = "BUG"
)

// Data is the whole persisted document. It is loaded from and written back
// to a single JSON file.
type Data struct {
	Scenarios []TestScenario `json:"test_scenarios"`
	Cases     []TestCase     `json:"test_cases"`
	Bugs      []BugReport    `json:"bug_reports"`
	// Per-prefix counters, only present when the counter id scheme is used
	Sequences map[string]int `json:"sequences,omitempty"`
}

// TestScenario is a high-level testing goal that groups test cases.
type TestScenario struct {
	ID          string `json:"id"`
	Title       string `json:"title" jsonschema:"minLength=1"`
	Description string `json:"description"`
}

// TestCase is a concrete reproducible test with steps and an outcome.
type TestCase struct {
	ID            string `json:"id"`
	Title         string `json:"title" jsonschema:"minLength=1"`
	Preconditions string `json:"preconditions"`
	// Scenario this case belongs to (soft reference)
	ScenarioID Ref      `json:"ts_id"`
	Steps      []string `json:"steps" jsonschema:"minItems=1"`
	Expected   string   `json:"expected"`
	Actual     string   `json:"actual"`
	Status     Status   `json:"status"`
}

// BugReport is a defect record, optionally linked to the test case that
// exposed it.
type BugReport struct {
	ID    string `json:"id"`
	Title string `json:"title" jsonschema:"minLength=1"`
	// Test case that exposed the bug (soft reference)
	RelatedCase Ref      `json:"related_tc"`
	Steps       []string `json:"steps" jsonschema:"minItems=1"`
	Expected    string   `json:"expected"`
	Actual      string   `json:"actual"`
	Severity    Severity `json:"severity"`
	Note        string   `json:"note"`
	// Screenshot location; the file itself is not owned by the store
	Screenshot Path      `json:"screenshot"`
	CreatedAt  Timestamp `json:"created_at"`
}

// Empty returns a document with three empty, non-nil collections.
func Empty() Data {
	return Data{
		Scenarios: []TestScenario{},
		Cases:     []TestCase{},
		Bugs:      []BugReport{},
	}
}

// Normalize replaces nil collections with empty ones so the document always
// encodes as lists.
func (d *Data) Normalize() {
	if d.Scenarios == nil {
		d.Scenarios = []TestScenario{}
	}
	if d.Cases == nil {
		d.Cases = []TestCase{}
	}
	if d.Bugs == nil {
		d.Bugs = []BugReport{}
	}
}

// Clone returns a deep copy of the document.
func (d Data) Clone() Data {
	out := Data{
		Scenarios: append([]TestScenario{}, d.Scenarios...),
		Cases:     make([]TestCase, len(d.Cases)),
		Bugs:      make([]BugReport, len(d.Bugs)),
	}
	for i, tc := range d.Cases {
		tc.Steps = append([]string(nil), tc.Steps...)
		out.Cases[i] = tc
	}
	for i, bug := range d.Bugs {
		bug.Steps = append([]string(nil), bug.Steps...)
		out.Bugs[i] = bug
	}
	if d.Sequences != nil {
		out.Sequences = make(map[string]int, len(d.Sequences))
		for k, v := range d.Sequences {
			out.Sequences[k] = v
		}
	}
	return out
}
