package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validDoc = `{
    "test_scenarios": [
        {"id": "TS01", "title": "Login", "description": ""}
    ],
    "test_cases": [
        {"id": "TC01", "title": "Valid login", "preconditions": "", "ts_id": "TS01",
         "steps": ["Open", "Submit"], "expected": "ok", "actual": "", "status": "NOT RUN"}
    ],
    "bug_reports": [
        {"id": "BUG01", "title": "Crash", "related_tc": "TC01", "steps": ["Submit"],
         "expected": "ok", "actual": "crash", "severity": "Critical", "note": "",
         "screenshot": null, "created_at": "2025-03-14 15:09:26"}
    ]
}`

func TestGenerateJSONSchema(t *testing.T) {
	b, err := GenerateJSONSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Equal(t, ID, doc["$id"])
	require.Contains(t, string(b), `"NOT RUN"`)
	require.Contains(t, string(b), `"Critical"`)
	require.Contains(t, string(b), `"test_scenarios"`)
}

func TestValidateValid(t *testing.T) {
	data, issues := Validate([]byte(validDoc))
	require.Empty(t, issues)
	require.Len(t, data.Cases, 1)
}

func TestValidateSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{
			name: "bad status",
			doc:  `{"test_scenarios": [], "bug_reports": [], "test_cases": [{"id": "TC01", "title": "x", "preconditions": "", "ts_id": null, "steps": ["a"], "expected": "", "actual": "", "status": "passed"}]}`,
			path: "test_cases/0/status",
		},
		{
			name: "empty title",
			doc:  `{"test_scenarios": [{"id": "TS01", "title": "", "description": ""}], "test_cases": [], "bug_reports": []}`,
			path: "test_scenarios/0/title",
		},
		{
			name: "no steps",
			doc:  `{"test_scenarios": [], "bug_reports": [], "test_cases": [{"id": "TC01", "title": "x", "preconditions": "", "ts_id": null, "steps": [], "expected": "", "actual": "", "status": "PASSED"}]}`,
			path: "test_cases/0/steps",
		},
		{
			name: "bad severity",
			doc:  `{"test_scenarios": [], "test_cases": [], "bug_reports": [{"id": "BUG01", "title": "x", "related_tc": null, "steps": ["a"], "expected": "", "actual": "", "severity": "Blocker", "note": "", "screenshot": null, "created_at": "2025-03-14 15:09:26"}]}`,
			path: "bug_reports/0/severity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := Validate([]byte(tt.doc))
			require.True(t, HasErrors(issues))

			var paths []string
			for _, i := range issues {
				if i.Phase == "schema" {
					paths = append(paths, i.Path)
				}
			}
			require.Contains(t, paths, tt.path)
		})
	}
}

func TestValidateStructural(t *testing.T) {
	_, issues := Validate([]byte(`{"test_cases": [`))
	require.Len(t, issues, 1)
	require.Equal(t, "structural", issues[0].Phase)
	require.True(t, HasErrors(issues))

	_, issues = ValidateFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Error(), "failed to read data file")
}

func TestLint(t *testing.T) {
	doc := `{
    "test_scenarios": [
        {"id": "TS01", "title": "a", "description": ""},
        {"id": "TS01", "title": "b", "description": ""},
        {"id": "scenario", "title": "c", "description": ""}
    ],
    "test_cases": [
        {"id": "TC01", "title": "x", "preconditions": "", "ts_id": "TS09",
         "steps": ["a"], "expected": "", "actual": "", "status": "PASSED"},
        {"id": "TC-1A2B3C4D", "title": "y", "preconditions": "", "ts_id": "ts01",
         "steps": ["a"], "expected": "", "actual": "", "status": "PASSED"}
    ],
    "bug_reports": [
        {"id": "BUG01", "title": "z", "related_tc": "TC07", "steps": ["a"],
         "expected": "", "actual": "", "severity": "Low", "note": "",
         "screenshot": null, "created_at": null}
    ]
}`
	_, issues := Validate([]byte(doc))
	require.False(t, HasErrors(issues))

	got := map[string]string{}
	for _, i := range issues {
		require.Equal(t, "lint", i.Phase)
		require.Equal(t, SeverityWarning, i.Severity)
		got[i.Path] = i.Message
	}
	require.Len(t, got, 4)
	require.Contains(t, got["test_scenarios/1/id"], "duplicate id")
	require.Contains(t, got["test_scenarios/2/id"], "does not match")
	require.Contains(t, got["test_cases/0/ts_id"], `"TS09" does not exist`)
	require.Contains(t, got["bug_reports/0/related_tc"], `"TC07" does not exist`)
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0644))

	data, issues := ValidateFile(path)
	require.Empty(t, issues)
	require.Equal(t, "BUG01", data.Bugs[0].ID)
}
