package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/qadesk/qadesk/model"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Issue is a single finding with its location in the document.
type Issue struct {
	Phase    string `json:"phase"` // structural, schema, lint
	Path     string `json:"path"`  // JSON pointer without the leading slash, e.g. "test_cases/0/status"
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

func (i *Issue) Error() string {
	if i.Path == "" {
		return fmt.Sprintf("[%s] %s", i.Phase, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Phase, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []*Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateFile checks the data file at path.
// Phase 1: Structural (JSON decodes into the data model)
// Phase 2: Schema (JSON Schema validation of the raw document)
// Phase 3: Lint (duplicate ids, id format, dangling references)
func ValidateFile(path string) (model.Data, []*Issue) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.Data{}, []*Issue{structural(fmt.Sprintf("failed to read data file: %v", err))}
	}
	return Validate(b)
}

// Validate runs all phases on a JSON document. Lint only runs when the
// document decodes.
func Validate(b []byte) (model.Data, []*Issue) {
	var data model.Data
	if err := json.Unmarshal(b, &data); err != nil {
		return model.Data{}, []*Issue{structural(err.Error())}
	}
	data.Normalize()

	issues := validateSchema(b)
	issues = append(issues, Lint(data)...)
	return data, issues
}

func structural(msg string) *Issue {
	return &Issue{Phase: "structural", Message: msg, Severity: SeverityError}
}

func schemaIssue(path, msg string) *Issue {
	return &Issue{Phase: "schema", Path: path, Message: msg, Severity: SeverityError}
}

// validateSchema validates the raw document against the generated schema.
func validateSchema(b []byte) []*Issue {
	sch, err := compile()
	if err != nil {
		return []*Issue{schemaIssue("", err.Error())}
	}

	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return []*Issue{schemaIssue("", fmt.Sprintf("unmarshal document: %v", err))}
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []*Issue{schemaIssue("", err.Error())}
	}
	var issues []*Issue
	for _, cause := range flattenValidationErrors(ve) {
		issues = append(issues, schemaIssue(strings.Join(cause.InstanceLocation, "/"), fmt.Sprintf("%v", cause.ErrorKind)))
	}
	return issues
}

func compile() (*sjsonschema.Schema, error) {
	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return nil, fmt.Errorf("generate schema: %w", err)
	}
	schemaDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(ID, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(ID)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

var idPatterns = map[string]*regexp.Regexp{
	model.ScenarioPrefix: idPattern(model.ScenarioPrefix),
	model.CasePrefix:     idPattern(model.CasePrefix),
	model.BugPrefix:      idPattern(model.BugPrefix),
}

// idPattern accepts sequential ids like TS07 and uuid ids like TS-1A2B3C4D.
func idPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + prefix + `(\d{2,}|-[0-9A-F]{8})$`)
}

// Lint reports problems the schema cannot express. They are warnings: the
// store accepts all of them.
func Lint(data model.Data) []*Issue {
	var issues []*Issue
	warn := func(path, format string, args ...any) {
		issues = append(issues, &Issue{Phase: "lint", Path: path, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
	}

	checkIDs := func(key, prefix string, ids []string) map[string]bool {
		seen := map[string]int{}
		for i, id := range ids {
			path := fmt.Sprintf("%s/%d/id", key, i)
			if !idPatterns[prefix].MatchString(id) {
				warn(path, "id %q does not match %s", id, idPatterns[prefix])
			}
			norm := strings.ToUpper(strings.TrimSpace(id))
			if first, dup := seen[norm]; dup {
				warn(path, "duplicate id %q (first used at %s/%d)", id, key, first)
				continue
			}
			seen[norm] = i
		}
		set := make(map[string]bool, len(seen))
		for id := range seen {
			set[id] = true
		}
		return set
	}

	var tsIDs, tcIDs, bugIDs []string
	for _, ts := range data.Scenarios {
		tsIDs = append(tsIDs, ts.ID)
	}
	for _, tc := range data.Cases {
		tcIDs = append(tcIDs, tc.ID)
	}
	for _, bug := range data.Bugs {
		bugIDs = append(bugIDs, bug.ID)
	}
	scenarios := checkIDs("test_scenarios", model.ScenarioPrefix, tsIDs)
	cases := checkIDs("test_cases", model.CasePrefix, tcIDs)
	checkIDs("bug_reports", model.BugPrefix, bugIDs)

	for i, tc := range data.Cases {
		if tc.ScenarioID.IsSet() && !scenarios[strings.ToUpper(string(tc.ScenarioID))] {
			warn(fmt.Sprintf("test_cases/%d/ts_id", i), "test scenario %q does not exist", tc.ScenarioID)
		}
	}
	for i, bug := range data.Bugs {
		if bug.RelatedCase.IsSet() && !cases[strings.ToUpper(string(bug.RelatedCase))] {
			warn(fmt.Sprintf("bug_reports/%d/related_tc", i), "test case %q does not exist", bug.RelatedCase)
		}
	}
	return issues
}
