package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/qadesk/qadesk/model"
)

// ID is the $id of the data file schema.
const ID = "https://github.com/qadesk/qadesk/schemas/data-v1.json"

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document for the
// data file from model.Data.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&model.Data{})
	s.ID = ID
	s.Title = "qadesk data file v1"
	s.Description = "Test scenarios, test cases and bug reports kept by qadesk (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
