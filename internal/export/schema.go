package export

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the report schema.
const SchemaID = "https://github.com/klauern/skilllint/report.schema.json"

// Schema returns the JSON Schema of the JSON report.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := reflector.Reflect(Report{})
	s.ID = jsonschema.ID(SchemaID)
	s.Title = "skilllint marketplace report"
	return s
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
