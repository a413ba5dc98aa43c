package saveload

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed header.schema.json
var headerSchemaJSON string

var headerSchema = jsonschema.MustCompileString("header.schema.json", headerSchemaJSON)

// validateHeader checks a raw header line against the header schema.
func validateHeader(line []byte) error {
	var v any
	if err := json.Unmarshal(line, &v); err != nil {
		return fmt.Errorf("parse header: %w", err)
	}
	if err := headerSchema.Validate(v); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	return nil
}
