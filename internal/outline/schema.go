package outline

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// outlineSchema constrains the model's outline response before any field is
// trusted. Section keywords are optional; the topic keywords are inherited
// when a section carries none of its own.
const outlineSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "thesis", "sections"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "thesis": {"type": "string", "minLength": 1},
    "sections": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "description"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string", "minLength": 1},
          "keywords": {
            "type": "array",
            "items": {"type": "string"}
          }
        }
      }
    }
  }
}`

// validateOutlineJSON checks a raw model response against the outline schema.
func validateOutlineJSON(raw string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(outlineSchema),
		gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate outline response: %w", err)
	}
	if !result.Valid() {
		issues := ""
		for i, desc := range result.Errors() {
			if i > 0 {
				issues += "; "
			}
			issues += desc.String()
		}
		return fmt.Errorf("outline response failed schema validation: %s", issues)
	}
	return nil
}
