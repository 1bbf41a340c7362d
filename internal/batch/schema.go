package batch

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema is the contract external responders must satisfy: content is
// required, everything else optional. The same schema text is published into
// each batch directory so responders can see what is expected of them.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "GenerationResponse",
  "type": "object",
  "required": ["content"],
  "properties": {
    "request_id": {"type": "string"},
    "content": {"type": "string"},
    "tokens_used": {"type": "integer", "minimum": 0},
    "error": {"type": "string"},
    "received_at": {"type": "string"}
  },
  "additionalProperties": true
}`

// ResponseSchema returns the JSON Schema text for response artifacts.
func ResponseSchema() string { return responseSchema }

// SchemaError reports a malformed response artifact. It marks the specific
// request failed; it never aborts the batch.
type SchemaError struct {
	RequestID string
	Cause     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed response artifact for %s: %v", e.RequestID, e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// ValidateResponseArtifact checks raw artifact bytes against the response
// schema, reporting every violated field.
func ValidateResponseArtifact(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(responseSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("artifact is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("schema violations:")
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		sb.WriteString(fmt.Sprintf(" %s: %s;", field, desc.Description()))
	}
	return fmt.Errorf("%s", strings.TrimSuffix(sb.String(), ";"))
}
