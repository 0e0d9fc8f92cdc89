package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// metadataSchemaJSON constrains model output for metadata generation.
// Validation happens locally since chat models occasionally drop fields or
// return tag counts outside the requested range.
const metadataSchemaJSON = `{
  "type": "object",
  "required": ["titles", "description", "tags"],
  "properties": {
    "titles": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "minItems": 3,
      "maxItems": 3
    },
    "description": {"type": "string", "minLength": 1},
    "tags": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "minItems": 10,
      "maxItems": 15
    }
  },
  "additionalProperties": false
}`

var metadataSchema = jsonschema.MustCompileString("metadata.json", metadataSchemaJSON)

// parseMetadata extracts and validates the metadata JSON from a model reply.
func parseMetadata(content string) (*MetadataResult, error) {
	raw := extractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in metadata response")
	}

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse metadata response: %w", err)
	}

	if err := metadataSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("metadata response failed schema validation: %w", err)
	}

	var result MetadataResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to decode metadata response: %w", err)
	}
	return &result, nil
}

// extractJSONObject pulls the first top-level JSON object out of a reply.
// Models sometimes wrap JSON in markdown fences or add surrounding prose.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
