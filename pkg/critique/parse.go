package critique

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/panbanda/docaudit/pkg/models"
)

const schemaURL = "https://github.com/panbanda/docaudit/critique.schema.json"

// critiqueSchema requires exactly the four string fields of a critique.
const critiqueSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "function": {"type": "string"},
    "error":    {"type": "string"},
    "warning":  {"type": "string"},
    "solution": {"type": "string"}
  },
  "required": ["function", "error", "warning", "solution"],
  "additionalProperties": false
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(critiqueSchema))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

var (
	fenceStartRe = regexp.MustCompile("(?s)^```(?:json)?\\s*")
	fenceEndRe   = regexp.MustCompile("\\s*```$")
)

// Parse decodes a model payload into a Critique. Surrounding markdown code
// fences are tolerated; anything else that is not exactly the four-field
// JSON object yields a MalformedCritiqueError.
func Parse(payload string) (models.Critique, error) {
	text := strings.TrimSpace(payload)
	text = fenceStartRe.ReplaceAllString(text, "")
	text = fenceEndRe.ReplaceAllString(text, "")

	if text == "" {
		return models.Critique{}, &MalformedCritiqueError{Payload: payload, Reason: "empty payload", Err: ErrEmptyResponse}
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return models.Critique{}, &MalformedCritiqueError{Payload: payload, Reason: "invalid JSON", Err: err}
	}

	sch, err := compiledSchema()
	if err != nil {
		return models.Critique{}, err
	}
	if err := sch.Validate(inst); err != nil {
		return models.Critique{}, &MalformedCritiqueError{Payload: payload, Reason: "unexpected shape", Err: err}
	}

	var c models.Critique
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return models.Critique{}, &MalformedCritiqueError{Payload: payload, Reason: "invalid JSON", Err: err}
	}
	return c, nil
}
