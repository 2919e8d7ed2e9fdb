package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	callQuestion  = "question"
	callQuestions = "questions"
	callGrade     = "grade"
)

const qaProperties = `"question": {"type": "string", "minLength": 1},
		"answer": {"type": "string", "minLength": 1}`

const singleQuestionSchema = `{
	"type": "object",
	"required": ["question", "answer"],
	"properties": {
		` + qaProperties + `
	}
}`

const gradeSchema = `{
	"type": "object",
	"required": ["passed", "feedback"],
	"properties": {
		"passed": {"type": "boolean"},
		"feedback": {"type": "string"}
	}
}`

func questionsSchema(n int) string {
	return fmt.Sprintf(`{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"minItems": %d,
			"maxItems": %d,
			"items": {
				"type": "object",
				"required": ["question", "answer"],
				"properties": {
					%s
				}
			}
		}
	}
}`, n, n, qaProperties)
}

// validate checks data against schema and converts any failure into a
// FormatError for callSite.
func validate(callSite string, schema string, data []byte) error {
	compiled, err := jsonschema.CompileString(callSite+".schema.json", schema)
	if err != nil {
		return fmt.Errorf("failed to compile %s schema: %w", callSite, err)
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return &FormatError{CallSite: callSite, Raw: string(data), Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := compiled.Validate(v); err != nil {
		return &FormatError{CallSite: callSite, Raw: string(data), Err: err}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
