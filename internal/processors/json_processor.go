package processors

import (
	"encoding/json"
	"fmt"
)

// JSONProcessor normalizes a sync request body into a list of raw records.
// The body is either {"records": [...]} or a single bare record object.
type JSONProcessor struct {
	Body []byte
}

func NewJSONProcessor(body []byte) *JSONProcessor {
	return &JSONProcessor{Body: body}
}

const envelopeHint = "Body must be { records: [...] } or a single { date, steps, heart_rate, sleep_hours }"

// Parse decodes the body and resolves the envelope. Record-level validation is
// left to the record validator; this only rejects bodies whose outer shape
// matches neither accepted form.
func (p *JSONProcessor) Parse() ([]any, error) {
	var body any
	if err := json.Unmarshal(p.Body, &body); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %s", envelopeHint)
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s", envelopeHint)
	}

	if records, ok := obj["records"].([]any); ok {
		return records, nil
	}

	if looksLikeRecord(obj) {
		return []any{body}, nil
	}

	return nil, fmt.Errorf("%s", envelopeHint)
}

// looksLikeRecord reports whether a bare object carries all four record fields
// with plausible types (numbers may arrive as numeric strings).
func looksLikeRecord(obj map[string]any) bool {
	if _, ok := obj["date"].(string); !ok {
		return false
	}
	for _, key := range []string{"steps", "heart_rate", "sleep_hours"} {
		switch obj[key].(type) {
		case float64, string, json.Number:
		default:
			return false
		}
	}
	return true
}
